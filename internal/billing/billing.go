// Package billing реализует платёжный цикл абонемента: классификацию статуса
// оплаты относительно текущей даты, перенос просроченной даты на следующий
// цикл и продление даты при зафиксированной оплате.
//
// Пакет не хранит состояния и ничего не персистит: все функции — чистые
// вычисления над датами, новые значения сохраняет вызывающая сторона.
package billing

import (
	"time"

	"github.com/sunsetfitness/gym-desk/internal/lib/calendar"
)

// Status описывает статус оплаты абонемента на конкретную дату.
// Статус никогда не хранится — всегда вычисляется заново из (due_date, today).
type Status string

const (
	// StatusCurrent — оплата не требуется, до срока ещё далеко.
	StatusCurrent Status = "current"
	// StatusDueSoon — срок оплаты наступает в ближайшие дни (окно предупреждения).
	StatusDueSoon Status = "due_soon"
	// StatusDueToday — срок оплаты наступает сегодня.
	StatusDueToday Status = "due_today"
	// StatusOverdue — срок оплаты прошёл, оплата не зафиксирована.
	StatusOverdue Status = "overdue"
)

// Config задаёт вариантные границы классификации.
// Исторически поведение расходилось между рабочими местами: на стойке
// регистрации действовало трёхдневное окно предупреждения с отдельным
// статусом "vence hoje", на терминале — только "в срок"/"просрочено".
type Config struct {
	// WarningWindowDays — за сколько дней до срока включается StatusDueSoon.
	// Ноль отключает предупреждения полностью.
	WarningWindowDays int `yaml:"warning_window_days" env-default:"3"`
	// DueTodayDistinct — выделять ли день срока в отдельный StatusDueToday.
	// При false день срока попадает в StatusDueSoon (или StatusCurrent,
	// если окно предупреждения нулевое).
	DueTodayDistinct bool `yaml:"due_today_distinct" env-default:"true"`
	// MaxBillingDay — верхняя граница дня платежа при регистрации (28 или 31).
	MaxBillingDay int `yaml:"max_billing_day" env-default:"31"`
}

// DefaultConfig возвращает поведение стойки регистрации: окно предупреждения
// три дня, день срока выделен отдельно, день платежа до 31.
func DefaultConfig() Config {
	return Config{
		WarningWindowDays: 3,
		DueTodayDistinct:  true,
		MaxBillingDay:     31,
	}
}

// Result — итог классификации на конкретную дату.
type Result struct {
	Status  Status
	DueDate time.Time
	// DaysLate — на сколько дней просрочена оплата; ноль, если не просрочена.
	DaysLate int
	// DaysLeft — сколько дней осталось до срока; ноль, если срок сегодня или прошёл.
	DaysLeft int
}

// Classify определяет статус оплаты по дате следующего платежа и текущей дате.
// Функция тотальна: любая пара (dueDate, today) даёт ровно один статус.
func Classify(cfg Config, dueDate, today time.Time) Result {
	dueDate = calendar.Truncate(dueDate)
	today = calendar.Truncate(today)

	res := Result{DueDate: dueDate}

	delta := int(dueDate.Sub(today).Hours() / 24)
	switch {
	case delta < 0:
		res.Status = StatusOverdue
		res.DaysLate = -delta
	case delta == 0:
		if cfg.DueTodayDistinct {
			res.Status = StatusDueToday
		} else if cfg.WarningWindowDays > 0 {
			res.Status = StatusDueSoon
		} else {
			res.Status = StatusCurrent
		}
	case delta <= cfg.WarningWindowDays:
		res.Status = StatusDueSoon
		res.DaysLeft = delta
	default:
		res.Status = StatusCurrent
		res.DaysLeft = delta
	}
	return res
}

// RecordPayment вычисляет новую дату платежа после зафиксированной оплаты.
//
// Оплата в срок или заранее продлевает текущую дату ровно на месяц — якорный
// день сохраняется и клиент не теряет оплаченные дни. Оплата после просрочки
// пересинхронизирует цикл на ближайшее наступление якорного дня от
// сегодняшней даты, чтобы новая дата не оказалась в прошлом.
func RecordPayment(billingDay int, dueDate, today time.Time) time.Time {
	dueDate = calendar.Truncate(dueDate)
	today = calendar.Truncate(today)

	if !today.After(dueDate) {
		return calendar.AddOneMonth(dueDate)
	}
	return calendar.NextOccurrenceOfDay(billingDay, today)
}

// Rollover возвращает дату следующего цикла для протухшей даты платежа.
// Вызывается, когда Classify увидел просрочку: перенос не прощает долг,
// а лишь не даёт дате замереть в прошлом. Дни просрочки отчитываются по
// дате до переноса.
func Rollover(billingDay int, today time.Time) time.Time {
	return calendar.NextOccurrenceOfDay(billingDay, today)
}
