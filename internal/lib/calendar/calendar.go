// Package calendar реализует календарную арифметику для месячных платёжных циклов.
//
// Все функции работают с датами без времени (полночь UTC) и корректно
// обрабатывают короткие месяцы: день всегда прижимается к последнему дню
// целевого месяца, а не перетекает в следующий (31 января + месяц — это
// 28/29 февраля, а не 3 марта).
package calendar

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidBillingDay возвращается, когда из произвольного ввода оператора
// не удалось извлечь корректный день платежа.
var ErrInvalidBillingDay = errors.New("invalid billing day")

// MaxFreeformDay ограничивает день платежа при разборе произвольного ввода:
// дни 29-31 существуют не в каждом месяце, поэтому свободная форма их не принимает.
const MaxFreeformDay = 28

var digitsRe = regexp.MustCompile(`\d+`)

// Date возвращает дату (полночь UTC) по году, месяцу и дню.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate отбрасывает время, оставляя только дату в UTC.
func Truncate(t time.Time) time.Time {
	return Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day())
}

// LastDayOfMonth возвращает последний день месяца (28-31) по григорианскому
// календарю, включая 29 февраля в високосные годы.
func LastDayOfMonth(year int, month time.Month) int {
	// нулевой день следующего месяца — это последний день текущего
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddOneMonth сдвигает дату ровно на один месяц вперёд.
// Декабрь переходит в январь следующего года, день прижимается
// к последнему дню целевого месяца.
func AddOneMonth(d time.Time) time.Time {
	year, month := d.Year(), d.Month()
	month++
	if month > time.December {
		month = time.January
		year++
	}
	day := d.Day()
	if last := LastDayOfMonth(year, month); day > last {
		day = last
	}
	return Date(year, month, day)
}

// NextOccurrenceOfDay возвращает ближайшую предстоящую дату с днём billingDay.
// Если день платежа в текущем месяце ещё не прошёл (включая сегодняшний день),
// результат остаётся в текущем месяце, иначе переносится на следующий.
// День прижимается к последнему дню целевого месяца.
func NextOccurrenceOfDay(billingDay int, today time.Time) time.Time {
	today = Truncate(today)
	year, month := today.Year(), today.Month()

	if today.Day() > billingDay {
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	day := billingDay
	if last := LastDayOfMonth(year, month); day > last {
		day = last
	}
	return Date(year, month, day)
}

// ParseBillingDay извлекает день платежа из произвольного ввода оператора.
// Берётся последнее число в строке; принимаются значения от 1 до MaxFreeformDay.
// Допустимы формы вроде "5", "dia 10", "5-10" (вернёт 10); всё остальное —
// ErrInvalidBillingDay.
func ParseBillingDay(text string) (int, error) {
	numbers := digitsRe.FindAllString(text, -1)
	if len(numbers) == 0 {
		return 0, ErrInvalidBillingDay
	}
	day, err := strconv.Atoi(numbers[len(numbers)-1])
	if err != nil {
		return 0, ErrInvalidBillingDay
	}
	if day < 1 || day > MaxFreeformDay {
		return 0, ErrInvalidBillingDay
	}
	return day, nil
}
