// Package access реализует политику допуска на проходной: по статусу оплаты
// абонемента принимается решение пропустить, пропустить с предупреждением
// или отказать. Решение живёт только в рамках одной попытки входа и
// персистится лишь строкой журнала.
package access

import (
	"time"

	"github.com/sunsetfitness/gym-desk/internal/billing"
)

// Decision — решение по попытке входа.
type Decision string

const (
	// Allow — вход разрешён.
	Allow Decision = "allow"
	// AllowWithWarning — вход разрешён, оператору показывается предупреждение.
	AllowWithWarning Decision = "allow_with_warning"
	// Deny — вход запрещён.
	Deny Decision = "deny"
)

// Коды причин, попадающие в журнал доступа.
const (
	ReasonUnknownCredential = "credential not recognized"
	ReasonOverdue           = "payment overdue"
	ReasonDueToday          = "dues payable today"
	ReasonGoodStanding      = "payment in good standing"
)

// Result — решение с причиной для журнала и датой платежа для отображения.
type Result struct {
	Decision Decision
	Reason   string
	// DueDate показывается оператору при отказе из-за просрочки.
	DueDate time.Time
	// DaysLate — дни просрочки на момент решения, до переноса даты.
	DaysLate int
}

// Decide отображает статус оплаты в решение о допуске.
// Побочных эффектов нет: запись в журнал — обязанность вызывающей стороны.
func Decide(status billing.Result) Result {
	switch status.Status {
	case billing.StatusOverdue:
		return Result{
			Decision: Deny,
			Reason:   ReasonOverdue,
			DueDate:  status.DueDate,
			DaysLate: status.DaysLate,
		}
	case billing.StatusDueToday:
		return Result{
			Decision: AllowWithWarning,
			Reason:   ReasonDueToday,
			DueDate:  status.DueDate,
		}
	default:
		return Result{
			Decision: Allow,
			Reason:   ReasonGoodStanding,
			DueDate:  status.DueDate,
		}
	}
}

// DecideUnknown — решение для нераспознанного пропуска или недоступного
// хранилища: отказ без раскрытия деталей.
func DecideUnknown() Result {
	return Result{
		Decision: Deny,
		Reason:   ReasonUnknownCredential,
	}
}
