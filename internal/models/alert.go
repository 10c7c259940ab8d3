package models

import "time"

// Виды платёжных алертов.
const (
	AlertUpcoming = "upcoming"
	AlertOverdue  = "overdue"
)

// Alert — сообщение о приближающемся или просроченном платеже,
// публикуемое планировщиком в очередь алертов.
type Alert struct {
	Kind       string    `json:"kind"`
	MemberUID  string    `json:"member_uid"`
	MemberName string    `json:"member_name"`
	DueDate    time.Time `json:"due_date"`
	DaysLate   int       `json:"days_late,omitempty"`
	DaysLeft   int       `json:"days_left,omitempty"`
}
