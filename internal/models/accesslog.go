package models

import "time"

// AccessLogEntry — строка журнала доступа. Журнал только пополняется,
// записи неизменяемы; при выводе сортируются от самых свежих.
type AccessLogEntry struct {
	ID         int64     `json:"id"`
	Credential string    `json:"credential"`           // Предъявленный код пропуска
	MemberUID  string    `json:"member_uid,omitempty"` // Пусто, если пропуск не распознан
	Decision   string    `json:"decision"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

// DummyCheckin используется для приёма запроса на проход через турникет.
type DummyCheckin struct {
	Credential string `json:"credential" validate:"required"`
}
