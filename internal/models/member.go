// Package models содержит доменные структуры системы портарии: клиентов,
// сотрудников и записи журнала доступа, а также вспомогательные типы для
// приёма данных из JSON-запросов.
package models

import "time"

// Member представляет клиента зала.
// Дата платежа хранится как time.Time (только дата, UTC): в базе это колонка
// DATE, в JSON — стандартный RFC3339 с нулевым временем. Ответ проходной
// форматирует её отдельно как YYYY-MM-DD для табло оператора.
type Member struct {
	UID        string    `json:"uid"`         // Уникальный идентификатор клиента
	Name       string    `json:"name"`        // Полное имя
	BillingDay int       `json:"billing_day"` // Якорный день платежа (1-31)
	DueDate    time.Time `json:"due_date"`    // Ближайшая предстоящая дата платежа
	Credential string    `json:"credential"`  // Код пропуска (уникальный)
	CreatedAt  time.Time `json:"created_at"`
}

// DummyMember используется для приёма данных клиента из JSON-запроса.
// День платежа приходит строкой, чтобы принять и числовую, и свободную форму
// ("10", "dia 10", "5-10") и распарсить вручную.
type DummyMember struct {
	Name       string `json:"name" validate:"required"`        // Полное имя
	BillingDay string `json:"billing_day" validate:"required"` // День платежа, число или свободная форма
}

// MemberSummary — сводка по статусам оплаты для дашборда стойки.
type MemberSummary struct {
	Total   int `json:"total"`
	Current int `json:"current"`
	DueSoon int `json:"due_soon"`
	Overdue int `json:"overdue"`
}
