package models

import "time"

// Роли сотрудников. Регистрация новых сотрудников доступна только админу.
const (
	RoleAdmin     = "admin"
	RoleReception = "reception"
)

// User представляет сотрудника стойки (оператора системы).
type User struct {
	UID          string    // Уникальный идентификатор
	Username     string    // Логин (уникальный)
	PasswordHash string    // bcrypt-хэш пароля
	Role         string    // admin или reception
	CreatedAt    time.Time // Дата создания учётной записи
}

// DummyRegisterUser используется для приёма данных регистрации сотрудника.
type DummyRegisterUser struct {
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin reception"`
}

// DummyLoginUser используется для приёма данных входа.
type DummyLoginUser struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
