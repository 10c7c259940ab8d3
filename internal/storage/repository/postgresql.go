// Package repository реализует хранилище данных на основе PostgreSQL
// для картотеки клиентов, журнала доступа и учётных записей сотрудников.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища. Нарушение уникальности и отсутствие записи —
// ожидаемые исходы, сервисы отличают их от недоступности базы.
var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrCredentialExists = errors.New("credential already registered")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("username already registered")
)

const uniqueViolationCode = "23505"

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
