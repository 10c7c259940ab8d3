package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sunsetfitness/gym-desk/internal/models"
)

// RegisterUser сохраняет нового сотрудника и возвращает его UID.
// Повтор логина отклоняется как ErrUserExists.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (username, password_hash, role)
			  VALUES ($1, $2, $3)
			  RETURNING uid`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Role).Scan(&newUID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает сотрудника по его логину.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, role, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&u.UID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
