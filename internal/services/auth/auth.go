// Package services содержит логику аутентификации сотрудников стойки.
package services

import (
	"context"
	"errors"

	"github.com/sunsetfitness/gym-desk/internal/lib/jwt"
	"github.com/sunsetfitness/gym-desk/internal/lib/password"
	"github.com/sunsetfitness/gym-desk/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
// Отдельно от ошибок хранилища: оператору показывается одно и то же сообщение.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с учётными записями сотрудников.
type UserRepository interface {
	// RegisterUser сохраняет нового сотрудника и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает сотрудника по логину.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию сотрудников и выдачу JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового сотрудника с хэшированием пароля.
// Роль передаётся явно: регистрация доступна только админу.
func (s *AuthService) Register(ctx context.Context, username, rawPassword, role string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль сотрудника и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает данные сотрудника.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
