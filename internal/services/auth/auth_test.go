package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sunsetfitness/gym-desk/internal/lib/jwt"
	"github.com/sunsetfitness/gym-desk/internal/lib/password"
	"github.com/sunsetfitness/gym-desk/internal/models"
	"github.com/sunsetfitness/gym-desk/internal/storage/repository"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestAuthService(users *UsersMock) *AuthService {
	return NewAuthService(users, jwt.NewJWTMaker("test-secret", time.Hour))
}

func TestAuthService_RegisterHashesPassword(t *testing.T) {
	users := new(UsersMock)
	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "ana" &&
			u.Role == models.RoleReception &&
			u.PasswordHash != "secret123" &&
			password.CompareHash(u.PasswordHash, "secret123") == nil
	})).Return("uid-1", nil).Once()

	svc := newTestAuthService(users)
	uid, err := svc.Register(context.Background(), "ana", "secret123", models.RoleReception)

	assert.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	users.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	assert.NoError(t, err)

	tests := []struct {
		name       string
		username   string
		rawPass    string
		setupMocks func(u *UsersMock)
		wantErr    error
	}{
		{
			name:     "valid credentials return token and role",
			username: "ana",
			rawPass:  "secret123",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "ana").
					Return(&models.User{Username: "ana", PasswordHash: hash, Role: models.RoleAdmin}, nil).Once()
			},
		},
		{
			name:     "unknown user maps to invalid credentials",
			username: "ghost",
			rawPass:  "secret123",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "ghost").
					Return(nil, repository.ErrUserNotFound).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "wrong password maps to invalid credentials",
			username: "ana",
			rawPass:  "wrongpass",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "ana").
					Return(&models.User{Username: "ana", PasswordHash: hash, Role: models.RoleAdmin}, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			tt.setupMocks(users)

			svc := newTestAuthService(users)
			token, role, err := svc.Login(context.Background(), tt.username, tt.rawPass)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, models.RoleAdmin, role)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	users := new(UsersMock)
	svc := newTestAuthService(users)

	hash, err := password.GetHash("secret123")
	assert.NoError(t, err)
	users.On("GetUserByUsername", mock.Anything, "ana").
		Return(&models.User{Username: "ana", PasswordHash: hash, Role: models.RoleAdmin}, nil).Once()

	token, _, err := svc.Login(context.Background(), "ana", "secret123")
	assert.NoError(t, err)

	user, err := svc.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, "ana", user.Username)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = svc.ValidateToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}
