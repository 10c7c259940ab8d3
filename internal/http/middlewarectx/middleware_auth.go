// Package middlewarectx содержит HTTP middleware для обработки и проверки JWT токенов.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке Authorization
// и в случае успеха добавляет в контекст имя сотрудника и роль.
// RequireRole пускает дальше только сотрудников с нужной ролью.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/sunsetfitness/gym-desk/internal/http/response"
	"github.com/sunsetfitness/gym-desk/internal/lib/sl"
	"github.com/sunsetfitness/gym-desk/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для имени сотрудника в контексте.
	User Key = "username"
	// Role — ключ для роли сотрудника в контексте.
	Role Key = "role"
)

// Service описывает интерфейс сервиса для валидации JWT токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Если токен валиден, добавляет имя сотрудника и роль в контекст запроса,
// иначе возвращает 401 Unauthorized.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			authHeader := r.Header.Get("Authorization")

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), User, user.Username)
			ctx = context.WithValue(ctx, Role, user.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole возвращает middleware, пропускающий только сотрудников с ролью role.
// Ставится после JWTMiddleware.
func RequireRole(role string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRole"

			got, ok := r.Context().Value(Role).(string)
			if !ok || got != role {
				log.Error("forbidden", slog.String("op", op), slog.String("required_role", role))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
