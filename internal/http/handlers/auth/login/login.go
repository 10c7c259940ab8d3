// Package login реализует HTTP-обработчик для запросов аутентификации сотрудников.
//
// В нём выполняется декодирование JSON, проверка и валидация полей,
// а также делегирование операции входа (login) сервису аутентификации.
// При успешной аутентификации возвращается JSON с JWT-токеном и ролью;
// в случае ошибок формируются соответствующие HTTP-ответы.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/sunsetfitness/gym-desk/internal/http/response"
	"github.com/sunsetfitness/gym-desk/internal/lib/sl"
	"github.com/sunsetfitness/gym-desk/internal/models"
	auth "github.com/sunsetfitness/gym-desk/internal/services/auth"
)

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики аутентификации
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, username, password string) (token, role string, err error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Авторизация сотрудника
// @Description Аутентифицирует сотрудника по имени и паролю. Возвращает JWT-токен и роль.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyLoginUser true "Учетные данные сотрудника"
// @Success 200 {object} map[string]any "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLoginUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	token, role, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Warn("login rejected", slog.String("username", req.Username))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
			return
		}
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not login"))
		return
	}

	log.Info("login success", slog.String("username", req.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token":    token,
		"role":     role,
		"username": req.Username,
	}))
}
