// Package register реализует HTTP-обработчик для регистрации новых сотрудников.
//
// Доступен только администраторам: маршрут закрыт проверкой роли на уровне
// роутера. Handler декодирует JSON, валидирует поля и передает регистрацию
// сервису аутентификации.
package register

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
	"github.com/sunsetfitness/gym-desk/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы на регистрацию сотрудников.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики аутентификации
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, username, password, role string) (string, error)
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
// @Summary Зарегистрировать сотрудника
// @Description Создает учетную запись сотрудника с ролью admin или reception. Только для администраторов.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyRegisterUser true "Данные нового сотрудника"
// @Success 200 {object} map[string]any "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 409 {object} response.ErrorResponse "Имя пользователя занято"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /register [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRegisterUser
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

	uid, err := h.service.Register(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			log.Warn("username already taken", slog.String("username", req.Username))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("username already taken"))
			return
		}
		log.Error("failed to register user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register user"))
		return
	}

	log.Info("user registered", slog.String("username", req.Username), slog.String("role", req.Role))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid":      uid,
		"username": req.Username,
		"role":     req.Role,
	}))
}
