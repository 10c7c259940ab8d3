// Package create реализует HTTP-обработчик для регистрации новых клиентов зала.
//
// Handler принимает JSON-запрос с именем и днём платежа, валидирует его,
// вызывает бизнес-логику регистрации и возвращает созданную карточку клиента
// вместе с кодом пропуска и первой датой платежа.
package create

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
	"github.com/sunsetfitness/gym-desk/internal/lib/calendar"
	"github.com/sunsetfitness/gym-desk/internal/lib/sl"
	"github.com/sunsetfitness/gym-desk/internal/models"
)

// Handler управляет HTTP-запросами на регистрацию клиентов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики клиентов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики регистрации клиента.
type Service interface {
	Register(ctx context.Context, req models.DummyMember) (*models.Member, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Зарегистрировать клиента
// @Description Создает карточку клиента. День платежа принимается числом или свободным текстом, дата первого платежа вычисляется автоматически.
// @Tags Members
// @Accept  json
// @Produce  json
// @Param request body models.DummyMember true "Данные нового клиента"
// @Success 200 {object} map[string]any "Созданная карточка клиента"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или день платежа"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании клиента"
// @Router /members [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyMember
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	member, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidBillingDay) {
			log.Warn("invalid billing day", slog.String("raw", req.BillingDay))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid billing day"))
			return
		}
		log.Error("failed to create member", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create member"))
		return
	}

	log.Info("member created", slog.String("uid", member.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"member": member,
	}))
}
