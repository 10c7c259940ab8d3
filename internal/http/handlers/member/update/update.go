// Package update реализует HTTP-обработчик для изменения карточки клиента.
//
// Смена дня платежа пересчитывает дату следующего платежа от нового якоря.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/sunsetfitness/gym-desk/internal/http/response"
	"github.com/sunsetfitness/gym-desk/internal/lib/calendar"
	"github.com/sunsetfitness/gym-desk/internal/lib/sl"
	"github.com/sunsetfitness/gym-desk/internal/models"
	"github.com/sunsetfitness/gym-desk/internal/storage/repository"
)

// Handler управляет HTTP-запросами на изменение карточки клиента.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления клиента.
type Service interface {
	Update(ctx context.Context, uid string, req models.DummyMember) (*models.Member, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP обрабатывает HTTP-запрос на изменение клиента по UID.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	if uid == "" {
		log.Error("uid is missing in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("uid is required"))
		return
	}

	var req models.DummyMember
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
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

	member, err := h.service.Update(r.Context(), uid, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMemberNotFound):
			log.Warn("member not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("member not found"))
		case errors.Is(err, calendar.ErrInvalidBillingDay):
			log.Warn("invalid billing day", slog.String("raw", req.BillingDay))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid billing day"))
		default:
			log.Error("failed to update member", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update member"))
		}
		return
	}

	log.Info("member updated", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"member": member,
	}))
}
