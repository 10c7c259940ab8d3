// Package read реализует HTTP-обработчик для получения карточки клиента по UID.
//
// Handler извлекает UID из URL-параметров, вызывает бизнес-логику чтения
// и возвращает карточку клиента в JSON-формате.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/sunsetfitness/gym-desk/internal/http/response"
	"github.com/sunsetfitness/gym-desk/internal/lib/sl"
	"github.com/sunsetfitness/gym-desk/internal/models"
	"github.com/sunsetfitness/gym-desk/internal/storage/repository"
)

// Handler обрабатывает запросы на получение клиента по уникальному идентификатору.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики клиентов
	validate *validator.Validate // Валидатор (в текущей реализации не используется)
}

// Service описывает интерфейс бизнес-логики чтения клиента.
type Service interface {
	Read(ctx context.Context, uid string) (*models.Member, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP обрабатывает HTTP-запрос на получение клиента по UID.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.read"

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

	member, err := h.service.Read(r.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			log.Warn("member not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("member not found"))
			return
		}
		log.Error("failed to read member", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read member"))
		return
	}

	log.Info("success to read member", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"member": member,
	}))
}
