// Package remove реализует HTTP-обработчик удаления карточки клиента.
// Маршрут закрыт ролью admin на уровне роутера.
package remove

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
	"github.com/sunsetfitness/gym-desk/internal/storage/repository"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики удаления клиента.
type Service interface {
	Remove(ctx context.Context, uid string) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.remove"

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

	removed, err := h.service.Remove(r.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			log.Warn("member not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("member not found"))
			return
		}
		log.Error("failed to remove member", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove member"))
		return
	}

	log.Info("member removed", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed_count": removed,
	}))
}
