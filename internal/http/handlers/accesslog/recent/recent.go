// Package recent реализует HTTP-обработчик выдачи последних записей
// журнала доступа, самые свежие первыми.
package recent

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/sunsetfitness/gym-desk/internal/http/response"
	"github.com/sunsetfitness/gym-desk/internal/lib/sl"
	"github.com/sunsetfitness/gym-desk/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения журнала доступа.
type Service interface {
	RecentLog(ctx context.Context, n int) ([]*models.AccessLogEntry, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.accesslog.recent"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	res, err := h.service.RecentLog(r.Context(), limit)
	if err != nil {
		log.Error("failed to read access log", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read access log"))
		return
	}

	log.Info("access log read", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"entries":    res,
	}))
}
