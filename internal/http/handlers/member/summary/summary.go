// Package summary реализует HTTP-обработчик сводки по статусам оплаты
// для дашборда стойки администратора.
package summary

import (
	"context"
	"log/slog"
	"net/http"

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

// Service описывает интерфейс бизнес-логики сводки.
type Service interface {
	Summary(ctx context.Context) (models.MemberSummary, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.summary"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.Summary(r.Context())
	if err != nil {
		log.Error("failed to count summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not count summary"))
		return
	}

	log.Info("summary counted", "total", res.Total)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"summary": res,
	}))
}
