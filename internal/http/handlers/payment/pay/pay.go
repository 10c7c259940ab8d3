// Package pay реализует HTTP-обработчик фиксации оплаты абонемента.
//
// Handler извлекает UID клиента из URL, вызывает бизнес-логику оплаты и
// возвращает прежнюю и новую даты платежа.
package pay

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
	paymentsrv "github.com/sunsetfitness/gym-desk/internal/services/payment"
	"github.com/sunsetfitness/gym-desk/internal/storage/repository"
)

// Handler управляет HTTP-запросами фиксации оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оплаты.
type Service interface {
	RecordPayment(ctx context.Context, uid string) (*paymentsrv.Result, error)
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
// @Summary Зафиксировать оплату
// @Description Фиксирует оплату клиента и продлевает платёжный цикл. Оплата в срок продлевает текущую дату на месяц, оплата после просрочки назначает следующую дату от сегодняшнего дня.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param uid path string true "UID клиента"
// @Success 200 {object} map[string]any "Прежняя и новая даты платежа"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при фиксации оплаты"
// @Router /members/{uid}/payment [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.pay"

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

	res, err := h.service.RecordPayment(r.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			log.Warn("member not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("member not found"))
			return
		}
		log.Error("failed to record payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not record payment"))
		return
	}

	log.Info("payment recorded", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment": res,
	}))
}
