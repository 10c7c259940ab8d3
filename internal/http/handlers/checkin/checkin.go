// Package checkin реализует HTTP-обработчик прохода через турникет.
//
// Handler принимает код пропуска, вызывает бизнес-логику допуска и возвращает
// решение с причиной. Решение "deny" — это не ошибка HTTP: запрос обработан
// успешно, отказ отражается в теле ответа.
package checkin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/sunsetfitness/gym-desk/internal/http/response"
	"github.com/sunsetfitness/gym-desk/internal/lib/sl"
	"github.com/sunsetfitness/gym-desk/internal/models"
	checkinsrv "github.com/sunsetfitness/gym-desk/internal/services/checkin"
)

// Handler управляет HTTP-запросами прохода через турникет.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики допуска
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики допуска.
type Service interface {
	Checkin(ctx context.Context, credential string) (*checkinsrv.Result, error)
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
// @Summary Проход через турникет
// @Description Принимает код пропуска и возвращает решение о допуске: allow, allow_with_warning или deny с причиной.
// @Tags Checkin
// @Accept  json
// @Produce  json
// @Param request body models.DummyCheckin true "Код пропуска"
// @Success 200 {object} map[string]any "Решение о допуске"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /checkin [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkin"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCheckin
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

	res, err := h.service.Checkin(r.Context(), req.Credential)
	if err != nil {
		log.Error("checkin failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process checkin"))
		return
	}

	data := map[string]any{
		"decision": res.Decision.Decision,
		"reason":   res.Decision.Reason,
	}
	if !res.Decision.DueDate.IsZero() {
		data["due_date"] = res.Decision.DueDate.Format(time.DateOnly)
	}
	if res.Decision.DaysLate > 0 {
		data["days_late"] = res.Decision.DaysLate
	}
	if res.Member != nil {
		data["member_uid"] = res.Member.UID
		data["member_name"] = res.Member.Name
		data["status"] = res.Status
	}

	log.Info("checkin decision",
		slog.String("decision", string(res.Decision.Decision)),
		slog.String("reason", res.Decision.Reason))
	render.JSON(w, r, response.StatusOKWithData(data))
}
