// Package gymdesk предоставляет маршруты для основного приложения.
package gymdesk

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sunsetfitness/gym-desk/internal/http/handlers/accesslog/recent"
	"github.com/sunsetfitness/gym-desk/internal/http/handlers/auth/login"
	"github.com/sunsetfitness/gym-desk/internal/http/handlers/auth/register"
	checkinhandler "github.com/sunsetfitness/gym-desk/internal/http/handlers/checkin"
	"github.com/sunsetfitness/gym-desk/internal/http/handlers/health"
	"github.com/sunsetfitness/gym-desk/internal/http/handlers/member/create"
	"github.com/sunsetfitness/gym-desk/internal/http/handlers/member/list"
	"github.com/sunsetfitness/gym-desk/internal/http/handlers/member/read"
	"github.com/sunsetfitness/gym-desk/internal/http/handlers/member/remove"
	"github.com/sunsetfitness/gym-desk/internal/http/handlers/member/search"
	"github.com/sunsetfitness/gym-desk/internal/http/handlers/member/summary"
	"github.com/sunsetfitness/gym-desk/internal/http/handlers/member/update"
	"github.com/sunsetfitness/gym-desk/internal/http/handlers/payment/pay"
	"github.com/sunsetfitness/gym-desk/internal/http/middlewarectx"
	"github.com/sunsetfitness/gym-desk/internal/models"
	authservice "github.com/sunsetfitness/gym-desk/internal/services/auth"
	checkinservice "github.com/sunsetfitness/gym-desk/internal/services/checkin"
	memberservice "github.com/sunsetfitness/gym-desk/internal/services/member"
	paymentservice "github.com/sunsetfitness/gym-desk/internal/services/payment"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	memberService *memberservice.MemberService,
	checkinService *checkinservice.CheckinService,
	paymentService *paymentservice.PaymentService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/members", create.New(logger, memberService).ServeHTTP)
			r.Get("/members/list", list.New(logger, memberService).ServeHTTP)
			r.Get("/members/search", search.New(logger, memberService).ServeHTTP)
			r.Get("/members/summary", summary.New(logger, memberService).ServeHTTP)
			r.Get("/members/{uid}", read.New(logger, memberService).ServeHTTP)
			r.Put("/members/{uid}", update.New(logger, memberService).ServeHTTP)
			r.Post("/members/{uid}/payment", pay.New(logger, paymentService).ServeHTTP)
			r.Post("/checkin", checkinhandler.New(logger, checkinService).ServeHTTP)
			r.Get("/accesslog/recent", recent.New(logger, checkinService).ServeHTTP)

			// Только для администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(models.RoleAdmin, logger))
				r.Post("/register", register.New(logger, authService).ServeHTTP)
				r.Delete("/members/{uid}", remove.New(logger, memberService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
}
