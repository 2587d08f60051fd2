package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/medimate-api/internal/application/alert"
	"github.com/medimate-api/internal/application/doselog"
	"github.com/medimate-api/internal/application/medication"
	"github.com/medimate-api/internal/application/notification"
	"github.com/medimate-api/internal/application/push"
	"github.com/medimate-api/internal/config"
	"github.com/medimate-api/internal/transport/http/handler"
	appmiddleware "github.com/medimate-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to push registration endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	alertSvc := alert.NewService(deps.MedicationRepo, deps.PreferenceRepo, deps.PushTokenRepo, deps.NotificationRepo, deps.Publisher)
	doseLogSvc := doselog.NewService(deps.MedicationRepo, deps.DoseLogRepo, deps.Ledger, alertSvc)
	medicationSvc := medication.NewService(deps.MedicationRepo)
	pushSvc := push.NewService(deps.PushTokenRepo, deps.PreferenceRepo, deps.Registrar)
	notifSvc := notification.NewService(deps.NotificationRepo)

	healthH := handler.NewHealthHandler()
	medicationH := handler.NewMedicationHandler(medicationSvc)
	doseLogH := handler.NewDoseLogHandler(doseLogSvc)
	pushH := handler.NewPushHandler(pushSvc)
	notifH := handler.NewNotificationHandler(notifSvc)

	r.Route("/v1", func(r chi.Router) {
		// Public routes (no auth)
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/medications", medicationH.List)
			r.Post("/medications", medicationH.Create)
			r.Get("/medications/{id}", medicationH.Get)
			r.Put("/medications/{id}", medicationH.Update)
			r.Delete("/medications/{id}", medicationH.Delete)

			r.Get("/dose-logs", doseLogH.ListDay)
			r.Post("/dose-logs", doseLogH.Log)
			r.Delete("/dose-logs", doseLogH.Unlog)

			r.With(sensitiveRL.Limit).Post("/push/status", pushH.CheckStatus)
			r.With(sensitiveRL.Limit).Post("/push/register", pushH.Register)
			r.Get("/preferences", pushH.GetPreferences)
			r.Put("/preferences", pushH.UpdatePreferences)

			r.Get("/notifications", notifH.ListUnread)
			r.Put("/notifications/{id}", notifH.MarkAsRead)
		})
	})

	return r
}
