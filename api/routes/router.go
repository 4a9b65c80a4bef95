package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/api/controllers"
	webhookcontrollers "github.com/naeemAbdul-Aziz/discreetkit-backend/api/controllers/webhooks"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/api/middleware"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/assignment"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/orders"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/payments"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/config"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/db"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/paystack"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	ordersService orders.Service,
	assignmentService assignment.Service,
	paymentsService payments.Service,
	paystackClient *paystack.Client,
	webhookGuard *payments.ReplayGuard,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/paystack", webhookcontrollers.PaystackWebhook(paymentsService, paystackClient, webhookGuard, logg))
	})

	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Get("/verify/{code}", controllers.VerifyPayment(paymentsService, logg))
	})

	// Operator surface: shared-secret header instead of portal tokens.
	r.Route("/api/v1/jobs", func(r chi.Router) {
		r.Use(middleware.ReconcileSecret(cfg.Reconcile, logg))
		r.Post("/reconcile", controllers.RunReconcile(paymentsService, logg))
	})
	r.Route("/api/v1/admin/orders", func(r chi.Router) {
		r.Use(middleware.ReconcileSecret(cfg.Reconcile, logg))
		r.Post("/{id}/assign", controllers.AssignOrder(assignmentService, logg))
	})

	r.Route("/api/v1/pharmacy/orders", func(r chi.Router) {
		r.Use(middleware.PharmacyAuth(cfg.JWT, logg))
		r.Post("/{id}/accept", controllers.AcceptOrder(ordersService, logg))
		r.Post("/{id}/decline", controllers.DeclineOrder(ordersService, logg))
		r.Post("/{id}/dispatch", controllers.DispatchOrder(ordersService, logg))
		r.Post("/{id}/deliver", controllers.DeliverOrder(ordersService, logg))
	})

	return r
}
