package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/svetline/svetline-backend/api/controllers"
	webhookcontrollers "github.com/svetline/svetline-backend/api/controllers/webhooks"
	"github.com/svetline/svetline-backend/api/middleware"
	authsvc "github.com/svetline/svetline-backend/internal/auth"
	cartsvc "github.com/svetline/svetline-backend/internal/cart"
	catalogsvc "github.com/svetline/svetline-backend/internal/catalog"
	checkoutsvc "github.com/svetline/svetline-backend/internal/checkout"
	contentsvc "github.com/svetline/svetline-backend/internal/content"
	paymentsvc "github.com/svetline/svetline-backend/internal/payments"
	webhooksvc "github.com/svetline/svetline-backend/internal/webhooks"
	"github.com/svetline/svetline-backend/pkg/config"
	"github.com/svetline/svetline-backend/pkg/logger"
	"github.com/svetline/svetline-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *redis.Client
	Registry *prometheus.Registry

	Auth     authsvc.Service
	Catalog  catalogsvc.Service
	Content  contentsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Webhooks webhooksvc.Service
	Payments *paymentsvc.Repository
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, d.Redis, logg))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	// Provider callbacks carry their own signatures, never a session.
	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/tbank", webhookcontrollers.TBankWebhook(d.Webhooks, logg))
		r.Post("/platron", webhookcontrollers.PlatronWebhook(d.Webhooks, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(d.Catalog, logg))
		r.Get("/products/{productId}", controllers.GetProduct(d.Catalog, logg))
		r.Get("/products/{productId}/compatible", controllers.ListCompatibleProducts(d.Catalog, logg))
		r.Get("/ready-sets", controllers.ListReadySets(d.Catalog, logg))
		r.Get("/ready-sets/{setId}", controllers.GetReadySet(d.Catalog, logg))
		r.Get("/content/{slot}", controllers.GetContentBlock(d.Content, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(d.Cart, logg))
				r.Post("/items", controllers.AddCartItem(d.Cart, logg))
				r.Patch("/items/{productId}", controllers.UpdateCartItem(d.Cart, logg))
				r.Delete("/items/{productId}", controllers.RemoveCartItem(d.Cart, logg))
				r.Delete("/", controllers.ClearCart(d.Cart, logg))
				r.Get("/suggestions", controllers.SuggestRoundSum(d.Cart, logg))
			})

			r.With(middleware.Idempotency(d.Redis, cfg.Checkout.IdempotencyTTL, logg)).
				Post("/checkout", controllers.Checkout(d.Checkout, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminLogin(d.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/products", controllers.AdminListProducts(d.Catalog, logg))
			r.Post("/products", controllers.AdminCreateProduct(d.Catalog, logg))
			r.Patch("/products/{productId}", controllers.AdminUpdateProduct(d.Catalog, logg))
			r.Delete("/products/{productId}", controllers.AdminDeleteProduct(d.Catalog, logg))

			r.Get("/ready-sets", controllers.AdminListReadySets(d.Catalog, logg))
			r.Post("/ready-sets", controllers.AdminCreateReadySet(d.Catalog, logg))
			r.Patch("/ready-sets/{setId}", controllers.AdminUpdateReadySet(d.Catalog, logg))
			r.Delete("/ready-sets/{setId}", controllers.AdminDeleteReadySet(d.Catalog, logg))

			r.Get("/content", controllers.AdminListContentBlocks(d.Content, logg))
			r.Put("/content/{slot}", controllers.AdminSaveContentBlock(d.Content, logg))

			r.Get("/payments", controllers.AdminListPayments(d.Payments, logg))
			r.Get("/payments/{paymentId}", controllers.AdminGetPayment(d.Payments, logg))
		})
	})

	return r
}
