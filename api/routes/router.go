package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pigeonhq/pigeon-backend/api/controllers"
	cartcontrollers "github.com/pigeonhq/pigeon-backend/api/controllers/cart"
	"github.com/pigeonhq/pigeon-backend/api/middleware"
	cartsvc "github.com/pigeonhq/pigeon-backend/internal/cart"
	"github.com/pigeonhq/pigeon-backend/internal/cartstore"
	product "github.com/pigeonhq/pigeon-backend/internal/products"
	"github.com/pigeonhq/pigeon-backend/internal/quote"
	"github.com/pigeonhq/pigeon-backend/pkg/config"
	"github.com/pigeonhq/pigeon-backend/pkg/db"
	"github.com/pigeonhq/pigeon-backend/pkg/logger"
	redispkg "github.com/pigeonhq/pigeon-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redispkg.Pinger,
	registry *prometheus.Registry,
	productService product.Service,
	quoteEngine quote.Engine,
	snapshotStore cartstore.Store,
	userCartService cartsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productService, logg))
			r.Get("/recommended", controllers.ProductRecommended(productService, logg))
			r.Get("/{productId}", controllers.ProductDetail(productService, logg))
		})

		r.Route("/carts/{cartId}", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(snapshotStore, logg))
			r.Post("/quote", cartcontrollers.Quote(quoteEngine, snapshotStore, logg))
			r.Post("/items", cartcontrollers.AddItem(quoteEngine, snapshotStore, logg))
			r.Patch("/items/{itemId}", cartcontrollers.UpdateItem(quoteEngine, snapshotStore, logg))
			r.Delete("/items/{itemId}", cartcontrollers.RemoveItem(quoteEngine, snapshotStore, logg))
		})

		r.Get("/users/{userId}/cart", cartcontrollers.UserCartFetch(userCartService, logg))
		r.Route("/user-carts/{cartId}", func(r chi.Router) {
			r.Post("/items", cartcontrollers.UserCartAddItem(userCartService, logg))
			r.Patch("/items/{itemId}", cartcontrollers.UserCartUpdateItem(userCartService, logg))
			r.Delete("/items/{itemId}", cartcontrollers.UserCartRemoveItem(userCartService, logg))
			r.Delete("/items", cartcontrollers.UserCartRemoveItems(userCartService, logg))
		})
	})

	return r
}
