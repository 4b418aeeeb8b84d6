package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dealboard/dealboard-backend/api/controllers"
	"github.com/dealboard/dealboard-backend/api/middleware"
	"github.com/dealboard/dealboard-backend/internal/articles"
	"github.com/dealboard/dealboard-backend/internal/auth"
	"github.com/dealboard/dealboard-backend/internal/profiles"
	"github.com/dealboard/dealboard-backend/internal/promotions"
	"github.com/dealboard/dealboard-backend/internal/sellers"
	"github.com/dealboard/dealboard-backend/internal/uploads"
	"github.com/dealboard/dealboard-backend/internal/users"
	"github.com/dealboard/dealboard-backend/pkg/config"
	"github.com/dealboard/dealboard-backend/pkg/enums"
	"github.com/dealboard/dealboard-backend/pkg/logger"
	"github.com/dealboard/dealboard-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth       auth.Service
	Users      users.Service
	Sellers    sellers.Service
	Promotions promotions.Service
	Articles   articles.Service
	Profiles   profiles.Service
	Uploads    *uploads.Orchestrator
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	var redisP controllers.Pinger
	if redisClient != nil {
		redisP = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Rendered images live beneath the public root and are served as-is.
	r.Handle("/uploads/*", http.FileServer(http.Dir(cfg.Uploads.PublicDir)))

	r.Route("/api/v1/auth", func(r chi.Router) {
		if redisClient != nil {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		} else {
			r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		}
		r.With(middleware.Auth(cfg.JWT, logg)).Get("/me", controllers.AuthMe(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog reads.
		r.Get("/sellers", controllers.SellerList(svcs.Sellers, logg))
		r.Get("/sellers/{sellerId}", controllers.SellerDetail(svcs.Sellers, logg))
		r.Get("/sellers/slug/{slug}", controllers.SellerDetailBySlug(svcs.Sellers, logg))
		r.Get("/sellers/{sellerId}/promotions", controllers.PromotionListBySeller(svcs.Promotions, logg))
		r.Get("/sellers/{sellerId}/promotions/slug/{slug}", controllers.PromotionDetailBySlug(svcs.Promotions, logg))
		r.Get("/promotions", controllers.PromotionList(svcs.Promotions, logg))
		r.Get("/promotions/{promotionId}", controllers.PromotionDetail(svcs.Promotions, logg))
		r.Get("/articles/{articleId}", controllers.ArticleDetail(svcs.Articles, logg))

		// Everything below needs a valid token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/users", func(r chi.Router) {
				r.With(middleware.RequireRole(string(enums.UserRoleSuper), logg)).
					Post("/", controllers.UserCreate(svcs.Users, logg))
				r.Get("/", controllers.UserList(svcs.Users, logg))
				r.Get("/roles", controllers.UserRoles(svcs.Users, logg))
				r.Get("/search", controllers.SellerSearchUsers(svcs.Sellers, logg))
				r.Get("/{userId}", controllers.UserDetail(svcs.Users, logg))
				r.Put("/{userId}", controllers.UserUpdate(svcs.Users, logg))
				r.Post("/change-name", controllers.UserChangeName(svcs.Users, logg))
				r.Post("/change-password", controllers.UserChangePassword(svcs.Users, logg))
				r.With(middleware.RequireRole(string(enums.UserRoleSuper), logg)).
					Delete("/{userId}", controllers.UserDelete(svcs.Users, logg))
				r.Get("/{userId}/image", controllers.UserImage(svcs.Users, logg))
				r.Post("/{userId}/image", controllers.ImageUpload(svcs.Uploads, enums.EntityKindUser, "userId", logg))
				r.Post("/{userId}/image/crop", controllers.ImageCrop(svcs.Uploads, enums.EntityKindUser, "userId", logg))
			})

			r.Route("/sellers", func(r chi.Router) {
				r.Post("/", controllers.SellerCreate(svcs.Sellers, logg))
				r.Put("/{sellerId}", controllers.SellerUpdate(svcs.Sellers, logg))
				r.Delete("/{sellerId}", controllers.SellerDelete(svcs.Sellers, logg))
				r.Post("/{sellerId}/image", controllers.ImageUpload(svcs.Uploads, enums.EntityKindSeller, "sellerId", logg))
				r.Post("/{sellerId}/image/crop", controllers.ImageCrop(svcs.Uploads, enums.EntityKindSeller, "sellerId", logg))
			})

			r.Route("/promotions", func(r chi.Router) {
				r.Post("/", controllers.PromotionCreate(svcs.Promotions, logg))
				r.Put("/{promotionId}", controllers.PromotionUpdate(svcs.Promotions, logg))
				r.Delete("/{promotionId}", controllers.PromotionDelete(svcs.Promotions, logg))
				r.Post("/{promotionId}/image", controllers.ImageUpload(svcs.Uploads, enums.EntityKindPromotion, "promotionId", logg))
				r.Post("/{promotionId}/image/crop", controllers.ImageCrop(svcs.Uploads, enums.EntityKindPromotion, "promotionId", logg))
			})

			r.Post("/articles", controllers.ArticleCreate(svcs.Articles, logg))

			r.Route("/upload-profiles", func(r chi.Router) {
				r.Get("/", controllers.ProfileList(svcs.Profiles, logg))
				r.Get("/kinds", controllers.ProfileKinds(logg))
				r.Get("/slug/{slug}", controllers.ProfileDetailBySlug(svcs.Profiles, logg))
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(string(enums.UserRoleSuper), logg))
					r.Post("/", controllers.ProfileCreate(svcs.Profiles, logg))
					r.Put("/{profileId}", controllers.ProfileUpdate(svcs.Profiles, logg))
					r.Delete("/{profileId}", controllers.ProfileDelete(svcs.Profiles, logg))
				})
			})
		})
	})

	return r
}
