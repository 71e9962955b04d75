package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/coderr-backend/internal/config"
	"github.com/ignatzorin/coderr-backend/internal/http/handlers"
	"github.com/ignatzorin/coderr-backend/internal/http/middleware"
	"github.com/ignatzorin/coderr-backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	offerHandler *handlers.OfferHandler,
	orderHandler *handlers.OrderHandler,
	reviewHandler *handlers.ReviewHandler,
	statsHandler *handlers.StatsHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	// Регистрация и вход с ограничением частоты запросов.
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	api.POST("/registration", authRateLimit, authHandler.Register)
	api.POST("/login", authRateLimit, authHandler.Login)

	// Публичные маршруты.
	api.GET("/offers", offerHandler.ListOffers)
	api.GET("/offers/:id", middleware.UUIDValidator("id"), offerHandler.GetOffer)
	api.GET("/offerdetails", offerHandler.ListOfferDetails)
	api.GET("/offerdetails/:id", middleware.UUIDValidator("id"), offerHandler.GetOfferDetail)
	api.GET("/base-info", statsHandler.GetBaseInfo)

	// Защищённые маршруты.
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile/:pk", middleware.UUIDValidator("pk"), profileHandler.GetProfile)
		protected.PATCH("/profile/:pk", middleware.UUIDValidator("pk"), profileHandler.UpdateProfile)
		protected.POST("/profile/:pk/file", middleware.UUIDValidator("pk"), profileHandler.UploadFile)
		protected.GET("/profiles/business", profileHandler.ListBusinessProfiles)
		protected.GET("/profiles/customer", profileHandler.ListCustomerProfiles)

		protected.POST("/offers", offerHandler.CreateOffer)
		protected.PATCH("/offers/:id", middleware.UUIDValidator("id"), offerHandler.UpdateOffer)
		protected.DELETE("/offers/:id", middleware.UUIDValidator("id"), offerHandler.DeleteOffer)
		protected.POST("/offers/:id/image", middleware.UUIDValidator("id"), offerHandler.UploadImage)
		protected.POST("/offerdetails", offerHandler.CreateOfferDetail)

		protected.GET("/orders", orderHandler.ListOrders)
		protected.POST("/orders", orderHandler.CreateOrder)
		protected.GET("/orders/:id", middleware.UUIDValidator("id"), orderHandler.GetOrder)
		protected.PATCH("/orders/:id", middleware.UUIDValidator("id"), orderHandler.UpdateOrder)
		protected.DELETE("/orders/:id", middleware.UUIDValidator("id"), orderHandler.DeleteOrder)
		protected.GET("/order-count/:business_user_id", middleware.UUIDValidator("business_user_id"), orderHandler.CountInProgress)
		protected.GET("/completed-order-count/:business_user_id", middleware.UUIDValidator("business_user_id"), orderHandler.CountCompleted)

		protected.GET("/reviews", reviewHandler.ListReviews)
		protected.POST("/reviews", reviewHandler.CreateReview)
		protected.GET("/reviews/:id", middleware.UUIDValidator("id"), reviewHandler.GetReview)
		protected.PATCH("/reviews/:id", middleware.UUIDValidator("id"), reviewHandler.UpdateReview)
		protected.DELETE("/reviews/:id", middleware.UUIDValidator("id"), reviewHandler.DeleteReview)
	}

	return r
}
