package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Brownie44l1/nutrisense-api/internal/food"
	"github.com/Brownie44l1/nutrisense-api/internal/handlers"
	"github.com/Brownie44l1/nutrisense-api/internal/history"
	"github.com/Brownie44l1/nutrisense-api/internal/middleware"
)

// Deps are the collaborators the routes need. DB, Redis, Foods and History
// may be nil when the matching backend is not configured.
type Deps struct {
	Predictor      handlers.Predictor
	Model          handlers.ModelStatus
	DB             *gorm.DB
	Redis          *redis.Client
	Foods          food.Repository
	History        history.Repository
	MaxUploadBytes int64
	Logger         *zap.Logger
}

// Setup creates and configures the Gin router
func Setup(deps Deps) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Redis, deps.Model)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	predictHandler := handlers.NewHandler(deps.Predictor, deps.MaxUploadBytes, deps.Logger)
	searchHandler := handlers.NewSearchHandler(deps.Foods, deps.Logger)
	historyHandler := handlers.NewHistoryHandler(deps.History, deps.Logger)

	router.POST("/predict", predictHandler.Predict)
	router.GET("/search", searchHandler.Search)
	router.GET("/history", historyHandler.List)

	return router
}
