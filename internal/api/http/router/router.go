package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/pinmap-server/internal/api/http/handler"
	"github.com/dtroode/pinmap-server/internal/api/http/middleware"
	"github.com/dtroode/pinmap-server/internal/logger"
	"github.com/dtroode/pinmap-server/internal/model"
	"github.com/dtroode/pinmap-server/internal/service"
)

// Router wires HTTP routes to handlers and middleware.
type Router struct {
	authService    *service.Auth
	pinService     *service.Pin
	imageService   *service.Image
	contextManager model.ContextManager
	mapsAPIKey     string
	publicPath     string
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	authService *service.Auth,
	pinService *service.Pin,
	imageService *service.Image,
	contextManager model.ContextManager,
	mapsAPIKey string,
	publicPath string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		pinService:     pinService,
		imageService:   imageService,
		contextManager: contextManager,
		mapsAPIKey:     mapsAPIKey,
		publicPath:     "/" + strings.Trim(publicPath, "/"),
		logger:         logger,
	}
}

// Register builds the gin engine with every route and middleware attached.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	engine := gin.New()
	engine.Use(gin.CustomRecovery(r.recover), logging.Handle)

	system := handler.NewSystem(r.mapsAPIKey)
	engine.NoRoute(system.NotFound)

	api := engine.Group("/api")
	api.GET("/health", system.Health)
	api.GET("/config/maps-key", system.MapsKey)

	r.registerAuthRoutes(api, authenticate)
	r.registerPinRoutes(api, authenticate)
	r.registerAssetRoutes(engine)

	return engine
}

func (r *Router) registerAuthRoutes(api *gin.RouterGroup, authenticate *middleware.Authenticate) {
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authenticate.Handle, authHandler.Me)
}

func (r *Router) registerPinRoutes(api *gin.RouterGroup, authenticate *middleware.Authenticate) {
	pinHandler := handler.NewPin(r.pinService, r.contextManager, r.logger)
	imageHandler := handler.NewImage(r.imageService, r.logger)

	pins := api.Group("/pins")
	pins.GET("", pinHandler.List)
	pins.GET("/:id", pinHandler.Get)

	owned := pins.Group("", authenticate.Handle)
	owned.POST("/upload", imageHandler.Upload)
	owned.POST("", pinHandler.Create)
	owned.PUT("/:id", pinHandler.Update)
	owned.DELETE("/:id", pinHandler.Delete)
}

func (r *Router) registerAssetRoutes(engine *gin.Engine) {
	imageHandler := handler.NewImage(r.imageService, r.logger)
	engine.GET(r.publicPath+"/:name", imageHandler.Serve)
}

func (r *Router) recover(c *gin.Context, recovered any) {
	r.logger.Error("HTTP router: recovered from panic",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"panic", recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
