package handlers

import (
	_ "display_bridge/docs"
	"display_bridge/internal/assets"
	"display_bridge/internal/logger"
	"display_bridge/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	ui       *assets.Store
	uiIndex  string
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
// ui may be nil, in which case GET / answers 404.
func NewHandler(services *service.Service, ui *assets.Store, uiIndex string, log *logger.Logger) *Handler {
	if uiIndex == "" {
		uiIndex = assets.DefaultIndex
	}
	return &Handler{services: services, ui: ui, uiIndex: uiIndex, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", h.health)

	// Device routes stay unauthenticated, the browser UI calls them directly.
	h.registerDeviceRoutes(router)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerDeviceRoutes(r *gin.Engine) {
	r.GET("/", h.index)
	r.GET("/set", h.setDigits)
	r.GET("/switchMode", h.switchMode)
	r.GET("/getTime", h.getTime)
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		api.GET("/status", h.getStatus)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
		logs.GET("/", h.getLogs)
	}
}
