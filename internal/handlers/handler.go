package handlers

import (
	"context"

	_ "smart_breeder/docs"
	"smart_breeder/internal/device"
	"smart_breeder/internal/logger"
	"smart_breeder/internal/relay"
	"smart_breeder/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Forwarder relays a request to the device API. *relay.Forwarder implements it.
type Forwarder interface {
	Forward(ctx context.Context, req relay.Request) relay.Response
}

// Handler wires HTTP layer to services, the relay and logging.
type Handler struct {
	services    *service.Service
	relay       Forwarder
	relayPrefix string
	log         *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies. A nil fwd
// leaves the relay route unregistered.
func NewHandler(services *service.Service, fwd Forwarder, relayPrefix string, log *logger.Logger) *Handler {
	if relayPrefix == "" {
		relayPrefix = device.DefaultRelayPrefix
	}
	return &Handler{services: services, relay: fwd, relayPrefix: relayPrefix, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	if h.relay != nil {
		router.Any(h.relayPrefix+"/*path", h.forward)
	}

	h.registerAPIRoutes(router)

	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/state", h.getState)
		api.POST("/refresh", h.refresh)
		api.DELETE("/notifications", h.clearNotifications)

		h.registerControlRoutes(api)
		h.registerSpeciesRoutes(api)
		h.registerSettingsRoutes(api)
		h.registerDeviceRoutes(api)
	}
}

func (h *Handler) registerControlRoutes(api *gin.RouterGroup) {
	control := api.Group("/control")
	{
		// Body example: {"fan":true,"acidPump":false}
		control.POST("", h.sendControl)
		control.POST("/emergency-stop", h.emergencyStop)
	}
}

func (h *Handler) registerSpeciesRoutes(api *gin.RouterGroup) {
	sp := api.Group("/species")
	{
		sp.GET("", h.listSpecies)
		sp.POST("/sync", h.syncSpecies)
		// Body example: {"id":"2"} or {"id":null}
		sp.PUT("/selected", h.selectSpecies)
	}
}

func (h *Handler) registerSettingsRoutes(api *gin.RouterGroup) {
	api.GET("/settings", h.getSettings)
	api.PATCH("/settings", h.updateSettings)
}

func (h *Handler) registerDeviceRoutes(api *gin.RouterGroup) {
	dev := api.Group("/device")
	{
		dev.PUT("/address", h.setDeviceAddress)
		dev.POST("/ping", h.ping)
		dev.POST("/calibrate", h.calibrate)
	}
}
