package http

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"nytinsight/internal/bootstrap"
	"nytinsight/internal/transport/http/handler"
	"nytinsight/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	if app.Config.App.GinMode != "" {
		gin.SetMode(app.Config.App.GinMode)
	}
	router := gin.New()
	// ClientIP keys the rate limiter, so forwarding headers only count from
	// configured proxies.
	if err := router.SetTrustedProxies(app.Config.App.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies failed: %w", err)
	}
	router.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	askHandler := handler.NewAskHandler(app.AskService)

	router.GET("/healthz", healthHandler.Check)

	api := router.Group("/api")
	api.GET("/status", healthHandler.Status)
	askHandlers := []gin.HandlerFunc{askHandler.Ask}
	if app.Limiter != nil {
		askHandlers = append([]gin.HandlerFunc{middleware.RateLimit(app.Limiter)}, askHandlers...)
	}
	api.GET("/ask", askHandlers...)
	api.POST("/ask", askHandlers...)

	return router, nil
}
