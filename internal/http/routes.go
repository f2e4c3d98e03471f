package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tazhibayda/oauth-service/docs"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.GET("/healthchecker", h.Healthz)

	auth := api.Group("/auth")
	auth.POST("/register", h.RateLimit(), h.Register)
	auth.POST("/login", h.RateLimit(), h.Login)
	auth.GET("/logout", h.RequireAuth(), h.Logout)

	api.GET("/users/me", h.RequireAuth(), h.Me)

	api.GET("/sessions/oauth/:provider", h.OAuthCallback)
	api.GET("/sessions/oauth/:provider/login", h.OAuthLogin)

	return r
}
