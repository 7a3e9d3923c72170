package handler

import (
	"duckwheel/internal/config"

	"github.com/gin-gonic/gin"
)

func SetupRouter(h *Handler, cfg *config.Config) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/me", h.Me)
		api.GET("/prizes", h.ListPrizes)
		api.GET("/settings", h.ListSettings)
		api.GET("/odds", h.Odds)
		api.GET("/users-overview", h.UsersOverview)
		api.GET("/logs", h.SpinLogs)
		api.GET("/orders", h.ListOrders)
		api.GET("/duck-history", h.DuckHistory)

		api.POST("/spin", h.Spin)
		api.POST("/buy", h.Buy)

		admin := api.Group("/admin", AdminAuth(cfg.App.AuthSecret))
		{
			admin.POST("/add-ducks", h.AddDucks)
			admin.POST("/prizes", h.SavePrize)
			admin.POST("/settings", h.SaveSetting)
			admin.POST("/orders/status", h.UpdateOrderStatus)
		}
	}

	return r
}
