package api

import (
	"net/http"

	"api_ventas/internal/auth"
	"api_ventas/internal/config"
	"api_ventas/internal/sales"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InitRoutes wires storage, service and handlers onto the given Gin engine.
// Everything under /sales sits behind the bearer-token middleware.
func InitRoutes(e *gin.Engine, cfg *config.Config, db *gorm.DB, logger *zap.Logger) {
	storage := sales.NewGormStorage(db)
	salesService := sales.NewService(storage, logger)
	tokens := auth.NewTokenService(cfg.JWT)
	handler := NewSalesHandler(salesService, cfg, logger)

	group := e.Group("/sales", RequireAuth(tokens, logger))
	group.GET("", handler.handleListSales)
	group.POST("", handler.handleCreateSale)
	group.GET("/report", handler.handleSalesReport)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
