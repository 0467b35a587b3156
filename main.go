package main

import (
	"fmt"

	"api_ventas/api"
	"api_ventas/internal/config"
	"api_ventas/internal/sales"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("error loading configuration: %v", err))
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, _ = zap.NewProduction()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	db, err := sales.OpenDatabase(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	r := gin.Default()
	api.InitRoutes(r, cfg, db, logger)

	logger.Info("starting server", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
	if err := r.Run(":" + cfg.App.Port); err != nil {
		logger.Fatal("error trying to start server", zap.Error(err))
	}
}
