package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sushaki-system/config"
	"sushaki-system/internal/gateway/handlers"
	"sushaki-system/internal/gateway/middleware"
	"sushaki-system/internal/ledger"
	"sushaki-system/internal/menu"
	"sushaki-system/internal/printer"
	"sushaki-system/internal/ticket"
)

func main() {
	cfg := config.LoadConfig()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	sink := buildSink(cfg.Printer)
	composer := ticket.NewComposer(cfg.Ticket.RestaurantName, cfg.Ticket.CurrencySymbol)
	orderLedger := ledger.New(
		cfg.Ledger.DataDir,
		cfg.Ticket.CurrencySymbol,
		composer,
		sink,
		cfg.Printer.SettleDelay,
		logger,
	)
	menuStore := menu.NewStore(cfg.Menu.File)

	orderHandler := handlers.NewOrderHTTPHandler(orderLedger, logger)
	menuHandler := handlers.NewMenuHTTPHandler(menuStore, logger)

	r := gin.Default()

	r.Use(middleware.RequestID())
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(cfg.Server.RateLimit))

	api := r.Group("/api")
	{
		api.POST("/orders", orderHandler.CreateOrder)
		api.GET("/todays_orders_for_reprint", orderHandler.TodaysOrders)
		api.POST("/reprint_order", orderHandler.ReprintOrder)
		api.GET("/daily_total", orderHandler.DailyTotal)

		api.GET("/menu", menuHandler.GetMenu)
		api.POST("/menu", menuHandler.SaveMenu)
	}

	r.GET("/health", healthCheckHandler)

	port := ":" + cfg.Server.Port
	logger.WithFields(logrus.Fields{
		"port":    port,
		"printer": cfg.Printer.Device,
		"data":    cfg.Ledger.DataDir,
	}).Info("Starting server")
	if err := r.Run(port); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}

func buildSink(cfg config.PrinterConfig) printer.Sink {
	switch cfg.Mode {
	case "serial":
		return printer.NewSerialSink(cfg.Device, cfg.Baud, cfg.Timeout)
	default:
		return printer.NewDeviceSink(cfg.Device, cfg.Timeout)
	}
}

func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"message":   "Server is running",
		"timestamp": time.Now(),
	})
}
