package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"webpay-checkout/internal/client"
	"webpay-checkout/internal/config"
	"webpay-checkout/internal/logging"
	"webpay-checkout/internal/metrics"
	"webpay-checkout/internal/repository"
	"webpay-checkout/internal/server"
	"webpay-checkout/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logging.Init("webpay-checkout", cfg.Log.Level, cfg.Log.File)

	db, err := client.InitPostgresClient(cfg.DatabaseURL)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	webpayClient := client.NewWebpayClient(&cfg.Webpay)

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)

	returnURL := cfg.Webpay.ReturnURL
	if returnURL == "" {
		returnURL = cfg.BaseURL + "/api/payment/commit"
	}

	txService := service.NewTransactionService(
		db, webpayClient, service.NewCheckoutBuilder(),
		orderRepo, productRepo,
		returnURL,
		metrics.NewPaymentMetrics(),
	)

	srv := server.NewServer(txService, cfg.AdminJWTSecret)
	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Info("starting HTTP server", "addr", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}
	if err := client.ClosePostgresClient(db); err != nil {
		log.Error("database close error", "error", err)
	}
}
