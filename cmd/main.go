package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/craftkart/order-service-go/internal/cart"
	"github.com/craftkart/order-service-go/internal/config"
	"github.com/craftkart/order-service-go/internal/db"
	"github.com/craftkart/order-service-go/internal/events"
	httpserver "github.com/craftkart/order-service-go/internal/http"
	"github.com/craftkart/order-service-go/internal/order"
	"github.com/craftkart/order-service-go/internal/payment"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(os.Stdout, "[order-service] ", log.LstdFlags|log.Lshortfile)

	// DB
	database := db.MustOpen(cfg.DatabaseDSN)
	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.Fatalf("migrations: %v", err)
	}

	orderRepo := order.NewRepository(database)
	cartRepo := cart.NewRepository(database)

	// Razorpay. Prepaid checkout is disabled without credentials.
	var gateway order.Gateway
	if cfg.PrepaidEnabled() {
		gateway = payment.NewClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.GatewayTimeout)
	} else {
		logger.Println("razorpay credentials not set, prepaid checkout disabled")
	}

	// RabbitMQ
	var publisher *events.Publisher
	if cfg.RabbitURL != "" {
		rabbitConn := events.MustDialRabbit(cfg.RabbitURL, logger)
		defer rabbitConn.Close()

		var err error
		publisher, err = events.NewPublisher(rabbitConn)
		if err != nil {
			logger.Fatalf("create publisher: %v", err)
		}
		defer publisher.Close()
	} else {
		logger.Println("RABBITMQ_URL not set, event publishing disabled")
	}

	var orderEvents order.Publisher
	var paymentEvents payment.Publisher
	if publisher != nil {
		orderEvents = publisher
		paymentEvents = publisher
	}

	orderSvc := order.NewService(orderRepo, cartRepo, gateway, orderEvents, cfg.Currency, logger)
	verifySvc := payment.NewVerifyService(cfg.RazorpayKeySecret, orderRepo, cartRepo, paymentEvents, logger)

	mux := httpserver.NewRouter(orderSvc, verifySvc, cfg.JWTSecret, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Printf("order-service listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
