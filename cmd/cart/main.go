package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/grocery_cart/internal/config"
	"github.com/Skotchmaster/grocery_cart/internal/events"
	"github.com/Skotchmaster/grocery_cart/internal/httpserver"
	"github.com/Skotchmaster/grocery_cart/internal/inventory"
	"github.com/Skotchmaster/grocery_cart/internal/logging"
	"github.com/Skotchmaster/grocery_cart/internal/metrics"
	loggingmw "github.com/Skotchmaster/grocery_cart/internal/middleware/logging"
	"github.com/Skotchmaster/grocery_cart/internal/models"
	"github.com/Skotchmaster/grocery_cart/internal/repo"
	"github.com/Skotchmaster/grocery_cart/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	if err := db.AutoMigrate(&models.CartLine{}); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	store := &repo.GormRepo{DB: db}
	inventoryClient := inventory.NewClient(cfg.ProductServiceURL, cfg.InventoryTimeout)
	producer := events.NewProducer(cfg.KafkaBrokers)

	cartService := &service.CartService{
		Store:     store,
		Inventory: inventoryClient,
		Events:    producer,
	}

	cartHandler := &httpserver.CartHTTP{
		Svc: cartService,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(metrics.Middleware())

	httpserver.Register(e, &httpserver.Deps{
		CartHandler: cartHandler,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("cart listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if err := producer.Close(); err != nil {
		log.Printf("kafka close: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("cart stopped")
}
