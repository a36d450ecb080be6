package main // Entry point package

import (
	"context"
	"log" // Logging library
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/vinayn0707/showtime-reservations/internal/config"     // Internal config loader
	"github.com/vinayn0707/showtime-reservations/internal/database"   // MySQL connection helper
	"github.com/vinayn0707/showtime-reservations/internal/engine"     // Reservation engine
	"github.com/vinayn0707/showtime-reservations/internal/handler"    // HTTP handlers
	"github.com/vinayn0707/showtime-reservations/internal/payment"    // Payment coordinator + gateways
	"github.com/vinayn0707/showtime-reservations/internal/query"      // Read-side query surface
	"github.com/vinayn0707/showtime-reservations/internal/queue"      // RabbitMQ booking-confirmed consumer
	"github.com/vinayn0707/showtime-reservations/internal/reaper"     // Background expiry sweeper
	"github.com/vinayn0707/showtime-reservations/internal/registry"   // Per-show mutex registry
	"github.com/vinayn0707/showtime-reservations/internal/repository" // Repositories
	"github.com/vinayn0707/showtime-reservations/internal/router"     // Internal router setup
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	cinemaRepo := repository.NewCinemaRepo(db)
	hallRepo := repository.NewHallRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	showRepo := repository.NewShowRepo(db)
	showSeatRepo := repository.NewShowSeatRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	seatStore := repository.NewMySQLSeatStore(db)
	bookingStore := repository.NewMySQLBookingStore(db)
	showLookup := repository.NewShowLookup(showRepo)

	reg := registry.New()
	cancelGrace := time.Duration(cfg.CancelGraceMinutes) * time.Minute
	eng := engine.New(reg, seatStore, bookingStore, showLookup, cancelGrace, time.Now)

	var gateway payment.Gateway
	if cfg.PaymentSandbox {
		gateway = payment.NewSandboxGateway(0.9, 500*time.Millisecond)
	} else {
		gateway = payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeCurrency)
	}
	coordinator := payment.New(
		gateway,
		eng,
		eng,
		cfg.MaxPaymentRetries,
		time.Duration(cfg.PaymentRetryBackoffSec)*time.Second,
	)

	redisClient := config.NewRedisClient()
	cache := query.NewCache(redisClient, "booking:", time.Duration(cfg.CacheTTLSec)*time.Second)
	querySurface := query.New(seatStore, bookingStore, cache)

	reap := reaper.New(reg, seatStore, bookingStore, time.Duration(cfg.CleanupIntervalMinutes)*time.Minute, 500)
	reap.Cache = cache
	reapCtx, stopReaper := context.WithCancel(context.Background())
	reaperDone := make(chan struct{})
	go func() {
		defer close(reaperDone)
		reap.Run(reapCtx)
	}()

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()
	go func() {
		if err := queue.StartExpiredConsumer(); err != nil {
			log.Printf("expired-booking consumer stopped: %v", err)
		}
	}()

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	publicHandler := &handler.PublicHandler{CinemaRepo: cinemaRepo, HallRepo: hallRepo, ShowRepo: showRepo, SeatRepo: seatRepo, Seats: seatStore}
	ownerHandler := handler.NewOwnerHandler(cinemaRepo, hallRepo, seatRepo, showRepo, showSeatRepo)
	ownerBookingHandler := handler.NewOwnerBookingHandler(bookingStore, showRepo, querySurface)
	bookingHandler := handler.NewBookingHandler(eng, coordinator, querySurface, cfg.LockMinutes)

	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, cacheCfg, redisClient)
	router.RegisterOwner(e, ownerHandler, cfg.JWTSecret)
	router.RegisterOwnerBookings(e, ownerBookingHandler, cfg.JWTSecret)
	router.RegisterCustomer(e, bookingHandler, cfg.JWTSecret, rlCfg, redisClient)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s, lockMinutes=%d, paymentSandbox=%v)", addr, cfg.Env, cfg.LockMinutes, cfg.PaymentSandbox)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Println("shutting down")
	stopReaper()
	<-reaperDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
