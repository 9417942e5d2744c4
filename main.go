package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"yourrest-api/config"
	"yourrest-api/events"
	"yourrest-api/handlers"
	"yourrest-api/media"
	"yourrest-api/middleware"
	"yourrest-api/payment"
	"yourrest-api/routes"
	"yourrest-api/services"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := config.OpenStore(ctx, cfg)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}

	uploader, err := media.FromConfig(cfg.Media)
	if err != nil {
		log.WithError(err).Fatal("failed to set up media uploads")
	}

	publisher, err := events.FromURL(cfg.NATSURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to NATS")
	}

	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		log.Warn("RAZORPAY_KEY_ID or RAZORPAY_KEY_SECRET not set; online payments will fail")
	}
	gateway := payment.NewClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	tokens := services.NewTokenManager(cfg.JWTSecret, cfg.JWTLifetime)
	h := &handlers.Handler{
		Auth:     services.NewAuthService(store.Users, tokens, services.LogMailer{}, cfg.InitialAdminEmail, cfg.PublicBaseURL),
		Ordering: services.NewOrderingService(store, gateway, publisher, cfg.Currency),
		Catalog:  services.NewCatalogService(store.Menu, uploader, cfg.MenuPreset),
		Profiles: services.NewProfileService(store.Users, uploader, cfg.ProfilePreset),
		Contact:  services.NewContactService(cfg.ContactEndpoint),
		Gateway:  gateway,
		Currency: cfg.Currency,
		Store:    store,
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS())

	uploadsDir := ""
	if cfg.Media.Backend == "" || cfg.Media.Backend == "local" {
		uploadsDir = cfg.Media.Directory
	}
	routes.SetupRoutes(r, h, uploadsDir)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	if err := publisher.Close(); err != nil {
		log.WithError(err).Warn("closing event publisher")
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.WithError(err).Warn("closing store")
	}
	log.Info("server exiting")
}
