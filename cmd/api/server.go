package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/harentsoaR/medihub-api/internal/config"
	"github.com/harentsoaR/medihub-api/internal/handlers"
	"github.com/harentsoaR/medihub-api/internal/middleware"
	"github.com/harentsoaR/medihub-api/internal/services"
	"github.com/harentsoaR/medihub-api/internal/store"
	"github.com/harentsoaR/medihub-api/internal/utils"
)

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger := newLogger(cfg)
	ttl, _ := cfg.TokenTTL()

	// Database
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := connectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())
	logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to database")

	st := store.New(client.Database(cfg.MongoDatabase))
	if err := st.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	// Services
	imageHost, err := services.NewS3ImageHost(ctx, cfg.AWSRegion, cfg.AWSBucketName, cfg.ImageBaseURL)
	if err != nil {
		return fmt.Errorf("configure image host: %w", err)
	}
	if cfg.AWSBucketName == "" {
		logger.Warn().Msg("AWS_BUCKET_NAME is not set, doctor avatars cannot be uploaded")
	}
	if cfg.SendGridAPIKey == "" {
		logger.Warn().Msg("SENDGRID_API_KEY is not set, contact messages will not be mailed")
	}
	uploads := services.NewUploadRelay(imageHost, services.UploadConfig{
		TempDir:  cfg.UploadTempDir,
		Folder:   cfg.ImageFolder,
		MaxBytes: cfg.UploadMaxBytes,
	}, logger)

	tokens := utils.NewTokenManager(cfg.JWTSecret, ttl)
	revocations := utils.NewRevocationList(time.Minute)
	defer revocations.Close()

	h := handlers.NewHandler(st, handlers.Deps{
		Tokens:      tokens,
		Revocations: revocations,
		Uploads:     uploads,
		Mailer:      services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFrom),
		Payments:    services.NewMockGateway(),
		Cookies:     handlers.CookieConfig{MaxAge: cfg.CookieMaxAge(), Secure: cfg.CookieSecure},
		MailTo:      cfg.MailTo,
		Ping:        st.Ping,
		Logger:      logger,
	})
	verifier := &middleware.Verifier{
		Tokens:      tokens,
		Revocations: revocations,
		Accounts:    st.Accounts,
		Doctors:     st.Doctors,
	}

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := newRouter(cfg, logger)
	handlers.RegisterRoutes(r, h, verifier)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-quit:
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func newRouter(cfg *config.Config, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.ErrorHandler(logger))
	r.MaxMultipartMemory = cfg.UploadMaxBytes
	return r
}
