// Package main is the entry point for the chat state server.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/enet-chat/chat-server/internal/config"
	"github.com/enet-chat/chat-server/internal/events"
	"github.com/enet-chat/chat-server/internal/handler"
	"github.com/enet-chat/chat-server/internal/i18n"
	"github.com/enet-chat/chat-server/internal/llm"
	"github.com/enet-chat/chat-server/internal/middleware"
	"github.com/enet-chat/chat-server/internal/model"
	natsclient "github.com/enet-chat/chat-server/internal/nats"
	"github.com/enet-chat/chat-server/internal/service"
	"github.com/enet-chat/chat-server/internal/storage"
	"github.com/enet-chat/chat-server/pkg/clock"
	"github.com/enet-chat/chat-server/pkg/logger"
	"github.com/enet-chat/chat-server/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()
	flags := pflag.NewFlagSet("enet-chat", pflag.ExitOnError)
	cfg.BindFlags(flags)
	flags.Parse(os.Args[1:])

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting chat server", zap.String("prefs_file", cfg.PreferencesFile))

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "enet-chat", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Optional NATS event mirror
	var (
		natsClient *natsclient.Client
		mirror     events.Mirror
	)
	if cfg.NATSURL != "" {
		natsClient, err = natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer natsClient.Close()

		streamManager := natsclient.NewStreamManager(natsClient)
		if err := streamManager.EnsureStream(ctx); err != nil {
			log.Error("failed to ensure stream", zap.Error(err))
			os.Exit(1)
		}
		mirror = streamManager
	}

	translator, err := i18n.New(cfg.DefaultLanguage)
	if err != nil {
		log.Error("failed to load translations", zap.Error(err))
		os.Exit(1)
	}

	// Optional LLM reply text; canned replies otherwise
	var generator service.ReplyGenerator
	if llmClient, err := llm.FromKeys(cfg.AnthropicAPIKey, cfg.OpenAIAPIKey); err == nil {
		generator = llm.NewReplyGenerator(llmClient, cfg.ReplyModel, cfg.ReplyTimeout)
		log.Info("LLM replies enabled", zap.String("provider", llmClient.Name()))
	} else if !errors.Is(err, llm.ErrNoAPIKey) {
		log.Warn("failed to create LLM client, using canned replies", zap.Error(err))
	}

	clk := clock.Real()
	broker := events.NewBroker(clk, log.Named("events"), mirror)

	// Initialize services
	conversationSvc := service.NewConversationService(clk, broker, log.Named("conversations"))
	conversationSvc.SeedDefaults()
	messageSvc := service.NewMessageService(conversationSvc, clk, broker, translator, generator, cfg.ReplyDelay, log.Named("messages"))
	profileSvc := service.NewProfileService(service.DefaultProfile(), broker, log.Named("profile"))
	preferenceSvc := service.NewPreferenceService(
		storage.NewFileStore(cfg.PreferencesFile),
		translator,
		model.Preferences{Theme: model.ThemeDark, Language: cfg.DefaultLanguage},
		broker,
		log.Named("preferences"),
	)
	friendSvc := service.NewFriendService(conversationSvc)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(natsClient)
	conversationHandler := handler.NewConversationHandler(conversationSvc, messageSvc, translator, log)
	api := &handler.API{
		Auth:          handler.NewAuthHandler(profileSvc, translator),
		Profile:       handler.NewProfileHandler(profileSvc, translator, log),
		Conversations: conversationHandler,
		Messages:      handler.NewMessageHandler(conversationHandler),
		Stream:        handler.NewStreamHandler(broker, clk, handler.DefaultHeartbeat, log),
		Preferences:   handler.NewPreferencesHandler(preferenceSvc, translator),
		Friends:       handler.NewFriendHandler(friendSvc, conversationSvc, translator),
		I18n:          handler.NewI18nHandler(translator),
	}

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(tracing.Middleware)
	r.Use(middleware.Locale(func() string { return preferenceSvc.Get().Language }))
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		api.Mount(r)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Pending replies are dropped; closing the broker ends open event streams.
	messageSvc.Close()
	broker.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
