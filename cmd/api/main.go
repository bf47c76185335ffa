package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"walkindesk/internal/config"
	"walkindesk/internal/controller"
	"walkindesk/internal/middleware"
	"walkindesk/internal/modules/auth"
	"walkindesk/internal/modules/desk"
	"walkindesk/internal/modules/widget"
	"walkindesk/internal/pkg/jwt"
	"walkindesk/internal/pkg/response"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.LoadDesk()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.ParseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if len(cfg.DeskAgents) == 0 {
		logger.Warn("DESK_AGENTS is empty; nobody can log in")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(cfg.DeskAgents, jwtService)
	authHandler := auth.NewHandler(authService)

	client := controller.New(cfg.ControllerURL, cfg.ControllerTimeout,
		controller.WithRecordType(cfg.CustomerRecordType),
	)
	factory := func(p widget.Presenter) *widget.Widget {
		return widget.New(client, p,
			widget.WithPicklists(client),
			widget.WithLogger(logger.With("component", "widget")),
		)
	}

	hub := desk.NewHub()
	defer hub.Close()

	sessions := desk.NewSessionStore(factory, hub,
		desk.NewDocumentLinks(cfg.RegistrationURLTemplate, cfg.DownloadURLTemplate),
		cfg.SessionIdleTTL,
	)
	go sessions.Run(ctx, time.Minute)

	deskHandler := desk.NewHandler(sessions)
	wsHandler := desk.NewWebSocketHandler(sessions, hub, jwtService, cfg.CORSAllowedOrigins)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(logger),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		if err := client.Ping(c.Request.Context()); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "CONTROLLER_UNAVAILABLE", "Booking controller is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ready", "sessions": sessions.Len(), "sockets": hub.Count()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		wsHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(jwtService))
		{
			deskHandler.RegisterRoutes(protected)
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("desk api starting", "addr", cfg.HTTPAddr, "controller", cfg.ControllerURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down desk api")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("desk api exited")
}
