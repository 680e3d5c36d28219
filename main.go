package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sullendaAPI/handlers"
	"sullendaAPI/internal/config"
	"sullendaAPI/internal/db"
	"sullendaAPI/internal/logger"
	"sullendaAPI/internal/notification"
	"sullendaAPI/internal/workers"
	"sullendaAPI/middleware"
	"sullendaAPI/services"
)

func main() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.L()

	cfg := config.Load(log)
	clerk.SetKey(cfg.ClerkSecretKey)
	log.Info("Clerk initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.Connect(ctx, cfg, log)
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}
	defer func() {
		log.Info("Closing database connection pool")
		dbPool.Close()
	}()

	if err := db.Migrate(ctx, dbPool, log); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}

	drinkLogService := services.NewDrinkLogService(dbPool, log)
	goalService := services.NewGoalService(dbPool, log, cfg.ResetStreakOnEnable)
	profileService := services.NewProfileService(dbPool, log)
	notificationService := services.NewNotificationService(dbPool, log)
	defer notificationService.Stop()
	statsService := services.NewStatsService(drinkLogService, goalService, notificationService, log, cfg.WeekStartsOn, cfg.Location)

	fcmService, err := notification.NewFCMService(ctx, cfg.FCMCredentialsFile, log)
	if err != nil {
		log.Warn("Could not initialize FCM, pushes will be dropped", zap.Error(err))
	} else {
		notificationService.SetPushProvider(fcmService)
		log.Info("FCM push provider initialized")
	}

	services.RegisterMetrics(prometheus.DefaultRegisterer)
	httpMetrics := middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)

	scheduler, err := workers.Start(
		workers.NewJobs(notificationService, statsService, goalService, notificationService, log),
		cfg.WeeklyReportSpec,
		cfg.SoberCheckSpec,
		cfg.Location,
	)
	if err != nil {
		log.Fatal("Failed to start cron workers", zap.Error(err))
	}
	defer func() { <-scheduler.Stop().Done() }()

	limiter := middleware.NewRateLimiter(5, 30, cfg.TrustedProxyHops)
	go limiter.Cleanup(ctx)

	r := newRouter(routerDeps{
		pool:        dbPool,
		log:         log,
		cfg:         cfg,
		limiter:     limiter,
		httpMetrics: httpMetrics,
		drinkLogs:   handlers.NewDrinkLogHandler(drinkLogService, statsService, log),
		stats:       handlers.NewStatsHandler(statsService, log),
		goals:       handlers.NewGoalHandler(goalService, statsService, log),
		devices:     handlers.NewNotificationHandler(notificationService, log),
		profiles:    handlers.NewProfileHandler(profileService, log),
		webhooks: handlers.NewWebhookHandler(cfg.ClerkWebhookSecret, map[string]handlers.OwnerDataPurger{
			"drink_logs":    drinkLogService,
			"goals":         goalService,
			"device_tokens": notificationService,
			"profiles":      profileService,
		}, log),
	})

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)

	server := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Error starting server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	log.Info("Server shutdown complete")
}

type routerDeps struct {
	pool        *pgxpool.Pool
	log         *zap.Logger
	cfg         *config.Config
	limiter     *middleware.RateLimiter
	httpMetrics *middleware.HTTPMetrics

	drinkLogs *handlers.DrinkLogHandler
	stats     *handlers.StatsHandler
	goals     *handlers.GoalHandler
	devices   *handlers.NotificationHandler
	profiles  *handlers.ProfileHandler
	webhooks  *handlers.WebhookHandler
}

func newRouter(d routerDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(d.limiter.Middleware)
	r.Use(d.httpMetrics.Middleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(d.cfg.MetricsUser, d.cfg.MetricsPass)(promhttp.Handler())).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := d.pool.Ping(ctx); err != nil {
			d.log.Warn("Health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "sullenda-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", d.webhooks.HandleClerkWebhook).Methods("POST")

	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/drinks/reference", d.drinkLogs.Reference).Methods("GET")
	protected.HandleFunc("/drinks", d.drinkLogs.List).Methods("GET")
	protected.HandleFunc("/drinks", d.drinkLogs.Create).Methods("POST")
	protected.HandleFunc("/drinks/{id}", d.drinkLogs.Update).Methods("PATCH")
	protected.HandleFunc("/drinks/{id}", d.drinkLogs.Delete).Methods("DELETE")

	protected.HandleFunc("/stats", d.stats.GetStats).Methods("GET")
	protected.HandleFunc("/calendar", d.stats.GetCalendar).Methods("GET")
	protected.HandleFunc("/home", d.stats.GetHome).Methods("GET")

	protected.HandleFunc("/goals", d.goals.List).Methods("GET")
	protected.HandleFunc("/goals/{type}", d.goals.Enable).Methods("PUT")
	protected.HandleFunc("/goals/{type}", d.goals.Disable).Methods("DELETE")

	protected.HandleFunc("/notifications/register-device", d.devices.RegisterDevice).Methods("POST")
	protected.HandleFunc("/notifications/test", d.devices.SendTestNotification).Methods("POST")

	protected.HandleFunc("/profile", d.profiles.Get).Methods("GET")
	protected.HandleFunc("/profile", d.profiles.Update).Methods("PATCH")

	return r
}
