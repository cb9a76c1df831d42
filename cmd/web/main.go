package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/5280sourcegroup/website/config"
	"github.com/5280sourcegroup/website/internal/cache"
	"github.com/5280sourcegroup/website/internal/content"
	"github.com/5280sourcegroup/website/internal/database/postgres"
	"github.com/5280sourcegroup/website/internal/handlers"
	"github.com/5280sourcegroup/website/internal/middleware"
	"github.com/5280sourcegroup/website/internal/repository"
	"github.com/5280sourcegroup/website/internal/services"
	"github.com/5280sourcegroup/website/internal/web"
	"github.com/5280sourcegroup/website/pkg/db"
	"github.com/5280sourcegroup/website/pkg/formtoken"
	"github.com/5280sourcegroup/website/pkg/httpclient"
	"github.com/5280sourcegroup/website/pkg/logger"
	"github.com/5280sourcegroup/website/pkg/mailer"
	"github.com/5280sourcegroup/website/pkg/metrics"
	"github.com/5280sourcegroup/website/pkg/profiling"
	"github.com/5280sourcegroup/website/pkg/recaptcha"
	"github.com/5280sourcegroup/website/pkg/storage"
	"github.com/5280sourcegroup/website/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting 5280 Source Group website",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := tracing.Service{
		Name:        cfg.Observability.ServiceName,
		Namespace:   cfg.Observability.ServiceNamespace,
		Version:     cfg.Observability.ServiceVersion,
		InstanceID:  cfg.Observability.ServiceInstanceID,
		Environment: cfg.Server.AppEnv,
	}

	tracerShutdown, err := tracing.Init(svc, cfg.Observability.ExporterEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(shutdownCtx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.Start(cfg.Profiling, svc)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	metrics.RecordInfrastructureMetrics()

	site, err := loadContent(cfg.Content)
	if err != nil {
		logger.Fatal("Failed to load site content", zap.Error(err))
	}
	templates, err := web.Templates()
	if err != nil {
		logger.Fatal("Failed to parse page templates", zap.Error(err))
	}

	tokens := formtoken.NewManager(formTokenSecret(cfg.FormToken), cfg.FormToken.Issuer,
		cfg.FormToken.FormTTLMinutes, cfg.FormToken.ConfirmTTLMinutes)

	deps := services.QuoteServiceDeps{
		NotifyEmail: cfg.Mail.NotifyEmail,
		TriggerURL:  cfg.EventTriggers.QuoteCreatedTriggerURL,
	}
	var healthChecks []handlers.HealthCheck
	httpClient := httpclient.New(httpclient.DefaultTimeout)

	if cfg.ReCAPTCHA.SecretKey != "" {
		deps.Captcha = recaptcha.NewVerifier(cfg.ReCAPTCHA.SecretKey, httpClient)
	} else {
		logger.Warn("ReCAPTCHA disabled: RECAPTCHA_SECRET_KEY not set")
	}

	if cfg.FormToken.DuplicateWindowMin > 0 {
		deps.Duplicates = cache.NewSubmissionCache(time.Duration(cfg.FormToken.DuplicateWindowMin) * time.Minute)
	}

	if cfg.Storage.Enabled() {
		storageClient := storage.NewClient(storage.Config{
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			BucketName:      cfg.Storage.BucketName,
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
		})
		deps.Attachments = storageClient
		healthChecks = append(healthChecks, handlers.HealthCheck{Name: "storage", Check: storageClient.Ping})
	} else {
		logger.Warn("Attachment storage disabled: attachments are e-mailed only")
	}

	if cfg.Database.Enabled() {
		pool, err := db.NewPool(ctx, db.PoolConfig{
			URL:        cfg.Database.URL,
			MaxConns:   cfg.Database.MaxConns,
			MinConns:   cfg.Database.MinConns,
			CACertPath: cfg.Database.CACertPath,
		})
		if err != nil {
			logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
		}
		defer db.Close(pool)

		// Migrations run separately: ./migrate up
		quoteRepo := repository.NewQuoteRepository(postgres.NewClient(pool))
		deps.Store = quoteRepo
		healthChecks = append(healthChecks, handlers.HealthCheck{Name: "database", Check: quoteRepo.Ping})
	} else {
		logger.Warn("Quote store disabled: DATABASE_URL not set")
	}

	if cfg.Mail.Enabled() {
		deps.Notifier = mailer.New(mailer.Config{
			Domain:    cfg.Mail.MailgunDomain,
			APIKey:    cfg.Mail.MailgunAPIKey,
			FromEmail: cfg.Mail.FromEmail,
			FromName:  cfg.Mail.FromName,
		})
	} else {
		logger.Warn("Quote notifications disabled: Mailgun not configured")
	}

	if deps.TriggerURL != "" {
		deps.HTTPClient = httpClient
	}

	quoteService := services.NewQuoteService(deps)

	pageHandler := handlers.NewPageHandler(site, tokens, handlers.PageOptions{
		RecaptchaSiteKey: cfg.ReCAPTCHA.SiteKey,
		CookieSecure:     cfg.FormToken.CookieSecure,
	})
	quoteHandler := handlers.NewQuoteHandler(pageHandler, quoteService, cfg.FormToken.RequireFormToken)
	healthHandler := handlers.NewHealthHandler(healthChecks...)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.SetHTMLTemplate(templates)

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	generalRateLimiter := middleware.NewRateLimiter(ctx, 20, 40) // 20 req/sec, burst of 40
	quoteRateLimiter := middleware.NewRateLimiter(ctx, 0.1, 5)   // 6 req/min, burst of 5
	quoteBodyLimit := middleware.BodySizeLimitMiddleware(middleware.QuoteBodyLimit)

	router.GET("/", generalRateLimiter.Middleware(), pageHandler.Index)
	router.POST("/quote", quoteRateLimiter.Middleware(), quoteBodyLimit, quoteHandler.SubmitForm)
	router.POST("/quote/reset", generalRateLimiter.Middleware(), quoteHandler.Reset)

	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:"+cfg.Server.Port, "http://127.0.0.1:"+cfg.Server.Port)
	}
	v1 := router.Group("/api/v1")
	v1.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	v1.POST("/quote-requests", quoteRateLimiter.Middleware(), quoteBodyLimit, quoteHandler.SubmitAPI)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second, // 10 MiB uploads on slow links
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func loadContent(cfg config.ContentConfig) (*content.Site, error) {
	if cfg.File == "" {
		return content.Load()
	}
	logger.Info("Loading site content override", zap.String("file", cfg.File))
	return content.LoadFile(cfg.File)
}

// formTokenSecret returns the configured signing secret, or a random one that lives
// as long as the process. Without a configured secret form tokens are not enforced and
// confirmation cookies do not survive a restart.
func formTokenSecret(cfg config.FormTokenConfig) string {
	if cfg.Secret != "" {
		return cfg.Secret
	}

	logger.Warn("FORM_TOKEN_SECRET not set: using an ephemeral signing key")
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		logger.Fatal("Failed to generate signing key", zap.Error(err))
	}
	return hex.EncodeToString(buf)
}
