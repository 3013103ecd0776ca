package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ManuelReschke/PayFox/app/controllers"
	"github.com/ManuelReschke/PayFox/app/repository"
	"github.com/ManuelReschke/PayFox/internal/pkg/billing"
	"github.com/ManuelReschke/PayFox/internal/pkg/cache"
	"github.com/ManuelReschke/PayFox/internal/pkg/constants"
	"github.com/ManuelReschke/PayFox/internal/pkg/database"
	"github.com/ManuelReschke/PayFox/internal/pkg/env"
	"github.com/ManuelReschke/PayFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/PayFox/internal/pkg/mail"
	prommetrics "github.com/ManuelReschke/PayFox/internal/pkg/metrics/prometheus"
	"github.com/ManuelReschke/PayFox/internal/pkg/notify"
	"github.com/ManuelReschke/PayFox/internal/pkg/ratelimit"
	"github.com/ManuelReschke/PayFox/internal/pkg/router"
	"github.com/ManuelReschke/PayFox/internal/pkg/s3archive"
)

var requiredEnv = []string{
	"PAYU_MERCHANT_KEY", "PAYU_MERCHANT_SALT",
	"DB_USER", "DB_PASSWORD", "DB_NAME",
	"SMTP_HOST", "SMTP_PORT", "SMTP_SENDER",
}

func main() {
	app, manager, dispatcher := NewApplication()

	go func() {
		addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
		if err := app.Listen(addr); err != nil {
			log.Fatalf("[Server] Listen failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("[Server] Shutting down")
	if err := app.ShutdownWithTimeout(20 * time.Second); err != nil {
		log.Errorf("[Server] Shutdown: %v", err)
	}
	// Redirect reconciles may still hand confirmations to the queue.
	dispatcher.Wait()
	manager.Stop()
	if err := cache.Close(); err != nil {
		log.Warnf("[Cache] Close: %v", err)
	}
}

func NewApplication() (*fiber.App, *jobqueue.Manager, *billing.Dispatcher) {
	env.SetupEnvFile()
	if err := env.Require(requiredEnv...); err != nil {
		log.Fatalf("[Config] %v", err)
	}

	billingCfg, err := billing.LoadConfig()
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}

	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := prommetrics.NewMetrics(reg, "payfox")

	manager := jobqueue.GetManager()
	queue := manager.GetQueue()

	if billingCfg.NotificationsEnabled {
		registerConfirmationHandler(queue, metrics)
	}

	opts := []billing.ServiceOption{
		billing.WithNotifier(notify.NewTrigger(queue, billingCfg.NotificationsEnabled)),
		billing.WithMetrics(metrics),
	}
	if archiver := setupArchive(queue); archiver != nil {
		opts = append(opts, billing.WithArchiver(archiver))
	}
	manager.Start()

	svc := billing.NewServiceFromDB(database.GetDB(), opts...)
	dispatcher := billing.NewDispatcher(billingCfg, svc, metrics)

	app := fiber.New(fiber.Config{
		BodyLimit: 64 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: constants.DocsRoute,
		FilePath: findProjectFile("public/docs/v1/openapi.yml"),
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app, router.Handlers{
		Payments: controllers.NewPaymentController(dispatcher),
		Queue:    controllers.NewQueueController(queue),
		Health: controllers.NewHealthController(map[string]controllers.HealthCheck{
			"database": func(ctx context.Context) error {
				sqlDB, err := database.GetDB().DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": cache.Ping,
		}),
		Gatherer:       reg,
		MetricsUsers:   metricsUsers(),
		OperatorKeys:   strings.Split(env.GetEnv("OPERATOR_API_KEYS", ""), ","),
		LimiterStorage: ratelimit.NewStorage(),
	})

	return app, manager, dispatcher
}

func registerConfirmationHandler(queue *jobqueue.Queue, metrics billing.Metrics) {
	mailCfg, err := mail.LoadConfig()
	if err != nil {
		log.Fatalf("[Mail] %v (set NOTIFY_PAYMENT_CONFIRMATION=false to run without mail)", err)
	}
	renderer, err := mail.NewRenderer()
	if err != nil {
		log.Fatalf("[Mail] Loading templates: %v", err)
	}

	handler := notify.NewConfirmationHandler(repository.GetGlobalRepositories(), renderer, mail.NewSMTPMailer(mailCfg), metrics)
	handler.Register(queue)
}

// setupArchive returns nil when archiving is disabled.
func setupArchive(queue *jobqueue.Queue) billing.Archiver {
	cfg, err := s3archive.LoadConfig()
	if err != nil {
		log.Fatalf("[Archive] %v", err)
	}
	if !cfg.IsEnabled() {
		log.Info("[Archive] Callback archive disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := s3archive.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("[Archive] %v", err)
	}
	s3archive.NewHandler(client).Register(queue)
	return s3archive.NewArchiver(queue)
}

func metricsUsers() map[string]string {
	user := env.GetEnv("METRICS_USER", "")
	if user == "" {
		return nil
	}
	return map[string]string{user: env.GetEnv("METRICS_PASSWORD", "")}
}

// findProjectFile resolves path from the working directory or the project root.
func findProjectFile(path string) string {
	for _, base := range []string{"./", "../../", "../../../"} {
		if _, err := os.Stat(base + path); err == nil {
			return base + path
		}
	}
	return path
}
