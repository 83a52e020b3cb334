package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fjod/partial_cod/internal/audit"
	"github.com/fjod/partial_cod/internal/cache"
	"github.com/fjod/partial_cod/internal/cartmodule"
	"github.com/fjod/partial_cod/internal/domain"
	"github.com/fjod/partial_cod/internal/gateway"
	h "github.com/fjod/partial_cod/internal/http"
	"github.com/fjod/partial_cod/internal/publisher"
	"github.com/fjod/partial_cod/internal/repository"
	"github.com/fjod/partial_cod/internal/service"
	"github.com/fjod/partial_cod/internal/signature"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	MigrationsDir   string
	KafkaBrokers    []string
	RazorpayKeyID   string
	RazorpaySecret  string
	AppEnv          string
	Policy          domain.PaymentPolicy
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	policy := domain.DefaultPaymentPolicy()
	policy.BaseCurrency = getEnv("BASE_CURRENCY", policy.BaseCurrency)
	if factor, err := strconv.ParseInt(getEnv("MINOR_UNIT_FACTOR", "100"), 10, 64); err == nil && factor > 0 {
		policy.MinorUnitFactor = factor
	}
	policy.EnforceSignature = getEnv("ENFORCE_SIGNATURE", "false") == "true"
	policy.RemoveShippingOnMismatch = getEnv("REMOVE_SHIPPING_ON_MISMATCH", "true") != "false"

	pgPort := 5432
	if p, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err == nil {
		pgPort = p
	}

	var brokers []string
	if raw := getEnv("KAFKA_BROKERS", ""); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "storedb"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		PostgresHost:    getEnv("POSTGRES_HOST", ""),
		PostgresPort:    pgPort,
		PostgresUser:    getEnv("POSTGRES_USER", "postgres"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:      getEnv("POSTGRES_DB", "payments"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "./migrations"),
		KafkaBrokers:    brokers,
		RazorpayKeyID:   getEnv("RAZORPAY_KEY_ID", ""),
		RazorpaySecret:  getEnv("RAZORPAY_KEY_SECRET", ""),
		AppEnv:          getEnv("APP_ENV", "development"),
		Policy:          policy,
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	// The shared secret signs real money movements. Outside development a
	// missing secret is a deployment mistake, never a silent fallback.
	if cfg.RazorpaySecret == "" {
		if cfg.AppEnv == "production" {
			log.Fatal("RAZORPAY_KEY_SECRET must be set in production")
		}
		log.Println("WARNING: RAZORPAY_KEY_SECRET unset, using development placeholder")
		cfg.RazorpaySecret = "dummy_secret"
	}

	ctx := context.Background()

	// Cart store
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	repo := repository.NewMongoRepository(mongoDB)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	// Totals cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	carts := cartmodule.NewCartModule(repo, cache.NewRedisCache(redisClient))

	// Audit ledger (optional: skipped when no postgres host is configured)
	var recorder service.Recorder
	if cfg.PostgresHost != "" {
		cred := &audit.Credentials{
			Host:              cfg.PostgresHost,
			Port:              cfg.PostgresPort,
			User:              cfg.PostgresUser,
			Password:          cfg.PostgresPass,
			DBName:            cfg.PostgresDB,
			MigrationsDirPath: cfg.MigrationsDir,
		}
		auditRepo, errAudit := audit.NewRepository(cred)
		if errAudit != nil {
			log.Fatalf("Failed to connect to postgres: %v", errAudit)
		}
		defer auditRepo.Close()
		if errMigrate := auditRepo.RunMigrations(cred); errMigrate != nil {
			log.Fatalf("Failed to run migrations: %v", errMigrate)
		}
		recorder = auditRepo
		log.Printf("Audit ledger enabled on %s:%d", cfg.PostgresHost, cfg.PostgresPort)
	} else {
		log.Println("Audit ledger disabled (POSTGRES_HOST unset)")
	}

	// Event publisher (optional: skipped when no brokers are configured)
	var events service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := publisher.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		events = kafkaPublisher
		log.Printf("Kafka publisher enabled on %v", cfg.KafkaBrokers)
	} else {
		log.Println("Kafka publisher disabled (KAFKA_BROKERS unset)")
	}

	rzp := gateway.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpaySecret)
	verifier := signature.NewVerifier(cfg.RazorpaySecret)
	payments := service.NewPaymentService(carts, rzp, verifier, cfg.Policy, recorder, events)
	paymentHandler := h.NewPaymentHandler(payments, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/order", paymentHandler.CreateOrder)
	r.Post("/reconcile", paymentHandler.Reconcile)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "partial-cod"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Partial COD service starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	mongoDB.Client().Disconnect(ctx)
	log.Println("server exited")
}
