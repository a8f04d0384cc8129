package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"products-service/internal/adapters/config"
	"products-service/internal/adapters/http"
	"products-service/internal/adapters/http/controllers"
	adaptmongo "products-service/internal/adapters/mongo"
	adaptpostgres "products-service/internal/adapters/postgres"
	"products-service/internal/adapters/rabbitmq"
	"products-service/internal/adapters/redis"
	"products-service/internal/adapters/storage"
	"products-service/internal/core/logger"
	"products-service/internal/core/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

// @title       Products Service API
// @version     1.0
// @description Product catalog API with interchangeable storage backends

// @host     localhost:8080
// @BasePath /

func main() {
	// initialize config and logger
	cfg := config.NewConfig()
	if err := logger.Initialize(cfg.Logger.Endpoint, cfg.Logger.ServiceName, cfg.Logger.IsProduction); err != nil {
		// logger not available yet, fall back to stderr
		fmt.Println("failed to initialize logger: " + err.Error())
		os.Exit(1)
	}

	// cancellable context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the storage backend is a deployment-time choice; only the selected
	// backend's connection is established
	backend, err := storage.ParseBackend(cfg.Storage.Backend)
	if err != nil {
		logger.Fatal(ctx, "Invalid storage configuration", err, nil)
	}

	var (
		pool    *pgxpool.Pool
		mongoDB *mongo.Database
	)
	healthCheckers := []controllers.HealthChecker{}

	switch backend {
	case storage.BackendPostgres:
		pool, err = adaptpostgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			logger.Fatal(ctx, "Failed to connect to PostgreSQL", err, nil)
		}
		defer pool.Close()
		if err := adaptpostgres.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal(ctx, "Failed to bootstrap schema", err, nil)
		}
		logger.Info(ctx, "Connected to PostgreSQL", nil)
		healthCheckers = append(healthCheckers, controllers.HealthChecker{
			Name:  "postgres",
			Check: func(ctx context.Context) error { return pool.Ping(ctx) },
		})
	case storage.BackendMongo:
		mongoClient, err := adaptmongo.NewConnection(cfg.Mongo)
		if err != nil {
			logger.Fatal(ctx, "Failed to connect to MongoDB", err, nil)
		}
		defer adaptmongo.Disconnect(mongoClient)
		mongoDB = mongoClient.Database(cfg.Mongo.Database)
		logger.Info(ctx, "Connected to MongoDB", map[string]any{"database": cfg.Mongo.Database})
		healthCheckers = append(healthCheckers, controllers.HealthChecker{
			Name:  "mongodb",
			Check: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
		})
	}

	// initialize redis connection
	redisClient, err := redis.NewConnection(cfg.Redis)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to Redis", err, nil)
	}
	defer redisClient.Close()
	logger.Info(ctx, "Connected to Redis", nil)

	// initialize rabbitmq connection
	broker, err := rabbitmq.NewBroker(cfg.RabbitMQ)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to RabbitMQ", err, nil)
	}
	defer broker.Close()
	logger.Info(ctx, "Connected to RabbitMQ", nil)

	// repository via the backend factory
	productRepository, err := storage.NewProductRepository(backend, pool, mongoDB)
	if err != nil {
		logger.Fatal(ctx, "Failed to construct repository", err, map[string]any{"backend": string(backend)})
	}
	logger.Info(ctx, "Storage backend selected", map[string]any{"backend": string(backend)})

	// rate limiter
	rateLimiter := redis.NewRateLimiter(redisClient)

	// services
	productService := service.NewProductService(productRepository, broker)

	// controllers
	productController := controllers.NewProductController(productService)
	healthCheckers = append(healthCheckers,
		controllers.HealthChecker{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx) }},
		controllers.HealthChecker{Name: "rabbitmq", Check: func(ctx context.Context) error { return broker.HealthCheck() }},
	)
	healthController := controllers.NewHealthController(healthCheckers)

	// router
	router := http.NewRouter(healthController, productController, rateLimiter)

	// graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info(ctx, "Received shutdown signal", map[string]any{"signal": sig.String()})
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := logger.Shutdown(shutdownCtx); err != nil {
			fmt.Println("logger shutdown error: " + err.Error())
		}
	}()

	logger.Info(ctx, "Starting HTTP server", map[string]any{"addr": cfg.HTTP.BindInterface + ":" + cfg.HTTP.Port})
	if err := router.ListenAndServe(ctx, cfg.HTTP); err != nil {
		logger.Fatal(ctx, "Failed to start HTTP server", err, nil)
	}
}
