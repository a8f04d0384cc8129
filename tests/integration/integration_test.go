package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcrabbit "github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	adaptconfig "products-service/internal/adapters/config"
	adapthttp "products-service/internal/adapters/http"
	"products-service/internal/adapters/http/controllers"
	adaptpostgres "products-service/internal/adapters/postgres"
	adaptrabbitmq "products-service/internal/adapters/rabbitmq"
	adaptredis "products-service/internal/adapters/redis"
	"products-service/internal/adapters/storage"
	"products-service/internal/core/service"
)

var (
	mongoClient  *mongo.Client
	pgPool       *pgxpool.Pool
	redisClient  *adaptredis.Client
	broker       *adaptrabbitmq.Broker
	amqpEndpoint string
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	gin.SetMode(gin.TestMode)

	// --- MongoDB ---
	mongoContainer, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	if err != nil {
		log.Fatalf("mongodb container: %v", err)
	}
	mongoEndpoint, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		log.Fatalf("mongodb connection string: %v", err)
	}
	mongoClient, err = mongo.Connect(ctx, options.Client().
		ApplyURI(mongoEndpoint).
		SetDirect(true).
		SetConnectTimeout(30*time.Second).
		SetServerSelectionTimeout(30*time.Second))
	if err != nil {
		log.Fatalf("mongodb connect: %v", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("mongodb ping: %v", err)
	}

	// --- PostgreSQL ---
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("products_int"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		log.Fatalf("postgres container: %v", err)
	}
	pgEndpoint, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("postgres connection string: %v", err)
	}
	pgPool, err = pgxpool.New(ctx, pgEndpoint)
	if err != nil {
		log.Fatalf("postgres pool: %v", err)
	}
	if err := adaptpostgres.EnsureSchema(ctx, pgPool); err != nil {
		log.Fatalf("postgres schema: %v", err)
	}

	// --- Redis ---
	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		log.Fatalf("redis container: %v", err)
	}
	redisEndpoint, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		log.Fatalf("redis connection string: %v", err)
	}
	redisClient, err = adaptredis.NewConnection(adaptconfig.RedisConfig{URL: redisEndpoint})
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}

	// --- RabbitMQ ---
	rabbitContainer, err := tcrabbit.Run(ctx, "rabbitmq:3-management-alpine")
	if err != nil {
		log.Fatalf("rabbitmq container: %v", err)
	}
	amqpEndpoint, err = rabbitContainer.AmqpURL(ctx)
	if err != nil {
		log.Fatalf("rabbitmq amqp url: %v", err)
	}
	broker, err = adaptrabbitmq.NewBroker(adaptconfig.RabbitMQConfig{
		URL:        amqpEndpoint,
		MaxRetries: 2,
		RetryDelay: 100 * time.Millisecond,
		ExchangeConfigs: []adaptconfig.ExchangeConfig{
			{Name: "exchange.product", Type: "direct", Durable: true, AutoDelete: false},
		},
	})
	if err != nil {
		log.Fatalf("rabbitmq adapter: %v", err)
	}

	code := m.Run()

	_ = broker.Close()
	_ = redisClient.Close()
	pgPool.Close()
	_ = mongoClient.Disconnect(ctx)
	_ = mongoContainer.Terminate(ctx)
	_ = pgContainer.Terminate(ctx)
	_ = redisContainer.Terminate(ctx)
	_ = rabbitContainer.Terminate(ctx)

	os.Exit(code)
}

// buildEngine wires the full stack against the requested backend, the same
// composition main performs, minus the listener.
func buildEngine(t *testing.T, backend storage.Backend, dbName string) *gin.Engine {
	t.Helper()

	var mongoDB *mongo.Database
	if backend == storage.BackendMongo {
		mongoDB = mongoClient.Database(dbName)
	}

	repo, err := storage.NewProductRepository(backend, pgPool, mongoDB)
	if err != nil {
		t.Fatalf("build repository: %v", err)
	}

	productService := service.NewProductService(repo, broker)
	productController := controllers.NewProductController(productService)
	healthController := controllers.NewHealthController([]controllers.HealthChecker{
		{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx) }},
	})
	rateLimiter := adaptredis.NewRateLimiter(redisClient)

	engine := gin.New()
	adapthttp.NewRouter(healthController, productController, rateLimiter).SetupRoutes(engine)
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeProduct(t *testing.T, rec *httptest.ResponseRecorder) controllers.ProductResponse {
	t.Helper()
	var product controllers.ProductResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &product); err != nil {
		t.Fatalf("decode product response: %v (body: %s)", err, rec.Body.String())
	}
	return product
}

func setupConsumer(t *testing.T, routingKey string) <-chan amqp.Delivery {
	t.Helper()

	conn, err := amqp.Dial(amqpEndpoint)
	if err != nil {
		t.Fatalf("consumer dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	ch, err := conn.Channel()
	if err != nil {
		t.Fatalf("consumer channel: %v", err)
	}
	t.Cleanup(func() { ch.Close() })

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		t.Fatalf("queue declare: %v", err)
	}
	if err := ch.QueueBind(q.Name, routingKey, "exchange.product", false, nil); err != nil {
		t.Fatalf("queue bind: %v", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	return msgs
}

func burgerRequest() map[string]any {
	return map[string]any{
		"name":        "Classic Burger",
		"description": "Beef patty with cheddar",
		"category":    "Main Item",
		"price":       12.5,
		"quantity":    5,
	}
}

// TestIntegration_ProductLifecycle drives the whole CRUD surface through the
// HTTP layer against each storage backend in turn.
func TestIntegration_ProductLifecycle(t *testing.T) {
	backends := []storage.Backend{storage.BackendPostgres, storage.BackendMongo}

	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			engine := buildEngine(t, backend, "int_lifecycle")

			// create
			rec := doRequest(t, engine, http.MethodPost, "/api/v1/products", burgerRequest())
			if rec.Code != http.StatusCreated {
				t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
			}
			created := decodeProduct(t, rec)
			if created.ID <= 0 {
				t.Fatalf("create: expected positive id, got %d", created.ID)
			}
			if created.Quantity != 5 {
				t.Fatalf("create: expected quantity 5, got %d", created.Quantity)
			}
			if created.CreatedAt == nil || created.UpdatedAt == nil {
				t.Fatal("create: expected both timestamps to be set")
			}

			// read back
			rec = doRequest(t, engine, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", created.ID), nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("get: expected 200, got %d", rec.Code)
			}
			if got := decodeProduct(t, rec); got.Name != "Classic Burger" {
				t.Fatalf("get: expected stored product, got %+v", got)
			}

			// appears in the listing
			rec = doRequest(t, engine, http.MethodGet, "/api/v1/products", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("list: expected 200, got %d", rec.Code)
			}
			var listing []controllers.ProductResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
				t.Fatalf("list: decode: %v", err)
			}
			found := false
			for _, p := range listing {
				if p.ID == created.ID {
					found = true
				}
			}
			if !found {
				t.Fatalf("list: product %d missing from %d results", created.ID, len(listing))
			}

			// adjust down within stock
			rec = doRequest(t, engine, http.MethodPatch, fmt.Sprintf("/api/v1/products/%d/quantity/-3", created.ID), nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("adjust -3: expected 200, got %d (%s)", rec.Code, rec.Body.String())
			}
			if got := decodeProduct(t, rec); got.Quantity != 2 {
				t.Fatalf("adjust -3: expected quantity 2, got %d", got.Quantity)
			}

			// adjust past zero floors at zero
			rec = doRequest(t, engine, http.MethodPatch, fmt.Sprintf("/api/v1/products/%d/quantity/-999", created.ID), nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("adjust -999: expected 200, got %d", rec.Code)
			}
			if got := decodeProduct(t, rec); got.Quantity != 0 {
				t.Fatalf("adjust -999: expected quantity 0, got %d", got.Quantity)
			}

			// full replace
			replacement := burgerRequest()
			replacement["name"] = "Renamed Burger"
			replacement["category"] = "Dessert"
			rec = doRequest(t, engine, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", created.ID), replacement)
			if rec.Code != http.StatusOK {
				t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
			}
			updated := decodeProduct(t, rec)
			if updated.Name != "Renamed Burger" || updated.Category != "Dessert" {
				t.Fatalf("update: expected overwritten fields, got %+v", updated)
			}
			if updated.ID != created.ID {
				t.Fatalf("update: expected id unchanged, got %d", updated.ID)
			}

			// delete, then the record is gone
			rec = doRequest(t, engine, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", created.ID), nil)
			if rec.Code != http.StatusNoContent {
				t.Fatalf("delete: expected 204, got %d", rec.Code)
			}
			rec = doRequest(t, engine, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", created.ID), nil)
			if rec.Code != http.StatusNotFound {
				t.Fatalf("get after delete: expected 404, got %d", rec.Code)
			}
		})
	}
}

func TestIntegration_Categories(t *testing.T) {
	engine := buildEngine(t, storage.BackendPostgres, "")

	rec := doRequest(t, engine, http.MethodGet, "/api/v1/products/categories", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var categories []string
	if err := json.Unmarshal(rec.Body.Bytes(), &categories); err != nil {
		t.Fatalf("decode: %v", err)
	}
	expected := []string{"Main Item", "Side", "Drink", "Dessert"}
	if len(categories) != len(expected) {
		t.Fatalf("expected %d categories, got %v", len(expected), categories)
	}
	for i, want := range expected {
		if categories[i] != want {
			t.Fatalf("expected %q at position %d, got %q", want, i, categories[i])
		}
	}
}

func TestIntegration_NotFoundAndValidation(t *testing.T) {
	engine := buildEngine(t, storage.BackendMongo, "int_errors")

	t.Run("unknown id yields 404", func(t *testing.T) {
		for _, probe := range []struct{ method, path string }{
			{http.MethodGet, "/api/v1/products/999999"},
			{http.MethodPut, "/api/v1/products/999999"},
			{http.MethodDelete, "/api/v1/products/999999"},
			{http.MethodPatch, "/api/v1/products/999999/quantity/-1"},
		} {
			var body any
			if probe.method == http.MethodPut {
				body = burgerRequest()
			}
			rec := doRequest(t, engine, probe.method, probe.path, body)
			if rec.Code != http.StatusNotFound {
				t.Fatalf("%s %s: expected 404, got %d", probe.method, probe.path, rec.Code)
			}
		}
	})

	t.Run("non-numeric id yields 400", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/products/abc", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		request := burgerRequest()
		request["category"] = "Breakfast"
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/products", request)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
		}
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		request := burgerRequest()
		request["price"] = -1.0
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/products", request)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestIntegration_CreatePublishesEvent(t *testing.T) {
	msgs := setupConsumer(t, "product.created")
	engine := buildEngine(t, storage.BackendMongo, "int_events")

	rec := doRequest(t, engine, http.MethodPost, "/api/v1/products", burgerRequest())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}
	created := decodeProduct(t, rec)

	select {
	case msg := <-msgs:
		var event struct {
			ProductID int64  `json:"product_id"`
			Name      string `json:"name"`
		}
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if event.ProductID != created.ID {
			t.Fatalf("event product_id: expected %d, got %d", created.ID, event.ProductID)
		}
		if event.Name != "Classic Burger" {
			t.Fatalf("event name: expected 'Classic Burger', got %q", event.Name)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for product.created event")
	}
}
