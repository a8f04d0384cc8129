package redis_test

import (
	"context"
	"log"
	"os"
	"testing"

	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"products-service/internal/adapters/config"
	adaptredis "products-service/internal/adapters/redis"
)

var (
	testClient   *adaptredis.Client
	testEndpoint string
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		log.Fatalf("failed to start redis container: %v", err)
	}

	testEndpoint, err = container.ConnectionString(ctx)
	if err != nil {
		log.Fatalf("failed to get connection string: %v", err)
	}

	testClient, err = adaptredis.NewConnection(config.RedisConfig{URL: testEndpoint})
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	code := m.Run()

	_ = testClient.Close()
	_ = container.Terminate(ctx)

	os.Exit(code)
}

func TestNewConnection(t *testing.T) {
	t.Run("rejects a malformed URL", func(t *testing.T) {
		if _, err := adaptredis.NewConnection(config.RedisConfig{URL: "not-a-url"}); err == nil {
			t.Fatal("expected error for malformed URL")
		}
	})

	t.Run("fails fast when the server is unreachable", func(t *testing.T) {
		if _, err := adaptredis.NewConnection(config.RedisConfig{URL: "redis://localhost:1"}); err == nil {
			t.Fatal("expected error for unreachable server")
		}
	})

	t.Run("connected client answers ping", func(t *testing.T) {
		if err := testClient.Ping(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}
