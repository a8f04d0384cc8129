package storage

import (
	"errors"
	"fmt"

	mongorepo "products-service/internal/adapters/mongo/repository"
	pgrepo "products-service/internal/adapters/postgres/repository"
	"products-service/internal/core/port"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

// Backend selects which storage implementation serves the process. It is a
// deployment-time choice: exactly one backend is wired per process.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendMongo    Backend = "mongo"
)

func ParseBackend(value string) (Backend, error) {
	switch b := Backend(value); b {
	case BackendPostgres, BackendMongo:
		return b, nil
	}
	return "", fmt.Errorf("unknown storage backend %q (expected %q or %q)", value, BackendPostgres, BackendMongo)
}

// NewProductRepository constructs the repository for the given backend tag.
// This is the only place that inspects the tag. The postgres backend needs a
// live connection pool; the mongo backend needs the shared database handle
// and ignores the pool.
func NewProductRepository(backend Backend, pool *pgxpool.Pool, db *mongo.Database) (port.ProductRepository, error) {
	switch backend {
	case BackendPostgres:
		if pool == nil {
			return nil, errors.New("postgres backend requires a connection pool")
		}
		return pgrepo.NewProductRepository(pool), nil
	case BackendMongo:
		if db == nil {
			return nil, errors.New("mongo backend requires a database handle")
		}
		return mongorepo.NewProductRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
