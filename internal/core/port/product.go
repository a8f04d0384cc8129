package port

import (
	"context"

	"products-service/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// ProductRepository is the persistence contract both storage backends
// implement. Absence is a soft value, never an error: GetByID and Update
// return (nil, nil) and Delete returns (false, nil) when no record has the
// given identifier. Errors are reserved for store-level failures.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]*domain.StoredProduct, error)
	GetByID(ctx context.Context, id domain.ID) (*domain.StoredProduct, error)
	Create(ctx context.Context, product *domain.Product) (*domain.StoredProduct, error)
	Update(ctx context.Context, id domain.ID, product *domain.Product) (*domain.StoredProduct, error)
	Delete(ctx context.Context, id domain.ID) (bool, error)
}
