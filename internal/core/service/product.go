package service

import (
	"context"
	"fmt"
	"sync"

	"products-service/internal/core/domain"
	"products-service/internal/core/dto"
	"products-service/internal/core/logger"
	"products-service/internal/core/port"
	"products-service/internal/core/serviceerrors"
)

// ProductService carries the business rules shared by both storage backends:
// category validation, an explicit existence check before update, and the
// quantity floor at zero. Repositories stay rule-free.
type ProductService struct {
	repository port.ProductRepository
	broker     port.BrokerPort

	mu    sync.Mutex
	locks map[domain.ID]*sync.Mutex
}

func NewProductService(repository port.ProductRepository, broker port.BrokerPort) *ProductService {
	return &ProductService{
		repository: repository,
		broker:     broker,
		locks:      make(map[domain.ID]*sync.Mutex),
	}
}

func (s *ProductService) Categories() []domain.Category {
	return domain.Categories()
}

func (s *ProductService) GetAll(ctx context.Context) ([]*domain.StoredProduct, error) {
	return s.repository.GetAll(ctx)
}

func (s *ProductService) GetByID(ctx context.Context, id domain.ID) (*domain.StoredProduct, error) {
	product, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, notFound(id)
	}
	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, request *dto.ProductRequest) (*domain.StoredProduct, error) {
	product, err := toProduct(request)
	if err != nil {
		return nil, err
	}

	created, err := s.repository.Create(ctx, product)
	if err != nil {
		logger.Error(ctx, "product: create failed", err, map[string]any{
			"name":     request.Name,
			"category": request.Category,
		})
		return nil, err
	}

	logger.Info(ctx, "Product created", map[string]any{"product_id": created.ID})
	s.publish(ctx, domain.NewProductCreatedEvent(created))
	return created, nil
}

// UpdateProduct checks existence first instead of leaning on each backend's
// own not-found signal, so both backends share identical semantics.
func (s *ProductService) UpdateProduct(ctx context.Context, id domain.ID, request *dto.ProductRequest) (*domain.StoredProduct, error) {
	product, err := toProduct(request)
	if err != nil {
		return nil, err
	}

	existing, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, notFound(id)
	}

	updated, err := s.repository.Update(ctx, id, product)
	if err != nil {
		logger.Error(ctx, "product: update failed", err, map[string]any{"product_id": id})
		return nil, err
	}
	if updated == nil {
		// removed between the existence check and the write
		return nil, notFound(id)
	}

	s.publish(ctx, domain.NewProductUpdatedEvent(updated))
	return updated, nil
}

// AdjustQuantity applies a signed delta to the stored quantity, flooring the
// result at zero. Neither backend exposes a clamped atomic increment, so the
// read-modify-write is serialized per identifier to avoid lost updates.
func (s *ProductService) AdjustQuantity(ctx context.Context, id domain.ID, delta int) (*domain.StoredProduct, error) {
	unlock := s.lockID(id)
	defer unlock()

	current, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, notFound(id)
	}

	product := current.Product
	product.Quantity = current.Quantity + delta
	if product.Quantity < 0 {
		product.Quantity = 0
	}

	updated, err := s.repository.Update(ctx, id, &product)
	if err != nil {
		logger.Error(ctx, "product: quantity adjustment failed", err, map[string]any{
			"product_id": id,
			"delta":      delta,
		})
		return nil, err
	}
	if updated == nil {
		return nil, notFound(id)
	}

	s.publish(ctx, domain.NewProductQuantityAdjustedEvent(updated, delta, current.Quantity))
	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id domain.ID) error {
	deleted, err := s.repository.Delete(ctx, id)
	if err != nil {
		logger.Error(ctx, "product: delete failed", err, map[string]any{"product_id": id})
		return err
	}
	if !deleted {
		return notFound(id)
	}

	logger.Info(ctx, "Product deleted", map[string]any{"product_id": id})
	s.publish(ctx, domain.NewProductDeletedEvent(id))
	return nil
}

// publish is best-effort: catalog mutations must not fail because the broker
// is unavailable.
func (s *ProductService) publish(ctx context.Context, event domain.Event) {
	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(ctx, event); err != nil {
		logger.Error(ctx, "product: event publish failed", err, map[string]any{
			"event": event.GetName(),
		})
	}
}

// lockID serializes mutations of a single identifier within this process.
// One backend is wired per process, so an in-process lock is sufficient.
func (s *ProductService) lockID(id domain.ID) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func toProduct(request *dto.ProductRequest) (*domain.Product, error) {
	category, ok := domain.ParseCategory(request.Category)
	if !ok {
		return nil, serviceerrors.NewInvalidRequestError(fmt.Sprintf("unknown category %q", request.Category))
	}
	return domain.NewProduct(request.Name, request.Description, category, request.Price, request.Quantity), nil
}

func notFound(id domain.ID) error {
	return serviceerrors.NewNotFoundError(fmt.Sprintf("product %d not found", id))
}
