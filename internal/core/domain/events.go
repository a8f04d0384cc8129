package domain

import "time"

type Event interface {
	GetName() string
	GetEntityName() string
}

type ProductCreatedEvent struct {
	ProductID ID        `json:"product_id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *ProductCreatedEvent) GetName() string {
	return "product.created"
}

func (e *ProductCreatedEvent) GetEntityName() string {
	return "product"
}

func NewProductCreatedEvent(p *StoredProduct) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Quantity:  p.Quantity,
		CreatedAt: p.CreatedAt,
	}
}

type ProductUpdatedEvent struct {
	ProductID ID        `json:"product_id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *ProductUpdatedEvent) GetName() string {
	return "product.updated"
}

func (e *ProductUpdatedEvent) GetEntityName() string {
	return "product"
}

func NewProductUpdatedEvent(p *StoredProduct) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Quantity:  p.Quantity,
		UpdatedAt: p.UpdatedAt,
	}
}

type ProductDeletedEvent struct {
	ProductID ID `json:"product_id"`
}

func (e *ProductDeletedEvent) GetName() string {
	return "product.deleted"
}

func (e *ProductDeletedEvent) GetEntityName() string {
	return "product"
}

func NewProductDeletedEvent(id ID) *ProductDeletedEvent {
	return &ProductDeletedEvent{ProductID: id}
}

type ProductQuantityAdjustedEvent struct {
	ProductID   ID        `json:"product_id"`
	Delta       int       `json:"delta"`
	OldQuantity int       `json:"old_quantity"`
	NewQuantity int       `json:"new_quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e *ProductQuantityAdjustedEvent) GetName() string {
	return "product.quantity_adjusted"
}

func (e *ProductQuantityAdjustedEvent) GetEntityName() string {
	return "product"
}

func NewProductQuantityAdjustedEvent(p *StoredProduct, delta, oldQuantity int) *ProductQuantityAdjustedEvent {
	return &ProductQuantityAdjustedEvent{
		ProductID:   p.ID,
		Delta:       delta,
		OldQuantity: oldQuantity,
		NewQuantity: p.Quantity,
		UpdatedAt:   p.UpdatedAt,
	}
}
