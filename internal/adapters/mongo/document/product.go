package document

import (
	"time"

	"products-service/internal/core/domain"
)

// ProductDocument reuses the document key as the integer product identifier.
// Timestamps are explicit fields because the store does not maintain them.
type ProductDocument struct {
	ID          int64     `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	Category    string    `bson:"category"`
	Price       float64   `bson:"price"`
	Quantity    int       `bson:"quantity"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (doc ProductDocument) GetID() int64 {
	return doc.ID
}

func (doc *ProductDocument) ToDomain() *domain.StoredProduct {
	return &domain.StoredProduct{
		Product: domain.Product{
			Name:        doc.Name,
			Description: doc.Description,
			Category:    domain.Category(doc.Category),
			Price:       doc.Price,
			Quantity:    doc.Quantity,
		},
		ID:        domain.ID(doc.ID),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func ToProductDocument(id domain.ID, p *domain.Product, createdAt, updatedAt time.Time) *ProductDocument {
	return &ProductDocument{
		ID:          int64(id),
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		Price:       p.Price,
		Quantity:    p.Quantity,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}
