package repository

import (
	"context"
	"time"

	"products-service/internal/adapters/mongo/document"
	"products-service/internal/core/domain"
	"products-service/internal/core/port"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository is the document backend. The store has no native
// auto-increment, so identifiers come from an atomic sequence counter and
// audit timestamps are maintained by the repository itself.
type ProductRepository struct {
	*BaseRepository[document.ProductDocument]
	collection *mongo.Collection
	sequence   *sequence
}

func NewProductRepository(db *mongo.Database) port.ProductRepository {
	return &ProductRepository{
		BaseRepository: NewBaseRepository[document.ProductDocument](db, "products"),
		collection:     db.Collection("products"),
		sequence:       newSequence(db),
	}
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.StoredProduct, error) {
	docs, err := r.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	products := make([]*domain.StoredProduct, len(docs))
	for i, doc := range docs {
		products[i] = doc.ToDomain()
	}

	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id domain.ID) (*domain.StoredProduct, error) {
	doc, err := r.FindByID(ctx, int64(id))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	return doc.ToDomain(), nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.StoredProduct, error) {
	id, err := r.sequence.Next(ctx, "products")
	if err != nil {
		return nil, err
	}

	// BSON stores times at millisecond precision; truncate so the value
	// returned here matches what later reads produce.
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := document.ToProductDocument(domain.ID(id), product, now, now)

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, parseError(err)
	}

	return doc.ToDomain(), nil
}

func (r *ProductRepository) Update(ctx context.Context, id domain.ID, product *domain.Product) (*domain.StoredProduct, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": int64(id)},
		bson.M{"$set": bson.M{
			"name":        product.Name,
			"description": product.Description,
			"category":    string(product.Category),
			"price":       product.Price,
			"quantity":    product.Quantity,
			"updated_at":  now,
		}},
	)
	if err != nil {
		return nil, parseError(err)
	}

	// MatchedCount, not ModifiedCount: writing values identical to the
	// stored ones is still a successful update.
	if result.MatchedCount == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

func (r *ProductRepository) Delete(ctx context.Context, id domain.ID) (bool, error) {
	return r.DeleteByID(ctx, int64(id))
}
