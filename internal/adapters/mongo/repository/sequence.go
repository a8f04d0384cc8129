package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sequence hands out monotonically increasing int64 identifiers backed by a
// counter document. The $inc upsert is atomic on the server, so concurrent
// creates never observe the same value.
type sequence struct {
	counters *mongo.Collection
}

func newSequence(db *mongo.Database) *sequence {
	return &sequence{counters: db.Collection("counters")}
}

func (s *sequence) Next(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %q: %w", name, err)
	}

	return counter.Seq, nil
}
