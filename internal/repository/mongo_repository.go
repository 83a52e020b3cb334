package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/partial_cod/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrCartNotFound = errors.New("cart not found")

type mongoRepository struct {
	collection *mongo.Collection
}

func (m mongoRepository) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"_id": cartID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m mongoRepository) UpsertCart(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()

	// Set timestamps
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	filter := bson.M{"_id": cart.ID}
	update := bson.M{"$set": cart}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}

	return nil
}

// UpdateCarts applies a batch of partial updates. Only the fields set on each
// entry are touched; a non-nil ShippingMethods replaces the stored set.
func (m mongoRepository) UpdateCarts(ctx context.Context, updates []domain.CartUpdate) error {
	for _, u := range updates {
		fields := bson.M{"updated_at": time.Now()}
		if u.ShippingMethods != nil {
			fields["shipping_methods"] = *u.ShippingMethods
		}
		for key, value := range u.Metadata {
			fields["metadata."+key] = value
		}

		filter := bson.M{"_id": u.ID}
		result, err := m.collection.UpdateOne(ctx, filter, bson.M{"$set": fields})
		if err != nil {
			return fmt.Errorf("failed to update cart %s: %w", u.ID, err)
		}
		if result.MatchedCount == 0 {
			return ErrCartNotFound
		}
	}

	return nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func NewMongoRepository(db *mongo.Database) CartRepository {
	return &mongoRepository{
		collection: db.Collection("carts"),
	}
}
