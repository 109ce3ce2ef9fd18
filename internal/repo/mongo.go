package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeyBogomolovv/storefront-service/internal/entities"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ordersCollection = "orders"
	usersCollection  = "users"
)

type mongoRepo struct {
	orders *mongo.Collection
	users  *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *mongoRepo {
	return &mongoRepo{
		orders: db.Collection(ordersCollection),
		users:  db.Collection(usersCollection),
	}
}

// EnsureIndexes создаёт индекс по владельцу заказа и уникальный индекс email.
func (r *mongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create orders index: %w", err)
	}

	_, err = r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}
	return nil
}

func (r *mongoRepo) SaveOrder(ctx context.Context, o entities.Order) error {
	_, err := r.orders.InsertOne(ctx, orderToDocument(o))
	if mongo.IsDuplicateKeyError(err) {
		return entities.ErrOrderExists
	}
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (r *mongoRepo) OrdersByOwner(ctx context.Context, ownerID string) ([]entities.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.orders.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	result := make([]entities.Order, 0, len(docs))
	for _, d := range docs {
		result = append(result, documentToOrder(d))
	}
	return result, nil
}

func (r *mongoRepo) OrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	var doc orderDocument
	err := r.orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return documentToOrder(doc), nil
}

func (r *mongoRepo) CreateUser(ctx context.Context, u entities.User) error {
	_, err := r.users.InsertOne(ctx, userToDocument(u))
	if mongo.IsDuplicateKeyError(err) {
		return entities.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *mongoRepo) UserByEmail(ctx context.Context, email string) (entities.User, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entities.User{}, entities.ErrUserNotFound
	}
	if err != nil {
		return entities.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return documentToUser(doc), nil
}
