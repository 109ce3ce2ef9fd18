package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type store interface {
	SaveOrder(ctx context.Context, o entities.Order) error
	OrdersByOwner(ctx context.Context, ownerID string) ([]entities.Order, error)
	OrderByID(ctx context.Context, orderID string) (entities.Order, error)
	CreateUser(ctx context.Context, u entities.User) error
	UserByEmail(ctx context.Context, email string) (entities.User, error)
}

func testOrder(id, owner string, createdAt time.Time) entities.Order {
	return entities.Order{
		ID:      id,
		OwnerID: owner,
		Items: []entities.Item{
			{ProductID: 1, Title: "Headphones", UnitPrice: 59.99, Quantity: 2, Category: "Electronics", Image: "img.png"},
			{ProductID: 5, Title: "Lamp", UnitPrice: 15, Quantity: 1},
		},
		Shipping: entities.ShippingInfo{
			FullName:   "John Doe",
			Phone:      "+15550000000",
			Address:    "1 Main St",
			City:       "Springfield",
			PostalCode: "12345",
			State:      "IL",
		},
		PaymentMethod: "card",
		Total:         134.98,
		Status:        entities.StatusProcessing,
		CreatedAt:     createdAt,
	}
}

// runStoreContract проверяет поведение, общее для всех бэкендов.
func runStoreContract(t *testing.T, newStore func(t *testing.T) store) {
	ctx := context.Background()
	base := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

	t.Run("save and get order", func(t *testing.T) {
		s := newStore(t)
		want := testOrder("o-1", "owner-1", base)

		require.NoError(t, s.SaveOrder(ctx, want))

		got, err := s.OrderByID(ctx, "o-1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		s := newStore(t)
		first := testOrder("o-1", "owner-1", base)
		require.NoError(t, s.SaveOrder(ctx, first))

		second := testOrder("o-1", "owner-2", base.Add(time.Hour))
		assert.ErrorIs(t, s.SaveOrder(ctx, second), entities.ErrOrderExists)

		got, err := s.OrderByID(ctx, "o-1")
		require.NoError(t, err)
		assert.Equal(t, first, got)
	})

	t.Run("state is optional", func(t *testing.T) {
		s := newStore(t)
		want := testOrder("o-1", "owner-1", base)
		want.Shipping.State = ""
		require.NoError(t, s.SaveOrder(ctx, want))

		got, err := s.OrderByID(ctx, "o-1")
		require.NoError(t, err)
		assert.Equal(t, want.Shipping, got.Shipping)
	})

	t.Run("order not found", func(t *testing.T) {
		s := newStore(t)

		_, err := s.OrderByID(ctx, "missing")
		assert.ErrorIs(t, err, entities.ErrOrderNotFound)
	})

	t.Run("list by owner is scoped and newest first", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveOrder(ctx, testOrder("o-1", "owner-1", base)))
		require.NoError(t, s.SaveOrder(ctx, testOrder("o-2", "owner-2", base.Add(time.Hour))))
		require.NoError(t, s.SaveOrder(ctx, testOrder("o-3", "owner-1", base.Add(2*time.Hour))))

		got, err := s.OrdersByOwner(ctx, "owner-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "o-3", got[0].ID)
		assert.Equal(t, "o-1", got[1].ID)
	})

	t.Run("unknown owner yields empty list", func(t *testing.T) {
		s := newStore(t)

		got, err := s.OrdersByOwner(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("returned orders are copies", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveOrder(ctx, testOrder("o-1", "owner-1", base)))

		got, err := s.OrderByID(ctx, "o-1")
		require.NoError(t, err)
		got.Items[0].Quantity = 100

		again, err := s.OrderByID(ctx, "o-1")
		require.NoError(t, err)
		assert.Equal(t, 2, again.Items[0].Quantity)
	})

	t.Run("users", func(t *testing.T) {
		s := newStore(t)
		user := entities.User{
			ID:           "u-1",
			Name:         "John",
			Email:        "john@example.com",
			PasswordHash: "hash",
			CreatedAt:    base,
		}

		require.NoError(t, s.CreateUser(ctx, user))
		assert.ErrorIs(t, s.CreateUser(ctx, user), entities.ErrUserExists)

		got, err := s.UserByEmail(ctx, "john@example.com")
		require.NoError(t, err)
		assert.Equal(t, user, got)

		_, err = s.UserByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, entities.ErrUserNotFound)
	})
}
