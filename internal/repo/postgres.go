package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
	"github.com/SergeyBogomolovv/storefront-service/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

var (
	orderColumns = []string{
		"id", "owner_id", "payment_method", "total", "status",
		"shipping_full_name", "shipping_phone", "shipping_address",
		"shipping_city", "shipping_postal_code", "shipping_state", "created_at",
	}
	itemColumns = []string{
		"order_id", "position", "product_id", "title",
		"unit_price", "quantity", "category", "image",
	}
	userColumns = []string{"id", "name", "email", "password_hash", "created_at"}
)

type postgresRepo struct {
	db        *sqlx.DB
	txManager trm.Manager
	qb        sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB, txManager trm.Manager) *postgresRepo {
	return &postgresRepo{
		db:        db,
		txManager: txManager,
		qb:        sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *postgresRepo) SaveOrder(ctx context.Context, o entities.Order) error {
	return r.txManager.Do(ctx, func(ctx context.Context) error {
		query, args := r.qb.Insert("orders").
			Columns(orderColumns...).
			Values(
				o.ID, o.OwnerID, o.PaymentMethod, o.Total, string(o.Status),
				o.Shipping.FullName, o.Shipping.Phone, o.Shipping.Address,
				o.Shipping.City, o.Shipping.PostalCode, nullString(o.Shipping.State), o.CreatedAt,
			).
			MustSql()

		_, err := r.querier(ctx).ExecContext(ctx, query, args...)
		if isUniqueViolation(err) {
			return entities.ErrOrderExists
		}
		if err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}

		if err := r.saveItems(ctx, o.ID, o.Items); err != nil {
			return err
		}
		return nil
	})
}

func (r *postgresRepo) saveItems(ctx context.Context, orderID string, items []entities.Item) error {
	if len(items) == 0 {
		return nil
	}

	q := r.qb.Insert("order_items").Columns(itemColumns...)
	for i, it := range items {
		q = q.Values(
			orderID, i, it.ProductID, it.Title,
			it.UnitPrice, it.Quantity, nullString(it.Category), nullString(it.Image),
		)
	}

	query, args := q.MustSql()
	if _, err := r.querier(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save items: %w", err)
	}
	return nil
}

func (r *postgresRepo) OrdersByOwner(ctx context.Context, ownerID string) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		MustSql()

	var orders []Order
	if err := r.querier(ctx).SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}

	if len(orders) == 0 {
		return []entities.Order{}, nil
	}

	ids := make([]string, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}

	itemsMap, err := r.itemsByOrders(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]entities.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, OrderToEntity(order, itemsMap[order.ID]))
	}
	return result, nil
}

func (r *postgresRepo) OrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID}).
		MustSql()

	var order Order
	err := r.querier(ctx).GetContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	itemsMap, err := r.itemsByOrders(ctx, []string{orderID})
	if err != nil {
		return entities.Order{}, err
	}

	return OrderToEntity(order, itemsMap[orderID]), nil
}

func (r *postgresRepo) itemsByOrders(ctx context.Context, orderIDs []string) (map[string][]Item, error) {
	query, args := r.qb.Select(itemColumns...).
		From("order_items").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("order_id", "position").
		MustSql()

	var items []Item
	if err := r.querier(ctx).SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}

	itemsMap := make(map[string][]Item, len(orderIDs))
	for _, item := range items {
		itemsMap[item.OrderID] = append(itemsMap[item.OrderID], item)
	}
	return itemsMap, nil
}

func (r *postgresRepo) CreateUser(ctx context.Context, u entities.User) error {
	query, args := r.qb.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt).
		MustSql()

	_, err := r.querier(ctx).ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return entities.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresRepo) UserByEmail(ctx context.Context, email string) (entities.User, error) {
	query, args := r.qb.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email}).
		MustSql()

	var user User
	err := r.querier(ctx).GetContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.User{}, entities.ErrUserNotFound
	}
	if err != nil {
		return entities.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return UserToEntity(user), nil
}

func (r *postgresRepo) querier(ctx context.Context) trm.Querier {
	return trm.QuerierFrom(ctx, r.db)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
