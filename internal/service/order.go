package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/SergeyBogomolovv/storefront-service/internal/analytics"
	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
	"github.com/SergeyBogomolovv/storefront-service/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type OrderRepo interface {
	SaveOrder(ctx context.Context, o entities.Order) error
	// Порядок заказов не гарантируется
	OrdersByOwner(ctx context.Context, ownerID string) ([]entities.Order, error)
	OrderByID(ctx context.Context, orderID string) (entities.Order, error)
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

var retryConfig = utils.RetryConfig{
	InitialDelay: 100 * time.Millisecond,
	MaxAttempts:  5,
	Multiplier:   2,
}

type orderService struct {
	logger   *slog.Logger
	validate *validator.Validate
	repo     OrderRepo
	cache    Cache
}

func NewOrderService(logger *slog.Logger, repo OrderRepo, cache Cache) *orderService {
	return &orderService{
		logger:   logger.With(slog.String("service", "order")),
		validate: validator.New(),
		repo:     repo,
		cache:    cache,
	}
}

// PlaceOrder проверяет данные оформления, присваивает заказу id, время
// создания и сумму, посчитанную по позициям, и сохраняет его.
func (s *orderService) PlaceOrder(ctx context.Context, ownerID string, in entities.OrderInput) (entities.Order, error) {
	if strings.TrimSpace(ownerID) == "" {
		return entities.Order{}, &entities.ValidationError{Fields: map[string]string{"OwnerID": "required"}}
	}

	in = normalizeInput(in)
	if err := s.validate.Struct(in); err != nil {
		return entities.Order{}, toValidationError(err)
	}

	items := make([]entities.Item, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, it.Item())
	}

	order := entities.Order{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Items:         items,
		Shipping:      in.Shipping,
		PaymentMethod: in.PaymentMethod,
		Status:        entities.StatusProcessing,
		CreatedAt:     time.Now().UTC(),
	}
	order.Total = order.ItemsTotal().InexactFloat64()

	attempt := 0
	fn := func() error {
		attempt++
		err := s.repo.SaveOrder(ctx, order)
		// id уникален, значит при повторе заказ уже записан предыдущей попыткой
		if attempt > 1 && errors.Is(err, entities.ErrOrderExists) {
			return nil
		}
		return err
	}
	if err := utils.Retry(ctx, retryConfig, fn, entities.ErrOrderExists); err != nil {
		return entities.Order{}, fmt.Errorf("failed to save order: %w", err)
	}

	s.cache.Delete(snapshotKey(ownerID))
	ordersPlaced.Inc()

	s.logger.Debug("order placed", slog.String("order_id", order.ID), slog.String("owner_id", ownerID))
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, ownerID string) ([]entities.Order, error) {
	var orders []entities.Order
	fn := func() error {
		var err error
		orders, err = s.repo.OrdersByOwner(ctx, ownerID)
		return err
	}
	if err := utils.Retry(ctx, retryConfig, fn); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []entities.Order{}
	}
	return orders, nil
}

// GetOrder возвращает заказ владельца. Чужой заказ неотличим от отсутствующего.
func (s *orderService) GetOrder(ctx context.Context, ownerID, orderID string) (entities.Order, error) {
	var order entities.Order
	fn := func() error {
		var err error
		order, err = s.repo.OrderByID(ctx, orderID)
		return err
	}
	if err := utils.Retry(ctx, retryConfig, fn, entities.ErrOrderNotFound); err != nil {
		return entities.Order{}, err
	}

	if order.OwnerID != ownerID {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return order, nil
}

// Overview считает статистику по всем заказам владельца. Результат
// кешируется до следующего заказа владельца или истечения TTL кеша.
func (s *orderService) Overview(ctx context.Context, ownerID string) (entities.Snapshot, error) {
	key := snapshotKey(ownerID)

	if data, ok := s.cache.Get(key); ok {
		var snapshot entities.Snapshot
		err := snapshot.Unmarshal(data)
		if err == nil {
			snapshotCacheHits.Inc()
			return snapshot, nil
		}
		s.logger.Warn("failed to unmarshal cached snapshot", slog.String("owner_id", ownerID), slog.Any("error", err))
	}
	snapshotCacheMisses.Inc()

	orders, err := s.ListOrders(ctx, ownerID)
	if err != nil {
		return entities.Snapshot{}, err
	}

	snapshot, err := analytics.Summarize(orders)
	if err != nil {
		return entities.Snapshot{}, fmt.Errorf("failed to summarize orders: %w", err)
	}

	data, err := snapshot.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal snapshot", slog.String("owner_id", ownerID), slog.Any("error", err))
		return snapshot, nil
	}
	s.cache.Set(key, data)

	return snapshot, nil
}

func snapshotKey(ownerID string) string {
	return "analytics:" + ownerID
}

func normalizeInput(in entities.OrderInput) entities.OrderInput {
	in.Items = slices.Clone(in.Items)
	for i := range in.Items {
		in.Items[i].Title = strings.TrimSpace(in.Items[i].Title)
		in.Items[i].Category = strings.TrimSpace(in.Items[i].Category)
	}

	in.Shipping = entities.ShippingInfo{
		FullName:   strings.TrimSpace(in.Shipping.FullName),
		Phone:      strings.TrimSpace(in.Shipping.Phone),
		Address:    strings.TrimSpace(in.Shipping.Address),
		City:       strings.TrimSpace(in.Shipping.City),
		PostalCode: strings.TrimSpace(in.Shipping.PostalCode),
		State:      strings.TrimSpace(in.Shipping.State),
	}
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	return in
}
