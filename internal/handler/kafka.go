package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SergeyBogomolovv/storefront-service/internal/config"
	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, ownerID string, in entities.OrderInput) (entities.Order, error)
}

// CheckoutItem позиция в сообщении оформления
type CheckoutItem struct {
	ProductID int      `json:"product_id"`
	Title     string   `json:"title"`
	UnitPrice *float64 `json:"unit_price" validate:"required"`
	Quantity  int      `json:"quantity"`
	Category  string   `json:"category,omitempty"`
	Image     string   `json:"image,omitempty"`
}

type CheckoutShipping struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	State      string `json:"state,omitempty"`
}

// Checkout сообщение оформления заказа из топика
type Checkout struct {
	OwnerID       string           `json:"owner_id" validate:"required"`
	Items         []CheckoutItem   `json:"items" validate:"required,min=1,dive"`
	Shipping      CheckoutShipping `json:"shipping"`
	PaymentMethod string           `json:"payment_method"`
}

func (c Checkout) toInput() entities.OrderInput {
	items := make([]entities.ItemInput, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, entities.ItemInput{
			ProductID: it.ProductID,
			Title:     it.Title,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Category:  it.Category,
			Image:     it.Image,
		})
	}

	return entities.OrderInput{
		Items: items,
		Shipping: entities.ShippingInfo{
			FullName:   c.Shipping.FullName,
			Phone:      c.Shipping.Phone,
			Address:    c.Shipping.Address,
			City:       c.Shipping.City,
			PostalCode: c.Shipping.PostalCode,
			State:      c.Shipping.State,
		},
		PaymentMethod: c.PaymentMethod,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaHandler struct {
	dlq      messageWriter
	reader   *kafka.Reader
	logger   *slog.Logger
	validate *validator.Validate
	placer   OrderPlacer
}

func NewKafkaHandler(logger *slog.Logger, cfg config.Kafka, placer OrderPlacer) *kafkaHandler {
	return &kafkaHandler{
		logger: logger.With(slog.String("handler", "kafka")),
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Brokers,
			GroupID: cfg.GroupID,
			Topic:   cfg.Topic,
			MaxWait: cfg.ReaderMaxWait,
		}),
		dlq: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.LeastBytes{},
			BatchTimeout:           cfg.BatchTimeout,
			AllowAutoTopicCreation: true,
		},
		validate: validator.New(),
		placer:   placer,
	}
}

func (h *kafkaHandler) Consume(ctx context.Context) {
	for {
		m, err := h.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				break
			}
			h.logger.Error("failed to fetch message", slog.Any("error", err))
			continue
		}

		h.handleMessage(ctx, m)

		if err := h.reader.CommitMessages(ctx, m); err != nil {
			commitErrors.Inc()
			h.logger.Error("failed to commit message", slog.Any("error", err))
		}
	}
}

// handleMessage оформляет заказ из сообщения, неудачные сообщения уходят в DLQ.
func (h *kafkaHandler) handleMessage(ctx context.Context, m kafka.Message) {
	checkoutsInProgress.Inc()
	defer checkoutsInProgress.Dec()

	start := time.Now()
	defer func() {
		checkoutProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	// В PlaceOrder уже есть retry
	err := h.handleCheckout(ctx, m)
	if err == nil {
		checkoutsProcessed.Inc()
		return
	}

	checkoutsFailed.Inc()
	h.logger.Error("failed to handle message", slog.Any("error", err), slog.Int64("offset", m.Offset))

	// В библиотеке уже есть retry
	if err := h.WriteToDLQ(ctx, m); err != nil {
		h.logger.Error("failed to write message to DLQ", slog.Any("error", err))
		return
	}
	checkoutsDLQ.Inc()
}

func (h *kafkaHandler) handleCheckout(ctx context.Context, m kafka.Message) error {
	var checkout Checkout
	if err := json.Unmarshal(m.Value, &checkout); err != nil {
		return fmt.Errorf("failed to unmarshal checkout: %w", err)
	}

	if err := h.validate.Struct(checkout); err != nil {
		return fmt.Errorf("invalid checkout data: %w", err)
	}

	order, err := h.placer.PlaceOrder(ctx, checkout.OwnerID, checkout.toInput())
	if err != nil {
		return err
	}

	h.logger.Debug("checkout placed", slog.String("order_id", order.ID), slog.String("owner_id", order.OwnerID))
	return nil
}

func (h *kafkaHandler) WriteToDLQ(ctx context.Context, m kafka.Message) error {
	dlqMsg := kafka.Message{
		Topic:   fmt.Sprintf("%s-dlq", m.Topic),
		Key:     m.Key,
		Value:   m.Value,
		Headers: m.Headers,
	}
	return h.dlq.WriteMessages(ctx, dlqMsg)
}

func (h *kafkaHandler) Close() error {
	if err := h.reader.Close(); err != nil {
		return err
	}
	return h.dlq.Close()
}
