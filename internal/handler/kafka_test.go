package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
	mocks "github.com/SergeyBogomolovv/storefront-service/internal/handler/mocks"
	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func price(v float64) *float64 {
	return &v
}

func newTestKafkaHandler(placer OrderPlacer, dlq messageWriter) *kafkaHandler {
	return &kafkaHandler{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		validate: validator.New(),
		placer:   placer,
		dlq:      dlq,
	}
}

const validCheckout = `{
	"owner_id":"owner-1",
	"items":[{"product_id":7,"title":"Lamp","unit_price":20.5,"quantity":2,"category":"Home"}],
	"shipping":{"full_name":"John Doe","phone":"+15550000000","address":"1 Main St","city":"Springfield","postal_code":"12345"},
	"payment_method":"card"
}`

func TestKafkaHandler_handleMessage(t *testing.T) {
	wantInput := entities.OrderInput{
		Items: []entities.ItemInput{{ProductID: 7, Title: "Lamp", UnitPrice: price(20.5), Quantity: 2, Category: "Home"}},
		Shipping: entities.ShippingInfo{
			FullName:   "John Doe",
			Phone:      "+15550000000",
			Address:    "1 Main St",
			City:       "Springfield",
			PostalCode: "12345",
		},
		PaymentMethod: "card",
	}

	testCases := []struct {
		name         string
		value        string
		mockBehavior func(placer *mocks.MockOrderPlacer)
		wantDLQ      bool
	}{
		{
			name:  "placed",
			value: validCheckout,
			mockBehavior: func(placer *mocks.MockOrderPlacer) {
				placer.EXPECT().PlaceOrder(mock.Anything, "owner-1", wantInput).
					Return(entities.Order{ID: "order-1", OwnerID: "owner-1"}, nil).Once()
			},
		},
		{
			name:         "broken json",
			value:        `{"owner_id":`,
			mockBehavior: func(_ *mocks.MockOrderPlacer) {},
			wantDLQ:      true,
		},
		{
			name:         "missing owner",
			value:        `{"items":[{"title":"Lamp","quantity":1}]}`,
			mockBehavior: func(_ *mocks.MockOrderPlacer) {},
			wantDLQ:      true,
		},
		{
			name:         "missing unit price",
			value:        `{"owner_id":"owner-1","items":[{"title":"Lamp","quantity":1}],"payment_method":"card"}`,
			mockBehavior: func(_ *mocks.MockOrderPlacer) {},
			wantDLQ:      true,
		},
		{
			name:  "rejected by service",
			value: validCheckout,
			mockBehavior: func(placer *mocks.MockOrderPlacer) {
				placer.EXPECT().PlaceOrder(mock.Anything, "owner-1", wantInput).
					Return(entities.Order{}, &entities.ValidationError{Fields: map[string]string{"PaymentMethod": "required"}}).Once()
			},
			wantDLQ: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			placer := mocks.NewMockOrderPlacer(t)
			tc.mockBehavior(placer)
			dlq := &fakeWriter{}

			h := newTestKafkaHandler(placer, dlq)
			h.handleMessage(context.Background(), kafka.Message{
				Topic: "checkouts",
				Key:   []byte("k"),
				Value: []byte(tc.value),
			})

			if !tc.wantDLQ {
				assert.Empty(t, dlq.msgs)
				return
			}
			require.Len(t, dlq.msgs, 1)
			assert.Equal(t, "checkouts-dlq", dlq.msgs[0].Topic)
			assert.Equal(t, []byte(tc.value), dlq.msgs[0].Value)
		})
	}
}

func TestKafkaHandler_DLQFailure(t *testing.T) {
	dlq := &fakeWriter{err: errors.New("broker unavailable")}
	h := newTestKafkaHandler(mocks.NewMockOrderPlacer(t), dlq)

	assert.NotPanics(t, func() {
		h.handleMessage(context.Background(), kafka.Message{Topic: "checkouts", Value: []byte("{")})
	})
	assert.Empty(t, dlq.msgs)
}
