package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
	"github.com/SergeyBogomolovv/storefront-service/internal/middleware"
	"github.com/SergeyBogomolovv/storefront-service/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, ownerID string, in entities.OrderInput) (entities.Order, error)
	ListOrders(ctx context.Context, ownerID string) ([]entities.Order, error)
	GetOrder(ctx context.Context, ownerID, orderID string) (entities.Order, error)
	Overview(ctx context.Context, ownerID string) (entities.Snapshot, error)
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      OrderService
	tokens   middleware.TokenParser
}

func NewHTTPHandler(logger *slog.Logger, svc OrderService, tokens middleware.TokenParser) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		svc:      svc,
		tokens:   tokens,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.tokens))

		r.Get("/orders", h.ListOrders)
		r.Get("/orders/me", h.MyOrders)
		r.Post("/orders", h.PlaceOrder)
		r.Get("/orders/{order_id}", h.GetOrder)
		r.Get("/analytics/overview", h.Overview)
	})
}

// Health
// @Summary      Проверка доступности
// @Tags         health
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "OK"}, http.StatusOK)
}

// ListOrders возвращает заказы текущего пользователя.
// @Summary      Список заказов
// @Tags         orders
// @Security     BearerAuth
// @Success      200  {array}   Order
// @Failure      401  {object}  utils.ErrorResponse "Нет токена"
// @Failure      403  {object}  utils.ErrorResponse "Токен невалиден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /orders [get]
func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := middleware.IdentityFrom(ctx)

	orders, err := h.svc.ListOrders(ctx, id.UserID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to list orders")
		return
	}

	utils.WriteJSON(w, OrdersEntityToJSON(orders), http.StatusOK)
}

// MyOrders то же, что ListOrders, но в обёртке {"orders": [...]}, которую ждёт витрина.
// @Summary      Заказы текущего пользователя
// @Tags         orders
// @Security     BearerAuth
// @Success      200  {object}  OrdersResponse
// @Failure      401  {object}  utils.ErrorResponse "Нет токена"
// @Failure      403  {object}  utils.ErrorResponse "Токен невалиден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /orders/me [get]
func (h *HTTPHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := middleware.IdentityFrom(ctx)

	orders, err := h.svc.ListOrders(ctx, id.UserID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to list orders")
		return
	}

	utils.WriteJSON(w, OrdersResponse{Orders: OrdersEntityToJSON(orders)}, http.StatusOK)
}

// PlaceOrder оформляет заказ. Сумма считается на сервере.
// @Summary      Оформить заказ
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Param        order  body      OrderRequest  true  "Данные оформления"
// @Success      201  {object}  Order
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      401  {object}  utils.ErrorResponse "Нет токена"
// @Failure      403  {object}  utils.ErrorResponse "Токен невалиден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /orders [post]
func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := middleware.IdentityFrom(ctx)

	var req OrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.svc.PlaceOrder(ctx, id.UserID, OrderRequestToEntity(req))
	if err != nil {
		h.writeError(ctx, w, err, "failed to place order")
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
}

// GetOrder возвращает заказ текущего пользователя по ID.
// @Summary      Получить заказ по ID
// @Tags         orders
// @Security     BearerAuth
// @Param        order_id   path      string  true  "Идентификатор заказа"
// @Success      200  {object}  Order
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      404  {object}  utils.ErrorResponse "Заказ не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /orders/{order_id} [get]
func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := middleware.IdentityFrom(ctx)
	orderID := chi.URLParam(r, "order_id")

	if err := h.validate.Var(orderID, "required,uuid4"); err != nil {
		utils.WriteValidationFields(w, map[string]string{"order_id": "uuid4"})
		return
	}

	order, err := h.svc.GetOrder(ctx, id.UserID, orderID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to get order", slog.String("order_id", orderID))
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// Overview возвращает статистику по заказам текущего пользователя.
// @Summary      Аналитика заказов
// @Tags         analytics
// @Security     BearerAuth
// @Success      200  {object}  Overview
// @Failure      401  {object}  utils.ErrorResponse "Нет токена"
// @Failure      403  {object}  utils.ErrorResponse "Токен невалиден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /analytics/overview [get]
func (h *HTTPHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overviewRequestsInProgress.Inc()
	defer overviewRequestsInProgress.Dec()

	start := time.Now()
	status := http.StatusOK
	defer func() {
		overviewRequestTotal.WithLabelValues(strconv.Itoa(status)).Inc()
		overviewRequestDuration.Observe(time.Since(start).Seconds())
	}()

	ctx := r.Context()
	id, _ := middleware.IdentityFrom(ctx)

	snapshot, err := h.svc.Overview(ctx, id.UserID)
	if err != nil {
		status = h.writeError(ctx, w, err, "failed to build overview")
		return
	}

	utils.WriteJSON(w, SnapshotToJSON(snapshot), status)
}

// writeError пишет ответ по типу ошибки сервиса и возвращает статус.
func (h *HTTPHandler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string, attrs ...any) int {
	var ve *entities.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.WriteValidationFields(w, ve.Fields)
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return http.StatusNotFound
	}

	h.logger.ErrorContext(ctx, msg, append(attrs, slog.Any("error", err))...)
	utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	return http.StatusInternalServerError
}
