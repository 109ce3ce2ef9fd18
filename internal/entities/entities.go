package entities

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

type ShippingInfo struct {
	FullName   string `validate:"required"`
	Phone      string `validate:"required"`
	Address    string `validate:"required"`
	City       string `validate:"required"`
	PostalCode string `validate:"required"`
	State      string
}

type Item struct {
	ProductID int
	Title     string  `validate:"required"`
	UnitPrice float64 `validate:"gte=0"`
	Quantity  int     `validate:"gte=1"`
	Category  string
	Image     string
}

// Subtotal возвращает unitPrice * quantity без округления.
func (i Item) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(i.UnitPrice).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID            string
	OwnerID       string
	Items         []Item
	Shipping      ShippingInfo
	PaymentMethod string
	// Total хранится денормализованно, источником истины остаются Items
	Total     float64
	Status    Status
	CreatedAt time.Time
}

// ItemsTotal пересчитывает сумму заказа по позициям.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// ItemInput позиция в данных оформления. Цена обязательна: отсутствующее
// поле не должно превращаться в бесплатный товар.
type ItemInput struct {
	ProductID int
	Title     string   `validate:"required"`
	UnitPrice *float64 `validate:"required,gte=0"`
	Quantity  int      `validate:"gte=1"`
	Category  string
	Image     string
}

// Item переводит проверенную позицию в позицию заказа.
func (i ItemInput) Item() Item {
	var price float64
	if i.UnitPrice != nil {
		price = *i.UnitPrice
	}
	return Item{
		ProductID: i.ProductID,
		Title:     i.Title,
		UnitPrice: price,
		Quantity:  i.Quantity,
		Category:  i.Category,
		Image:     i.Image,
	}
}

// OrderInput данные оформления заказа, пришедшие от клиента
type OrderInput struct {
	Items         []ItemInput `validate:"required,min=1,dive"`
	Shipping      ShippingInfo
	PaymentMethod string `validate:"required"`
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderExists        = errors.New("order with this id already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidSnapshot    = errors.New("invalid snapshot data")
)

// ValidationError описывает ошибки по полям входных данных
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
