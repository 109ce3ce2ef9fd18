package handler

import (
	"time"

	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
)

// Item позиция заказа
type Item struct {
	ProductID int     `json:"productId"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Category  string  `json:"category,omitempty"`
	Image     string  `json:"image,omitempty"`
}

// ItemRequest позиция в запросе оформления, unitPrice обязателен
type ItemRequest struct {
	ProductID int      `json:"productId"`
	Title     string   `json:"title"`
	UnitPrice *float64 `json:"unitPrice"`
	Quantity  int      `json:"quantity"`
	Category  string   `json:"category,omitempty"`
	Image     string   `json:"image,omitempty"`
}

// Shipping данные доставки
type Shipping struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	State      string `json:"state,omitempty"`
}

// OrderRequest данные оформления заказа
type OrderRequest struct {
	Items         []ItemRequest `json:"items"`
	Shipping      Shipping      `json:"shipping"`
	PaymentMethod string        `json:"paymentMethod"`
}

// Order сохранённый заказ
type Order struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	Items         []Item    `json:"items"`
	Shipping      Shipping  `json:"shipping"`
	PaymentMethod string    `json:"paymentMethod"`
	Total         float64   `json:"total"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type OrdersResponse struct {
	Orders []Order `json:"orders"`
}

type MonthlySales struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

type CategoryQuantity struct {
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

// Overview статистика по заказам пользователя
type Overview struct {
	TotalOrders       int                `json:"totalOrders"`
	TotalRevenue      float64            `json:"totalRevenue"`
	AverageOrderValue float64            `json:"averageOrderValue"`
	MonthlySales      []MonthlySales     `json:"monthlySales"`
	CategoryBreakdown []CategoryQuantity `json:"categoryBreakdown"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User пользователь без хеша пароля
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func ItemEntityToJSON(i entities.Item) Item {
	return Item{
		ProductID: i.ProductID,
		Title:     i.Title,
		UnitPrice: i.UnitPrice,
		Quantity:  i.Quantity,
		Category:  i.Category,
		Image:     i.Image,
	}
}

func ItemRequestToEntity(i ItemRequest) entities.ItemInput {
	return entities.ItemInput{
		ProductID: i.ProductID,
		Title:     i.Title,
		UnitPrice: i.UnitPrice,
		Quantity:  i.Quantity,
		Category:  i.Category,
		Image:     i.Image,
	}
}

func ShippingEntityToJSON(s entities.ShippingInfo) Shipping {
	return Shipping{
		FullName:   s.FullName,
		Phone:      s.Phone,
		Address:    s.Address,
		City:       s.City,
		PostalCode: s.PostalCode,
		State:      s.State,
	}
}

func ShippingJSONToEntity(s Shipping) entities.ShippingInfo {
	return entities.ShippingInfo{
		FullName:   s.FullName,
		Phone:      s.Phone,
		Address:    s.Address,
		City:       s.City,
		PostalCode: s.PostalCode,
		State:      s.State,
	}
}

func OrderRequestToEntity(o OrderRequest) entities.OrderInput {
	var items []entities.ItemInput
	if o.Items != nil {
		items = make([]entities.ItemInput, 0, len(o.Items))
	}
	for _, it := range o.Items {
		items = append(items, ItemRequestToEntity(it))
	}

	return entities.OrderInput{
		Items:         items,
		Shipping:      ShippingJSONToEntity(o.Shipping),
		PaymentMethod: o.PaymentMethod,
	}
}

func OrderEntityToJSON(o entities.Order) Order {
	items := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemEntityToJSON(it))
	}

	return Order{
		ID:            o.ID,
		OwnerID:       o.OwnerID,
		Items:         items,
		Shipping:      ShippingEntityToJSON(o.Shipping),
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
}

func OrdersEntityToJSON(orders []entities.Order) []Order {
	res := make([]Order, 0, len(orders))
	for _, o := range orders {
		res = append(res, OrderEntityToJSON(o))
	}
	return res
}

// SnapshotToJSON всегда отдаёт пустые ряды как [], а не null.
func SnapshotToJSON(s entities.Snapshot) Overview {
	monthly := make([]MonthlySales, 0, len(s.MonthlySales))
	for _, m := range s.MonthlySales {
		monthly = append(monthly, MonthlySales{Month: m.Month, Total: m.Total})
	}

	categories := make([]CategoryQuantity, 0, len(s.CategoryBreakdown))
	for _, c := range s.CategoryBreakdown {
		categories = append(categories, CategoryQuantity{Category: c.Category, Quantity: c.Quantity})
	}

	return Overview{
		TotalOrders:       s.TotalOrders,
		TotalRevenue:      s.TotalRevenue,
		AverageOrderValue: s.AverageOrderValue,
		MonthlySales:      monthly,
		CategoryBreakdown: categories,
	}
}

func UserEntityToJSON(u entities.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
