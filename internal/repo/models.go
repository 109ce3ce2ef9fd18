package repo

import (
	"database/sql"
	"time"

	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
)

type Order struct {
	ID                 string         `db:"id"`
	OwnerID            string         `db:"owner_id"`
	PaymentMethod      string         `db:"payment_method"`
	Total              float64        `db:"total"`
	Status             string         `db:"status"`
	ShippingFullName   string         `db:"shipping_full_name"`
	ShippingPhone      string         `db:"shipping_phone"`
	ShippingAddress    string         `db:"shipping_address"`
	ShippingCity       string         `db:"shipping_city"`
	ShippingPostalCode string         `db:"shipping_postal_code"`
	ShippingState      sql.NullString `db:"shipping_state"`
	CreatedAt          time.Time      `db:"created_at"`
}

type Item struct {
	OrderID   string         `db:"order_id"`
	Position  int            `db:"position"`
	ProductID int            `db:"product_id"`
	Title     string         `db:"title"`
	UnitPrice float64        `db:"unit_price"`
	Quantity  int            `db:"quantity"`
	Category  sql.NullString `db:"category"`
	Image     sql.NullString `db:"image"`
}

type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func ItemToEntity(i Item) entities.Item {
	return entities.Item{
		ProductID: i.ProductID,
		Title:     i.Title,
		UnitPrice: i.UnitPrice,
		Quantity:  i.Quantity,
		Category:  nullStringToString(i.Category),
		Image:     nullStringToString(i.Image),
	}
}

func OrderToEntity(o Order, items []Item) entities.Order {
	order := entities.Order{
		ID:            o.ID,
		OwnerID:       o.OwnerID,
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total,
		Status:        entities.Status(o.Status),
		CreatedAt:     o.CreatedAt.UTC(),
		Shipping: entities.ShippingInfo{
			FullName:   o.ShippingFullName,
			Phone:      o.ShippingPhone,
			Address:    o.ShippingAddress,
			City:       o.ShippingCity,
			PostalCode: o.ShippingPostalCode,
			State:      nullStringToString(o.ShippingState),
		},
	}

	if len(items) > 0 {
		order.Items = make([]entities.Item, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, ItemToEntity(it))
		}
	}

	return order
}

func UserToEntity(u User) entities.User {
	return entities.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
