package repo

import (
	"time"

	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
)

// документы общие для mongo и файлового хранилища

type orderDocument struct {
	ID            string           `bson:"_id" json:"id"`
	OwnerID       string           `bson:"owner_id" json:"owner_id"`
	Items         []itemDocument   `bson:"items" json:"items"`
	Shipping      shippingDocument `bson:"shipping" json:"shipping"`
	PaymentMethod string           `bson:"payment_method" json:"payment_method"`
	Total         float64          `bson:"total" json:"total"`
	Status        string           `bson:"status" json:"status"`
	CreatedAt     time.Time        `bson:"created_at" json:"created_at"`
}

type itemDocument struct {
	ProductID int     `bson:"product_id" json:"product_id"`
	Title     string  `bson:"title" json:"title"`
	UnitPrice float64 `bson:"unit_price" json:"unit_price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Category  string  `bson:"category,omitempty" json:"category,omitempty"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
}

type shippingDocument struct {
	FullName   string `bson:"full_name" json:"full_name"`
	Phone      string `bson:"phone" json:"phone"`
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postal_code" json:"postal_code"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
}

type userDocument struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"password_hash"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

func orderToDocument(o entities.Order) orderDocument {
	items := make([]itemDocument, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemDocument{
			ProductID: it.ProductID,
			Title:     it.Title,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Category:  it.Category,
			Image:     it.Image,
		})
	}

	return orderDocument{
		ID:      o.ID,
		OwnerID: o.OwnerID,
		Items:   items,
		Shipping: shippingDocument{
			FullName:   o.Shipping.FullName,
			Phone:      o.Shipping.Phone,
			Address:    o.Shipping.Address,
			City:       o.Shipping.City,
			PostalCode: o.Shipping.PostalCode,
			State:      o.Shipping.State,
		},
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
}

func documentToOrder(d orderDocument) entities.Order {
	var items []entities.Item
	if len(d.Items) > 0 {
		items = make([]entities.Item, 0, len(d.Items))
		for _, it := range d.Items {
			items = append(items, entities.Item{
				ProductID: it.ProductID,
				Title:     it.Title,
				UnitPrice: it.UnitPrice,
				Quantity:  it.Quantity,
				Category:  it.Category,
				Image:     it.Image,
			})
		}
	}

	return entities.Order{
		ID:      d.ID,
		OwnerID: d.OwnerID,
		Items:   items,
		Shipping: entities.ShippingInfo{
			FullName:   d.Shipping.FullName,
			Phone:      d.Shipping.Phone,
			Address:    d.Shipping.Address,
			City:       d.Shipping.City,
			PostalCode: d.Shipping.PostalCode,
			State:      d.Shipping.State,
		},
		PaymentMethod: d.PaymentMethod,
		Total:         d.Total,
		Status:        entities.Status(d.Status),
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

func userToDocument(u entities.User) userDocument {
	return userDocument{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func documentToUser(d userDocument) entities.User {
	return entities.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}
