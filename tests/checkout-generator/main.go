package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type Item struct {
	ProductID int     `json:"product_id"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Category  string  `json:"category"`
	Image     string  `json:"image"`
}

type Shipping struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

type Checkout struct {
	OwnerID       string   `json:"owner_id"`
	Items         []Item   `json:"items"`
	Shipping      Shipping `json:"shipping"`
	PaymentMethod string   `json:"payment_method"`
}

var catalog = []Item{
	{ProductID: 1, Title: "Wireless Headphones", UnitPrice: 59.99, Category: "Electronics"},
	{ProductID: 2, Title: "Smart Watch", UnitPrice: 129.5, Category: "Electronics"},
	{ProductID: 3, Title: "Cotton T-Shirt", UnitPrice: 15, Category: "Fashion"},
	{ProductID: 4, Title: "Desk Lamp", UnitPrice: 24.9, Category: "Home"},
	{ProductID: 5, Title: "Yoga Mat", UnitPrice: 19.99, Category: "Sports"},
	{ProductID: 6, Title: "Mystery Box", UnitPrice: 9.99, Category: ""},
}

var paymentMethods = []string{"card", "paypal", "cod"}

func generateCheckout(owners []string) Checkout {
	items := make([]Item, 0, 3)
	for range rand.Intn(3) + 1 {
		it := catalog[rand.Intn(len(catalog))]
		it.Quantity = rand.Intn(4) + 1
		items = append(items, it)
	}

	// Каждое десятое сообщение невалидно и должно уйти в DLQ
	if rand.Intn(10) == 0 {
		items[0].Quantity = 0
	}

	return Checkout{
		OwnerID: owners[rand.Intn(len(owners))],
		Items:   items,
		Shipping: Shipping{
			FullName:   "John Doe",
			Phone:      fmt.Sprintf("+1555%07d", rand.Intn(9999999)),
			Address:    fmt.Sprintf("%d Main St", rand.Intn(100)+1),
			City:       "Springfield",
			PostalCode: fmt.Sprintf("%05d", rand.Intn(99999)),
		},
		PaymentMethod: paymentMethods[rand.Intn(len(paymentMethods))],
	}
}

func main() {
	brokers := flag.String("brokers", "localhost:9092", "kafka broker address")
	topic := flag.String("topic", "checkouts", "checkout topic")
	ownersCount := flag.Int("owners", 5, "number of distinct owners")
	interval := flag.Duration("interval", 2*time.Second, "delay between messages")
	flag.Parse()

	owners := make([]string, *ownersCount)
	for i := range owners {
		owners[i] = uuid.NewString()
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(*brokers),
		Topic:                  *topic,
		AllowAutoTopicCreation: true,
	}
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			checkout := generateCheckout(owners)
			data, _ := json.Marshal(checkout)
			if err := writer.WriteMessages(ctx, kafka.Message{Key: []byte(checkout.OwnerID), Value: data}); err != nil {
				log.Println("failed to write checkout:", err)
				continue
			}
			log.Println("checkout generated for", checkout.OwnerID)
		case <-ctx.Done():
			return
		}
	}
}
