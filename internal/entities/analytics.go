package entities

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

type MonthlySales struct {
	Month string
	Total float64
}

type CategoryQuantity struct {
	Category string
	Quantity int
}

// Snapshot агрегированная статистика по заказам одного владельца.
// Не хранится, считается на каждый запрос.
type Snapshot struct {
	TotalOrders       int
	TotalRevenue      float64
	AverageOrderValue float64
	MonthlySales      []MonthlySales
	CategoryBreakdown []CategoryQuantity
}

func (s *Snapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Snapshot) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	if err := dec.Decode(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return nil
}

func init() {
	gob.Register(Snapshot{})
	gob.Register(MonthlySales{})
	gob.Register(CategoryQuantity{})
}
