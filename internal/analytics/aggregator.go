// Package analytics считает сводную статистику по заказам владельца.
//
// Summarize чистая функция: не делает I/O, не хранит состояние и может
// вызываться конкурентно.
package analytics

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
	"github.com/shopspring/decimal"
)

const (
	// DefaultCategory корзина для позиций без категории
	DefaultCategory = "Other"

	monthLayout    = "2006-01"
	currencyPlaces = 2
)

// MonthKey возвращает ключ месяца YYYY-MM в UTC.
func MonthKey(o entities.Order) string {
	return o.CreatedAt.UTC().Format(monthLayout)
}

// Summarize строит снимок статистики по заказам. Сумма каждого заказа
// пересчитывается из позиций, сохранённое поле Total игнорируется.
func Summarize(orders []entities.Order) (entities.Snapshot, error) {
	for i, o := range orders {
		if err := checkOrder(o); err != nil {
			return entities.Snapshot{}, fmt.Errorf("%w: order %d: %s", entities.ErrInvalidArgument, i, err)
		}
	}

	revenue := decimal.Zero
	monthly := make(map[string]decimal.Decimal)

	var categories []string
	quantities := make(map[string]int)

	for _, o := range orders {
		total := o.ItemsTotal()
		revenue = revenue.Add(total)

		key := MonthKey(o)
		monthly[key] = monthly[key].Add(total)

		for _, it := range o.Items {
			category := strings.TrimSpace(it.Category)
			if category == "" {
				category = DefaultCategory
			}
			if _, seen := quantities[category]; !seen {
				categories = append(categories, category)
			}
			quantities[category] += it.Quantity
		}
	}

	average := decimal.Zero
	if len(orders) > 0 {
		average = revenue.Div(decimal.NewFromInt(int64(len(orders))))
	}

	return entities.Snapshot{
		TotalOrders:       len(orders),
		TotalRevenue:      money(revenue),
		AverageOrderValue: money(average),
		MonthlySales:      monthlySeries(monthly),
		CategoryBreakdown: categorySeries(categories, quantities),
	}, nil
}

func monthlySeries(monthly map[string]decimal.Decimal) []entities.MonthlySales {
	keys := make([]string, 0, len(monthly))
	for k := range monthly {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	series := make([]entities.MonthlySales, 0, len(keys))
	for _, k := range keys {
		series = append(series, entities.MonthlySales{Month: k, Total: money(monthly[k])})
	}
	return series
}

// categorySeries сортирует по убыванию количества, при равенстве
// сохраняется порядок первого появления категории.
func categorySeries(order []string, quantities map[string]int) []entities.CategoryQuantity {
	series := make([]entities.CategoryQuantity, 0, len(order))
	for _, c := range order {
		series = append(series, entities.CategoryQuantity{Category: c, Quantity: quantities[c]})
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Quantity > series[j].Quantity
	})
	return series
}

func money(d decimal.Decimal) float64 {
	return d.Round(currencyPlaces).InexactFloat64()
}

func checkOrder(o entities.Order) error {
	if len(o.Items) == 0 {
		return errors.New("no items")
	}
	if o.CreatedAt.IsZero() {
		return errors.New("missing creation time")
	}
	for j, it := range o.Items {
		if it.Quantity < 1 {
			return fmt.Errorf("item %d: quantity %d", j, it.Quantity)
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("item %d: negative unit price", j)
		}
	}
	return nil
}
