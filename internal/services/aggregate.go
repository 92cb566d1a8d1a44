package services

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"ecommerce-dashboard/internal/models"
)

const monthLabelLayout = "January-2006"

type monthKey struct {
	year  int
	month time.Month
}

func (k monthKey) next() monthKey {
	if k.month == time.December {
		return monthKey{year: k.year + 1, month: time.January}
	}
	return monthKey{year: k.year, month: k.month + 1}
}

func (k monthKey) before(o monthKey) bool {
	return k.year < o.year || (k.year == o.year && k.month < o.month)
}

type monthBucket struct {
	orders  map[string]struct{}
	revenue decimal.Decimal
}

// BuildMonthlySummaries groups orders by calendar month. The result covers
// every month from the earliest to the latest purchase, so months without
// orders show up with zero counts instead of being skipped.
func BuildMonthlySummaries(orders []models.Order) []models.MonthlySummary {
	if len(orders) == 0 {
		return []models.MonthlySummary{}
	}

	buckets := make(map[monthKey]*monthBucket)
	first := monthKey{year: orders[0].PurchasedAt.Year(), month: orders[0].PurchasedAt.Month()}
	last := first

	for _, o := range orders {
		key := monthKey{year: o.PurchasedAt.Year(), month: o.PurchasedAt.Month()}
		if key.before(first) {
			first = key
		}
		if last.before(key) {
			last = key
		}

		b := buckets[key]
		if b == nil {
			b = &monthBucket{orders: make(map[string]struct{})}
			buckets[key] = b
		}
		if o.OrderID != "" {
			b.orders[o.OrderID] = struct{}{}
		}
		if o.Price.Valid {
			b.revenue = b.revenue.Add(o.Price.Decimal)
		}
	}

	var result []models.MonthlySummary
	for key := first; !last.before(key); key = key.next() {
		period := time.Date(key.year, key.month, 1, 0, 0, 0, 0, time.UTC)
		row := models.MonthlySummary{
			Month:   period.Format(monthLabelLayout),
			Period:  period,
			Revenue: decimal.Zero,
		}
		if b := buckets[key]; b != nil {
			row.OrderCount = len(b.orders)
			row.Revenue = b.revenue
		}
		result = append(result, row)
	}

	return result
}

// FilterYear keeps the rows whose period falls in year, preserving order.
func FilterYear(rows []models.MonthlySummary, year int) []models.MonthlySummary {
	result := make([]models.MonthlySummary, 0, 12)
	for _, r := range rows {
		if r.Period.Year() == year {
			result = append(result, r)
		}
	}
	return result
}

// BuildCategorySummaries counts product line items per category, largest
// first. Rows without a category are not grouped; rows without a product id
// are not counted. Equal counts keep alphabetical order.
func BuildCategorySummaries(orders []models.Order) []models.CategorySummary {
	counts := make(map[string]int)
	for _, o := range orders {
		if o.Category == "" {
			continue
		}
		if _, ok := counts[o.Category]; !ok {
			counts[o.Category] = 0
		}
		if o.ProductID != "" {
			counts[o.Category]++
		}
	}

	result := make([]models.CategorySummary, 0, len(counts))
	for category, count := range counts {
		result = append(result, models.CategorySummary{Category: category, Count: count})
	}
	slices.SortFunc(result, func(a, b models.CategorySummary) int {
		return cmp.Compare(a.Category, b.Category)
	})
	slices.SortStableFunc(result, func(a, b models.CategorySummary) int {
		return cmp.Compare(b.Count, a.Count)
	})

	return result
}

// Worst re-sorts a descending category table ascending. The sort is stable,
// so categories tied on count keep their relative order.
func Worst(sorted []models.CategorySummary) []models.CategorySummary {
	result := slices.Clone(sorted)
	slices.SortStableFunc(result, func(a, b models.CategorySummary) int {
		return cmp.Compare(a.Count, b.Count)
	})
	return result
}

func head[T any](rows []T, n int) []T {
	if n < 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}
