package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is one line of the cleaned order extract. An order with several
// items appears once per item, sharing its OrderID.
type Order struct {
	OrderID     string
	PurchasedAt time.Time
	Price       decimal.NullDecimal
	ProductID   string
	Category    string
}

type MonthlySummary struct {
	Month      string          `json:"month"`
	Period     time.Time       `json:"period"`
	OrderCount int             `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type CategorySummary struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Snapshot is everything the charts are drawn from, taken from one load.
type Snapshot struct {
	Monthly []MonthlySummary
	Best    []CategorySummary
	Worst   []CategorySummary
	Version int64
}
