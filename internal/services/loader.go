package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ecommerce-dashboard/internal/models"
)

const (
	colOrderID   = "order_id"
	colPurchased = "order_purchase_timestamp"
	colPrice     = "price"
	colProductID = "product_id"
	colCategory  = "product_category_name_english"
)

var requiredColumns = []string{colOrderID, colPurchased, colPrice, colProductID, colCategory}

var timestampLayouts = []string{
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ErrNoRecords is returned when a file holds a header but no order rows.
var ErrNoRecords = errors.New("no order records found")

// ParseError points at the CSV line that could not be turned into an order.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: column %s: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func LoadOrders(ctx context.Context, filename string) ([]models.Order, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return ReadOrders(ctx, file)
}

// ReadOrders parses the order extract. Columns are located by header name and
// any column beyond the required ones is ignored. The first malformed row
// aborts the read.
func ReadOrders(ctx context.Context, r io.Reader) ([]models.Order, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		order, err := parseOrder(record, index, line)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if len(orders) == 0 {
		return nil, ErrNoRecords
	}

	return orders, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return index, nil
}

func parseOrder(record []string, index map[string]int, line int) (models.Order, error) {
	field := func(col string) string {
		if i := index[col]; i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	rawTS := field(colPurchased)
	purchasedAt, err := parseTimestamp(rawTS)
	if err != nil {
		return models.Order{}, &ParseError{Line: line, Column: colPurchased, Value: rawTS, Err: err}
	}

	var price decimal.NullDecimal
	if rawPrice := field(colPrice); rawPrice != "" {
		d, err := decimal.NewFromString(rawPrice)
		if err != nil {
			return models.Order{}, &ParseError{Line: line, Column: colPrice, Value: rawPrice, Err: err}
		}
		price = decimal.NewNullDecimal(d)
	}

	return models.Order{
		OrderID:     field(colOrderID),
		PurchasedAt: purchasedAt,
		Price:       price,
		ProductID:   field(colProductID),
		Category:    field(colCategory),
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("timestamp is empty")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognised timestamp format")
}
