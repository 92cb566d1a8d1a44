package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ecommerce-dashboard/internal/models"
)

func TestWriteXLSX(t *testing.T) {
	monthly := []models.MonthlySummary{
		{
			Month:      "January-2018",
			Period:     time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
			OrderCount: 2,
			Revenue:    decimal.NewFromInt(60),
		},
	}
	categories := []models.CategorySummary{
		{Category: "toys", Count: 10},
		{Category: "auto", Count: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, monthly, categories))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{MonthlySheet, CategoriesSheet}, f.GetSheetList())

	rows, err := f.GetRows(MonthlySheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"month", "order_count", "revenue"},
		{"January-2018", "2", "60"},
	}, rows)

	rows, err = f.GetRows(CategoriesSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"category", "count"},
		{"toys", "10"},
		{"auto", "1"},
	}, rows)
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil, nil))
	assert.Positive(t, buf.Len())
}
