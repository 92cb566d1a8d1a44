package handlers

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ecommerce-dashboard/internal/charts"
	"ecommerce-dashboard/internal/config"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDashboardConfig() config.DashboardConfig {
	return config.DashboardConfig{
		TargetYear:    2018,
		TopCategories: 5,
		Caption:       "Copyright (c) Azis 2023",
	}
}

func testOrder(id string, at time.Time, price, category string) models.Order {
	return models.Order{
		OrderID:     id,
		PurchasedAt: at,
		Price:       decimal.NewNullDecimal(decimal.RequireFromString(price)),
		ProductID:   "p-" + id,
		Category:    category,
	}
}

func createTestAnalytics() *services.Analytics {
	a := services.NewAnalytics(services.WithLogger(testLogger()))
	a.SetOrders([]models.Order{
		testOrder("o1", time.Date(2017, 12, 30, 10, 0, 0, 0, time.UTC), "15.00", "auto"),
		testOrder("o2", time.Date(2018, 1, 5, 10, 0, 0, 0, time.UTC), "10.50", "toys"),
		testOrder("o3", time.Date(2018, 1, 20, 10, 0, 0, 0, time.UTC), "20.00", "toys"),
		testOrder("o4", time.Date(2018, 3, 2, 10, 0, 0, 0, time.UTC), "5.25", "bed_bath_table"),
	})
	return a
}

// createTestRenderer draws the charts for a, which takes a moment.
func createTestRenderer(t *testing.T, a *services.Analytics) *charts.Renderer {
	t.Helper()
	r := charts.NewRenderer(5, testLogger())
	if err := r.Render(context.Background(), a); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	return r
}
