package handlers

import (
	"context"
	"testing"
	"time"

	"ecommerce-dashboard/internal/charts"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/services"
)

func TestBuildView_NoticePerChart(t *testing.T) {
	// Orders without a category: the monthly charts draw, the categories chart cannot.
	analytics := services.NewAnalytics(services.WithLogger(testLogger()))
	analytics.SetOrders([]models.Order{
		testOrder("o1", time.Date(2018, 1, 5, 10, 0, 0, 0, time.UTC), "10", ""),
	})
	renderer := charts.NewRenderer(5, testLogger())
	if err := renderer.Render(context.Background(), analytics); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	view := buildView(analytics, renderer, testDashboardConfig())

	want := map[string]struct {
		available bool
		notice    string
	}{
		charts.MonthlyOrders:  {true, "No orders recorded in 2018."},
		charts.MonthlyRevenue: {true, "No orders recorded in 2018."},
		charts.Categories:     {false, "No product categories recorded."},
	}

	if len(view.Charts) != len(charts.Names) {
		t.Fatalf("expected %d charts, got %d", len(charts.Names), len(view.Charts))
	}
	for i, c := range view.Charts {
		if c.Name != charts.Names[i] {
			t.Errorf("chart %d: expected %q, got %q", i, charts.Names[i], c.Name)
		}
		w := want[c.Name]
		if c.Available != w.available {
			t.Errorf("%s: expected available=%v, got %v", c.Name, w.available, c.Available)
		}
		if c.Notice != w.notice {
			t.Errorf("%s: expected notice %q, got %q", c.Name, w.notice, c.Notice)
		}
	}
}
