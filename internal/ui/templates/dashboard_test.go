package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ecommerce-dashboard/internal/models"
)

func testView() DashboardView {
	return DashboardView{
		TargetYear:   2018,
		Caption:      "Copyright (c) Azis 2023",
		ChartVersion: 99,
		Charts: []Chart{
			{Name: "monthly-orders", Caption: "Number of Orders per Month (2018)", Available: true},
			{Name: "monthly-revenue", Caption: "Total Revenue per Month in 2018 (AUD)", Available: true},
			{Name: "categories", Caption: "Best and Worst Performing Product by Number of Sales", Available: true},
		},
		Monthly: []models.MonthlySummary{
			{Month: "January-2018", Period: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), OrderCount: 2, Revenue: decimal.NewFromInt(60)},
		},
		Best:  []models.CategorySummary{{Category: "toys", Count: 10}, {Category: "auto", Count: 1}},
		Worst: []models.CategorySummary{{Category: "auto", Count: 1}, {Category: "toys", Count: 10}},
	}
}

func TestDashboard_SectionOrder(t *testing.T) {
	html, err := RenderString(context.Background(), Dashboard(testView()))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	ordered := []string{
		"E-Commerce Dashboard",
		"Monthly Orders in 2018",
		"Number of Orders per Month (2018)",
		`/charts/monthly-orders.png?v=99`,
		"Total Revenue per Month in 2018 (AUD)",
		`/charts/monthly-revenue.png?v=99`,
		"Best and Worst Performing Product by Number of Sales",
		`/charts/categories.png?v=99`,
		"Customer distribution",
		`/static/customer-map`,
		"pre-rendered image",
		"Copyright (c) Azis 2023",
	}

	last := -1
	for _, want := range ordered {
		idx := strings.Index(html, want)
		if idx < 0 {
			t.Fatalf("page is missing %q", want)
		}
		if idx < last {
			t.Errorf("%q is out of order", want)
		}
		last = idx
	}
}

func TestDashboard_UnavailableChart(t *testing.T) {
	view := testView()
	view.Charts[0].Available = false
	view.Charts[0].Notice = "No orders recorded in 2018."
	view.Charts[2].Available = false
	view.Charts[2].Notice = "No product categories recorded."

	html, err := RenderString(context.Background(), Dashboard(view))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if strings.Contains(html, "/charts/monthly-orders.png") {
		t.Error("unavailable chart should not link an image")
	}
	if !strings.Contains(html, "No orders recorded in 2018.") {
		t.Error("unavailable chart should show a notice")
	}
	if strings.Count(html, "No orders recorded") != 1 {
		t.Error("each unavailable chart should show its own notice")
	}
	if !strings.Contains(html, `<figure id="chart-categories"><p class="empty">No product categories recorded.</p></figure>`) {
		t.Error("categories chart should show the categories notice")
	}
}

func TestChartFigure(t *testing.T) {
	c := Chart{Name: "monthly-orders", Caption: `Orders "2018"`, Available: true}

	html, err := RenderString(context.Background(), ChartFigure(c, 7))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, want := range []string{
		`<figure id="chart-monthly-orders">`,
		`src="/charts/monthly-orders.png?v=7"`,
		`data-attr-src="&#39;/charts/monthly-orders.png?v=&#39; + $chartVersion"`,
		`alt="Orders &#34;2018&#34;"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected figure to contain %q, got %s", want, html)
		}
	}
}

func TestSummaryTables(t *testing.T) {
	view := testView()
	view.Best = append(view.Best, models.CategorySummary{Category: "<script>alert(1)</script>", Count: 0})

	html, err := RenderString(context.Background(), SummaryTables(view))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !strings.HasPrefix(html, `<div id="summary-tables">`) {
		t.Errorf("unexpected root element: %.40s", html)
	}
	for _, want := range []string{"January-2018", "60.00", `<tr class="highlight"><td>toys</td>`, "&lt;script&gt;"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected tables to contain %q", want)
		}
	}
	if strings.Contains(html, "<script>alert") {
		t.Error("category names must be escaped")
	}
}
