package handlers

import (
	"fmt"

	"ecommerce-dashboard/internal/charts"
	"ecommerce-dashboard/internal/config"
	"ecommerce-dashboard/internal/services"
	"ecommerce-dashboard/internal/ui/templates"
)

const cacheMaxAge = "public, max-age=300"

func buildView(analytics *services.Analytics, renderer *charts.Renderer, cfg config.DashboardConfig) templates.DashboardView {
	year := analytics.TargetYear()
	snap := analytics.Snapshot(cfg.TopCategories)

	noOrders := fmt.Sprintf("No orders recorded in %d.", year)
	figures := []templates.Chart{
		{
			Name:    charts.MonthlyOrders,
			Caption: fmt.Sprintf("Number of Orders per Month (%d)", year),
			Notice:  noOrders,
		},
		{
			Name:    charts.MonthlyRevenue,
			Caption: fmt.Sprintf("Total Revenue per Month in %d (AUD)", year),
			Notice:  noOrders,
		},
		{
			Name:    charts.Categories,
			Caption: "Best and Worst Performing Product by Number of Sales",
			Notice:  "No product categories recorded.",
		},
	}
	for i := range figures {
		figures[i].Available = renderer.Available(figures[i].Name)
	}

	return templates.DashboardView{
		TargetYear:   year,
		Caption:      cfg.Caption,
		ChartVersion: renderer.Version(),
		Charts:       figures,
		Monthly:      snap.Monthly,
		Best:         snap.Best,
		Worst:        snap.Worst,
	}
}
