package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ecommerce-dashboard/internal/config"
)

const testCSV = `order_id,customer_id,order_purchase_timestamp,product_id,price,product_category_name_english
o1,c1,2017-11-20 08:00:00,p1,35.00,auto
o2,c2,2018-01-04 09:30:00,p2,10.00,toys
o2,c2,2018-01-04 09:30:00,p3,15.00,toys
o3,c3,2018-02-11 12:00:00,p4,,bed_bath_table
o4,c4,2018-02-28 23:59:59,p5,42.10,health_beauty
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "all_data.csv")
	if err := os.WriteFile(csvPath, []byte(testCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	imagePath := filepath.Join(dir, "map.png")
	if err := os.WriteFile(imagePath, img.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	return &config.Config{
		Data: config.DataConfig{
			CSVFile:   csvPath,
			ImageFile: imagePath,
			CacheDir:  filepath.Join(dir, "cache"),
		},
		Dashboard: config.DashboardConfig{
			TargetYear:    2018,
			TopCategories: 5,
			Caption:       "Copyright (c) Azis 2023",
		},
		Security: config.SecurityConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T) *app {
	t.Helper()
	a, err := newApp(context.Background(), testConfig(t), testLogger())
	if err != nil {
		t.Fatalf("newApp() failed: %v", err)
	}
	return a
}

// Integration tests for HTTP routes
func TestApp_Routes(t *testing.T) {
	a := newTestApp(t)

	tests := []struct {
		method         string
		path           string
		expectedStatus int
		contentType    string
	}{
		{"GET", "/", http.StatusOK, "text/html"},
		{"GET", "/charts/monthly-orders.png", http.StatusOK, "image/png"},
		{"GET", "/charts/monthly-revenue.png", http.StatusOK, "image/png"},
		{"GET", "/charts/categories.png", http.StatusOK, "image/png"},
		{"GET", "/charts/scatter.png", http.StatusNotFound, "application/json"},
		{"GET", "/static/customer-map", http.StatusOK, "image/png"},
		{"GET", "/api/monthly-orders", http.StatusOK, "application/json"},
		{"GET", "/api/categories/best", http.StatusOK, "application/json"},
		{"GET", "/api/categories/worst", http.StatusOK, "application/json"},
		{"GET", "/api/export.xlsx", http.StatusOK, "spreadsheetml"},
		{"GET", "/sse/summary", http.StatusOK, "text/event-stream"},
		{"GET", "/health", http.StatusOK, "application/json"},
		{"GET", "/admin/stats", http.StatusOK, "application/json"},
		{"POST", "/admin/reload", http.StatusOK, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			a.handler.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			ct := w.Header().Get("Content-Type")
			if !strings.Contains(ct, tt.contentType) {
				t.Errorf("content-type = %q, want %q", ct, tt.contentType)
			}

			if w.Header().Get("X-Request-ID") == "" {
				t.Error("expected X-Request-ID header")
			}
		})
	}
}

func TestApp_MonthlyOrders(t *testing.T) {
	a := newTestApp(t)

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/monthly-orders", nil))

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			Month      string `json:"month"`
			OrderCount int    `json:"order_count"`
			Revenue    string `json:"revenue"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	if len(resp.Data) != 2 {
		t.Fatalf("expected January and February 2018, got %d rows", len(resp.Data))
	}
	if resp.Data[0].Month != "January-2018" || resp.Data[0].OrderCount != 1 || resp.Data[0].Revenue != "25" {
		t.Errorf("unexpected January row: %+v", resp.Data[0])
	}
	// o3 has no price: it counts as an order but adds no revenue.
	if resp.Data[1].OrderCount != 2 || resp.Data[1].Revenue != "42.1" {
		t.Errorf("unexpected February row: %+v", resp.Data[1])
	}
}

func TestApp_DashboardOrder(t *testing.T) {
	a := newTestApp(t)

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	body := w.Body.String()

	order := []string{
		"E-Commerce Dashboard",
		"Monthly Orders in 2018",
		"Number of Orders per Month (2018)",
		"Total Revenue per Month in 2018 (AUD)",
		"Best and Worst Performing Product by Number of Sales",
		"Customer distribution",
		"Copyright (c) Azis 2023",
	}
	last := -1
	for _, s := range order {
		idx := strings.Index(body, s)
		if idx <= last {
			t.Errorf("%q missing or out of order", s)
		}
		last = max(last, idx)
	}
}

func TestNewApp_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
	}{
		{"missing csv", func(cfg *config.Config) { cfg.Data.CSVFile = filepath.Join(t.TempDir(), "none.csv") }},
		{"missing image", func(cfg *config.Config) { cfg.Data.ImageFile = filepath.Join(t.TempDir(), "none.png") }},
		{"malformed csv", func(cfg *config.Config) {
			if err := os.WriteFile(cfg.Data.CSVFile, []byte("order_id,price\no1,abc\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)

			if _, err := newApp(context.Background(), cfg, testLogger()); err == nil {
				t.Error("expected startup error")
			}
		})
	}
}
