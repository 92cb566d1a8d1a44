// Package charts draws the dashboard figures as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"ecommerce-dashboard/internal/models"
)

// ErrNoData is returned instead of drawing an empty figure.
var ErrNoData = errors.New("no data to plot")

var (
	accent = color.RGBA{R: 0x72, G: 0xBC, B: 0xD4, A: 0xFF}
	muted  = color.RGBA{R: 0xD3, G: 0xD3, B: 0xD3, A: 0xFF}
)

const (
	lineWidth    = 13 * vg.Inch
	lineHeight   = 5 * vg.Inch
	pairedWidth  = 24 * vg.Inch
	pairedHeight = 6 * vg.Inch
)

// MonthlyOrdersPNG plots the distinct order count per month.
func MonthlyOrdersPNG(rows []models.MonthlySummary) ([]byte, error) {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = float64(r.OrderCount)
	}
	return linePNG(monthLabels(rows), values)
}

// MonthlyRevenuePNG plots summed revenue per month.
func MonthlyRevenuePNG(rows []models.MonthlySummary) ([]byte, error) {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.Revenue.InexactFloat64()
	}
	return linePNG(monthLabels(rows), values)
}

// CategoriesPNG draws the best and worst categories side by side. The worst
// panel's value axis runs right to left so both panels grow toward the middle.
func CategoriesPNG(best, worst []models.CategorySummary) ([]byte, error) {
	if len(best) == 0 || len(worst) == 0 {
		return nil, ErrNoData
	}

	left, err := categoryPlot("Best Performing Product", best)
	if err != nil {
		return nil, err
	}
	right, err := categoryPlot("Worst Performing Product", worst)
	if err != nil {
		return nil, err
	}
	right.X.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	img := vgimg.New(pairedWidth, pairedHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Inch,
		PadTop:    vg.Points(10),
		PadBottom: vg.Points(10),
		PadLeft:   vg.Points(10),
		PadRight:  vg.Points(10),
	}

	canvases := plot.Align([][]*plot.Plot{{left, right}}, tiles, dc)
	left.Draw(canvases[0][0])
	right.Draw(canvases[0][1])

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func linePNG(labels []string, values []float64) ([]byte, error) {
	if len(values) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.Y.Tick.Label.Font.Size = vg.Points(10)

	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("build line: %w", err)
	}
	line.Color = accent
	line.Width = vg.Points(2)
	points.Shape = draw.CircleGlyph{}
	points.Color = accent
	points.Radius = vg.Points(4)

	p.Add(plotter.NewGrid(), line, points)
	p.NominalX(labels...)

	return encode(p, lineWidth, lineHeight)
}

func categoryPlot(title string, rows []models.CategorySummary) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(18)
	p.Y.Tick.Label.Font.Size = vg.Points(15)

	// Horizontal bars are laid out bottom-up; reverse so the first row is on top.
	n := len(rows)
	names := make([]string, n)
	first := make(plotter.Values, n)
	others := make(plotter.Values, n)
	for i, r := range rows {
		pos := n - 1 - i
		names[pos] = r.Category
		if i == 0 {
			first[pos] = float64(r.Count)
		} else {
			others[pos] = float64(r.Count)
		}
	}

	barWidth := vg.Points(40)
	highlighted, err := plotter.NewBarChart(first, barWidth)
	if err != nil {
		return nil, fmt.Errorf("build bars: %w", err)
	}
	highlighted.Horizontal = true
	highlighted.Color = accent
	highlighted.LineStyle.Width = 0

	rest, err := plotter.NewBarChart(others, barWidth)
	if err != nil {
		return nil, fmt.Errorf("build bars: %w", err)
	}
	rest.Horizontal = true
	rest.Color = muted
	rest.LineStyle.Width = 0

	p.Add(highlighted, rest)
	p.NominalY(names...)

	return p, nil
}

func encode(p *plot.Plot, width, height vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("create png writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func monthLabels(rows []models.MonthlySummary) []string {
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r.Month
	}
	return labels
}
