package templates

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"ecommerce-dashboard/internal/models"
)

// Chart is one figure slot on the page. Notice is shown in place of the
// image when the chart has nothing to draw.
type Chart struct {
	Name      string
	Caption   string
	Available bool
	Notice    string
}

// DashboardView carries everything the page renders. Sections appear in a
// fixed order and none of them is optional.
type DashboardView struct {
	TargetYear   int
	Caption      string
	ChartVersion int64
	Charts       []Chart
	Monthly      []models.MonthlySummary
	Best         []models.CategorySummary
	Worst        []models.CategorySummary
}

func chartID(c Chart) string {
	return "chart-" + c.Name
}

func chartSrc(c Chart, version int64) string {
	return fmt.Sprintf("/charts/%s.png?v=%d", c.Name, version)
}

// chartSrcExpr rebuilds the image URL client-side when chartVersion changes.
func chartSrcExpr(c Chart) string {
	return fmt.Sprintf("'/charts/%s.png?v=' + $chartVersion", c.Name)
}

func signals(version int64) string {
	return fmt.Sprintf("{chartVersion: %d}", version)
}

// RenderString renders c into a string, for patches sent over SSE.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
