package render

import (
	"encoding/json"
	"fmt"
	"html"
	"math"

	"github.com/MrSnakeDoc/campstats/internal/domain"
	"github.com/MrSnakeDoc/campstats/internal/page"
)

const (
	// CanvasSize is the width and height, in pixels, given to the doughnut canvas.
	CanvasSize = 400

	categoryChartTitle = "Bootcamp Breakdown by Category"
)

// Shares returns the category labels in lexical order and each category's share
// of total. A non-positive total yields all-zero shares.
func Shares(totals map[string]float64, total float64) ([]string, []float64) {
	labels := domain.SortedKeys(totals)
	shares := make([]float64, len(labels))
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return labels, shares
	}
	for i, label := range labels {
		shares[i] = totals[label] / total
	}
	return labels, shares
}

// SharePercent is a share as a whole percentage, truncated.
func SharePercent(share float64) int {
	// 1e-9 absorbs float noise such as 0.29*100 == 28.999999999999996.
	return int(math.Floor(share*100 + 1e-9))
}

// TooltipLabel formats the tooltip of one doughnut slice.
func TooltipLabel(label string, share float64) string {
	return fmt.Sprintf("%s: %d%%", label, SharePercent(share))
}

// CategoryChart builds the doughnut configuration for the given totals.
func CategoryChart(totals map[string]float64, grandTotal float64) ChartConfig {
	labels, shares := Shares(totals, grandTotal)

	tooltips := make([]string, len(labels))
	for i, label := range labels {
		tooltips[i] = TooltipLabel(label, shares[i])
	}

	return ChartConfig{
		Type: "doughnut",
		Data: ChartData{
			Labels:   labels,
			Datasets: []Dataset{{Label: "", Data: shares}},
		},
		Options: ChartOptions{
			Plugins: ChartPlugins{
				Title:   ChartTitle{Display: true, Text: categoryChartTitle, Font: openSans},
				Tooltip: ChartTooltip{Font: openSans, Labels: tooltips},
			},
		},
	}
}

// CategoryBreakdown sizes the canvas and attaches the doughnut configuration right
// after it. Empty totals render nothing.
func CategoryBreakdown(doc *page.Document, canvasID string, totals map[string]float64, grandTotal float64) error {
	if len(totals) == 0 {
		return nil
	}

	if err := doc.SetAttr(canvasID, "width", fmt.Sprint(CanvasSize)); err != nil {
		return err
	}
	if err := doc.SetAttr(canvasID, "height", fmt.Sprint(CanvasSize)); err != nil {
		return err
	}

	return attachChart(doc, canvasID, CategoryChart(totals, grandTotal))
}

// attachChart serializes cfg into a JSON script element following the canvas.
// encoding/json escapes <, > and &, so the payload cannot close the script tag.
func attachChart(doc *page.Document, canvasID string, cfg ChartConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode chart config: %w", err)
	}

	id := html.EscapeString(canvasID)
	script := fmt.Sprintf(`<script type="application/json" id="%s-config" data-chart-for="%s">%s</script>`, id, id, payload)
	return doc.InsertAfter(canvasID, script)
}
