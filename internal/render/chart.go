package render

// ChartConfig is the declarative configuration handed to Chart.js in the browser.
// Field names follow the Chart.js option tree so the layout script can pass it through.
type ChartConfig struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

type ChartOptions struct {
	Plugins ChartPlugins `json:"plugins"`
}

type ChartPlugins struct {
	Title   ChartTitle   `json:"title"`
	Tooltip ChartTooltip `json:"tooltip"`
	Legend  *ChartLegend `json:"legend,omitempty"`
}

type ChartFont struct {
	Family string `json:"family"`
	Size   int    `json:"size"`
}

type ChartTitle struct {
	Display bool      `json:"display"`
	Text    string    `json:"text"`
	Font    ChartFont `json:"font"`
}

// ChartTooltip carries one pre-formatted label per data point. JSON cannot hold
// the Chart.js label callback, so the layout script installs a callback that
// returns Labels[dataIndex].
type ChartTooltip struct {
	Font   ChartFont `json:"font"`
	Labels []string  `json:"labels"`
}

type ChartLegend struct {
	Display bool `json:"display"`
}

var openSans = ChartFont{Family: "Open Sans, sans-serif", Size: 30}
