package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/etnz/stocklots"
	"github.com/markcheno/go-talib"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPNG renders a daily series as a PNG line chart, with its
// CrossoverWindow-day moving average when the series is long enough.
func ChartPNG(title string, s stocklots.Series) ([]byte, error) {
	if len(s) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 data points, got %d", stocklots.ErrInsufficientData, len(s))
	}

	xValues := make([]time.Time, len(s))
	for i, p := range s {
		xValues[i] = p.Date.Time()
	}
	values := chart.TimeSeries{
		Name: "Value",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2,
		},
		XValues: xValues,
		YValues: s.Values(),
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{values},
	}
	if len(s) > stocklots.CrossoverWindow {
		graph.Series = append(graph.Series, averageSeries(xValues, values.YValues, stocklots.CrossoverWindow))
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// averageSeries is the window-day simple moving average of y, starting at its
// first full window.
func averageSeries(x []time.Time, y []float64, window int) chart.TimeSeries {
	return chart.TimeSeries{
		Name: fmt.Sprintf("%d-day average", window),
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: x[window-1:],
		YValues: talib.Sma(y, window)[window-1:],
	}
}
