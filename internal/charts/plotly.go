// Package charts shapes aggregated ledger data into Plotly figure JSON.
package charts

import "github.com/hongminglow/expense-tracker-be/internal/models"

// Figure is a Plotly figure: a list of traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
	Type string    `json:"type"`
	Name string    `json:"name"`
}

type Layout struct {
	Title string `json:"title"`
	XAxis Axis   `json:"xaxis"`
	YAxis Axis   `json:"yaxis"`
}

type Axis struct {
	Title string `json:"title"`
}

// Bar builds a single-trace bar figure of totals per date.
func Bar(title string, totals []models.DailyTotal) Figure {
	x := make([]string, 0, len(totals))
	y := make([]float64, 0, len(totals))
	for _, t := range totals {
		x = append(x, t.Date.String())
		y = append(y, t.Total)
	}
	return Figure{
		Data: []Trace{{X: x, Y: y, Type: "bar", Name: title}},
		Layout: Layout{
			Title: title,
			XAxis: Axis{Title: "Date"},
			YAxis: Axis{Title: "Total Amount"},
		},
	}
}

// BarTitle names the bar chart of a ledger, e.g. "Expenses by Date".
func BarTitle(kind models.Kind) string {
	return kind.Title() + "s by Date"
}
