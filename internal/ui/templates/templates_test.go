package templates

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"insights-chat/internal/models"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return b.String()
}

func TestPage(t *testing.T) {
	welcome := models.ChatMessage{ID: "1", Content: "Hello!", Sender: models.SenderAssistant, Timestamp: time.Now()}
	html := render(t, Page(welcome, []string{"Show me revenue by region", `say "hi" <b>`}))

	expected := []string{
		"<!DOCTYPE html>",
		`id="messages"`,
		`id="msg-1"`,
		"Hello!",
		`id="visualization"`,
		"Show me revenue by region",
		"@post('/sse/ask')",
		"datastar.js",
	}
	for _, want := range expected {
		if !strings.Contains(html, want) {
			t.Errorf("page should contain %q", want)
		}
	}

	if strings.Contains(html, "<b>") {
		t.Error("example questions must be escaped")
	}
}

func TestMessage_Escapes(t *testing.T) {
	msg := models.ChatMessage{ID: "abc", Content: "<script>alert(1)</script>", Sender: models.SenderUser, Timestamp: time.Now()}
	html := render(t, Message(msg))

	if strings.Contains(html, "<script>") {
		t.Error("content must be escaped")
	}
	if !strings.Contains(html, `class="msg user"`) {
		t.Errorf("unexpected html: %s", html)
	}
}

func TestVisualization_Success(t *testing.T) {
	resp := models.QueryResponse{
		Answer: "ok",
		Series: []models.AggregatedPoint{
			{Label: "East", Revenue: 281000, Region: "East"},
			{Label: "North", Revenue: 261000, Region: "North"},
		},
		Chart: models.ChartBar,
		Table: &models.TableView{
			Headers: []string{"Region", "Total Revenue"},
			Rows:    [][]any{{"East", "$281,000"}, {"North", "$261,000"}},
		},
	}

	html := render(t, Visualization(resp))

	for _, want := range []string{`id="visualization"`, "<svg", "<rect", "<th>Region</th>", "<td>$281,000</td>"} {
		if !strings.Contains(html, want) {
			t.Errorf("visualization should contain %q", want)
		}
	}
	if strings.Contains(html, "alert") {
		t.Error("successful response should not render an alert")
	}
}

func TestVisualization_Fallback(t *testing.T) {
	html := render(t, Visualization(models.QueryResponse{Answer: "sorry", Error: "No matching data pattern found"}))

	if !strings.Contains(html, "No matching data pattern found") {
		t.Error("fallback should render the error message")
	}
	if strings.Contains(html, "<svg") || strings.Contains(html, "<table") {
		t.Error("fallback should not render chart or table")
	}
}

func TestChart_Kinds(t *testing.T) {
	series := []models.AggregatedPoint{
		{Label: "Jan", Revenue: 10, Customers: 1},
		{Label: "Feb", Revenue: 20, Customers: 2},
	}

	tests := []struct {
		kind models.ChartKind
		want string
	}{
		{models.ChartBar, "<rect"},
		{models.ChartLine, "<polyline"},
		{models.ChartArea, "<polygon"},
		{models.ChartPie, "<path"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			html := render(t, Chart(tt.kind, series))
			if !strings.Contains(html, tt.want) {
				t.Errorf("%s chart should contain %q: %s", tt.kind, tt.want, html)
			}
		})
	}
}

func TestChartValues(t *testing.T) {
	customersOnly := []models.AggregatedPoint{{Customers: 700}, {Customers: 542}}
	if got := chartValues(customersOnly); got[0] != 700 {
		t.Errorf("zero revenue series should plot customers, got %v", got)
	}

	degenerate := []models.AggregatedPoint{{Revenue: math.Inf(1)}, {Revenue: math.NaN()}, {Revenue: 5}}
	got := chartValues(degenerate)
	if got[0] != 0 || got[1] != 0 || got[2] != 5 {
		t.Errorf("non-finite values should plot as zero, got %v", got)
	}
}
