package templates

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/a-h/templ"

	"insights-chat/internal/models"
)

const (
	chartWidth  = 480.0
	chartHeight = 260.0
	chartPad    = 32.0
)

var palette = []string{"#8B5CF6", "#3B82F6", "#10B981", "#F97316", "#EC4899"}

// Chart draws a series as inline SVG. Revenue is plotted unless every
// point has zero revenue, in which case customers are plotted instead.
func Chart(kind models.ChartKind, series []models.AggregatedPoint) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		values := chartValues(series)

		var b strings.Builder
		fmt.Fprintf(&b, `<svg class="chart chart-%s" viewBox="0 0 %.0f %.0f" role="img" aria-label="%s chart">`,
			templ.EscapeString(string(kind)), chartWidth, chartHeight, templ.EscapeString(string(kind)))

		switch kind {
		case models.ChartPie:
			drawPie(&b, series, values)
		case models.ChartLine:
			drawLine(&b, series, values, false)
		case models.ChartArea:
			drawLine(&b, series, values, true)
		default:
			drawBars(&b, series, values)
		}

		b.WriteString(`</svg>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func chartValues(series []models.AggregatedPoint) []float64 {
	useCustomers := true
	for _, p := range series {
		if p.Revenue != 0 {
			useCustomers = false
			break
		}
	}

	values := make([]float64, len(series))
	for i, p := range series {
		v := p.Revenue
		if useCustomers {
			v = p.Customers
		}
		// non-finite values cannot be drawn
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		values[i] = v
	}
	return values
}

func maxValue(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		return 1
	}
	return peak
}

func drawBars(b *strings.Builder, series []models.AggregatedPoint, values []float64) {
	if len(values) == 0 {
		return
	}
	peak := maxValue(values)
	plotH := chartHeight - 2*chartPad
	slot := (chartWidth - 2*chartPad) / float64(len(values))

	for i, v := range values {
		h := math.Abs(v) / peak * plotH
		x := chartPad + float64(i)*slot + slot*0.15
		y := chartHeight - chartPad - h
		fmt.Fprintf(b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>%s</title></rect>`,
			x, y, slot*0.7, h, palette[i%len(palette)], templ.EscapeString(series[i].Label))
		fmt.Fprintf(b, `<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle">%s</text>`,
			x+slot*0.35, chartHeight-chartPad/3, templ.EscapeString(series[i].Label))
	}
}

func drawLine(b *strings.Builder, series []models.AggregatedPoint, values []float64, fill bool) {
	if len(values) == 0 {
		return
	}
	peak := maxValue(values)
	plotH := chartHeight - 2*chartPad
	step := 0.0
	if len(values) > 1 {
		step = (chartWidth - 2*chartPad) / float64(len(values)-1)
	}

	points := make([]string, len(values))
	for i, v := range values {
		x := chartPad + float64(i)*step
		y := chartHeight - chartPad - math.Abs(v)/peak*plotH
		points[i] = fmt.Sprintf("%.1f,%.1f", x, y)
		fmt.Fprintf(b, `<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle">%s</text>`,
			x, chartHeight-chartPad/3, templ.EscapeString(series[i].Label))
	}

	if fill {
		baseline := chartHeight - chartPad
		last := chartPad + float64(len(values)-1)*step
		fmt.Fprintf(b, `<polygon points="%.1f,%.1f %s %.1f,%.1f" fill="%s" fill-opacity="0.3"/>`,
			chartPad, baseline, strings.Join(points, " "), last, baseline, palette[0])
	}
	fmt.Fprintf(b, `<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`,
		strings.Join(points, " "), palette[0])
}

func drawPie(b *strings.Builder, series []models.AggregatedPoint, values []float64) {
	total := 0.0
	for _, v := range values {
		total += math.Abs(v)
	}
	if total == 0 {
		return
	}

	cx, cy := chartWidth/2, chartHeight/2
	r := chartHeight/2 - chartPad/2
	angle := -math.Pi / 2

	for i, v := range values {
		share := math.Abs(v) / total
		if share == 0 {
			continue
		}
		if share >= 1 {
			fmt.Fprintf(b, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"><title>%s</title></circle>`,
				cx, cy, r, palette[i%len(palette)], templ.EscapeString(series[i].Label))
			return
		}

		end := angle + share*2*math.Pi
		large := 0
		if share > 0.5 {
			large = 1
		}
		fmt.Fprintf(b, `<path d="M%.1f,%.1f L%.1f,%.1f A%.1f,%.1f 0 %d 1 %.1f,%.1f Z" fill="%s"><title>%s</title></path>`,
			cx, cy,
			cx+r*math.Cos(angle), cy+r*math.Sin(angle),
			r, r, large,
			cx+r*math.Cos(end), cy+r*math.Sin(end),
			palette[i%len(palette)], templ.EscapeString(series[i].Label))
		angle = end
	}
}
