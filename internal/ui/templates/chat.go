package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"insights-chat/internal/models"
)

const (
	MessagesID      = "messages"
	ThinkingID      = "thinking"
	VisualizationID = "visualization"
)

func MessageID(msg models.ChatMessage) string {
	return "msg-" + msg.ID
}

func Message(msg models.ChatMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div id="%s" class="msg %s">%s<time datetime="%s">%s</time></div>`,
			templ.EscapeString(MessageID(msg)),
			templ.EscapeString(string(msg.Sender)),
			templ.EscapeString(msg.Content),
			msg.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
			msg.Timestamp.Format("15:04"),
		)
		return err
	})
}

// Thinking is the placeholder bubble shown while a question is pending.
func Thinking() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="`+ThinkingID+`" class="msg assistant">Thinking...</div>`)
		return err
	})
}

func EmptyVisualization() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="`+VisualizationID+`">`+
			`<h3>Ask a question to see data analysis</h3>`+
			`<p>Try asking about revenue by region, customer trends, or growth analysis.</p></div>`)
		return err
	})
}

// Visualization renders the chart and table for a response, or the error
// alert for a fallback.
func Visualization(resp models.QueryResponse) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div id="`+VisualizationID+`">`); err != nil {
			return err
		}

		if resp.Failed() {
			if _, err := fmt.Fprintf(w, `<div class="alert" role="alert"><strong>Error</strong><p>%s</p></div>`,
				templ.EscapeString(resp.Error)); err != nil {
				return err
			}
		} else {
			if resp.HasChart() {
				if err := Chart(resp.Chart, resp.Series).Render(ctx, w); err != nil {
					return err
				}
			}
			if resp.Table != nil {
				if err := Table(resp.Table).Render(ctx, w); err != nil {
					return err
				}
			}
		}

		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func Table(table *models.TableView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<table class="data-table"><thead><tr>`)
		for _, h := range table.Headers {
			b.WriteString(`<th>` + templ.EscapeString(h) + `</th>`)
		}
		b.WriteString(`</tr></thead><tbody>`)
		for _, row := range table.Rows {
			b.WriteString(`<tr>`)
			for _, cell := range row {
				b.WriteString(`<td>` + templ.EscapeString(fmt.Sprint(cell)) + `</td>`)
			}
			b.WriteString(`</tr>`)
		}
		b.WriteString(`</tbody></table>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Render writes a component to a string, for SSE patches.
func Render(ctx context.Context, c templ.Component) (string, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func jsString(s string) string {
	out, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(out)
}
