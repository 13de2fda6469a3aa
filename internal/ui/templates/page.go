package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"insights-chat/internal/models"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

const pageStyle = `
body{font-family:system-ui,sans-serif;margin:0;background:#f8fafc;color:#0f172a}
header{border-bottom:1px solid #e2e8f0;padding:1rem;text-align:center}
main{display:flex;gap:1rem;padding:1rem;height:calc(100vh - 12rem)}
.panel{flex:1;display:flex;flex-direction:column;border:1px solid #e2e8f0;border-radius:.5rem;background:#fff;overflow:hidden}
.panel h2{margin:0;padding:.5rem;font-size:1rem;border-bottom:1px solid #e2e8f0;background:#f1f5f9}
#messages{flex:1;overflow-y:auto;padding:1rem;display:flex;flex-direction:column;gap:.75rem}
.msg{max-width:80%;border-radius:.5rem;padding:.75rem;white-space:pre-wrap}
.msg.user{align-self:flex-end;background:#4f46e5;color:#fff}
.msg.assistant{align-self:flex-start;background:#f1f5f9}
.msg time{display:block;font-size:.7rem;opacity:.7;margin-top:.25rem}
form{display:flex;gap:.5rem;padding:1rem;border-top:1px solid #e2e8f0}
form input{flex:1;padding:.5rem}
#visualization{flex:1;overflow:auto;padding:1rem}
.alert{border:1px solid #fca5a5;background:#fef2f2;padding:.75rem;border-radius:.5rem}
.data-table{width:100%;border-collapse:collapse;margin-top:1rem}
.data-table th,.data-table td{border-bottom:1px solid #e2e8f0;padding:.4rem;text-align:left}
footer{border-top:1px solid #e2e8f0;padding:1rem}
.example{display:block;width:100%;text-align:left;margin:.25rem 0;padding:.5rem;background:#f1f5f9;border:0;border-radius:.375rem;cursor:pointer}
`

// Page is the full chat screen: conversation on the left, the latest
// visualization on the right, instructions underneath.
func Page(welcome models.ChatMessage, examples []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>AI Data Agent</title><style>`+pageStyle+`</style>`+
			`<script type="module" src="`+datastarScript+`"></script></head>`+
			`<body data-signals="{question: '', pending: false, chart: null}">`+
			`<header><h1>AI Data Agent</h1></header><main>`+
			`<section class="panel"><h2>Chat Interface</h2><div id="messages">`); err != nil {
			return err
		}

		if err := Message(welcome).Render(ctx, w); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `</div>`+
			`<form data-on:submit__prevent="$question.trim() !== '' &amp;&amp; !$pending &amp;&amp; @post('/sse/ask')">`+
			`<input type="text" placeholder="Ask a business question..." data-bind:question data-attr:disabled="$pending">`+
			`<button type="submit" data-attr:disabled="$pending" data-text="$pending ? 'Thinking…' : 'Send'">Send</button>`+
			`</form></section>`+
			`<section class="panel"><h2>Data Visualization</h2>`); err != nil {
			return err
		}

		if err := EmptyVisualization().Render(ctx, w); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `</section></main><footer>`); err != nil {
			return err
		}

		if err := Instructions(examples).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</footer></body></html>`)
		return err
	})
}

// Instructions mirrors the accordion under the chat: what the agent is,
// clickable example questions, and how it works.
func Instructions(examples []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<details><summary>About this AI Data Agent</summary>`+
			`<p>This AI Data Agent analyzes business data and answers with natural language, charts and tables. `+
			`It handles analytical questions about revenue, customers, growth trends and more.</p></details>`+
			`<details open><summary>Example Questions</summary><div id="examples">`); err != nil {
			return err
		}

		for _, q := range examples {
			escaped := templ.EscapeString(q)
			if _, err := fmt.Fprintf(w,
				`<button type="button" class="example" data-on:click="$question = %s; !$pending &amp;&amp; @post('/sse/ask')">&quot;%s&quot;</button>`,
				templ.EscapeString(jsString(q)), escaped); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</div></details>`+
			`<details><summary>Solution Architecture</summary><ul>`+
			`<li>Go HTTP server rendering templ components</li>`+
			`<li>Datastar server-sent events for chat turns</li>`+
			`<li>Keyword rules routing questions to aggregation routines</li>`+
			`<li>In-memory sample dataset of regional monthly revenue</li>`+
			`</ul></details>`)
		return err
	})
}
