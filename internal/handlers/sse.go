package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/starfederation/datastar-go/datastar"

	"insights-chat/internal/models"
	"insights-chat/internal/observability"
	"insights-chat/internal/query"
	"insights-chat/internal/ui/templates"
)

// askSignals is the slice of page signals the ask endpoint reads.
type askSignals struct {
	Question string `json:"question"`
}

type chartSignal struct {
	Type models.ChartKind         `json:"type"`
	Data []models.AggregatedPoint `json:"data"`
}

type SSEHandlers struct {
	service *query.Service
	logger  *slog.Logger
	now     func() time.Time
}

func NewSSEHandlers(service *query.Service, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

func (h *SSEHandlers) newMessage(sender models.Sender, content string) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    sender,
		Timestamp: h.now(),
	}
}

// HandleAsk runs one chat turn: echo the question, show a thinking bubble,
// then replace it with the answer and refresh the visualization panel.
func (h *SSEHandlers) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var signals askSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Warn("read signals", "error", err, "request_id", observability.GetRequestID(r.Context()))
		http.Error(w, "invalid signals", http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)
	ctx := r.Context()

	question, appErr := validateQuestion(signals.Question)
	if appErr != nil {
		h.patchSignals(sse, map[string]any{"pending": false})
		return
	}

	h.patch(ctx, sse, templates.Message(h.newMessage(models.SenderUser, question)),
		datastar.WithSelectorID(templates.MessagesID), datastar.WithModeAppend())
	h.patch(ctx, sse, templates.Thinking(),
		datastar.WithSelectorID(templates.MessagesID), datastar.WithModeAppend())
	h.patchSignals(sse, map[string]any{"question": "", "pending": true})
	flush(w)

	resp, err := h.service.Analyze(ctx, question)
	if err != nil {
		h.logger.Warn("analyze query", "error", err, "request_id", observability.GetRequestID(ctx))
		h.patch(ctx, sse, templates.Message(h.newMessage(models.SenderAssistant, query.ErrorMessage)),
			datastar.WithSelectorID(templates.ThinkingID))
		h.patchSignals(sse, map[string]any{"pending": false})
		flush(w)
		return
	}

	h.patch(ctx, sse, templates.Message(h.newMessage(models.SenderAssistant, resp.Answer)),
		datastar.WithSelectorID(templates.ThinkingID))
	h.patch(ctx, sse, templates.Visualization(resp))

	var chart *chartSignal
	if resp.HasChart() {
		chart = &chartSignal{Type: resp.Chart, Data: resp.Series}
	}
	h.patchSignals(sse, map[string]any{"pending": false, "chart": chart})
	flush(w)
}

func (h *SSEHandlers) patch(ctx context.Context, sse *datastar.ServerSentEventGenerator, c templ.Component, opts ...datastar.PatchElementOption) {
	html, err := templates.Render(ctx, c)
	if err != nil {
		h.logger.Error("render component", "error", err)
		return
	}
	if err := sse.PatchElements(html, opts...); err != nil {
		h.logger.Debug("patch elements", "error", err)
	}
}

func (h *SSEHandlers) patchSignals(sse *datastar.ServerSentEventGenerator, signals map[string]any) {
	jsonData, err := json.Marshal(signals)
	if err != nil {
		// the input must never stay locked
		h.logger.Error("marshal signals", "error", err)
		jsonData = []byte(`{"pending":false}`)
	}
	if err := sse.PatchSignals(jsonData); err != nil {
		h.logger.Debug("patch signals", "error", err)
	}
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
