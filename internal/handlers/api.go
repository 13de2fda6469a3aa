package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"insights-chat/internal/errors"
	"insights-chat/internal/models"
	"insights-chat/internal/observability"
	"insights-chat/internal/query"
)

const maxQuestionLength = 500

type APIHandlers struct {
	service *query.Service
	logger  *slog.Logger
}

func NewAPIHandlers(service *query.Service, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		service: service,
		logger:  logger,
	}
}

// HandleQuery answers one question. Unmatched questions still succeed; the
// fallback carries its own error field inside the data.
func (h *APIHandlers) HandleQuery(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "Request body must be JSON with a question field"), requestID)
		return
	}

	question, appErr := validateQuestion(req.Question)
	if appErr != nil {
		errors.WriteError(w, h.logger, appErr, requestID)
		return
	}

	resp, err := h.service.Analyze(r.Context(), question)
	if err != nil {
		errors.WriteError(w, h.logger, errors.FromContext(err), requestID)
		return
	}

	headers := map[string]string{
		"Cache-Control": "no-store",
	}

	errors.WriteSuccessWithHeaders(w, resp, headers)
}

func (h *APIHandlers) HandleExamples(w http.ResponseWriter, r *http.Request) {

	headers := map[string]string{
		"Cache-Control": "public, max-age=300",
	}

	errors.WriteSuccessWithHeaders(w, query.ExampleQuestions, headers)
}

func (h *APIHandlers) HandleDataset(w http.ResponseWriter, r *http.Request) {

	data := h.service.Dispatcher().Dataset().Records()

	headers := map[string]string{
		"Cache-Control": "public, max-age=300",
	}

	errors.WriteSuccessWithHeaders(w, data, headers)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.service.Stats()

	errors.WriteSuccess(w, stats)
}

func validateQuestion(raw string) (string, *errors.AppError) {
	question := strings.TrimSpace(raw)
	if question == "" {
		return "", errors.Validation("Please enter a question to ask")
	}
	if utf8.RuneCountInString(question) > maxQuestionLength {
		return "", errors.Validation("Question is too long")
	}
	return question, nil
}
