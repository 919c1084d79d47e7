package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nethra/sentinel/internal/validation"
	"github.com/nethra/sentinel/pkg/api"
)

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
// Клиенту уходит только message, без внутренних деталей
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	sendJSON(logger, w, api.ErrorResponse{Message: message}, statusCode)
}

// sendValidationErrors отправляет 400 с ошибками по полям
func sendValidationErrors(logger *slog.Logger, w http.ResponseWriter, errs validation.Errors) {
	resp := api.ValidationErrorResponse{}
	for _, fe := range errs {
		resp.Errors = append(resp.Errors, api.FieldError{Field: fe.Field, Message: fe.Message})
	}
	sendJSON(logger, w, resp, http.StatusBadRequest)
}
