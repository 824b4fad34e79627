package handlers

import (
	"StudySync/internal/chat"
	"StudySync/internal/repo"
	"StudySync/internal/service"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// maxBodyBytes ограничивает размер JSON-тела запроса.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", service.ErrValidation, err)
	}
	return nil
}

// statusFor сопоставляет ошибку сервиса или хранилища с HTTP-статусом.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, chat.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, repo.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, repo.ErrReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, repo.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError пишет {"error": ...}; серверные ошибки логируются, детали наружу не отдаются.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, op string, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		msg = "Storage is unavailable"
	case http.StatusInternalServerError:
		msg = "Internal server error"
	}
	if status >= http.StatusInternalServerError {
		logger.Errorw(op+": request failed", "uri", r.RequestURI, "status", status, "error", err)
	} else {
		logger.Debugw(op+": request rejected", "uri", r.RequestURI, "status", status, "error", err)
	}
	writeErrorMessage(w, status, msg)
}
