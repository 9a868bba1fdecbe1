package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

const maxBodyBytes = 1 << 20

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type listResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
	Data    any  `json:"data"`
}

type messageResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataResponse{Success: true, Data: data})
}

func writeList[T any](w http.ResponseWriter, result ports.ListResult[T], page ports.Page) {
	page = page.Normalize()
	writeJSON(w, http.StatusOK, listResponse{
		Success: true,
		Count:   len(result.Items),
		Total:   result.Total,
		Page:    page.Number,
		Pages:   page.Pages(result.Total),
		Data:    result.Items,
	})
}

func writeMessage(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, messageResponse{Success: success, Message: message})
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, status, messageResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  verr.Fields,
		})
		return
	}

	writeMessage(w, status, false, err.Error())
}

// decodeBody reads a JSON request body into dst. Malformed input becomes a validation error.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return domain.NewValidationError("body", "Request body is required")
		case errors.As(err, &typeErr):
			return domain.NewValidationError(typeErr.Field, fmt.Sprintf("Invalid value for %s", typeErr.Field))
		default:
			return domain.NewValidationError("body", fmt.Sprintf("Invalid JSON payload: %v", err))
		}
	}
	return nil
}

// parsePage reads page and limit. Missing or unparsable values fall back to defaults.
func parsePage(r *http.Request) ports.Page {
	q := r.URL.Query()
	page := ports.Page{}
	if n, err := strconv.Atoi(q.Get("page")); err == nil {
		page.Number = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil {
		page.Limit = n
	}
	return page.Normalize()
}
