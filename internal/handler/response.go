package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"org-service/internal/model"
	"org-service/internal/revocation"
	"org-service/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps each error kind onto a fixed status code. Unclassified
// errors become a generic 500; internal detail never reaches the client.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	case errors.Is(err, model.ErrOrganizationNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Organization not found"
	case errors.Is(err, model.ErrEmailTaken):
		status = http.StatusBadRequest
		body.Code = "CONFLICT"
		body.Message = "Email already registered"
	case errors.Is(err, revocation.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
		body.Code = "UNAVAILABLE"
		body.Message = "Backing store unavailable, retry later"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, model.ErrorResponse{Error: body})
}
