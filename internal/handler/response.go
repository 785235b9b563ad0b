package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-calc-auth/internal/auth"
	"go-calc-auth/internal/calc"
	"go-calc-auth/internal/model"
	"go-calc-auth/pkg/apierror"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// writeJSON writes value without the response envelope.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	var rejected *auth.UnauthenticatedError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.As(err, &rejected) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = rejected.Reason
	} else if errors.Is(err, calc.ErrUnsupportedOperation) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = calc.ErrUnsupportedOperation.Error()
	} else if errors.Is(err, calc.ErrDivisionByZero) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = calc.ErrDivisionByZero.Error()
	} else if errors.Is(err, model.ErrAccountNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Account not found"
	} else if errors.Is(err, model.ErrUsernameTaken) {
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Username already exists"
	} else if errors.Is(err, model.ErrEmailTaken) {
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Email already registered"
	} else if errors.Is(err, model.ErrAccountExists) {
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Account already exists"
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid username or password"
	} else if errors.Is(err, model.ErrUnauthorized) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = auth.ReasonMissingToken
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

// decodeJSON reads a single JSON object from the request body. Trailing data
// is rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return apierror.Wrap(err, "BAD_REQUEST", "invalid JSON body", http.StatusBadRequest)
	}
	if decoder.More() {
		return apierror.BadRequest("invalid JSON body", "unexpected trailing data")
	}
	return nil
}
