package handler

import (
	"net/http"
	"strconv"

	"go-calc-auth/internal/middleware"
	"go-calc-auth/internal/model"
	"go-calc-auth/internal/service"
	"go-calc-auth/pkg/apierror"
)

type CalcHandler struct {
	service *service.CalculationService
}

func NewCalcHandler(service *service.CalculationService) *CalcHandler {
	return &CalcHandler{service: service}
}

// Compute is public and stateless.
func (h *CalcHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var payload model.ComputeRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.service.Compute(payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, resp, nil)
}

func (h *CalcHandler) Create(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.ComputeRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	stored, err := h.service.Record(r.Context(), account, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, stored, nil)
}

func (h *CalcHandler) List(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}

	list, meta, err := h.service.List(r.Context(), account, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, list, &meta)
}

// queryInt parses an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.BadRequest("invalid "+name+" parameter", raw)
	}
	return value, nil
}
