package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"go-calc-auth/internal/calc"
	"go-calc-auth/internal/metrics"
	"go-calc-auth/internal/model"
	"go-calc-auth/internal/repository"
	"go-calc-auth/pkg/apierror"
)

var errOutOfRange = errors.New("Result is out of range")

type CalculationService struct {
	calculations repository.CalculationStore
	metrics      *metrics.Metrics
}

func NewCalculationService(calculations repository.CalculationStore, m *metrics.Metrics) *CalculationService {
	return &CalculationService{calculations: calculations, metrics: m}
}

// Compute evaluates req without persisting anything.
func (s *CalculationService) Compute(req model.ComputeRequest) (model.ComputeResponse, error) {
	_, result, err := s.evaluate(req)
	if err != nil {
		return model.ComputeResponse{}, err
	}
	return model.ComputeResponse{Result: result}, nil
}

// Record evaluates req and stores the outcome in account's history.
func (s *CalculationService) Record(ctx context.Context, account model.Account, req model.ComputeRequest) (model.Calculation, error) {
	op, result, err := s.evaluate(req)
	if err != nil {
		return model.Calculation{}, err
	}

	stored, err := s.calculations.Create(ctx, model.Calculation{
		Type:      op.String(),
		A:         *req.A,
		B:         *req.B,
		Result:    result,
		AccountID: account.ID,
	})
	if err != nil {
		s.metrics.InternalFailure(metrics.ComponentStore)
		return model.Calculation{}, fmt.Errorf("record calculation: %w", err)
	}

	return stored, nil
}

// List returns account's calculations, newest first.
func (s *CalculationService) List(ctx context.Context, account model.Account, page int, limit int) (model.CalculationList, model.Meta, error) {
	calcs, meta, err := s.calculations.ListByAccount(ctx, model.CalculationQuery{
		AccountID: account.ID,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		s.metrics.InternalFailure(metrics.ComponentStore)
		return model.CalculationList{}, model.Meta{}, fmt.Errorf("list calculations: %w", err)
	}

	return model.CalculationList{Calculations: calcs}, meta, nil
}

func (s *CalculationService) evaluate(req model.ComputeRequest) (calc.Operation, float64, error) {
	if req.A == nil || req.B == nil {
		return 0, 0, apierror.BadRequest("Operands a and b are required.", "")
	}

	op, result, err := calc.Evaluate(req.Type, *req.A, *req.B)
	if err == nil && (math.IsInf(result, 0) || math.IsNaN(result)) {
		err = errOutOfRange
	}
	s.metrics.Calculation(op.String(), err == nil)
	if err != nil {
		return op, 0, apierror.Wrap(err, "BAD_REQUEST", err.Error(), http.StatusBadRequest)
	}

	return op, result, nil
}
