package service

import (
	"context"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-calc-auth/internal/calc"
	"go-calc-auth/internal/model"
)

func operands(a, b float64) (*float64, *float64) {
	return &a, &b
}

func computeRequest(op string, a, b float64) model.ComputeRequest {
	pa, pb := operands(a, b)
	return model.ComputeRequest{Type: op, A: pa, B: pb}
}

func TestComputeResolvesSynonyms(t *testing.T) {
	t.Parallel()

	svc := NewCalculationService(&memoryCalculations{}, nil)

	cases := []struct {
		op   string
		a, b float64
		want float64
	}{
		{"add", 2, 3, 5},
		{"PLUS", 2, 3, 5},
		{"minus", 10, 4, 6},
		{"times", 3, 4, 12},
		{"div", 20, 5, 4},
		{"divide", 1, 4, 0.25},
	}

	for _, tc := range cases {
		resp, err := svc.Compute(computeRequest(tc.op, tc.a, tc.b))
		require.NoError(t, err, tc.op)
		assert.Equal(t, tc.want, resp.Result, tc.op)
	}
}

func TestComputeErrors(t *testing.T) {
	t.Parallel()

	svc := NewCalculationService(&memoryCalculations{}, nil)

	_, err := svc.Compute(computeRequest("divide", 1, 0))
	requireAPIError(t, err, http.StatusBadRequest, "Division by zero")
	require.ErrorIs(t, err, calc.ErrDivisionByZero)

	_, err = svc.Compute(computeRequest("modulo", 1, 2))
	requireAPIError(t, err, http.StatusBadRequest, "Unsupported calculation type")
	require.ErrorIs(t, err, calc.ErrUnsupportedOperation)

	_, err = svc.Compute(model.ComputeRequest{Type: "add"})
	requireAPIError(t, err, http.StatusBadRequest, "Operands a and b are required.")

	_, err = svc.Compute(computeRequest("multiply", math.MaxFloat64, 10))
	requireAPIError(t, err, http.StatusBadRequest, "Result is out of range")
}

func TestRecordAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := &memoryCalculations{}
	svc := NewCalculationService(store, nil)

	alice := model.Account{ID: 1}
	bob := model.Account{ID: 2}

	stored, err := svc.Record(ctx, alice, computeRequest("plus", 1, 2))
	require.NoError(t, err)
	assert.Equal(t, "add", stored.Type)
	assert.Equal(t, 3.0, stored.Result)
	assert.Equal(t, alice.ID, stored.AccountID)

	_, err = svc.Record(ctx, bob, computeRequest("div", 9, 3))
	require.NoError(t, err)

	_, err = svc.Record(ctx, alice, computeRequest("div", 9, 0))
	requireAPIError(t, err, http.StatusBadRequest, "Division by zero")

	list, meta, err := svc.List(ctx, alice, 1, 20)
	require.NoError(t, err)
	require.Len(t, list.Calculations, 1)
	assert.Equal(t, 1, meta.Total)
	assert.Equal(t, "add", list.Calculations[0].Type)
}

func TestRecordStoreFailure(t *testing.T) {
	t.Parallel()

	svc := NewCalculationService(&memoryCalculations{err: errStoreDown}, nil)

	_, err := svc.Record(context.Background(), model.Account{ID: 1}, computeRequest("add", 1, 1))
	require.ErrorIs(t, err, errStoreDown)

	_, _, err = svc.List(context.Background(), model.Account{ID: 1}, 1, 10)
	require.ErrorIs(t, err, errStoreDown)
}
