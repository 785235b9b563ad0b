// Package calc maps operation names to pure binary arithmetic functions.
package calc

import (
	"errors"
	"strings"
)

var (
	ErrUnsupportedOperation = errors.New("Unsupported calculation type")
	ErrDivisionByZero       = errors.New("Division by zero")
)

type Operation int

const (
	Add Operation = iota + 1
	Subtract
	Multiply
	Divide
)

// synonyms keys are lower-case.
var synonyms = map[string]Operation{
	"add":      Add,
	"addition": Add,
	"plus":     Add,

	"subtract":    Subtract,
	"sub":         Subtract,
	"minus":       Subtract,
	"subtraction": Subtract,

	"multiply":       Multiply,
	"mul":            Multiply,
	"times":          Multiply,
	"multiplication": Multiply,

	"divide":   Divide,
	"div":      Divide,
	"division": Divide,
}

// Resolve trims and lower-cases name before looking it up.
func Resolve(name string) (Operation, error) {
	op, ok := synonyms[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, ErrUnsupportedOperation
	}
	return op, nil
}

// Compute applies op to a and b. Division is always real division.
func (op Operation) Compute(a float64, b float64) (float64, error) {
	switch op {
	case Add:
		return a + b, nil
	case Subtract:
		return a - b, nil
	case Multiply:
		return a * b, nil
	case Divide:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	default:
		return 0, ErrUnsupportedOperation
	}
}

// String returns the canonical name stored with recorded calculations.
func (op Operation) String() string {
	switch op {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	default:
		return "unknown"
	}
}

// Evaluate resolves name and computes in one step.
func Evaluate(name string, a float64, b float64) (Operation, float64, error) {
	op, err := Resolve(name)
	if err != nil {
		return 0, 0, err
	}

	result, err := op.Compute(a, b)
	if err != nil {
		return op, 0, err
	}
	return op, result, nil
}
