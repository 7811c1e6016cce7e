package simulation

import (
	"math"
	"testing"

	"github.com/gyxcit/simdecision/internal/model"
)

func TestTransferFunctions(t *testing.T) {
	tests := []struct {
		fn   model.TransferFunction
		x    float64
		coef float64
		want float64
	}{
		{model.FuncLinear, 2, 0.5, 1},
		{model.FuncLinear, -3, 2, -6},
		{model.FuncSigmoid, 0.5, 1, 0.5},
		{model.FuncThreshold, 0.6, 2, 2},
		{model.FuncThreshold, 0.5, 2, 0},
		{model.FuncThreshold, 0.4, 2, 0},
		{model.FuncDivision, 1, 2, 1},
		{model.FuncDivision, 0, 2, 2},
		{model.FuncSquare, 3, 2, 18},
		{model.FuncCubic, 2, 0.5, 4},
		{model.FuncSqrt, 4, 2, 4},
		{model.FuncSqrt, -1, 2, 0},
		{model.FuncLogarithmic, 0, 2, 0},
		{model.FuncLogarithmic, -0.5, 2, 0},
		{model.FuncInverseSquare, 0, 2, 2},
		{model.FuncInverseSquare, 1, 2, 1},
	}

	for _, tt := range tests {
		got := applyTransfer(tt.fn, tt.x, tt.coef)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("applyTransfer(%s, %g, %g) = %g, want %g", tt.fn, tt.x, tt.coef, got, tt.want)
		}
	}
}

func TestSigmoidShape(t *testing.T) {
	lo := applyTransfer(model.FuncSigmoid, -10, 1)
	hi := applyTransfer(model.FuncSigmoid, 10, 1)
	if lo > 0.01 {
		t.Errorf("sigmoid at -10 = %g, want near 0", lo)
	}
	if hi < 0.99 {
		t.Errorf("sigmoid at 10 = %g, want near 1", hi)
	}
}

func TestExponentialCapped(t *testing.T) {
	got := applyTransfer(model.FuncExponential, 1e6, 1)
	if math.IsInf(got, 0) || math.IsNaN(got) {
		t.Fatalf("exponential overflowed: %g", got)
	}
	if want := math.Exp(50); got != want {
		t.Errorf("capped exponential = %g, want %g", got, want)
	}
}

func TestLogarithmicOffset(t *testing.T) {
	got := applyTransfer(model.FuncLogarithmic, math.E-1, 2)
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("log(1+x) at x=e-1 = %g, want 2", got)
	}
}

func TestUnknownFunctionFallsBackToLinear(t *testing.T) {
	got := applyTransfer(model.TransferFunction("mystery"), 3, 2)
	if got != 6 {
		t.Errorf("unknown function should behave linearly, got %g", got)
	}
}
