package simulation

import (
	"math"

	"github.com/gyxcit/simdecision/internal/model"
)

// transferFunc maps a source value and coefficient to a raw contribution.
type transferFunc func(x, coef float64) float64

// transferFuncs holds the supported transfer functions. Inputs outside a
// function's domain are clamped rather than producing NaN/Inf so a single
// odd value cannot poison an integration run.
var transferFuncs = map[model.TransferFunction]transferFunc{
	model.FuncLinear: func(x, coef float64) float64 {
		return coef * x
	},
	model.FuncSigmoid: func(x, coef float64) float64 {
		// Steepened logistic centered at 0.5.
		return coef * (1.0 / (1.0 + math.Exp(-5*(x-0.5))))
	},
	model.FuncThreshold: func(x, coef float64) float64 {
		if x > 0.5 {
			return coef
		}
		return 0.0
	},
	model.FuncDivision: func(x, coef float64) float64 {
		return coef / (1.0 + x)
	},
	model.FuncSquare: func(x, coef float64) float64 {
		return coef * x * x
	},
	model.FuncCubic: func(x, coef float64) float64 {
		return coef * x * x * x
	},
	model.FuncSqrt: func(x, coef float64) float64 {
		if x < 0 {
			return 0.0
		}
		return coef * math.Sqrt(x)
	},
	model.FuncExponential: func(x, coef float64) float64 {
		// Capped to avoid overflow on runaway state.
		if x > 50 {
			x = 50
		}
		return coef * math.Exp(x)
	},
	model.FuncLogarithmic: func(x, coef float64) float64 {
		if x < 0 {
			return 0.0
		}
		return coef * math.Log(1.0+x)
	},
	model.FuncInverseSquare: func(x, coef float64) float64 {
		return coef / (1.0 + x*x)
	},
}

// applyTransfer evaluates the named transfer function, falling back to
// linear for unknown names.
func applyTransfer(fn model.TransferFunction, x, coef float64) float64 {
	f, ok := transferFuncs[fn]
	if !ok {
		f = transferFuncs[model.FuncLinear]
	}
	return f(x, coef)
}
