package regress

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"vizboard/domain/chart"
)

// Engine fits ordinary least squares lines for scatter overlays
type Engine struct{}

// NewEngine creates a regression engine
func NewEngine() *Engine {
	return &Engine{}
}

// Fit computes slope, intercept, and R-squared over numeric pairs. Fewer
// than two pairs, or pairs with zero x-variance, have no defined line and
// return nil rather than an error.
//
// R-squared follows 1 - SSres/SStot. When every y is identical SStot is
// zero: a zero-residual fit of the constant reports 1, anything else
// reports NaN.
func (e *Engine) Fit(points []chart.Point) *chart.RegressionFit {
	if len(points) < 2 {
		return nil
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}

	if !hasVariance(xs) {
		return nil
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return &chart.RegressionFit{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rSquared(xs, ys, intercept, slope),
	}
}

// rSquared computes the coefficient of determination with the
// zero-variance guard
func rSquared(xs, ys []float64, intercept, slope float64) float64 {
	mean := stat.Mean(ys, nil)

	var ssRes, ssTot float64
	for i := range xs {
		predicted := intercept + slope*xs[i]
		ssRes += (ys[i] - predicted) * (ys[i] - predicted)
		ssTot += (ys[i] - mean) * (ys[i] - mean)
	}

	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return math.NaN()
	}
	return 1 - ssRes/ssTot
}

func hasVariance(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return true
		}
	}
	return false
}
