package regress

import (
	"math"
	"testing"

	"vizboard/domain/chart"
)

// TestEngine_PerfectLine verifies slope 1, intercept 0, R-squared 1 on
// y = x
func TestEngine_PerfectLine(t *testing.T) {
	e := NewEngine()

	fit := e.Fit([]chart.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}})
	if fit == nil {
		t.Fatal("expected a fit for three collinear points")
	}
	if math.Abs(fit.Slope-1) > 1e-9 {
		t.Errorf("slope = %g, expected 1", fit.Slope)
	}
	if math.Abs(fit.Intercept) > 1e-9 {
		t.Errorf("intercept = %g, expected 0", fit.Intercept)
	}
	if math.Abs(fit.RSquared-1) > 1e-9 {
		t.Errorf("rSquared = %g, expected 1", fit.RSquared)
	}
}

// TestEngine_TooFewPairs verifies fewer than two pairs yields no fit
func TestEngine_TooFewPairs(t *testing.T) {
	e := NewEngine()

	if fit := e.Fit(nil); fit != nil {
		t.Errorf("Fit(nil) = %+v, expected nil", fit)
	}
	if fit := e.Fit([]chart.Point{{X: 0, Y: 5}}); fit != nil {
		t.Errorf("Fit(one pair) = %+v, expected nil", fit)
	}
}

// TestEngine_KnownSlope verifies the closed form on a shifted line
func TestEngine_KnownSlope(t *testing.T) {
	e := NewEngine()

	// y = 3x + 2
	points := make([]chart.Point, 0, 5)
	for i := 0; i < 5; i++ {
		points = append(points, chart.Point{X: float64(i), Y: 3*float64(i) + 2})
	}

	fit := e.Fit(points)
	if fit == nil {
		t.Fatal("expected a fit")
	}
	if math.Abs(fit.Slope-3) > 1e-9 || math.Abs(fit.Intercept-2) > 1e-9 {
		t.Errorf("fit = %g x + %g, expected 3 x + 2", fit.Slope, fit.Intercept)
	}
}

// TestEngine_NoisyFit verifies R-squared lands strictly between 0 and 1
// for imperfect data
func TestEngine_NoisyFit(t *testing.T) {
	e := NewEngine()

	points := []chart.Point{
		{X: 1, Y: 2.1}, {X: 2, Y: 3.9}, {X: 3, Y: 6.2}, {X: 4, Y: 7.8}, {X: 5, Y: 10.3},
	}
	fit := e.Fit(points)
	if fit == nil {
		t.Fatal("expected a fit")
	}
	if fit.RSquared <= 0 || fit.RSquared >= 1 {
		t.Errorf("rSquared = %g, expected strictly inside (0, 1)", fit.RSquared)
	}
	if fit.RSquared < 0.99 {
		t.Errorf("rSquared = %g, expected near 1 for mildly noisy line", fit.RSquared)
	}
}

// TestEngine_ConstantY verifies a flat series fits the constant with
// R-squared 1
func TestEngine_ConstantY(t *testing.T) {
	e := NewEngine()

	fit := e.Fit([]chart.Point{{X: 1, Y: 7}, {X: 2, Y: 7}, {X: 3, Y: 7}})
	if fit == nil {
		t.Fatal("expected a fit for constant y over varying x")
	}
	if math.Abs(fit.Slope) > 1e-9 {
		t.Errorf("slope = %g, expected 0", fit.Slope)
	}
	if math.Abs(fit.Intercept-7) > 1e-9 {
		t.Errorf("intercept = %g, expected 7", fit.Intercept)
	}
	if fit.RSquared != 1 {
		t.Errorf("rSquared = %g, expected 1 for a zero-residual constant fit", fit.RSquared)
	}
}

// TestEngine_ConstantX verifies a vertical series has no defined line
func TestEngine_ConstantX(t *testing.T) {
	e := NewEngine()

	if fit := e.Fit([]chart.Point{{X: 4, Y: 1}, {X: 4, Y: 2}, {X: 4, Y: 3}}); fit != nil {
		t.Errorf("Fit(vertical) = %+v, expected nil", fit)
	}
}
