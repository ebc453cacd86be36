// Package regression fits ordinary least squares linear models on gonum
// matrices.
package regression

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotFitted       = errors.New("model not fitted")
	ErrEmptyDesign     = errors.New("no samples or no features to fit")
	ErrDimMismatch     = errors.New("dimension mismatch")
	ErrFactorization   = errors.New("svd factorization failed")
	ErrMissingTarget   = errors.New("target column not found")
	ErrNonNumeric      = errors.New("non-numeric value")
	ErrNonFiniteValue  = errors.New("non-finite value")
	ErrDuplicateColumn = errors.New("duplicate column")
)

type Model interface {
	Fit(x mat.Matrix, y []float64) error
	Predict(x mat.Matrix) ([]float64, error)
	Score(x mat.Matrix, y []float64) (float64, error)
	Intercept() float64
	Coef() []float64
}

// LinearRegression is OLS with an intercept. The design is centred and the
// centred system solved through a thin SVD, so rank deficient designs get
// the minimum-norm solution.
type LinearRegression struct {
	coef      []float64
	intercept float64
	rank      int
	fitted    bool
}

var _ Model = (*LinearRegression)(nil)

func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

func (m *LinearRegression) Fit(x mat.Matrix, y []float64) error {
	n, p := x.Dims()
	if n == 0 || p == 0 {
		return ErrEmptyDesign
	}
	if len(y) != n {
		return fmt.Errorf("%w: %d rows in x, %d targets", ErrDimMismatch, n, len(y))
	}

	xMean := make([]float64, p)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			xMean[j] += x.At(i, j)
		}
	}
	for j := range xMean {
		xMean[j] /= float64(n)
	}
	yMean := 0.0
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(n)

	xc := mat.NewDense(n, p, nil)
	xc.Apply(func(i, j int, v float64) float64 { return v - xMean[j] }, x)
	yc := mat.NewDense(n, 1, nil)
	for i, v := range y {
		yc.Set(i, 0, v-yMean)
	}

	var svd mat.SVD
	if ok := svd.Factorize(xc, mat.SVDThin); !ok {
		return ErrFactorization
	}

	// same cutoff as LAPACK gelsd with the default rcond
	eps := math.Nextafter(1, 2) - 1
	rank := svd.Rank(eps * float64(max(n, p)))

	coef := make([]float64, p)
	if rank > 0 {
		var beta mat.Dense
		svd.SolveTo(&beta, yc, rank)
		for j := range coef {
			coef[j] = beta.At(j, 0)
		}
	}

	intercept := yMean
	for j, c := range coef {
		intercept -= c * xMean[j]
	}

	if !allFinite(coef) || math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return ErrNonFiniteValue
	}

	m.coef = coef
	m.intercept = intercept
	m.rank = rank
	m.fitted = true
	return nil
}

func (m *LinearRegression) Predict(x mat.Matrix) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	n, p := x.Dims()
	if p != len(m.coef) {
		return nil, fmt.Errorf("%w: model has %d features, got %d", ErrDimMismatch, len(m.coef), p)
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := m.intercept
		for j, c := range m.coef {
			sum += c * x.At(i, j)
		}
		out[i] = sum
	}
	return out, nil
}

// Score returns the coefficient of determination R² of the predictions.
func (m *LinearRegression) Score(x mat.Matrix, y []float64) (float64, error) {
	pred, err := m.Predict(x)
	if err != nil {
		return 0, err
	}
	if len(pred) != len(y) {
		return 0, fmt.Errorf("%w: %d predictions, %d targets", ErrDimMismatch, len(pred), len(y))
	}
	if len(y) == 0 {
		return 0, ErrEmptyDesign
	}

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	var ssRes, ssTot float64
	for i, v := range y {
		ssRes += (v - pred[i]) * (v - pred[i])
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1, nil
		}
		return 0, nil
	}
	return 1 - ssRes/ssTot, nil
}

func (m *LinearRegression) Fitted() bool {
	return m.fitted
}

func (m *LinearRegression) Intercept() float64 {
	return m.intercept
}

// Coef returns a copy of the fitted coefficients.
func (m *LinearRegression) Coef() []float64 {
	return append([]float64(nil), m.coef...)
}

// Rank is the effective rank of the centred design.
func (m *LinearRegression) Rank() int {
	return m.rank
}

func allFinite(vs []float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
