package regression

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"property-estimator/internal/dataset"
)

// Design is a frame split into a numeric feature matrix and target vector.
type Design struct {
	Features []string
	X        *mat.Dense
	Y        []float64
}

// NewDesign splits the frame into the target column and every other column
// as a feature, in header order. Each cell must parse as a finite number.
// Header names must be unique.
func NewDesign(f *dataset.Frame, target string) (*Design, error) {
	if !f.HasColumn(target) {
		return nil, fmt.Errorf("%w: %q", ErrMissingTarget, target)
	}
	targetIdx := f.ColumnIndex(target)

	seen := make(map[string]bool, len(f.Headers))
	for _, h := range f.Headers {
		if seen[h] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, h)
		}
		seen[h] = true
	}

	features := make([]string, 0, len(f.Headers)-1)
	cols := make([]int, 0, len(f.Headers)-1)
	for i, h := range f.Headers {
		if i == targetIdx {
			continue
		}
		features = append(features, h)
		cols = append(cols, i)
	}
	if len(features) == 0 || len(f.Rows) == 0 {
		return nil, ErrEmptyDesign
	}

	// reject text columns by name before parsing every row
	numeric := f.NumericColumnIndices()
	for i, h := range f.Headers {
		if !numeric[i] {
			return nil, fmt.Errorf("column %q: %w", h, ErrNonNumeric)
		}
	}

	x := mat.NewDense(len(f.Rows), len(cols), nil)
	y := make([]float64, len(f.Rows))
	for r, row := range f.Rows {
		v, err := parseCell(row, targetIdx)
		if err != nil {
			return nil, fmt.Errorf("row %d column %q: %w", r+1, target, err)
		}
		y[r] = v
		for j, c := range cols {
			v, err := parseCell(row, c)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", r+1, f.Headers[c], err)
			}
			x.Set(r, j, v)
		}
	}

	return &Design{Features: features, X: x, Y: y}, nil
}

func parseCell(row []string, idx int) (float64, error) {
	if idx >= len(row) {
		return 0, fmt.Errorf("%w: missing cell", ErrNonNumeric)
	}
	s := strings.TrimSpace(row[idx])
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNonNumeric, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNonFiniteValue, s)
	}
	return v, nil
}
