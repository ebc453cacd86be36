package dataset

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

var (
	ErrNotFound        = errors.New("dataset not found")
	ErrNoHeader        = errors.New("dataset has no header row")
	ErrDuplicateHeader = errors.New("duplicate column header")
)

// Source loads a dataset.
type Source interface {
	Load(ctx context.Context) (*Frame, error)
	// Describe names the source for log and error messages.
	Describe() string
}

// Frame represents a loaded table with its raw cell values
type Frame struct {
	Headers []string
	Rows    [][]string
	Origin  string
}

// ColumnIndex returns the index of a header, or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, h := range f.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the frame has a header with this exact name.
func (f *Frame) HasColumn(name string) bool {
	return f.ColumnIndex(name) >= 0
}

// Drop returns a copy of the frame without the named columns. Names that
// are not present are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}

	keep := make([]int, 0, len(f.Headers))
	headers := make([]string, 0, len(f.Headers))
	for i, h := range f.Headers {
		if skip[h] {
			continue
		}
		keep = append(keep, i)
		headers = append(headers, h)
	}

	rows := make([][]string, len(f.Rows))
	for r, row := range f.Rows {
		out := make([]string, len(keep))
		for j, idx := range keep {
			if idx < len(row) {
				out[j] = row[idx]
			}
		}
		rows[r] = out
	}

	return &Frame{Headers: headers, Rows: rows, Origin: f.Origin}
}

// NumericColumnIndices returns indices of columns whose first 20 non-empty
// values all parse as numbers.
func (f *Frame) NumericColumnIndices() map[int]bool {
	if len(f.Rows) == 0 {
		return nil
	}

	numericCols := make(map[int]bool)
	checkRows := 20
	if len(f.Rows) < checkRows {
		checkRows = len(f.Rows)
	}
	for colIdx := range f.Headers {
		isNumeric := true
		for i := 0; i < checkRows; i++ {
			if colIdx >= len(f.Rows[i]) {
				continue
			}
			val := strings.TrimSpace(f.Rows[i][colIdx])
			if val == "" {
				continue
			}
			if _, err := strconv.ParseFloat(val, 64); err != nil {
				isNumeric = false
				break
			}
		}
		if isNumeric {
			numericCols[colIdx] = true
		}
	}
	return numericCols
}
