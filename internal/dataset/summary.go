package dataset

import (
	"sort"
	"strconv"
	"strings"
)

// ColumnSummary describes one column of a frame. Stats are only set for
// numeric columns.
type ColumnSummary struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Missing int      `json:"missing"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Mean    *float64 `json:"mean,omitempty"`
	Median  *float64 `json:"median,omitempty"`
}

// Describe infers a type for every column and computes basic stats.
func Describe(f *Frame) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(f.Headers))
	for i, name := range f.Headers {
		s := ColumnSummary{Name: name, Type: inferColumnType(f.Rows, i)}
		for _, row := range f.Rows {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				s.Missing++
			}
		}
		if s.Type == "int" || s.Type == "float" {
			if min, max, mean, median, ok := calculateStats(f.Rows, i); ok {
				s.Min, s.Max, s.Mean, s.Median = &min, &max, &mean, &median
			}
		}
		out = append(out, s)
	}
	return out
}

func inferColumnType(rows [][]string, colIndex int) string {
	// Check a sample of rows
	sampleSize := 20
	if len(rows) < sampleSize {
		sampleSize = len(rows)
	}

	isInt := true
	isFloat := true
	seen := false

	for i := 0; i < sampleSize; i++ {
		if colIndex >= len(rows[i]) {
			continue
		}
		val := strings.TrimSpace(rows[i][colIndex])
		if val == "" {
			continue // Skip empties
		}
		seen = true

		if _, err := strconv.Atoi(val); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(val, 64); err != nil {
			isFloat = false
		}
	}

	switch {
	case !seen:
		return "string"
	case isInt:
		return "int"
	case isFloat:
		return "float"
	}
	return "string"
}

func calculateStats(rows [][]string, colIndex int) (min, max, mean, median float64, ok bool) {
	values := []float64{}
	for _, row := range rows {
		if colIndex >= len(row) {
			continue
		}
		if val, err := strconv.ParseFloat(strings.TrimSpace(row[colIndex]), 64); err == nil {
			values = append(values, val)
		}
	}

	if len(values) == 0 {
		return 0, 0, 0, 0, false
	}

	sort.Float64s(values)
	min = values[0]
	max = values[len(values)-1]

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	if len(values)%2 == 0 {
		median = (values[len(values)/2-1] + values[len(values)/2]) / 2
	} else {
		median = values[len(values)/2]
	}

	return min, max, mean, median, true
}
