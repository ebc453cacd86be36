package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// CSVSource reads a comma separated file with a header row.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Describe() string {
	return s.Path
}

func (s *CSVSource) Load(ctx context.Context) (*Frame, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return nil, err
	}
	defer file.Close()

	frame, err := ReadCSV(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	frame.Origin = s.Path
	return frame, nil
}

// ReadCSV parses CSV data. Header names must be unique and every row must
// have as many fields as the header.
func ReadCSV(ctx context.Context, r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	// Clean headers
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if seen[headers[i]] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateHeader, headers[i])
		}
		seen[headers[i]] = true
	}

	rows := [][]string{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}

	return &Frame{Headers: headers, Rows: rows}, nil
}
