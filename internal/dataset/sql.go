package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SQLSource reads a whole table through database/sql. The driver is chosen
// by whoever opens DB ("postgres" from lib/pq, "sqlite" from modernc).
type SQLSource struct {
	DB    *sql.DB
	Table string
}

func NewSQLSource(db *sql.DB, table string) *SQLSource {
	return &SQLSource{DB: db, Table: table}
}

// OpenSQLSource opens a connection pool and checks it with a ping.
func OpenSQLSource(ctx context.Context, driver, dsn, table string) (*SQLSource, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return NewSQLSource(db, table), nil
}

func (s *SQLSource) Describe() string {
	return "table " + s.Table
}

func (s *SQLSource) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *SQLSource) Load(ctx context.Context) (*Frame, error) {
	// table names cannot be bound as parameters
	if !tableNamePattern.MatchString(s.Table) {
		return nil, fmt.Errorf("invalid table name %q", s.Table)
	}

	rows, err := s.DB.QueryContext(ctx, "SELECT * FROM "+s.Table)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	frame := &Frame{Headers: columns, Rows: [][]string{}, Origin: s.Describe()}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := make([]string, len(columns))
		for i, val := range values {
			record[i] = cellString(val)
		}
		frame.Rows = append(frame.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return frame, nil
}

func cellString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
