package dataset

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "final.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCSVSourceLoad(t *testing.T) {
	path := writeCSV(t, "price, sqft,bedrooms\n250000,1500,3\n310000,1800,4\n")

	frame, err := NewCSVSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"price", "sqft", "bedrooms"}, frame.Headers)
	assert.Equal(t, [][]string{{"250000", "1500", "3"}, {"310000", "1800", "4"}}, frame.Rows)
	assert.Equal(t, path, frame.Origin)
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv")).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCSVSourceMalformed(t *testing.T) {
	path := writeCSV(t, "price,sqft\n1,2\n3,4,5\n")

	_, err := NewCSVSource(path).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestReadCSVStripsBOM(t *testing.T) {
	frame, err := ReadCSV(context.Background(), strings.NewReader("\ufeffprice,sqft\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "price", frame.Headers[0])
}

func TestDropMatchingIsCaseInsensitive(t *testing.T) {
	frame := &Frame{
		Headers: []string{"price", "sqft", "During_Recession", "POPULAR", "house_age", "bedrooms"},
		Rows:    [][]string{{"1", "2", "0", "1", "30", "3"}},
	}

	filtered, dropped := DropMatching(frame, []string{"recession", "popular", "age"})
	assert.Equal(t, []string{"During_Recession", "POPULAR", "house_age"}, dropped)
	assert.Equal(t, []string{"price", "sqft", "bedrooms"}, filtered.Headers)
	assert.Equal(t, [][]string{{"1", "2", "3"}}, filtered.Rows)

	// the source frame is untouched
	assert.Len(t, frame.Headers, 6)
}

func TestDropMatchingNothingToDrop(t *testing.T) {
	frame := &Frame{Headers: []string{"price", "sqft"}, Rows: [][]string{{"1", "2"}}}

	filtered, dropped := DropMatching(frame, []string{"recession"})
	assert.Empty(t, dropped)
	assert.Equal(t, frame.Headers, filtered.Headers)
}

func TestDropIgnoresUnknownColumns(t *testing.T) {
	frame := &Frame{Headers: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}

	out := frame.Drop("b", "zzz")
	assert.Equal(t, []string{"a"}, out.Headers)
	assert.Equal(t, [][]string{{"1"}}, out.Rows)
}

func TestReadCSVRejectsDuplicateHeaders(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader("price,sqft, sqft\n1,2,3\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateHeader)
	assert.Contains(t, err.Error(), `"sqft"`)
}

func TestNumericColumnIndices(t *testing.T) {
	frame := &Frame{
		Headers: []string{"price", "city", "sqft"},
		Rows:    [][]string{{"1.5", "Oslo", ""}, {"2", "Rome", "900"}},
	}

	assert.Equal(t, map[int]bool{0: true, 2: true}, frame.NumericColumnIndices())
}

func TestDescribe(t *testing.T) {
	frame := &Frame{
		Headers: []string{"price", "ratio", "city"},
		Rows: [][]string{
			{"100", "0.5", "Oslo"},
			{"300", "1.5", "Rome"},
			{"200", "", "Kyiv"},
		},
	}

	summary := Describe(frame)
	require.Len(t, summary, 3)

	assert.Equal(t, "int", summary[0].Type)
	assert.Equal(t, 100.0, *summary[0].Min)
	assert.Equal(t, 300.0, *summary[0].Max)
	assert.Equal(t, 200.0, *summary[0].Mean)
	assert.Equal(t, 200.0, *summary[0].Median)

	assert.Equal(t, "float", summary[1].Type)
	assert.Equal(t, 1, summary[1].Missing)
	assert.Equal(t, 1.0, *summary[1].Median)

	assert.Equal(t, "string", summary[2].Type)
	assert.Nil(t, summary[2].Mean)
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLSourceLoad(t *testing.T) {
	db := openSQLite(t)
	_, err := db.Exec(`CREATE TABLE listings (price REAL, sqft INTEGER, property_type TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO listings VALUES (250000.5, 1500, '1'), (310000, 1800, NULL)`)
	require.NoError(t, err)

	frame, err := NewSQLSource(db, "listings").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"price", "sqft", "property_type"}, frame.Headers)
	assert.Equal(t, [][]string{{"250000.5", "1500", "1"}, {"310000", "1800", ""}}, frame.Rows)
	assert.Equal(t, "table listings", frame.Origin)
}

func TestSQLSourceRejectsBadTableName(t *testing.T) {
	db := openSQLite(t)

	_, err := NewSQLSource(db, "listings; DROP TABLE x").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func TestSQLSourceMissingTable(t *testing.T) {
	db := openSQLite(t)

	_, err := NewSQLSource(db, "missing").Load(context.Background())
	assert.Error(t, err)
}
