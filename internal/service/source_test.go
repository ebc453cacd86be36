package service

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"property-estimator/internal/config"
	"property-estimator/internal/dataset"
	"property-estimator/internal/form"
	"property-estimator/internal/logger"
)

func TestOpenSourceCSV(t *testing.T) {
	src, closeFn, err := OpenSource(context.Background(), config.DatasetConfig{Source: config.SourceCSV, Path: "data/final.csv"})
	require.NoError(t, err)
	defer closeFn()

	csvSrc, ok := src.(*dataset.CSVSource)
	require.True(t, ok)
	assert.Equal(t, "data/final.csv", csvSrc.Path)
}

func TestOpenSourceUnknown(t *testing.T) {
	_, _, err := OpenSource(context.Background(), config.DatasetConfig{Source: "parquet"})
	assert.Error(t, err)
}

func TestBuildFromSQLite(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "houses.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE listings (price REAL, sqft INTEGER, bedrooms INTEGER, basement INTEGER, avg_popularity REAL)`)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		sqft := 800 + (i*37)%1500
		bedrooms := 1 + i%5
		basement := i % 2
		price := 10000 + 100*sqft + 5000*bedrooms + 20000*basement
		_, err = db.Exec(fmt.Sprintf("INSERT INTO listings VALUES (%d, %d, %d, %d, 0.5)", price, sqft, bedrooms, basement))
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Dataset = config.DatasetConfig{Source: config.SourceSQLite, DSN: dsn, Table: "listings"}

	src, closeFn, err := OpenSource(context.Background(), cfg.Dataset)
	require.NoError(t, err)
	defer closeFn()

	s, err := NewBuilder(cfg, src, logger.Discard()).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sqft", "bedrooms", "basement"}, s.Features)
	assert.Equal(t, []string{"avg_popularity"}, s.Dropped)

	est, err := s.Predict(form.Record{"sqft": 1500, "bedrooms": 3, "basement": 1})
	require.NoError(t, err)
	assert.Equal(t, "$195,000.00", est.Display)
}
