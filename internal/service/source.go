package service

import (
	"context"
	"fmt"

	"property-estimator/internal/config"
	"property-estimator/internal/dataset"
	"property-estimator/internal/logger"
)

// OpenSource returns the dataset source named by the config and a close
// func for it. SQL drivers must be registered by the caller.
func OpenSource(ctx context.Context, cfg config.DatasetConfig) (dataset.Source, func() error, error) {
	switch cfg.Source {
	case config.SourceCSV, "":
		return dataset.NewCSVSource(cfg.Path), func() error { return nil }, nil
	case config.SourcePostgres, config.SourceSQLite:
		src, err := dataset.OpenSQLSource(ctx, cfg.Source, cfg.DSN, cfg.Table)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s dataset: %w", cfg.Source, err)
		}
		return src, src.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
}

// NewBuilder wires a Builder from the loaded configuration.
func NewBuilder(cfg *config.Config, src dataset.Source, log *logger.Logger) *Builder {
	return &Builder{
		Source:         src,
		Target:         cfg.Model.Target,
		DropSubstrings: cfg.Model.DropSubstrings,
		Log:            log,
	}
}
