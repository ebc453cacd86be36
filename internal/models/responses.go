package models

import (
	"github.com/shopspring/decimal"

	"property-estimator/internal/dataset"
	"property-estimator/internal/form"
)

// FieldResponse describes one form input
type FieldResponse struct {
	Name   string      `json:"name"`
	Kind   string      `json:"kind"`
	Column int         `json:"column"`
	Widget form.Widget `json:"widget"`
}

// FormResponse is returned by /api/features
type FormResponse struct {
	SessionID string          `json:"session_id"`
	Fields    []FieldResponse `json:"fields"`
	Issues    []string        `json:"issues,omitempty"`
}

// PredictRequest for /api/predict
type PredictRequest struct {
	Features map[string]float64 `json:"features"`
}

// PredictResponse is returned after a successful prediction
type PredictResponse struct {
	SessionID string          `json:"session_id"`
	Price     decimal.Decimal `json:"price"`
	Value     float64         `json:"value"`
	Display   string          `json:"display"`
	Message   string          `json:"message"`
}

// ErrorResponse carries a failure and, for rejected inputs, per-field errors
type ErrorResponse struct {
	Error       string            `json:"error"`
	Stage       string            `json:"stage,omitempty"`
	Tier        string            `json:"tier,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// ModelResponse is returned by /api/model and /api/reload
type ModelResponse struct {
	SessionID    string             `json:"session_id"`
	Source       string             `json:"source"`
	Target       string             `json:"target"`
	Rows         int                `json:"rows"`
	Features     []string           `json:"features"`
	Dropped      []string           `json:"dropped"`
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	R2           float64            `json:"r2"`
	TrainedAt    string             `json:"trained_at"`
}

// DatasetResponse is returned by /api/dataset
type DatasetResponse struct {
	Source  string                  `json:"source"`
	Rows    int                     `json:"rows"`
	Columns []dataset.ColumnSummary `json:"columns"`
}
