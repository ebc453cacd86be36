package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"property-estimator/internal/dataset"
	"property-estimator/internal/form"
	"property-estimator/internal/logger"
	"property-estimator/internal/regression"
)

// Builder runs load, filter, train and layout to produce a Session.
type Builder struct {
	Source         dataset.Source
	Target         string
	DropSubstrings []string
	Log            *logger.Logger
}

// Session is everything one run of the estimator needs: the filtered data,
// the trained model and the form derived from its features. It is not
// modified after Build.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Origin    string
	Target    string
	Frame     *dataset.Frame
	Dropped   []string
	Features  []string
	Model     *regression.LinearRegression
	Layout    *form.Layout
	R2        float64

	// FieldFailures holds one Recoverable render failure per feature that
	// could not become a form field.
	FieldFailures []*Failure

	log *logger.Logger
}

// Build returns a *Failure with Tier Fatal when the dataset cannot be read
// or the model cannot be trained.
func (b *Builder) Build(ctx context.Context) (*Session, error) {
	log := b.Log
	if log == nil {
		log = logger.Discard()
	}

	frame, err := b.Source.Load(ctx)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			log.Error("Missing dataset file: %s", b.Source.Describe())
			return nil, &Failure{
				Tier:    Fatal,
				Stage:   StageLoad,
				Err:     err,
				Message: fmt.Sprintf("Dataset not found. Please ensure '%s' exists.", b.Source.Describe()),
			}
		}
		log.Exception(err, "Unexpected error loading data.")
		return nil, &Failure{Tier: Fatal, Stage: StageLoad, Err: err, Message: fmt.Sprintf("Error loading dataset: %v", err)}
	}
	log.Info("Dataset loaded successfully.")

	filtered, dropped := dataset.DropMatching(frame, b.DropSubstrings)
	if len(dropped) > 0 {
		log.Debug("Dropped columns: %s", strings.Join(dropped, ", "))
	}

	design, err := regression.NewDesign(filtered, b.Target)
	if err != nil {
		return nil, b.trainFailure(log, err)
	}
	model := regression.NewLinearRegression()
	if err := model.Fit(design.X, design.Y); err != nil {
		return nil, b.trainFailure(log, err)
	}
	r2, err := model.Score(design.X, design.Y)
	if err != nil {
		return nil, b.trainFailure(log, err)
	}
	log.Info("Model trained successfully.")

	layout := form.NewLayout(design.Features)
	var fieldFailures []*Failure
	for _, issue := range layout.Issues {
		log.Warn("Input field issue with '%s': %v", issue.Name, issue.Err)
		fieldFailures = append(fieldFailures, &Failure{Tier: Recoverable, Stage: StageRender, Err: issue, Message: issue.Error()})
	}

	return &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Origin:    frame.Origin,
		Target:    b.Target,
		Frame:     filtered,
		Dropped:   dropped,
		Features:  design.Features,
		Model:     model,
		Layout:    layout,
		R2:        r2,

		FieldFailures: fieldFailures,
		log:           log,
	}, nil
}

func (b *Builder) trainFailure(log *logger.Logger, err error) *Failure {
	log.Exception(err, "Model training failed.")
	return &Failure{Tier: Fatal, Stage: StageTrain, Err: err, Message: fmt.Sprintf("Error training model: %v", err)}
}

func (s *Session) sessionLog() *logger.Logger {
	if s.log == nil {
		return logger.Discard()
	}
	return s.log
}

// Predict runs the model on one record. The record's keys must equal the
// feature set exactly. Failures are Recoverable.
func (s *Session) Predict(rec form.Record) (*Estimate, error) {
	log := s.sessionLog()

	if s.Model == nil || !s.Model.Fitted() {
		log.Error("Prediction failed: model not fitted.")
		return nil, &Failure{
			Tier:    Recoverable,
			Stage:   StagePredict,
			Err:     regression.ErrNotFitted,
			Message: "Prediction failed: model not trained.",
		}
	}

	row, err := s.alignRecord(rec)
	if err == nil {
		var preds []float64
		preds, err = s.Model.Predict(mat.NewDense(1, len(row), row))
		if err == nil {
			est := NewEstimate(preds[0])
			log.Info("Prediction successful.")
			return &est, nil
		}
	}

	log.Exception(err, "Prediction failed due to unexpected error.")
	return nil, &Failure{Tier: Recoverable, Stage: StagePredict, Err: err, Message: fmt.Sprintf("Prediction failed: %v", err)}
}

// alignRecord orders the record's values by training feature order.
func (s *Session) alignRecord(rec form.Record) ([]float64, error) {
	if len(s.Features) == 0 {
		return nil, fmt.Errorf("%w: no features", ErrSchemaMismatch)
	}

	var missing, unexpected []string
	row := make([]float64, len(s.Features))
	known := make(map[string]bool, len(s.Features))
	for i, name := range s.Features {
		known[name] = true
		v, ok := rec[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		row[i] = v
	}
	for name := range rec {
		if !known[name] {
			unexpected = append(unexpected, name)
		}
	}
	if len(missing) == 0 && len(unexpected) == 0 {
		return row, nil
	}

	sort.Strings(unexpected)
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ", "))
	}
	if len(unexpected) > 0 {
		parts = append(parts, "unexpected "+strings.Join(unexpected, ", "))
	}
	return nil, fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(parts, "; "))
}

// Submit parses raw form values through the layout and predicts. Rejected
// fields are logged and returned; they leave the record incomplete, so the
// prediction then fails with a schema mismatch.
func (s *Session) Submit(get func(name string) (string, bool)) (form.Record, *Estimate, []form.FieldIssue, error) {
	rec, issues := s.Layout.Parse(get)
	for _, issue := range issues {
		s.sessionLog().Warn("Input field issue with '%s': %v", issue.Name, issue.Err)
	}
	est, err := s.Predict(rec)
	return rec, est, issues, err
}
