package service

import (
	"errors"
	"fmt"
)

var ErrSchemaMismatch = errors.New("input does not match the trained features")

// Tier tells the caller whether a failure ends the session.
type Tier int

const (
	Recoverable Tier = iota
	Fatal
)

func (t Tier) String() string {
	if t == Fatal {
		return "fatal"
	}
	return "recoverable"
}

type Stage string

const (
	StageLoad    Stage = "load"
	StageTrain   Stage = "train"
	StageRender  Stage = "render"
	StagePredict Stage = "predict"
)

// Failure is the typed outcome of a failed pipeline stage.
type Failure struct {
	Tier    Tier
	Stage   Stage
	Err     error
	Message string // shown to the user
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s %s failure: %v", f.Tier, f.Stage, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func (f *Failure) Fatal() bool {
	return f.Tier == Fatal
}

func (f *Failure) UserMessage() string {
	if f.Message != "" {
		return f.Message
	}
	return f.Err.Error()
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
