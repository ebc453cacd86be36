// Package form maps feature names to input widgets and validates the
// values submitted for them.
package form

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrMissingValue  = errors.New("value is required")
	ErrNotNumber     = errors.New("value is not a number")
	ErrNotInteger    = errors.New("value must be a whole number")
	ErrOutOfRange    = errors.New("value out of range")
	ErrUnknownOption = errors.New("unknown option")
)

// Kind classifies a feature for widget selection.
type Kind int

const (
	KindNumeric Kind = iota
	KindYear
	KindRoomCount
	KindArea
	KindBasement
	KindPropertyType
)

func (k Kind) String() string {
	switch k {
	case KindYear:
		return "year"
	case KindRoomCount:
		return "room_count"
	case KindArea:
		return "area"
	case KindBasement:
		return "basement"
	case KindPropertyType:
		return "property_type"
	}
	return "numeric"
}

// Control is the HTML control used to render a widget.
type Control string

const (
	ControlNumber Control = "number"
	ControlSlider Control = "slider"
	ControlRadio  Control = "radio"
)

// Option is one choice of a radio widget.
type Option struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Widget struct {
	Control Control  `json:"control"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Step    float64  `json:"step,omitempty"`
	Integer bool     `json:"integer"`
	Default float64  `json:"default"`
	Options []Option `json:"options,omitempty"`
}

// matchers are checked in order; the first hit decides the kind.
var matchers = []struct {
	kind Kind
	subs []string
}{
	{KindYear, []string{"year"}},
	{KindRoomCount, []string{"bed", "bath"}},
	{KindArea, []string{"lot", "size"}},
	{KindBasement, []string{"basement"}},
	{KindPropertyType, []string{"property_type"}},
}

// Classify picks the kind for a feature name, ignoring case.
func Classify(name string) Kind {
	lower := strings.ToLower(name)
	for _, m := range matchers {
		for _, sub := range m.subs {
			if strings.Contains(lower, sub) {
				return m.kind
			}
		}
	}
	return KindNumeric
}

func bound(v float64) *float64 { return &v }

// WidgetFor returns the widget specification for a kind.
func WidgetFor(k Kind) Widget {
	switch k {
	case KindYear:
		return Widget{Control: ControlNumber, Min: bound(1800), Max: bound(2100), Step: 1, Integer: true, Default: 2020}
	case KindRoomCount:
		return Widget{Control: ControlSlider, Min: bound(0), Max: bound(10), Step: 1, Integer: true, Default: 2}
	case KindArea:
		return Widget{Control: ControlNumber, Min: bound(0), Max: bound(50000), Step: 0.01, Default: 1000}
	case KindBasement:
		return Widget{Control: ControlRadio, Default: 1, Options: []Option{{"Yes", 1}, {"No", 0}}}
	case KindPropertyType:
		return Widget{Control: ControlRadio, Default: 1, Options: []Option{{"Bunglow", 1}, {"Condo", 0}}}
	}
	return Widget{Control: ControlNumber, Step: 0.01, Default: 0}
}

// Check validates a numeric value against the widget.
func (w Widget) Check(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNotNumber
	}
	if len(w.Options) > 0 {
		for _, o := range w.Options {
			if o.Value == v {
				return nil
			}
		}
		return fmt.Errorf("%w: %v", ErrUnknownOption, v)
	}
	if w.Integer && v != math.Trunc(v) {
		return fmt.Errorf("%w: %v", ErrNotInteger, v)
	}
	if w.Min != nil && v < *w.Min {
		return fmt.Errorf("%w: %v is below %v", ErrOutOfRange, v, *w.Min)
	}
	if w.Max != nil && v > *w.Max {
		return fmt.Errorf("%w: %v is above %v", ErrOutOfRange, v, *w.Max)
	}
	return nil
}

// Parse converts a submitted form value. Radio widgets take the option
// label; other widgets take a decimal number.
func (w Widget) Parse(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrMissingValue
	}
	if len(w.Options) > 0 {
		for _, o := range w.Options {
			if strings.EqualFold(o.Label, raw) {
				return o.Value, nil
			}
		}
		return 0, fmt.Errorf("%w: %q", ErrUnknownOption, raw)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumber, raw)
	}
	if err := w.Check(v); err != nil {
		return 0, err
	}
	return v, nil
}

// Format renders a value the way the control expects it back.
func (w Widget) Format(v float64) string {
	if len(w.Options) > 0 {
		for _, o := range w.Options {
			if o.Value == v {
				return o.Label
			}
		}
		return ""
	}
	if w.Integer {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
