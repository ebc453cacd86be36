package form

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyName     = errors.New("empty feature name")
	ErrDuplicateName = errors.New("duplicate feature name")
)

// Record maps feature names to entered values.
type Record map[string]float64

// Field is one rendered input.
type Field struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Kind   Kind   `json:"-"`
	Widget Widget `json:"widget"`
}

// FieldIssue reports a field that could not be built or whose submitted
// value was rejected.
type FieldIssue struct {
	Index int
	Name  string
	Err   error
}

func (i FieldIssue) Error() string {
	return fmt.Sprintf("Issue with input field '%s': %v", i.Name, i.Err)
}

func (i FieldIssue) Unwrap() error {
	return i.Err
}

// Layout is the set of fields derived once from the feature list.
type Layout struct {
	Fields []Field
	Issues []FieldIssue
}

// NewLayout classifies every feature. Features that cannot become a field
// are reported in Issues and left out; the rest keep their original index.
func NewLayout(features []string) *Layout {
	l := &Layout{Fields: make([]Field, 0, len(features))}
	seen := make(map[string]bool, len(features))
	for i, name := range features {
		switch {
		case strings.TrimSpace(name) == "":
			l.Issues = append(l.Issues, FieldIssue{Index: i, Name: name, Err: ErrEmptyName})
			continue
		case seen[name]:
			l.Issues = append(l.Issues, FieldIssue{Index: i, Name: name, Err: ErrDuplicateName})
			continue
		}
		seen[name] = true

		kind := Classify(name)
		l.Fields = append(l.Fields, Field{Index: i, Name: name, Kind: kind, Widget: WidgetFor(kind)})
	}
	return l
}

// Field returns the field with the given name.
func (l *Layout) Field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Columns splits fields into two columns by the parity of their index.
func (l *Layout) Columns() [2][]Field {
	var cols [2][]Field
	for _, f := range l.Fields {
		cols[f.Index%2] = append(cols[f.Index%2], f)
	}
	return cols
}

// Defaults returns a record holding every field's default value.
func (l *Layout) Defaults() Record {
	rec := make(Record, len(l.Fields))
	for _, f := range l.Fields {
		rec[f.Name] = f.Widget.Default
	}
	return rec
}

// Parse reads one value per field through get. Rejected or absent values
// are left out of the record and reported as issues.
func (l *Layout) Parse(get func(name string) (string, bool)) (Record, []FieldIssue) {
	rec := make(Record, len(l.Fields))
	var issues []FieldIssue
	for _, f := range l.Fields {
		raw, ok := get(f.Name)
		if !ok {
			issues = append(issues, FieldIssue{Index: f.Index, Name: f.Name, Err: ErrMissingValue})
			continue
		}
		v, err := f.Widget.Parse(raw)
		if err != nil {
			issues = append(issues, FieldIssue{Index: f.Index, Name: f.Name, Err: err})
			continue
		}
		rec[f.Name] = v
	}
	return rec, issues
}

// Validate checks already numeric values. Keys without a field are
// ignored here; schema agreement is the predictor's concern.
func (l *Layout) Validate(rec Record) []FieldIssue {
	var issues []FieldIssue
	for _, f := range l.Fields {
		v, ok := rec[f.Name]
		if !ok {
			continue
		}
		if err := f.Widget.Check(v); err != nil {
			issues = append(issues, FieldIssue{Index: f.Index, Name: f.Name, Err: err})
		}
	}
	return issues
}
