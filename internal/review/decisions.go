package review

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/eykd/adsheet-go/internal/domain"
)

// Action is the operator's choice for one issue or row.
type Action string

const (
	ActionFix      Action = "fix"
	ActionIgnore   Action = "ignore"
	ActionOverride Action = "override"
	ActionDelete   Action = "delete"
)

// Decision is one entry of a decisions file:
//
//   - issue: 0_Headline_len
//     action: fix
//   - issue: 2_Status_value
//     action: override
//     value: PAUSED
//   - row: 4
//     action: delete
//
// A delete may name either a row or any issue on that row.
type Decision struct {
	Issue  string `yaml:"issue" validate:"required_without=Row"`
	Row    *int   `yaml:"row" validate:"omitempty,min=0"`
	Action Action `yaml:"action" validate:"required,oneof=fix ignore override delete"`
	Value  any    `yaml:"value"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseDecisions reads a YAML list of decisions.
func ParseDecisions(r io.Reader) ([]Decision, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ds []Decision
	if err := dec.Decode(&ds); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing decisions: %w", err)
	}
	for i, d := range ds {
		if err := validate.Struct(d); err != nil {
			return nil, fmt.Errorf("decision %d: %w", i+1, err)
		}
		if d.Action != ActionDelete && d.Issue == "" {
			return nil, fmt.Errorf("decision %d: action %q needs an issue", i+1, d.Action)
		}
	}
	return ds, nil
}

// ApplyDecisions applies ds to s in order and stops at the first failure.
func ApplyDecisions(s *Session, ds []Decision) error {
	for i, d := range ds {
		if err := apply(s, d); err != nil {
			return fmt.Errorf("decision %d: %w", i+1, err)
		}
	}
	return nil
}

func apply(s *Session, d Decision) error {
	switch d.Action {
	case ActionFix:
		return s.Fix(d.Issue)
	case ActionIgnore:
		return s.Ignore(d.Issue)
	case ActionOverride:
		v, err := toValue(d.Value)
		if err != nil {
			return err
		}
		return s.Override(d.Issue, v)
	case ActionDelete:
		if d.Row != nil {
			return s.DeleteRow(*d.Row)
		}
		is, err := s.issue(d.Issue)
		if err != nil {
			return err
		}
		return s.DeleteRow(is.RowIndex)
	default:
		return fmt.Errorf("unknown action %q", d.Action)
	}
}

// toValue keeps YAML numbers numeric and everything else as text, so a
// quoted "00123" stays a string.
func toValue(raw any) (domain.Value, error) {
	switch raw.(type) {
	case nil:
		return domain.Null(), nil
	case int, int64, uint64, float64:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return domain.Value{}, fmt.Errorf("override value: %w", err)
		}
		return domain.Num(f), nil
	default:
		s, err := cast.ToStringE(raw)
		if err != nil {
			return domain.Value{}, fmt.Errorf("override value must be a scalar: %w", err)
		}
		return domain.Str(s), nil
	}
}
