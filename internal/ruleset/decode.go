package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/eykd/adsheet-go/internal/checks"
	"github.com/eykd/adsheet-go/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode reads one ruleset document from r. source names the document in
// error messages.
func Decode(r io.Reader, source string) (*RuleSet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var rs RuleSet
	if err := dec.Decode(&rs); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, &domain.ConfigError{Source: source, Err: err}
	}
	rs.Source = source

	if err := rs.compile(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Parse decodes a ruleset held in memory.
func Parse(data []byte, source string) (*RuleSet, error) {
	return Decode(bytes.NewReader(data), source)
}

func (rs *RuleSet) compile() error {
	if err := validate.Struct(struct {
		Platform string `yaml:"platform" validate:"required"`
	}{rs.Platform}); err != nil {
		return rs.configError("", err)
	}

	seen := make(map[string]bool, len(rs.Rules))
	for i := range rs.Rules {
		r := &rs.Rules[i]
		if err := validate.Struct(r); err != nil {
			return rs.configError(r.Column, err)
		}
		if seen[r.Column] {
			return rs.configError(r.Column, errors.New("duplicate rule"))
		}
		seen[r.Column] = true
		if err := r.compile(); err != nil {
			return rs.configError(r.Column, err)
		}
	}

	for i := range rs.Fixes {
		f := &rs.Fixes[i]
		if err := validate.Struct(f); err != nil {
			return rs.configError(f.TargetColumn, err)
		}
		if err := f.check(); err != nil {
			return rs.configError(f.TargetColumn, err)
		}
		if !seen[f.TargetColumn] {
			return rs.configError(f.TargetColumn, errors.New("fix targets a column with no rule"))
		}
	}

	for i := range rs.Policies {
		p := &rs.Policies[i]
		if err := validate.Struct(p); err != nil {
			return rs.configError(p.Column, err)
		}
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return rs.configError(p.Column, fmt.Errorf("policy pattern: %w", err))
		}
		p.re = re
	}
	return nil
}

func (rs *RuleSet) configError(column string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		err = fmt.Errorf("field %s fails %q constraint", fe.Field(), describeTag(fe))
	}
	return &domain.ConfigError{Source: rs.Source, Column: column, Err: err}
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

func (r *Rule) compile() error {
	if r.Type == "" {
		r.Type = TypeString
	}

	if (r.Min != nil || r.Max != nil) && !r.IsNumeric() {
		return fmt.Errorf("min/max require a numeric type, got %q", r.Type)
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("min %v is greater than max %v", *r.Min, *r.Max)
	}
	if r.RecommendedMax != nil {
		if r.MaxLength == nil {
			return errors.New("recommended_max requires max_length")
		}
		if *r.RecommendedMax > *r.MaxLength {
			return fmt.Errorf("recommended_max %d exceeds max_length %d", *r.RecommendedMax, *r.MaxLength)
		}
	}

	r.constraints = nil
	switch {
	case r.Type == TypeURL:
		max := checks.DefaultMaxURLLength
		if r.MaxLength != nil {
			max = *r.MaxLength
		}
		r.constraints = append(r.constraints, URLConstraint{MaxLength: max})
	case r.IsNumeric():
		r.constraints = append(r.constraints, NumericConstraint{Min: r.Min, Max: r.Max})
	}

	if len(r.Values) > 0 {
		folded := make(map[string]bool, len(r.Values))
		for _, v := range r.Values {
			folded[Fold(v)] = true
		}
		r.constraints = append(r.constraints, EnumConstraint{Values: r.Values, folded: folded})
	}

	if r.MaxLength != nil {
		rec := *r.MaxLength
		if r.RecommendedMax != nil {
			rec = *r.RecommendedMax
		}
		r.constraints = append(r.constraints, LengthConstraint{Max: *r.MaxLength, Recommended: rec})
	}

	if r.Regex != "" {
		re, err := regexp.Compile(`^(?:` + r.Regex + `)`)
		if err != nil {
			return fmt.Errorf("regex: %w", err)
		}
		r.constraints = append(r.constraints, RegexConstraint{Source: r.Regex, Pattern: re})
	}

	r.prohibited = r.ProhibitedChars
	return nil
}

func (f *Fix) check() error {
	if f.Rule == FixMapValues && len(f.Mapping) == 0 {
		return errors.New("map_values fix requires a mapping")
	}
	keys := make(map[string]string, len(f.Mapping))
	for k := range f.Mapping {
		folded := Fold(k)
		if prev, ok := keys[folded]; ok {
			return fmt.Errorf("mapping keys %q and %q differ only by case", prev, k)
		}
		keys[folded] = k
	}
	return nil
}
