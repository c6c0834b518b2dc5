package property

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

//go:embed quirks.yaml
var defaultQuirks []byte

// MatchMode selects how a quirk rule's model string is compared.
type MatchMode string

const (
	MatchExact     MatchMode = "exact"
	MatchPrefix    MatchMode = "prefix"
	MatchSubstring MatchMode = "substring"
)

// Matches reports whether model matches pattern under the mode.
func (m MatchMode) Matches(pattern, model string) bool {
	switch m {
	case MatchExact:
		return model == pattern
	case MatchPrefix:
		return strings.HasPrefix(model, pattern)
	case MatchSubstring:
		return strings.Contains(model, pattern)
	default:
		return false
	}
}

// StepApexThird advances alternately by 3 and 2, walking the third stop
// grid of APEX coded values.
const StepApexThird = "apex-third"

// Range generates fallback values from Min to Max inclusive.
type Range struct {
	Min  uint32 `yaml:"min"`
	Max  uint32 `yaml:"max"`
	Step string `yaml:"step"`
}

// Values expands the range.
func (r Range) Values() []uint32 {
	var out []uint32
	for x := r.Min; x <= r.Max; {
		out = append(out, x)
		if rem := x & 7; rem == 0 || rem == 5 {
			x += 3
		} else {
			x += 2
		}
	}
	return out
}

// QuirkRule is a per-model replacement for an enumeration the device
// refuses with a not-supported error.
type QuirkRule struct {
	Model    string    `yaml:"model"`
	Match    MatchMode `yaml:"match"`
	Property string    `yaml:"property"`
	Values   []uint32  `yaml:"values,omitempty"`
	Range    *Range    `yaml:"range,omitempty"`

	// Extra values appended after Values or the expanded Range.
	Extra []uint32 `yaml:"extra,omitempty"`

	typ Type
}

// Expand returns the rule's raw values.
func (r QuirkRule) Expand() []uint32 {
	out := append([]uint32(nil), r.Values...)
	if r.Range != nil {
		out = append(out, r.Range.Values()...)
	}
	return append(out, r.Extra...)
}

func (r *QuirkRule) validate() error {
	if r.Model == "" {
		return fmt.Errorf("%w: missing model", ErrInvalidQuirk)
	}
	switch r.Match {
	case MatchExact, MatchPrefix, MatchSubstring:
	default:
		return fmt.Errorf("%w: %s: match mode %q", ErrInvalidQuirk, r.Model, r.Match)
	}
	t, ok := ParseType(r.Property)
	if !ok {
		return fmt.Errorf("%w: %s: property %q", ErrInvalidQuirk, r.Model, r.Property)
	}
	r.typ = t
	if r.Range != nil {
		if r.Range.Step != StepApexThird {
			return fmt.Errorf("%w: %s: range step %q", ErrInvalidQuirk, r.Model, r.Range.Step)
		}
		if r.Range.Min == 0 || r.Range.Max < r.Range.Min {
			return fmt.Errorf("%w: %s: range %d..%d", ErrInvalidQuirk, r.Model, r.Range.Min, r.Range.Max)
		}
	}
	return nil
}

// Quirks is an ordered list of quirk rules. The first matching rule for
// a property wins.
type Quirks struct {
	Rules []QuirkRule `yaml:"rules"`
}

// ParseQuirks parses and validates YAML quirk data.
func ParseQuirks(data []byte) (*Quirks, error) {
	var q Quirks
	if err := yaml.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("parse quirks: %w", err)
	}
	for i := range q.Rules {
		if err := q.Rules[i].validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return &q, nil
}

// LoadQuirks reads quirk data from a YAML file.
func LoadQuirks(path string) (*Quirks, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseQuirks(data)
}

// DefaultQuirks returns the built-in quirk data.
func DefaultQuirks() *Quirks {
	q, err := ParseQuirks(defaultQuirks)
	if err != nil {
		panic(err)
	}
	return q
}

// Rule returns the first rule for model and property type.
func (q *Quirks) Rule(model string, t Type) (QuirkRule, bool) {
	if q == nil {
		return QuirkRule{}, false
	}
	for _, r := range q.Rules {
		if r.typ == t && r.Match.Matches(r.Model, model) {
			return r, true
		}
	}
	return QuirkRule{}, false
}

// Fallback returns the fallback values for model and property type as
// values of the given kind.
func (q *Quirks) Fallback(model string, t Type, kind variant.Kind) ([]variant.Variant, bool, error) {
	r, ok := q.Rule(model, t)
	if !ok {
		return nil, false, nil
	}

	raw := r.Expand()
	values := make([]variant.Variant, 0, len(raw))
	for _, x := range raw {
		v, err := variant.FromUint(kind, uint64(x))
		if err != nil {
			return nil, true, err
		}
		values = append(values, v)
	}
	return values, true, nil
}
