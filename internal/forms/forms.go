package forms

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/potools/pluralform/internal/formula"
	"github.com/potools/pluralform/internal/types"
)

// PluralForms is the decoded value of a catalog's Plural-Forms header,
// e.g. "nplurals=2; plural=n != 1;".
type PluralForms struct {
	formula       *formula.Expr
	count         int
	definition    string
	formulaSource string
}

type header struct {
	NPlurals uint   `mapstructure:"nplurals"`
	Plural   string `mapstructure:"plural"`
}

func Parse(definition string) (*PluralForms, error) {
	values := map[string]any{}
	for _, part := range strings.Split(definition, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, found := strings.Cut(part, "=")
		if !found {
			return nil, types.NewError(types.ValueErrorTag, "missing %q in %q", "=", part)
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if _, ok := values["nplurals"]; !ok {
		values["nplurals"] = 2
	}

	var h header
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &h,
	})
	if err != nil {
		return nil, fmt.Errorf("mapstructure.NewDecoder: %w", err)
	}
	if err = decoder.Decode(values); err != nil {
		return nil, &types.Error{
			Tag: types.ValueErrorTag,
			Err: fmt.Errorf("invalid Plural-Forms %q: %w", definition, err),
		}
	}

	// an absent selection formula means the count itself is the index
	expr := formula.VariableExpr()
	if h.Plural != "" {
		expr, err = formula.Parse(h.Plural)
		if err != nil {
			return nil, err
		}
	}

	return &PluralForms{
		formula:       expr,
		count:         int(h.NPlurals),
		definition:    definition,
		formulaSource: h.Plural,
	}, nil
}

// Index evaluates the selection formula for the given count and checks
// the result against the declared number of forms.
func (f *PluralForms) Index(n int64) (int, error) {
	v, err := f.formula.Eval(n)
	if err != nil {
		return 0, err
	}
	if v < 0 || v >= int64(f.count) {
		return 0, &types.Error{
			Tag:   types.IndexErrorTag,
			Err:   fmt.Errorf("plural index %d for count %d is out of [0, %d)", v, n, f.count),
			Extra: map[string]any{"index": v, "count": n},
		}
	}
	return int(v), nil
}

func (f *PluralForms) NPlurals() int {
	return f.count
}

func (f *PluralForms) Formula() string {
	return f.formulaSource
}

func (f *PluralForms) Definition() string {
	return f.definition
}

func (f *PluralForms) Expr() *formula.Expr {
	return f.formula
}
