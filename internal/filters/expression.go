package filters

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"insarmap/internal/dataprocessing"
	apperrors "insarmap/internal/errors"
)

// ExpressionFilter keeps rows for which a boolean expr-lang expression holds.
// Each row is exposed to the expression as its typed cells keyed by column
// name, e.g. `latitude > 51.5 && refFrame == "ITRF2014"`.
type ExpressionFilter struct {
	source  string
	program *vm.Program
}

// NewExpressionFilter compiles source. Unknown identifiers evaluate to nil.
func NewExpressionFilter(source string) (*ExpressionFilter, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, apperrors.NewValidationError("expression cannot be empty", nil)
	}
	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, apperrors.NewValidationError("invalid filter expression", err).
			WithContext("expression", source)
	}
	return &ExpressionFilter{source: source, program: program}, nil
}

func (f *ExpressionFilter) Name() string     { return "Expression filter" }
func (f *ExpressionFilter) Describe() string { return f.source }

func (f *ExpressionFilter) Apply(t *dataprocessing.Table) (*dataprocessing.Table, error) {
	keep := make([]bool, t.Len())
	for i := 0; i < t.Len(); i++ {
		out, err := expr.Run(f.program, t.Record(i))
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("expression failed on row %d", i), err).
				WithContext("expression", f.source)
		}
		ok, isBool := out.(bool)
		if !isBool {
			return nil, apperrors.NewValidationError(fmt.Sprintf("expression returned %T, want bool", out), nil).
				WithContext("expression", f.source)
		}
		keep[i] = ok
	}

	i := -1
	return t.Where(func(dataprocessing.Row) bool {
		i++
		return keep[i]
	}), nil
}
