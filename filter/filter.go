// Package filter compiles boolean expressions evaluated against movies in
// the local catalog snapshot, e.g. `Genre == "Thriller" and not Favorite`.
package filter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/movio/movio-cli/movio"
)

// Filter is a compiled movie filter expression
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression into an executable filter
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(), // Allow movie properties
		expr.AsBool(),                  // Ensure boolean result
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{
		expression: expression,
		program:    program,
	}, nil
}

// Match evaluates the filter against one movie environment
func (f *Filter) Match(env map[string]any) (bool, error) {
	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter %q: %w", f.expression, err)
	}

	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q did not produce a boolean", f.expression)
	}
	return matched, nil
}

// String returns the original expression
func (f *Filter) String() string {
	return f.expression
}

// MovieEnv builds the evaluation environment for a movie. Favorite reflects
// local favorites membership at evaluation time.
func MovieEnv(movie movio.Movie, favorite bool) map[string]any {
	return map[string]any{
		"Title":       movie.Title,
		"Description": movie.Description,
		"Genre":       movie.Genre.Name,
		"Director":    movie.Director.Name,
		"Featured":    movie.Featured,
		"Favorite":    favorite,
	}
}
