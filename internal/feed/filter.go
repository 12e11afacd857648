// Package feed pulls flagged users from the warehouse and applies the
// optional case filter before they enter the analysis pipeline.
package feed

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/opensource-finance/heron/internal/domain"
)

// Filter is a compiled CEL predicate over a flagged user. A nil Filter
// accepts every user.
type Filter struct {
	program cel.Program
	source  string
}

// CompileFilter compiles a CEL expression into a Filter. The expression
// sees alert_type, user_id and score and must evaluate to a boolean.
// An empty expression yields a nil Filter.
func CompileFilter(expr string) (*Filter, error) {
	if expr == "" {
		return nil, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("alert_type", cel.StringType),
		cel.Variable("user_id", cel.IntType),
		// Score defaults to 0.0 for alert types that carry none.
		cel.Variable("score", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("filter compilation failed: %w", issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("filter must evaluate to a boolean, got %s", ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("filter program creation failed: %w", err)
	}

	return &Filter{program: program, source: expr}, nil
}

// Accept reports whether the flagged user passes the filter. Evaluation
// errors reject the user rather than failing the run.
func (f *Filter) Accept(user domain.FlaggedUser) bool {
	if f == nil {
		return true
	}

	var score float64
	if user.Score != nil {
		score = *user.Score
	}

	out, _, err := f.program.Eval(map[string]any{
		"alert_type": string(user.AlertType),
		"user_id":    user.UserID,
		"score":      score,
	})
	if err != nil {
		return false
	}

	accepted, ok := out.(types.Bool)
	return ok && bool(accepted)
}

// Source returns the original expression, empty for a nil Filter.
func (f *Filter) Source() string {
	if f == nil {
		return ""
	}
	return f.source
}
