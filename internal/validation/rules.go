package validation

import (
	"github.com/go-playground/validator/v10"
)

// Rule is one check on one field. Tag uses go-playground/validator syntax and
// is evaluated against the value returned by Value.
type Rule[C any] struct {
	Field   string
	Tag     string
	Message string
	Value   func(cmd C) any
}

// RuleSet evaluates every rule independently, so a field can collect several
// messages in one pass.
type RuleSet[C any] struct {
	engine *validator.Validate
	rules  []Rule[C]
}

// NewRuleSet creates a RuleSet backed by engine
func NewRuleSet[C any](engine *validator.Validate, rules ...Rule[C]) *RuleSet[C] {
	return &RuleSet[C]{engine: engine, rules: rules}
}

// Validate implements Validator
func (r *RuleSet[C]) Validate(cmd C) Failures {
	failures := Failures{}
	for _, rule := range r.rules {
		if err := r.engine.Var(rule.Value(cmd), rule.Tag); err != nil {
			failures.Add(rule.Field, rule.Message)
		}
	}
	return failures
}
