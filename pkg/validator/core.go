package validator

import (
	"fmt"
	"sort"
	"strings"
)

// Rule is a single typed validation check with a user-facing message.
// Rules are constructed via the package constructors (Required, Email,
// MinLen, ...) so rule lists stay declarative and free of string parsing.
type Rule struct {
	check   func(value string) bool
	message string
}

// NewRule builds a custom rule from a predicate and a message.
func NewRule(check func(value string) bool, message string) Rule {
	return Rule{check: check, message: message}
}

// Message returns the error message shown when the rule fails.
func (r Rule) Message() string { return r.message }

// RuleSet maps field names to their ordered rule lists.
type RuleSet map[string][]Rule

// Errors maps field names to the first failing rule's message.
// An empty map signals success.
type Errors map[string]string

// IsEmpty reports whether validation passed.
func (e Errors) IsEmpty() bool { return len(e) == 0 }

// Fields returns the failed field names in stable order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, field := range e.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate evaluates each field's rules in declared order, stopping at the
// first failing rule per field. Fields without declared rules are ignored;
// a field absent from the data map is validated as empty. The returned map
// contains at most one message per field and only for fields present in the
// rule set.
func Validate(fields map[string]string, rules RuleSet) Errors {
	errs := make(Errors)
	for field, list := range rules {
		value := fields[field]
		for _, rule := range list {
			if !rule.check(value) {
				errs[field] = rule.message
				break
			}
		}
	}
	return errs
}
