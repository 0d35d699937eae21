// Package validator evaluates declarative per-field rule lists against
// sanitized form data.
//
// Each form declares a RuleSet mapping field names to an ordered list of
// typed rules. Validate evaluates rules in declared order and keeps only the
// first failing rule's message per field; fields are validated independently
// of each other. This first-error-wins policy is part of the contract, not an
// implementation detail: user-facing feedback stays terse and deterministic.
//
// Every rule except Required passes on an empty value, so optional fields
// are only checked once the user fills them in.
package validator
