package cdl

import "fmt"

// LexError is a fatal lexical error: an unterminated string or query
// block, or a character that cannot start any token.
type LexError struct {
	At     Pos
	Reason string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("cdl: lexical error at %s: %s", e.At, e.Reason)
}

// ParseError is a fatal syntax error inside a recognized construct.
// Unrecognized top-level lines are skipped instead (see Parser).
type ParseError struct {
	At       Pos
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cdl: parse error at %s: expected %s, found %s", e.At, e.Expected, e.Found)
}

// DuplicateDefinitionError reports a constraint name defined more than
// once in a compilation unit.
type DuplicateDefinitionError struct {
	Name string
	At   Pos
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("cdl: duplicate constraint definition %q at %s", e.Name, e.At)
}

// UnknownConstraintError reports a reference to a constraint that is
// not defined anywhere in the compilation unit.
type UnknownConstraintError struct {
	Ref string
	At  Pos
}

func (e *UnknownConstraintError) Error() string {
	return fmt.Sprintf("cdl: unknown constraint %q referenced at %s", e.Ref, e.At)
}

// MissingFieldError reports a constraint definition without a required
// property.
type MissingFieldError struct {
	Constraint string
	Field      string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("cdl: constraint %q is missing required field %q", e.Constraint, e.Field)
}

// InvalidConfidenceError reports a confidence score outside [0, 1].
// Out-of-range scores are rejected, never clamped.
type InvalidConfidenceError struct {
	Constraint string
	Value      float64
}

func (e *InvalidConfidenceError) Error() string {
	return fmt.Sprintf("cdl: constraint %q has confidence %v outside [0, 1]", e.Constraint, e.Value)
}
