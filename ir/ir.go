// Package ir defines the constraint intermediate representation emitted
// by the cdl compiler and consumed by downstream enforcement compilers.
package ir

import "fmt"

// Enforcement describes how strictly a constraint is checked.
type Enforcement int

const (
	Syntactic Enforcement = iota
	Structural
	Semantic
)

func (e Enforcement) String() string {
	switch e {
	case Structural:
		return "Structural"
	case Semantic:
		return "Semantic"
	default:
		return "Syntactic"
	}
}

// Severity describes what happens when a constraint fails.
type Severity int

const (
	Error Severity = iota
	Warning
	Hint
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Hint:
		return "hint"
	default:
		return "error"
	}
}

// Source describes where a constraint originated.
type Source int

const (
	UserDefined Source = iota
	TestMining
	Documentation
)

func (s Source) String() string {
	switch s {
	case TestMining:
		return "Test_Mining"
	case Documentation:
		return "Documentation"
	default:
		return "User_Defined"
	}
}

// Constraint is a single compiled constraint entry. Entries own all of
// their data; none of the fields alias parser-internal state.
type Constraint struct {
	ID          uint64
	Name        string
	Enforcement Enforcement
	Severity    Severity
	Source      Source
	Confidence  float32
	OriginFile  string // empty when the constraint carries no origin artifact
	Priority    uint32
}

// GenerationTemplate is a compiled generate form. Templates are not
// hashed; they are handed to the code-generation stage as-is.
type GenerationTemplate struct {
	Target           string
	RawSignature     string
	ApplyConstraints []string
}

// Unit is the durable output of one compilation: every constraint and
// template from a single source, in declaration order.
type Unit struct {
	Module      string
	Constraints []Constraint
	Templates   []GenerationTemplate
}

// ConstraintByName returns the constraint with the given name, or nil.
func (u *Unit) ConstraintByName(name string) *Constraint {
	for i := range u.Constraints {
		if u.Constraints[i].Name == name {
			return &u.Constraints[i]
		}
	}
	return nil
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s#%016x [%s/%s]", c.Name, c.ID, c.Enforcement, c.Severity)
}
