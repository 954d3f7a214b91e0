package ir

// Canonical JSON encoding for IR units. Field names follow the wire
// format consumed by downstream enforcement compilers; enum values use
// their glossary spellings.

import (
	"encoding/json"
	"fmt"
)

func (e Enforcement) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *Enforcement) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Syntactic":
		*e = Syntactic
	case "Structural":
		*e = Structural
	case "Semantic":
		*e = Semantic
	default:
		return fmt.Errorf("ir: unknown enforcement %q", s)
	}
	return nil
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v {
	case "error":
		*s = Error
	case "warning":
		*s = Warning
	case "hint":
		*s = Hint
	default:
		return fmt.Errorf("ir: unknown severity %q", v)
	}
	return nil
}

func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Source) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v {
	case "User_Defined":
		*s = UserDefined
	case "Test_Mining":
		*s = TestMining
	case "Documentation":
		*s = Documentation
	default:
		return fmt.Errorf("ir: unknown source %q", v)
	}
	return nil
}

type constraintJSON struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Enforcement Enforcement `json:"enforcement"`
	Severity    Severity    `json:"severity"`
	Source      Source      `json:"source"`
	Confidence  float32     `json:"confidence"`
	OriginFile  string      `json:"origin_file,omitempty"`
	Priority    uint32      `json:"priority"`
}

func (c Constraint) MarshalJSON() ([]byte, error) {
	return json.Marshal(constraintJSON(c))
}

func (c *Constraint) UnmarshalJSON(data []byte) error {
	var w constraintJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = Constraint(w)
	return nil
}

type templateJSON struct {
	Target           string   `json:"target"`
	RawSignature     string   `json:"raw_signature"`
	ApplyConstraints []string `json:"apply_constraints"`
}

func (t GenerationTemplate) MarshalJSON() ([]byte, error) {
	return json.Marshal(templateJSON(t))
}

func (t *GenerationTemplate) UnmarshalJSON(data []byte) error {
	var w templateJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = GenerationTemplate(w)
	return nil
}

type unitJSON struct {
	Module      string               `json:"module,omitempty"`
	Constraints []Constraint         `json:"constraints"`
	Templates   []GenerationTemplate `json:"templates,omitempty"`
}

// MarshalCanonical encodes the unit in its canonical JSON form.
// Encoding the same unit twice yields byte-identical output.
func (u *Unit) MarshalCanonical() ([]byte, error) {
	w := unitJSON{
		Module:      u.Module,
		Constraints: u.Constraints,
		Templates:   u.Templates,
	}
	if w.Constraints == nil {
		w.Constraints = []Constraint{}
	}
	return json.Marshal(w)
}

// DecodeUnit parses a canonically encoded unit.
func DecodeUnit(data []byte) (*Unit, error) {
	var w unitJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("ir: invalid unit JSON: %w", err)
	}
	return &Unit{
		Module:      w.Module,
		Constraints: w.Constraints,
		Templates:   w.Templates,
	}, nil
}
