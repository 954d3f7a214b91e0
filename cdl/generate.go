package cdl

import (
	"math"

	"github.com/cdl-lang/go-cdl/ir"
)

// Default IR field values. Every mapping from a variant tag is total:
// an unrecognized tag falls back to the default rather than failing,
// including tags that carry a payload.
const (
	defaultConfidence = 1.0
	defaultPriority   = 50
)

// Generate lowers a validated AST into an IR unit, one constraint
// entry per definition in source order. The symbol table from Analyze
// sizes the output, so the AST is walked exactly once here.
func Generate(file *File, symbols SymbolTable) (*ir.Unit, error) {
	unit := &ir.Unit{Constraints: make([]ir.Constraint, 0, len(symbols))}
	for _, n := range file.Nodes {
		switch node := n.(type) {
		case *ModuleDecl:
			if unit.Module == "" {
				unit.Module = node.Name
			}
		case *ConstraintDef:
			entry, err := lowerConstraint(node)
			if err != nil {
				return nil, err
			}
			unit.Constraints = append(unit.Constraints, entry)
		case *GenerateStmt:
			unit.Templates = append(unit.Templates, lowerTemplate(node))
		}
	}
	return unit, nil
}

func lowerConstraint(def *ConstraintDef) (ir.Constraint, error) {
	entry := ir.Constraint{
		Name:        def.Name,
		Enforcement: ir.Syntactic,
		Severity:    ir.Error,
		Source:      ir.UserDefined,
		Confidence:  defaultConfidence,
		Priority:    defaultPriority,
	}

	id, ok := stringProp(def.Properties, "id")
	if !ok {
		return entry, &MissingFieldError{Constraint: def.Name, Field: "id"}
	}
	entry.ID = ir.HashID(id)

	if tag, ok := variantProp(def.Properties, "enforcement"); ok {
		entry.Enforcement = enforcementFor(tag)
	}
	if tag, ok := variantProp(def.Properties, "failure_mode"); ok {
		entry.Severity = severityFor(tag)
	}
	if obj, ok := objectProp(def.Properties, "provenance"); ok {
		if tag, ok := variantProp(obj, "source"); ok {
			entry.Source = sourceFor(tag)
		}
		if score, ok := numberProp(obj, "confidence_score"); ok {
			if score < 0 || score > 1 {
				return entry, &InvalidConfidenceError{Constraint: def.Name, Value: score}
			}
			entry.Confidence = float32(score)
		}
		if origin, ok := stringProp(obj, "origin_artifact"); ok {
			entry.OriginFile = origin
		}
	}
	if n, ok := numberProp(def.Properties, "priority"); ok {
		entry.Priority = toPriority(n)
	}
	return entry, nil
}

func lowerTemplate(stmt *GenerateStmt) ir.GenerationTemplate {
	tmpl := ir.GenerationTemplate{Target: stmt.Target}
	if sig, ok := stringProp(stmt.Properties, "signature"); ok {
		tmpl.RawSignature = sig
	}
	if val, ok := FindProperty(stmt.Properties, "constraints"); ok {
		if arr, ok := val.(*ArrayValue); ok {
			for _, item := range arr.Items {
				if ref, ok := item.(*RefValue); ok {
					tmpl.ApplyConstraints = append(tmpl.ApplyConstraints, ref.Name)
				}
			}
		}
	}
	return tmpl
}

// Tag mappings. Only the outer tag matters; payloads on unrecognized
// tags pass through to the default.

func enforcementFor(tag string) ir.Enforcement {
	switch tag {
	case "Structural":
		return ir.Structural
	case "Semantic":
		return ir.Semantic
	default:
		return ir.Syntactic
	}
}

func severityFor(tag string) ir.Severity {
	switch tag {
	case "SoftWarn":
		return ir.Warning
	case "Suggest":
		return ir.Hint
	default:
		return ir.Error
	}
}

func sourceFor(tag string) ir.Source {
	switch tag {
	case "ClewMined":
		return ir.TestMining
	case "BestPractice":
		return ir.Documentation
	default:
		return ir.UserDefined
	}
}

func toPriority(n float64) uint32 {
	if n < 0 {
		return 0
	}
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}

// Typed property lookups over an order-preserving property list.

func stringProp(props []Property, key string) (string, bool) {
	if val, ok := FindProperty(props, key); ok {
		if s, ok := val.(*StringValue); ok {
			return s.Val, true
		}
	}
	return "", false
}

func numberProp(props []Property, key string) (float64, bool) {
	if val, ok := FindProperty(props, key); ok {
		if n, ok := val.(*NumberValue); ok {
			return n.Val, true
		}
	}
	return 0, false
}

func variantProp(props []Property, key string) (string, bool) {
	if val, ok := FindProperty(props, key); ok {
		if v, ok := val.(*VariantValue); ok {
			return v.Tag, true
		}
	}
	return "", false
}

func objectProp(props []Property, key string) ([]Property, bool) {
	if val, ok := FindProperty(props, key); ok {
		if o, ok := val.(*ObjectValue); ok {
			return o.Props, true
		}
	}
	return nil, false
}
