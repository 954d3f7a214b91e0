package cdl

// SymbolTable maps constraint names to their definitions within one
// compilation unit.
type SymbolTable map[string]*ConstraintDef

// Has reports whether the name is defined.
func (s SymbolTable) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Analyze validates the AST and returns its symbol table. It makes two
// passes and mutates nothing: the first collects every constraint name
// (rejecting duplicates), the second checks that inherits targets and
// constraint references resolve. Collection runs to completion before
// validation, so forward references succeed.
func Analyze(file *File) (SymbolTable, error) {
	symbols := make(SymbolTable)
	for _, n := range file.Nodes {
		def, ok := n.(*ConstraintDef)
		if !ok {
			continue
		}
		if symbols.Has(def.Name) {
			return nil, &DuplicateDefinitionError{Name: def.Name, At: def.At}
		}
		symbols[def.Name] = def
	}

	for _, n := range file.Nodes {
		switch node := n.(type) {
		case *ConstraintDef:
			if node.Inherits != "" && !symbols.Has(node.Inherits) {
				return nil, &UnknownConstraintError{Ref: node.Inherits, At: node.InheritsAt}
			}
		case *PublicConst:
			if err := checkRefs(node.Value, symbols); err != nil {
				return nil, err
			}
		case *GenerateStmt:
			if val, ok := FindProperty(node.Properties, "constraints"); ok {
				if err := checkRefs(val, symbols); err != nil {
					return nil, err
				}
			}
		}
	}
	return symbols, nil
}

// checkRefs walks a value tree and resolves every bare-identifier
// reference against the symbol table.
func checkRefs(val Value, symbols SymbolTable) error {
	switch v := val.(type) {
	case *RefValue:
		if !symbols.Has(v.Name) {
			return &UnknownConstraintError{Ref: v.Name, At: v.At}
		}
	case *ArrayValue:
		for _, item := range v.Items {
			if err := checkRefs(item, symbols); err != nil {
				return err
			}
		}
	case *ObjectValue:
		for _, p := range v.Props {
			if err := checkRefs(p.Val, symbols); err != nil {
				return err
			}
		}
	case *VariantValue:
		if v.Payload != nil {
			return checkRefs(v.Payload, symbols)
		}
	}
	return nil
}
