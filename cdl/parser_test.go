package cdl

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, input string) *File {
	t.Helper()
	file, err := Parse(input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return file
}

func TestParser_ModuleDecl(t *testing.T) {
	file := mustParse(t, `module policies.core`)

	if len(file.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(file.Nodes))
	}
	mod, ok := file.Nodes[0].(*ModuleDecl)
	if !ok {
		t.Fatalf("expected ModuleDecl, got %T", file.Nodes[0])
	}
	if mod.Name != "policies.core" {
		t.Errorf("expected 'policies.core', got %q", mod.Name)
	}
}

func TestParser_Imports(t *testing.T) {
	file := mustParse(t, "import std.lint\nimport std.security.{no_exec, no_eval}")

	if len(file.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(file.Nodes))
	}
	first := file.Nodes[0].(*ImportStmt)
	if first.Path != "std.lint" || len(first.Symbols) != 0 {
		t.Errorf("unexpected first import: %+v", first)
	}
	second := file.Nodes[1].(*ImportStmt)
	if second.Path != "std.security" {
		t.Errorf("expected path 'std.security', got %q", second.Path)
	}
	if len(second.Symbols) != 2 || second.Symbols[0] != "no_exec" || second.Symbols[1] != "no_eval" {
		t.Errorf("unexpected symbols: %v", second.Symbols)
	}
}

func TestParser_ConstraintWithInherits(t *testing.T) {
	file := mustParse(t, `constraint strict_types inherits base_types { id: "st-1" }`)

	def := file.Nodes[0].(*ConstraintDef)
	if def.Name != "strict_types" {
		t.Errorf("expected name 'strict_types', got %q", def.Name)
	}
	if def.Inherits != "base_types" {
		t.Errorf("expected inherits 'base_types', got %q", def.Inherits)
	}
	if len(def.Properties) != 1 || def.Properties[0].Key != "id" {
		t.Errorf("unexpected properties: %+v", def.Properties)
	}
}

func TestParser_ValueKinds(t *testing.T) {
	file := mustParse(t, `constraint kitchen_sink {
		id: "ks-1",
		active: true,
		disabled: false,
		priority: 7,
		note: "plain",
		tags: ["a", "b"],
		meta: { nested: { deep: 1 }, list: [1, 2] },
		enforcement: .Structural,
		shape: .Type({ kind: "record" }),
	}`)

	def := file.Nodes[0].(*ConstraintDef)
	props := def.Properties
	if len(props) != 9 {
		t.Fatalf("expected 9 properties, got %d", len(props))
	}

	if b := props[1].Val.(*BoolValue); !b.Val {
		t.Errorf("expected active true")
	}
	if b := props[2].Val.(*BoolValue); b.Val {
		t.Errorf("expected disabled false")
	}
	if n := props[3].Val.(*NumberValue); n.Val != 7 {
		t.Errorf("expected priority 7, got %v", n.Val)
	}
	arr := props[5].Val.(*ArrayValue)
	if len(arr.Items) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(arr.Items))
	}
	obj := props[6].Val.(*ObjectValue)
	if obj.Props[0].Key != "nested" {
		t.Errorf("expected nested key first, got %q", obj.Props[0].Key)
	}
	v := props[7].Val.(*VariantValue)
	if v.Tag != "Structural" || v.Payload != nil {
		t.Errorf("unexpected variant: %+v", v)
	}
	shape := props[8].Val.(*VariantValue)
	if shape.Tag != "Type" {
		t.Errorf("expected tag 'Type', got %q", shape.Tag)
	}
	payload, ok := shape.Payload.(*ObjectValue)
	if !ok {
		t.Fatalf("expected object payload, got %T", shape.Payload)
	}
	if s := payload.Props[0].Val.(*StringValue); s.Val != "record" {
		t.Errorf("expected payload kind 'record', got %q", s.Val)
	}
}

func TestParser_QueryBlockBraceBalanced(t *testing.T) {
	file := mustParse(t, `constraint no_unwrap {
		id: "nu-1",
		pattern: query(tree_sitter) { (call_expression (field_expression { "unwrap" })) }
	}`)

	def := file.Nodes[0].(*ConstraintDef)
	val, ok := FindProperty(def.Properties, "pattern")
	if !ok {
		t.Fatal("pattern property missing")
	}
	q := val.(*QueryValue)
	if q.Language != "tree_sitter" {
		t.Errorf("expected language 'tree_sitter', got %q", q.Language)
	}
	want := ` (call_expression (field_expression { "unwrap" })) `
	if q.Body != want {
		t.Errorf("expected body %q, got %q", want, q.Body)
	}
}

func TestParser_PubConst(t *testing.T) {
	file := mustParse(t, `pub const default_set = [rule_a, rule_b]`)

	pc := file.Nodes[0].(*PublicConst)
	if pc.Name != "default_set" {
		t.Errorf("expected name 'default_set', got %q", pc.Name)
	}
	arr := pc.Value.(*ArrayValue)
	if len(arr.Items) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(arr.Items))
	}
	if ref := arr.Items[0].(*RefValue); ref.Name != "rule_a" {
		t.Errorf("expected ref 'rule_a', got %q", ref.Name)
	}
}

func TestParser_GenerateStmt(t *testing.T) {
	file := mustParse(t, `generate parse_config {
		signature: """fn parse_config(path: str) -> Config""",
		constraints: [no_panic, total_match]
	}`)

	gen := file.Nodes[0].(*GenerateStmt)
	if gen.Target != "parse_config" {
		t.Errorf("expected target 'parse_config', got %q", gen.Target)
	}
	sig, ok := FindProperty(gen.Properties, "signature")
	if !ok {
		t.Fatal("signature property missing")
	}
	if sig.(*StringValue).Val != "fn parse_config(path: str) -> Config" {
		t.Errorf("unexpected signature %q", sig.(*StringValue).Val)
	}
}

func TestParser_TopLevelCommentsKept(t *testing.T) {
	file := mustParse(t, "-- header\nconstraint a { id: \"1\" }\n-- footer")

	if len(file.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(file.Nodes))
	}
	if c := file.Nodes[0].(*CommentNode); c.Text != " header" {
		t.Errorf("unexpected header comment %q", c.Text)
	}
	if _, ok := file.Nodes[2].(*CommentNode); !ok {
		t.Errorf("expected trailing comment node, got %T", file.Nodes[2])
	}
}

func TestParser_CommentAfterModuleKept(t *testing.T) {
	file := mustParse(t, "module m\n-- note\nconstraint a { id: \"1\" }")

	if len(file.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(file.Nodes))
	}
	c, ok := file.Nodes[1].(*CommentNode)
	if !ok {
		t.Fatalf("expected comment node after module, got %T", file.Nodes[1])
	}
	if c.Text != " note" {
		t.Errorf("unexpected comment text %q", c.Text)
	}
}

func TestParser_CommentAfterImportKept(t *testing.T) {
	file := mustParse(t, "import std.lint\n-- note\nimport std.security.{no_exec}\n-- tail")

	comments := 0
	for _, n := range file.Nodes {
		if _, ok := n.(*CommentNode); ok {
			comments++
		}
	}
	if comments != 2 {
		t.Fatalf("expected 2 comment nodes, got %d (nodes: %d)", comments, len(file.Nodes))
	}
	if _, ok := file.Nodes[1].(*CommentNode); !ok {
		t.Errorf("expected comment node after first import, got %T", file.Nodes[1])
	}
}

func TestParser_CommentAfterVariantPubConstKept(t *testing.T) {
	file := mustParse(t, "pub const mode = .Manual\n-- note\nconstraint a { id: \"1\" }")

	if len(file.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(file.Nodes))
	}
	pc := file.Nodes[0].(*PublicConst)
	if v := pc.Value.(*VariantValue); v.Tag != "Manual" || v.Payload != nil {
		t.Errorf("unexpected pub const value %+v", pc.Value)
	}
	if _, ok := file.Nodes[1].(*CommentNode); !ok {
		t.Errorf("expected comment node after pub const, got %T", file.Nodes[1])
	}
}

func TestParser_UnknownTopLevelLineSkipped(t *testing.T) {
	file := mustParse(t, "totally bogus line 42\nconstraint a { id: \"1\" }")

	if len(file.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(file.Nodes))
	}
	if def := file.Nodes[0].(*ConstraintDef); def.Name != "a" {
		t.Errorf("expected constraint 'a', got %q", def.Name)
	}
}

func TestParser_MalformedConstructIsFatal(t *testing.T) {
	cases := []string{
		`constraint a { id "1" }`,   // missing colon
		`constraint a { id: "1"`,    // end of input mid-construct
		`constraint a { id: "1" ]`,  // wrong closer
		`pub const x [a]`,           // missing equals
		`constraint a { : "1" }`,    // missing key
		`constraint { id: "1" }`,    // missing name
		`import`,                    // missing path
		`constraint a inherits { }`, // missing inherits target
	}
	for _, src := range cases {
		_, err := Parse(src)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("%q: expected ParseError, got %v", src, err)
		}
	}
}

func TestParser_CommentOnlyFile(t *testing.T) {
	file := mustParse(t, "-- nothing but commentary")

	if len(file.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(file.Nodes))
	}
	if _, ok := file.Nodes[0].(*CommentNode); !ok {
		t.Errorf("expected comment node, got %T", file.Nodes[0])
	}
}

func TestParser_CommentsInsideConstructSkipped(t *testing.T) {
	file := mustParse(t, `constraint a {
		-- the identifier
		id: "1",
		-- tuning
		priority: 3
	}`)

	def := file.Nodes[0].(*ConstraintDef)
	if len(def.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(def.Properties))
	}
}

func TestParser_TrailingCommaAllowed(t *testing.T) {
	file := mustParse(t, `constraint a { id: "1", tags: ["x",], }`)

	def := file.Nodes[0].(*ConstraintDef)
	if len(def.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(def.Properties))
	}
	if arr := def.Properties[1].Val.(*ArrayValue); len(arr.Items) != 1 {
		t.Errorf("expected 1 tag, got %d", len(arr.Items))
	}
}

func TestParser_OrderPreserved(t *testing.T) {
	file := mustParse(t, `module m
constraint b { id: "2" }
constraint a { id: "1" }
pub const all = [a, b]`)

	wantTypes := []string{"*cdl.ModuleDecl", "*cdl.ConstraintDef", "*cdl.ConstraintDef", "*cdl.PublicConst"}
	if len(file.Nodes) != len(wantTypes) {
		t.Fatalf("expected %d nodes, got %d", len(wantTypes), len(file.Nodes))
	}
	if file.Nodes[1].(*ConstraintDef).Name != "b" {
		t.Errorf("declaration order not preserved")
	}
}
