// Package cdl implements the compiler front-end for the CDL
// constraint-definition language: lexer, parser, semantic analyzer, and
// IR generator, run as one synchronous pipeline per compilation unit.
//
// The pipeline aborts at the first hard error and never emits partial
// IR; a half-generated unit could silently omit constraints and make
// generated code look compliant when it is not.
package cdl

import (
	"fmt"

	"github.com/cdl-lang/go-cdl/ir"
)

// MacroExpander rewrites or extends a parsed AST before semantic
// analysis. Implementations must preserve top-level node order, which
// the IR generator relies on. The compiler blocks on the expander and
// propagates its failure as a compilation error; retry policy belongs
// to the expander or the caller.
type MacroExpander func(*File) (*File, error)

// Option configures a Compile call.
type Option func(*options)

type options struct {
	expand MacroExpander
}

// WithMacroExpander installs a macro-expansion collaborator, invoked
// once between parsing and analysis. Absent this option, an identity
// expansion is used.
func WithMacroExpander(fn MacroExpander) Option {
	return func(o *options) { o.expand = fn }
}

// Compile runs the full pipeline over one source text and returns the
// compiled unit. Each call works on private state; concurrent calls on
// different sources need no synchronization.
func Compile(src string, opts ...Option) (*ir.Unit, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	file, err := Parse(src)
	if err != nil {
		return nil, err
	}

	if o.expand != nil {
		file, err = o.expand(file)
		if err != nil {
			return nil, fmt.Errorf("cdl: macro expansion failed: %w", err)
		}
	}

	symbols, err := Analyze(file)
	if err != nil {
		return nil, err
	}
	return Generate(file, symbols)
}
