package cdl

import "fmt"

// Kind represents the type of a lexer token.
type Kind int

const (
	EOF Kind = iota
	Ident
	KeywordModule     // module
	KeywordImport     // import
	KeywordPub        // pub
	KeywordConst      // const
	KeywordConstraint // constraint
	String            // "..."
	MultilineString   // """..."""
	Number            // 123, -4.5
	Variant           // .Identifier (lexeme holds the tag without the dot)
	Comment           // -- to end of line
	LBrace
	RBrace
	LBracket
	RBracket
	LParen
	RParen
	Colon
	Comma
	Equals
	Dot // bare '.' not starting a variant, as in import path.{a, b}
)

var kindNames = map[Kind]string{
	EOF:               "eof",
	Ident:             "identifier",
	KeywordModule:     "'module'",
	KeywordImport:     "'import'",
	KeywordPub:        "'pub'",
	KeywordConst:      "'const'",
	KeywordConstraint: "'constraint'",
	String:            "string",
	MultilineString:   "multiline string",
	Number:            "number",
	Variant:           "variant tag",
	Comment:           "comment",
	LBrace:            "'{'",
	RBrace:            "'}'",
	LBracket:          "'['",
	RBracket:          "']'",
	LParen:            "'('",
	RParen:            "')'",
	Colon:             "':'",
	Comma:             "','",
	Equals:            "'='",
	Dot:               "'.'",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// keywords is the reserved identifier subset.
var keywords = map[string]Kind{
	"module":     KeywordModule,
	"import":     KeywordImport,
	"pub":        KeywordPub,
	"const":      KeywordConst,
	"constraint": KeywordConstraint,
}

// Pos is a position in the source text. Line and Col are 1-based;
// Offset is the byte offset.
type Pos struct {
	Line   int
	Col    int
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("line %d col %d", p.Line, p.Col)
}

// Token is a single lexeme with its source position. For strings the
// lexeme holds the decoded value; for variants, the tag without the dot;
// for comments, the text after the marker.
type Token struct {
	Kind   Kind
	Lexeme string
	At     Pos
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%v, %q, %s}", t.Kind, t.Lexeme, t.At)
}
