package cdl

import "strconv"

// Parser builds an AST from a token stream. Error handling is
// two-tier: a top-level line that does not start a recognized form is
// skipped, while anything malformed inside a recognized construct is a
// fatal ParseError.
type Parser struct {
	lex *Lexer
	buf *Token // single-token lookahead, nil when empty
}

// NewParser creates a parser over the given source text.
func NewParser(input string) *Parser {
	return &Parser{lex: NewLexer(input)}
}

// Parse parses CDL source text into a File.
func Parse(input string) (*File, error) {
	return NewParser(input).ParseFile()
}

// next returns the next token, comments included.
func (p *Parser) next() (Token, error) {
	if p.buf != nil {
		tok := *p.buf
		p.buf = nil
		return tok, nil
	}
	return p.lex.NextToken()
}

// nextCode returns the next non-comment token.
func (p *Parser) nextCode() (Token, error) {
	for {
		tok, err := p.next()
		if err != nil || tok.Kind != Comment {
			return tok, err
		}
	}
}

// peekCode returns the next non-comment token without consuming it.
func (p *Parser) peekCode() (Token, error) {
	if p.buf == nil || p.buf.Kind == Comment {
		tok, err := p.nextCode()
		if err != nil {
			return Token{}, err
		}
		p.buf = &tok
	}
	return *p.buf, nil
}

// peekRaw returns the next token, comments included, without consuming it.
func (p *Parser) peekRaw() (Token, error) {
	if p.buf == nil {
		tok, err := p.lex.NextToken()
		if err != nil {
			return Token{}, err
		}
		p.buf = &tok
	}
	return *p.buf, nil
}

// expect consumes the next non-comment token and requires the given kind.
func (p *Parser) expect(kind Kind) (Token, error) {
	tok, err := p.nextCode()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != kind {
		return Token{}, &ParseError{At: tok.At, Expected: kind.String(), Found: tok.Kind.String()}
	}
	return tok, nil
}

// ParseFile parses the whole input and returns the ordered AST.
func (p *Parser) ParseFile() (*File, error) {
	file := &File{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		var node Node
		switch tok.Kind {
		case EOF:
			return file, nil
		case Comment:
			node = &CommentNode{Text: tok.Lexeme, At: tok.At}
		case KeywordModule:
			node, err = p.parseModule(tok)
		case KeywordImport:
			node, err = p.parseImport(tok)
		case KeywordConstraint:
			node, err = p.parseConstraint(tok)
		case KeywordPub:
			node, err = p.parsePublicConst(tok)
		case Ident:
			if tok.Lexeme == "generate" {
				node, err = p.parseGenerate(tok)
				break
			}
			err = p.skipLine(tok)
		default:
			err = p.skipLine(tok)
		}
		if err != nil {
			return nil, err
		}
		if node != nil {
			file.Nodes = append(file.Nodes, node)
		}
	}
}

// skipLine discards the rest of an unrecognized top-level line.
// Recovery stops at the first token of the next line, so a following
// recognized form still parses.
func (p *Parser) skipLine(tok Token) error {
	for {
		nt, err := p.peekRaw()
		if err != nil {
			return err
		}
		if nt.Kind == EOF || nt.At.Line > tok.At.Line {
			return nil
		}
		if _, err := p.next(); err != nil {
			return err
		}
	}
}

// parseDottedPath reads ident(.ident)* starting from an already
// consumed identifier. Each `.segment` arrives as a variant token.
func (p *Parser) parseDottedPath() (string, error) {
	first, err := p.expect(Ident)
	if err != nil {
		return "", err
	}
	path := first.Lexeme
	for {
		// Raw lookahead: a comment cannot continue a dotted path, and
		// consuming it here would drop a top-level CommentNode.
		nt, err := p.peekRaw()
		if err != nil {
			return "", err
		}
		if nt.Kind != Variant {
			return path, nil
		}
		p.next()
		path += "." + nt.Lexeme
	}
}

func (p *Parser) parseModule(start Token) (Node, error) {
	path, err := p.parseDottedPath()
	if err != nil {
		return nil, err
	}
	return &ModuleDecl{Name: path, At: start.At}, nil
}

func (p *Parser) parseImport(start Token) (Node, error) {
	path, err := p.parseDottedPath()
	if err != nil {
		return nil, err
	}
	stmt := &ImportStmt{Path: path, At: start.At}

	// Optional `.{sym, sym}` selector. Raw lookahead so a comment after
	// the import line stays buffered for ParseFile.
	nt, err := p.peekRaw()
	if err != nil {
		return nil, err
	}
	if nt.Kind != Dot {
		return stmt, nil
	}
	p.next()
	if _, err := p.expect(LBrace); err != nil {
		return nil, err
	}
	for {
		tok, err := p.nextCode()
		if err != nil {
			return nil, err
		}
		if tok.Kind == RBrace {
			return stmt, nil
		}
		if tok.Kind != Ident {
			return nil, &ParseError{At: tok.At, Expected: "imported symbol", Found: tok.Kind.String()}
		}
		stmt.Symbols = append(stmt.Symbols, tok.Lexeme)
		sep, err := p.nextCode()
		if err != nil {
			return nil, err
		}
		if sep.Kind == RBrace {
			return stmt, nil
		}
		if sep.Kind != Comma {
			return nil, &ParseError{At: sep.At, Expected: "',' or '}'", Found: sep.Kind.String()}
		}
	}
}

func (p *Parser) parseConstraint(start Token) (Node, error) {
	name, err := p.expect(Ident)
	if err != nil {
		return nil, err
	}
	def := &ConstraintDef{Name: name.Lexeme, At: start.At}

	nt, err := p.peekCode()
	if err != nil {
		return nil, err
	}
	if nt.Kind == Ident && nt.Lexeme == "inherits" {
		p.nextCode()
		target, err := p.expect(Ident)
		if err != nil {
			return nil, err
		}
		def.Inherits = target.Lexeme
		def.InheritsAt = target.At
	}

	if _, err := p.expect(LBrace); err != nil {
		return nil, err
	}
	def.Properties, err = p.parseProperties()
	if err != nil {
		return nil, err
	}
	return def, nil
}

func (p *Parser) parsePublicConst(start Token) (Node, error) {
	if _, err := p.expect(KeywordConst); err != nil {
		return nil, err
	}
	name, err := p.expect(Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(Equals); err != nil {
		return nil, err
	}
	tok, err := p.nextCode()
	if err != nil {
		return nil, err
	}
	val, err := p.parseValue(tok)
	if err != nil {
		return nil, err
	}
	return &PublicConst{Name: name.Lexeme, Value: val, At: start.At}, nil
}

func (p *Parser) parseGenerate(start Token) (Node, error) {
	target, err := p.expect(Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LBrace); err != nil {
		return nil, err
	}
	props, err := p.parseProperties()
	if err != nil {
		return nil, err
	}
	return &GenerateStmt{Target: target.Lexeme, Properties: props, At: start.At}, nil
}

// parseProperties parses `key: value (, key: value)*` up to the
// closing brace, which it consumes. A trailing comma is allowed.
func (p *Parser) parseProperties() ([]Property, error) {
	props := make([]Property, 0)
	for {
		tok, err := p.nextCode()
		if err != nil {
			return nil, err
		}
		if tok.Kind == RBrace {
			return props, nil
		}
		if tok.Kind != Ident {
			return nil, &ParseError{At: tok.At, Expected: "property key or '}'", Found: tok.Kind.String()}
		}
		if _, err := p.expect(Colon); err != nil {
			return nil, err
		}
		first, err := p.nextCode()
		if err != nil {
			return nil, err
		}
		val, err := p.parseValue(first)
		if err != nil {
			return nil, err
		}
		props = append(props, Property{Key: tok.Lexeme, Val: val, At: tok.At})

		sep, err := p.nextCode()
		if err != nil {
			return nil, err
		}
		if sep.Kind == RBrace {
			return props, nil
		}
		if sep.Kind != Comma {
			return nil, &ParseError{At: sep.At, Expected: "',' or '}'", Found: sep.Kind.String()}
		}
	}
}

// parseValue parses a value whose first token has been consumed.
func (p *Parser) parseValue(tok Token) (Value, error) {
	switch tok.Kind {
	case String:
		return &StringValue{Val: tok.Lexeme}, nil
	case MultilineString:
		return &StringValue{Val: tok.Lexeme, Multiline: true}, nil
	case Number:
		n, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, &ParseError{At: tok.At, Expected: "number", Found: "'" + tok.Lexeme + "'"}
		}
		return &NumberValue{Val: n}, nil
	case Ident:
		switch tok.Lexeme {
		case "true":
			return &BoolValue{Val: true}, nil
		case "false":
			return &BoolValue{Val: false}, nil
		case "query":
			nt, err := p.peekCode()
			if err != nil {
				return nil, err
			}
			if nt.Kind == LParen {
				return p.parseQuery()
			}
		}
		return &RefValue{Name: tok.Lexeme, At: tok.At}, nil
	case LBracket:
		return p.parseArray()
	case LBrace:
		props, err := p.parseProperties()
		if err != nil {
			return nil, err
		}
		return &ObjectValue{Props: props}, nil
	case Variant:
		return p.parseVariant(tok)
	}
	return nil, &ParseError{At: tok.At, Expected: "value", Found: tok.Kind.String()}
}

func (p *Parser) parseArray() (Value, error) {
	arr := &ArrayValue{Items: make([]Value, 0)}
	for {
		tok, err := p.nextCode()
		if err != nil {
			return nil, err
		}
		if tok.Kind == RBracket {
			return arr, nil
		}
		item, err := p.parseValue(tok)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, item)

		sep, err := p.nextCode()
		if err != nil {
			return nil, err
		}
		if sep.Kind == RBracket {
			return arr, nil
		}
		if sep.Kind != Comma {
			return nil, &ParseError{At: sep.At, Expected: "',' or ']'", Found: sep.Kind.String()}
		}
	}
}

// parseVariant parses a tag and its optional parenthesized payload.
// The payload lookahead is raw: a comment ends the variant, so a
// top-level comment after a variant-valued pub const is not consumed.
func (p *Parser) parseVariant(tok Token) (Value, error) {
	v := &VariantValue{Tag: tok.Lexeme}
	nt, err := p.peekRaw()
	if err != nil {
		return nil, err
	}
	if nt.Kind != LParen {
		return v, nil
	}
	p.next()
	inner, err := p.nextCode()
	if err != nil {
		return nil, err
	}
	v.Payload, err = p.parseValue(inner)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RParen); err != nil {
		return nil, err
	}
	return v, nil
}

// parseQuery parses `query(language) { raw }`. The body is scanned
// straight from the source by the lexer; the lookahead buffer holds at
// most the '(' here, so nothing beyond the header has been tokenized
// when the raw scan starts.
func (p *Parser) parseQuery() (Value, error) {
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}
	lang, err := p.expect(Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RParen); err != nil {
		return nil, err
	}
	body, err := p.lex.ScanQueryBody()
	if err != nil {
		return nil, err
	}
	return &QueryValue{Language: lang.Lexeme, Body: body}, nil
}
