package cdl

// Lexer tokenizes CDL source text.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
}

// NewLexer creates a lexer for the given source text.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

func (l *Lexer) ch() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) position() Pos {
	return Pos{Line: l.line, Col: l.col, Offset: l.pos}
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

// NextToken returns the next token from the input. Comments are
// returned as tokens, not discarded; callers choose to skip or keep
// them. The final token is always EOF.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	start := l.position()
	c := l.ch()

	switch {
	case c == 0:
		return Token{Kind: EOF, At: start}, nil
	case c == '-':
		if l.peekAt(1) == '-' {
			return l.scanComment(start), nil
		}
		if isDigit(l.peekAt(1)) {
			return l.scanNumber(start), nil
		}
		l.advance()
		return Token{}, &LexError{At: start, Reason: "unexpected character '-'"}
	case c == '"':
		if l.peekAt(1) == '"' && l.peekAt(2) == '"' {
			return l.scanMultilineString(start)
		}
		return l.scanString(start)
	case c == '.':
		if isIdentStart(l.peekAt(1)) {
			return l.scanVariant(start), nil
		}
		l.advance()
		return Token{Kind: Dot, Lexeme: ".", At: start}, nil
	case isDigit(c):
		return l.scanNumber(start), nil
	case isIdentStart(c):
		return l.scanIdent(start), nil
	}

	var kind Kind
	switch c {
	case '{':
		kind = LBrace
	case '}':
		kind = RBrace
	case '[':
		kind = LBracket
	case ']':
		kind = RBracket
	case '(':
		kind = LParen
	case ')':
		kind = RParen
	case ':':
		kind = Colon
	case ',':
		kind = Comma
	case '=':
		kind = Equals
	default:
		l.advance()
		return Token{}, &LexError{At: start, Reason: "unexpected character " + quoteByte(c)}
	}
	l.advance()
	return Token{Kind: kind, Lexeme: string(c), At: start}, nil
}

// scanComment consumes "--" and captures text to end of line.
func (l *Lexer) scanComment(start Pos) Token {
	l.advance()
	l.advance()
	textStart := l.pos
	for l.ch() != 0 && l.ch() != '\n' {
		l.advance()
	}
	return Token{Kind: Comment, Lexeme: l.input[textStart:l.pos], At: start}
}

func (l *Lexer) scanIdent(start Pos) Token {
	for isIdentChar(l.ch()) {
		l.advance()
	}
	lexeme := l.input[start.Offset:l.pos]
	if kw, ok := keywords[lexeme]; ok {
		return Token{Kind: kw, Lexeme: lexeme, At: start}
	}
	return Token{Kind: Ident, Lexeme: lexeme, At: start}
}

// scanVariant consumes a '.' and the tag identifier after it. Any
// parenthesized payload is the parser's business, not the lexer's.
func (l *Lexer) scanVariant(start Pos) Token {
	l.advance() // consume '.'
	tagStart := l.pos
	for isIdentChar(l.ch()) {
		l.advance()
	}
	return Token{Kind: Variant, Lexeme: l.input[tagStart:l.pos], At: start}
}

func (l *Lexer) scanNumber(start Pos) Token {
	if l.ch() == '-' {
		l.advance()
	}
	for isDigit(l.ch()) {
		l.advance()
	}
	if l.ch() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		for isDigit(l.ch()) {
			l.advance()
		}
	}
	return Token{Kind: Number, Lexeme: l.input[start.Offset:l.pos], At: start}
}

func (l *Lexer) scanString(start Pos) (Token, error) {
	l.advance() // consume opening quote
	var result []byte
	for {
		c := l.ch()
		if c == 0 || c == '\n' {
			return Token{}, &LexError{At: start, Reason: "unterminated string"}
		}
		if c == '"' {
			l.advance()
			return Token{Kind: String, Lexeme: string(result), At: start}, nil
		}
		if c == '\\' {
			l.advance()
			switch l.ch() {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case 'r':
				result = append(result, '\r')
			case '\\':
				result = append(result, '\\')
			case '"':
				result = append(result, '"')
			case 0:
				return Token{}, &LexError{At: start, Reason: "unterminated string"}
			default:
				result = append(result, l.ch())
			}
			l.advance()
			continue
		}
		result = append(result, c)
		l.advance()
	}
}

// scanMultilineString captures verbatim content, newlines included,
// between a pair of triple-quote markers.
func (l *Lexer) scanMultilineString(start Pos) (Token, error) {
	l.advance()
	l.advance()
	l.advance() // consume opening """
	bodyStart := l.pos
	for {
		if l.ch() == 0 {
			return Token{}, &LexError{At: start, Reason: "unterminated multiline string"}
		}
		if l.ch() == '"' && l.peekAt(1) == '"' && l.peekAt(2) == '"' {
			body := l.input[bodyStart:l.pos]
			l.advance()
			l.advance()
			l.advance()
			return Token{Kind: MultilineString, Lexeme: body, At: start}, nil
		}
		l.advance()
	}
}

// ScanQueryBody captures a brace-balanced raw block directly from the
// source, starting at the next '{'. The body of an embedded foreign
// query is never tokenized; nested braces are tracked so the block is
// captured whole.
func (l *Lexer) ScanQueryBody() (string, error) {
	l.skipWhitespace()
	start := l.position()
	if l.ch() != '{' {
		return "", &ParseError{At: start, Expected: "'{'", Found: quoteByte(l.ch())}
	}
	l.advance() // consume opening brace
	bodyStart := l.pos
	depth := 1
	for {
		c := l.ch()
		if c == 0 {
			return "", &LexError{At: start, Reason: "unterminated query block"}
		}
		if c == '{' {
			depth++
		} else if c == '}' {
			depth--
			if depth == 0 {
				body := l.input[bodyStart:l.pos]
				l.advance() // consume closing brace
				return body, nil
			}
		}
		l.advance()
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func quoteByte(c byte) string {
	if c == 0 {
		return "end of input"
	}
	return "'" + string(c) + "'"
}

// Tokenize returns all tokens from the input, including the final EOF.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}
