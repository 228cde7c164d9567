package lang

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// bom is the UTF-8 byte order mark, skipped at the start of input.
const bom = "\uFEFF"

// lowestPrec is the precedence of the loosest-binding operators (&& ||).
const lowestPrec = 1

// Parse parses JAMAL source text into a [File].
//
// Parse trees are cached by source text and options, so parsing the same
// text twice returns the same immutable *File. Syntax errors are returned as
// *[ParseError].
func Parse(ctx context.Context, src string, opts ...Option) (*File, error) {
	return parseCached(ctx, src, makeOptions(opts...))
}

// ParseStatement parses source text holding exactly one statement, which may
// be followed by a ";". It is not cached.
func ParseStatement(ctx context.Context, src string, opts ...Option) (Stmt, error) {
	o := makeOptions(opts...)
	p := newParser(src, o)

	o.logger.TraceContext(ctx, "parse statement",
		slog.Int("source_length", len(src)))

	p.skipWhitespaceAndComments()

	if p.eof() {
		return nil, p.fail("statement")
	}

	s, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	p.skipWhitespaceAndComments()
	p.expect(';')
	p.skipWhitespaceAndComments()

	if !p.eof() {
		return nil, p.fail("end of input")
	}

	return s, nil
}

// parse parses src without consulting the cache.
func parse(ctx context.Context, src string, o options) (*File, error) {
	p := newParser(src, o)

	o.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(src)))

	stmts, err := p.parseStatements(false)
	if err != nil {
		o.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("statement_count", len(stmts)))

	return &File{Statements: stmts}, nil
}

// parser holds the parser state.
type parser struct {
	input    []byte
	source   string
	pos      int
	line     int
	col      int
	depth    int
	maxDepth int
}

type mark struct{ pos, line, col int }

func newParser(src string, o options) *parser {
	p := &parser{
		input:    []byte(src),
		source:   src,
		line:     1,
		col:      1,
		maxDepth: o.maxDepth,
	}

	if strings.HasPrefix(src, bom) {
		p.pos = len(bom)
	}

	return p
}

// parseStatements parses statements until end of input or, if closing is
// set, until the "}" that ends a block.
func (p *parser) parseStatements(closing bool) ([]Stmt, error) {
	var (
		stmts    []Stmt
		needSep  bool
		lastLine int
	)

	for {
		p.skipWhitespace()

		if p.eof() {
			if closing {
				return nil, p.fail(`"}"`)
			}

			return stmts, nil
		}

		switch c := p.peek(); {
		case closing && c == '}':
			p.advance()

			return stmts, nil

		case p.atComment():
			cmt, err := p.parseComment()
			if err != nil {
				return nil, err
			}

			cmt.Trailing = cmt.Line == lastLine
			stmts = append(stmts, cmt)

			continue

		case c == ';':
			p.advance()

			needSep = false
			lastLine = p.line

			continue
		}

		if needSep {
			return nil, p.fail(`";"`)
		}

		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, s)
		lastLine = p.line

		_, isBlock := s.(*Block)
		needSep = !isBlock
	}
}

// parseStatement parses: Block | Assignment | Expression.
func (p *parser) parseStatement() (Stmt, error) {
	pos := p.position()

	switch c := p.peek(); {
	case c == '{':
		return p.parseBlock()

	case isWordStart(c):
		m := p.save()
		word := p.scanWord()

		if kw, ok := lookupKeyword(word); ok {
			p.skipWhitespaceAndComments()

			name, err := p.parseName()
			if err != nil {
				return nil, err
			}

			return p.parseAssignment(pos, kw, name)
		}

		if ValidIdentifier(word) {
			p.skipWhitespaceAndComments()

			if p.peek() == '=' && p.peekN(2) != "==" {
				return p.parseAssignment(pos, KeywordNone, word)
			}
		}

		p.restore(m)
	}

	x, err := p.parseExpr(lowestPrec)
	if err != nil {
		return nil, err
	}

	return &ExprStmt{Position: pos, X: x}, nil
}

// parseBlock parses: '{' Statement* '}'.
func (p *parser) parseBlock() (*Block, error) {
	pos := p.position()

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.advance() // '{'

	stmts, err := p.parseStatements(true)
	if err != nil {
		return nil, err
	}

	return &Block{Position: pos, Statements: stmts}, nil
}

// parseAssignment parses the remainder of an assignment after its name:
// '=' Expression.
func (p *parser) parseAssignment(pos Position, kw Keyword, name string) (*Assignment, error) {
	p.skipWhitespaceAndComments()

	if p.peek() != '=' || p.peekN(2) == "==" {
		return nil, p.fail(`"="`)
	}

	p.advance()

	value, err := p.parseExpr(lowestPrec)
	if err != nil {
		return nil, err
	}

	return &Assignment{Position: pos, Keyword: kw, Name: name, Value: value}, nil
}

// parseName parses an identifier that is the target of a declaration.
func (p *parser) parseName() (string, error) {
	pos := p.position()

	if !isWordStart(p.peek()) {
		return "", p.fail("identifier")
	}

	word := p.scanWord()
	if !ValidIdentifier(word) {
		return "", &ParseError{
			Pos:      pos,
			Expected: []string{"identifier"},
			Found:    strconv.Quote(word),
			Source:   p.source,
		}
	}

	return word, nil
}

// parseExpr parses a binary expression whose operators all have a
// precedence of at least minPrec (precedence climbing).
func (p *parser) parseExpr(minPrec int) (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	for {
		m := p.save()
		p.skipWhitespaceAndComments()

		op, n := p.peekOperator()
		if n == 0 || op.Precedence() < minPrec {
			p.restore(m)

			return left, nil
		}

		pos := p.position()
		p.advanceN(n)

		next := op.Precedence() + 1
		if op.RightAssociative() {
			next = op.Precedence()
		}

		right, err := p.parseExpr(next)
		if err != nil {
			return nil, err
		}

		left = &BinaryOp{Position: pos, Op: op, Left: left, Right: right}
	}
}

// parseOperand parses: Literal | Identifier | '(' Expression ')'.
func (p *parser) parseOperand() (Expr, error) {
	p.skipWhitespaceAndComments()

	pos := p.position()

	switch c := p.peek(); {
	case c == '(':
		p.advance()

		inner, err := p.parseExpr(lowestPrec)
		if err != nil {
			return nil, err
		}

		p.skipWhitespaceAndComments()

		if !p.expect(')') {
			return nil, p.fail(`")"`, "operator")
		}

		return &Grouped{Position: pos, Inner: inner}, nil

	case c == '"' || c == '\'':
		return p.parseString()

	case p.atNumber():
		return p.parseNumber()

	case isWordStart(c):
		m := p.save()
		word := p.scanWord()

		switch {
		case word == "true" || word == "false":
			return &Literal{Position: pos, Value: Bool(word == "true"), Raw: word}, nil

		case ValidIdentifier(word):
			return &Identifier{Position: pos, Name: word}, nil
		}

		p.restore(m)
	}

	return nil, p.fail("expression")
}

func (p *parser) atNumber() bool {
	i := 0
	if c := p.peekByte(0); c == '+' || c == '-' {
		i++
	}

	if c := p.peekByte(i); isDigit(rune(c)) {
		return true
	} else if c == '.' {
		return isDigit(rune(p.peekByte(i + 1)))
	}

	return false
}

// parseNumber parses: [+-] ( digits [. digits*] | . digits ) [exponent].
func (p *parser) parseNumber() (*Literal, error) {
	pos := p.position()
	start := p.pos

	if c := p.peek(); c == '+' || c == '-' {
		p.advance()
	}

	p.scanDigits()

	float := false

	if p.peek() == '.' {
		float = true

		p.advance()
		p.scanDigits()
	}

	if c := p.peek(); c == 'e' || c == 'E' {
		i := 1
		if s := p.peekByte(1); s == '+' || s == '-' {
			i++
		}

		if isDigit(rune(p.peekByte(i))) {
			p.advanceN(i)
			p.scanDigits()
		}
	}

	raw := string(p.input[start:p.pos])

	v, err := numberValue(raw, float)
	if err != nil {
		return nil, &ParseError{
			Pos:    pos,
			Found:  "number " + raw,
			Source: p.source,
			Err:    err,
		}
	}

	return &Literal{Position: pos, Value: v, Raw: raw}, nil
}

// parseString parses a single- or double-quoted string, which may span
// lines.
func (p *parser) parseString() (*Literal, error) {
	pos := p.position()
	start := p.pos
	quote := p.peek()

	p.advance()

	for {
		if p.eof() {
			return nil, &ParseError{
				Pos:      p.position(),
				Expected: []string{strconv.QuoteRune(quote)},
				Found:    "end of input",
				Source:   p.source,
				Err:      errUnterminated,
			}
		}

		switch p.peek() {
		case '\\':
			p.advance()
			p.advance()

			continue

		case quote:
			p.advance()

			raw := string(p.input[start:p.pos])

			return &Literal{
				Position: pos,
				Value:    String(unescape(raw[1 : len(raw)-1])),
				Raw:      raw,
			}, nil
		}

		p.advance()
	}
}

// parseComment parses a line or block comment.
func (p *parser) parseComment() (*Comment, error) {
	pos := p.position()
	start := p.pos

	if p.peekN(2) == "//" {
		for !p.eof() && p.peek() != '\n' {
			p.advance()
		}

		text := strings.TrimRight(string(p.input[start:p.pos]), "\r")

		return &Comment{Position: pos, Text: text}, nil
	}

	if !p.skipBlockComment() {
		return nil, &ParseError{
			Pos:      p.position(),
			Expected: []string{`"*/"`},
			Found:    "end of input",
			Source:   p.source,
		}
	}

	return &Comment{Position: pos, Text: string(p.input[start:p.pos])}, nil
}

// peekOperator returns the operator at the current position and its length
// in bytes, or a length of 0.
func (p *parser) peekOperator() (Operator, int) {
	switch p.peekByte(0) {
	case '+':
		return OpAdd, 1
	case '-':
		return OpSub, 1
	case '*':
		return OpMul, 1
	case '/':
		return OpDiv, 1
	case '^':
		return OpPow, 1
	case '%':
		return OpMod, 1
	}

	if op, ok := LookupOperator(p.peekN(2)); ok {
		return op, 2
	}

	return 0, 0
}

// enter records one level of nesting.
func (p *parser) enter() error {
	p.depth++

	if p.depth > p.maxDepth {
		return &ParseError{
			Pos:    p.position(),
			Source: p.source,
			Err:    ErrMaxDepthExceeded.With(slog.Int("max_depth", p.maxDepth)),
		}
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// fail returns a ParseError at the current position.
func (p *parser) fail(expected ...string) *ParseError {
	return &ParseError{
		Pos:      p.position(),
		Expected: expected,
		Found:    p.found(),
		Source:   p.source,
	}
}

// found describes the input at the current position.
func (p *parser) found() string {
	if p.eof() {
		return "end of input"
	}

	if c := p.peek(); isWordChar(c) {
		m := p.save()
		defer p.restore(m)

		for !p.eof() && isWordChar(p.peek()) {
			p.advance()
		}

		return strconv.Quote(string(p.input[m.pos:p.pos]))
	}

	return strconv.QuoteRune(p.peek())
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

func (p *parser) peekByte(n int) byte {
	if p.pos+n >= len(p.input) {
		return 0
	}

	return p.input[p.pos+n]
}

func (p *parser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return string(p.input[p.pos:])
	}

	return string(p.input[p.pos : p.pos+n])
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) advanceN(n int) {
	for range n {
		p.advance()
	}
}

func (p *parser) expect(ch rune) bool {
	if p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{Offset: p.pos, Line: p.line, Column: p.col}
}

func (p *parser) save() mark { return mark{p.pos, p.line, p.col} }

func (p *parser) restore(m mark) { p.pos, p.line, p.col = m.pos, m.line, m.col }

func (p *parser) scanWord() string {
	start := p.pos

	if !isWordStart(p.peek()) {
		return ""
	}

	for !p.eof() && isWordChar(p.peek()) {
		p.advance()
	}

	return string(p.input[start:p.pos])
}

func (p *parser) scanDigits() int {
	n := 0

	for !p.eof() && isDigit(p.peek()) {
		p.advance()
		n++
	}

	return n
}

func (p *parser) atComment() bool {
	return p.peekByte(0) == '/' && (p.peekByte(1) == '/' || p.peekByte(1) == '*')
}

func (p *parser) skipWhitespace() {
	for !p.eof() && isSpace(p.peek()) {
		p.advance()
	}
}

func (p *parser) skipWhitespaceAndComments() {
	for {
		p.skipWhitespace()

		switch {
		case p.peekN(2) == "//":
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}
		case p.peekN(2) == "/*":
			p.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlockComment consumes a block comment and reports whether it was
// terminated.
func (p *parser) skipBlockComment() bool {
	p.advanceN(2) // "/*"

	for !p.eof() {
		if p.peekN(2) == "*/" {
			p.advanceN(2)

			return true
		}

		p.advance()
	}

	return false
}
