package lox

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune

	errors StaticErrors
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

// Scan splits source into tokens terminated by an EOF token. Characters the
// scanner cannot place are skipped and reported together as StaticErrors.
func Scan(source string) ([]Token, error) {
	l := newLexer(source)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == tokenIllegal {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == tokenEOF {
			break
		}
	}
	if len(l.errors) > 0 {
		return tokens, l.errors.withSource(source)
	}
	return tokens, nil
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) atEnd() bool {
	return l.ch == 0 && l.width == 0
}

func (l *lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos := Position{Line: l.line, Column: l.column}
	start := l.currentOffset()

	if l.atEnd() {
		return Token{Type: tokenEOF, Pos: pos}
	}

	switch l.ch {
	case '(':
		return l.single(tokenLParen, start, pos)
	case ')':
		return l.single(tokenRParen, start, pos)
	case '{':
		return l.single(tokenLBrace, start, pos)
	case '}':
		return l.single(tokenRBrace, start, pos)
	case ',':
		return l.single(tokenComma, start, pos)
	case '.':
		return l.single(tokenDot, start, pos)
	case '-':
		return l.single(tokenMinus, start, pos)
	case '+':
		return l.single(tokenPlus, start, pos)
	case ';':
		return l.single(tokenSemicolon, start, pos)
	case '*':
		return l.single(tokenAsterisk, start, pos)
	case '/':
		return l.single(tokenSlash, start, pos)
	case '!':
		return l.either('=', tokenNotEQ, tokenBang, start, pos)
	case '=':
		return l.either('=', tokenEQ, tokenAssign, start, pos)
	case '<':
		return l.either('=', tokenLTE, tokenLT, start, pos)
	case '>':
		return l.either('=', tokenGTE, tokenGT, start, pos)
	case '"':
		return l.readString(start, pos)
	}

	switch {
	case isIdentifierStart(l.ch):
		literal := l.readIdentifier()
		tt := tokenIdent
		if kw, ok := keywords[literal]; ok {
			tt = kw
		}
		return Token{Type: tt, Lexeme: literal, Pos: pos}
	case isDigit(l.ch):
		return l.readNumber(start, pos)
	}

	ch := l.ch
	l.readRune()
	l.report(pos, string(ch), "Unexpected character.")
	return Token{Type: tokenIllegal, Lexeme: string(ch), Pos: pos}
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) single(tt TokenType, start int, pos Position) Token {
	l.readRune()
	return Token{Type: tt, Lexeme: l.input[start:l.currentOffset()], Pos: pos}
}

func (l *lexer) either(next rune, matched, plain TokenType, start int, pos Position) Token {
	if l.peekRune() == next {
		l.readRune()
		return l.single(matched, start, pos)
	}
	return l.single(plain, start, pos)
}

func (l *lexer) report(pos Position, lexeme, msg string) {
	l.errors = append(l.errors, &StaticError{Stage: StageScan, Pos: pos, Lexeme: lexeme, Message: msg})
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.atEnd():
			return
		case l.ch == ' ', l.ch == '\t', l.ch == '\r', l.ch == '\n':
			l.readRune()
		case l.ch == '/' && l.peekRune() == '/':
			l.skipComment()
		default:
			return
		}
	}
}

func (l *lexer) skipComment() {
	for !l.atEnd() && l.ch != '\n' {
		l.readRune()
	}
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for isIdentifierRune(l.peekRune()) {
		l.readRune()
	}
	l.readRune()
	return l.input[start:l.currentOffset()]
}

func (l *lexer) readNumber(start int, pos Position) Token {
	for isDigit(l.peekRune()) {
		l.readRune()
	}
	if l.peekRune() == '.' && l.offset+1 < len(l.input) && isDigit(rune(l.input[l.offset+1])) {
		l.readRune()
		for isDigit(l.peekRune()) {
			l.readRune()
		}
	}
	l.readRune()

	lexeme := l.input[start:l.currentOffset()]
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		l.report(pos, lexeme, "Invalid number literal.")
		return Token{Type: tokenIllegal, Lexeme: lexeme, Pos: pos}
	}
	return Token{Type: tokenNumber, Lexeme: lexeme, Literal: value, Pos: pos}
}

func (l *lexer) readString(start int, pos Position) Token {
	var sb strings.Builder

	for {
		l.readRune()
		if l.atEnd() {
			l.report(pos, "", "Unterminated string.")
			return Token{Type: tokenIllegal, Lexeme: l.input[start:], Pos: pos}
		}
		switch l.ch {
		case '"':
			l.readRune()
			return Token{Type: tokenString, Lexeme: l.input[start:l.currentOffset()], Literal: sb.String(), Pos: pos}
		case '\\':
			next := l.peekRune()
			switch next {
			case '"', '\\':
				l.readRune()
				sb.WriteRune(next)
			case 'n':
				l.readRune()
				sb.WriteByte('\n')
			case 't':
				l.readRune()
				sb.WriteByte('\t')
			default:
				sb.WriteRune(l.ch)
			}
		default:
			sb.WriteRune(l.ch)
		}
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || isDigit(r) || r == '_'
}
