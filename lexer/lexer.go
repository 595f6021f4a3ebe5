package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/takoeight0821/lox/token"
)

// Lex scans the whole source. Lexical errors do not stop the scan: the returned
// tokens always end with EOF, and every error found is joined into err.
func Lex(source string) ([]token.Token, error) {
	lexer := lexer{
		source:  source,
		tokens:  []token.Token{},
		start:   0,
		current: 0,
		line:    1,
	}

	var errs []error

	for !lexer.isAtEnd() {
		lexer.start = lexer.current
		if err := lexer.scanToken(); err != nil {
			errs = append(errs, err)
		}
	}

	lexer.tokens = append(lexer.tokens, token.Token{Kind: token.EOF, Lexeme: "", Line: lexer.line, Literal: nil})

	return lexer.tokens, errors.Join(errs...)
}

type lexer struct {
	source string
	tokens []token.Token

	start   int // start of current lexeme
	current int // current position in source
	line    int // current line number
}

func (l lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l lexer) peek() rune {
	if l.isAtEnd() {
		return '\x00'
	}
	runeValue, _ := utf8.DecodeRuneInString(l.source[l.current:])

	return runeValue
}

func (l lexer) peekNext() rune {
	if l.isAtEnd() {
		return '\x00'
	}
	_, width := utf8.DecodeRuneInString(l.source[l.current:])
	if l.current+width >= len(l.source) {
		return '\x00'
	}
	runeValue, _ := utf8.DecodeRuneInString(l.source[l.current+width:])

	return runeValue
}

func (l *lexer) advance() rune {
	runeValue, width := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += width

	return runeValue
}

// match consumes the next rune only if it is expected.
func (l *lexer) match(expected rune) bool {
	if l.peek() != expected || l.isAtEnd() {
		return false
	}
	l.advance()

	return true
}

func (l *lexer) addToken(kind token.Kind, literal any) {
	text := l.source[l.start:l.current]
	l.tokens = append(l.tokens, token.Token{Kind: kind, Lexeme: text, Line: l.line, Literal: literal})
}

// addTokenIf adds ifMatch when the next rune is expected, otherwise kind.
func (l *lexer) addTokenIf(expected rune, ifMatch, kind token.Kind) {
	if l.match(expected) {
		l.addToken(ifMatch, nil)
	} else {
		l.addToken(kind, nil)
	}
}

type UnexpectedCharacterError struct {
	Line int
	Char rune
}

func (e UnexpectedCharacterError) Error() string {
	return fmt.Sprintf("[line %d] Error: unexpected character %q", e.Line, e.Char)
}

func (l *lexer) scanToken() error {
	char := l.advance()
	switch char {
	case '(':
		l.addToken(token.LEFTPAREN, nil)
	case ')':
		l.addToken(token.RIGHTPAREN, nil)
	case '{':
		l.addToken(token.LEFTBRACE, nil)
	case '}':
		l.addToken(token.RIGHTBRACE, nil)
	case ',':
		l.addToken(token.COMMA, nil)
	case '.':
		l.addToken(token.DOT, nil)
	case '-':
		l.addToken(token.MINUS, nil)
	case '+':
		l.addToken(token.PLUS, nil)
	case ';':
		l.addToken(token.SEMICOLON, nil)
	case '*':
		l.addToken(token.STAR, nil)
	case '!':
		l.addTokenIf('=', token.BANGEQUAL, token.BANG)
	case '=':
		l.addTokenIf('=', token.EQUALEQUAL, token.EQUAL)
	case '<':
		l.addTokenIf('=', token.LESSEQUAL, token.LESS)
	case '>':
		l.addTokenIf('=', token.GREATEREQUAL, token.GREATER)
	case '/':
		if l.match('/') {
			// a comment goes until the end of the line.
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.addToken(token.SLASH, nil)
		}
	case ' ', '\r', '\t':
		// ignore whitespace
	case '\n':
		l.line++
	case '"':
		return l.string()
	default:
		if isDigit(char) {
			l.number()

			return nil
		}
		if isAlpha(char) {
			l.identifier()

			return nil
		}

		return UnexpectedCharacterError{Line: l.line, Char: char}
	}

	return nil
}

type UnterminatedStringError struct {
	Line int
}

func (e UnterminatedStringError) Error() string {
	return fmt.Sprintf("[line %d] Error: unterminated string", e.Line)
}

func (l *lexer) string() error {
	for l.peek() != '"' && !l.isAtEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}

	if l.isAtEnd() {
		return UnterminatedStringError{Line: l.line}
	}

	// the closing quote
	l.advance()

	value := l.source[l.start+1 : l.current-1]
	l.addToken(token.STRING, value)

	return nil
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func (l *lexer) number() {
	for isDigit(l.peek()) {
		l.advance()
	}

	// a fractional part needs at least one digit after the dot.
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	// the lexeme is always well formed; out of range values become ±Inf.
	value, _ := strconv.ParseFloat(l.source[l.start:l.current], 64)
	l.addToken(token.NUMBER, value)
}

func isAlpha(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func (l *lexer) identifier() {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}

	value := l.source[l.start:l.current]

	if k, ok := token.Keywords[value]; ok {
		l.addToken(k, nil)
	} else {
		l.addToken(token.IDENT, nil)
	}
}
