package lang

import (
	"log/slog"
	"strings"
)

// twoCharOperators are matched before any single-character operator.
var twoCharOperators = []string{"==", ">=", "<=", "!=", "&&", "||"}

const (
	singleCharOperators = "+*/<>!."
	openBrackets        = "({["
	closeBrackets       = ")}]"
)

// Tokenize converts source text into a flat sequence of tokens.
//
// Bracketed regions are captured opaquely: the text between a bracket and its
// matching close becomes the value of a single [TokenParens], [TokenCurly], or
// [TokenSquare] token and is only tokenized later, on demand, by the parser.
//
// The returned error wraps [ErrLex] when brackets are unbalanced or
// mismatched, a quoted literal is unterminated, or an unrecognized character
// is encountered.
func Tokenize(text string) ([]Token, error) {
	return tokenizeFrom(text, 0)
}

// tokenizeFrom tokenizes text that begins at byte offset base of some larger
// source, so that token spans and error offsets refer to that source.
func tokenizeFrom(text string, base int) ([]Token, error) {
	lx := lexer{src: text, base: base}

	for {
		ok, err := lx.next()
		if err != nil {
			return nil, err
		}

		if !ok {
			return lx.tokens, nil
		}
	}
}

type lexer struct {
	src    string
	base   int
	pos    int
	tokens []Token
}

func (lx *lexer) emit(typ TokenType, value string, start, end int) {
	lx.tokens = append(lx.tokens, Token{
		Value: value,
		Span:  Span{Start: lx.base + start, End: lx.base + end},
		Type:  typ,
	})
	lx.pos = end
}

func (lx *lexer) fail(reason string, offset int) error {
	attrs := []slog.Attr{
		slog.String("reason", reason),
		slog.Int("offset", lx.base+offset),
	}

	if offset < len(lx.src) {
		attrs = append(attrs, slog.String("char", lx.src[offset:offset+1]))
	}

	return ErrLex.With(attrs...)
}

// next scans one token, returning false at end of input.
func (lx *lexer) next() (bool, error) {
	lx.skipSpace()

	if lx.pos >= len(lx.src) {
		return false, nil
	}

	c := lx.src[lx.pos]

	switch {
	case isIdentStart(c):
		lx.ident()

	case isDigit(c):
		lx.number()

	case strings.IndexByte(openBrackets, c) >= 0:
		return true, lx.bracket()

	case strings.IndexByte(closeBrackets, c) >= 0:
		return false, lx.fail("unbalanced closing bracket", lx.pos)

	case c == '"':
		return true, lx.quoted('"', TokenString)

	case c == '\'':
		return true, lx.quoted('\'', TokenChar)

	default:
		return true, lx.operator()
	}

	return true, nil
}

// skipSpace skips whitespace and line comments.
func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		switch {
		case isSpace(c):
			lx.pos++

		case c == '/' && strings.HasPrefix(lx.src[lx.pos:], "//"):
			lx.pos = skipLine(lx.src, lx.pos)

		default:
			return
		}
	}
}

func (lx *lexer) ident() {
	start := lx.pos
	end := start + 1

	for end < len(lx.src) && isIdentContinue(lx.src[end]) {
		end++
	}

	word := lx.src[start:end]

	typ, ok := reserved[word]
	if !ok {
		typ = TokenIdent
	}

	lx.emit(typ, word, start, end)
}

func (lx *lexer) number() {
	start := lx.pos
	end := start + 1
	typ := TokenInt

	for end < len(lx.src) {
		c := lx.src[end]

		if isDigit(c) {
			end++

			continue
		}

		// A single '.' followed by a digit upgrades the literal to float.
		if c == '.' && typ == TokenInt &&
			end+1 < len(lx.src) && isDigit(lx.src[end+1]) {
			typ = TokenFloat
			end++

			continue
		}

		break
	}

	lx.emit(typ, lx.src[start:end], start, end)
}

// bracket captures a bracketed region, verifying that every close bracket
// matches the kind of its open bracket.
func (lx *lexer) bracket() error {
	start := lx.pos
	stack := []byte{lx.src[start]}
	i := start + 1

	for len(stack) > 0 {
		if i >= len(lx.src) {
			return lx.fail("no closing bracket before end of input", start)
		}

		c := lx.src[i]

		switch {
		case c == '"' || c == '\'':
			end, ok := skipQuoted(lx.src, i)
			if !ok {
				return lx.fail("unterminated quoted literal", i)
			}

			i = end

			continue

		case c == '/' && strings.HasPrefix(lx.src[i:], "//"):
			i = skipLine(lx.src, i)

			continue

		case strings.IndexByte(openBrackets, c) >= 0:
			stack = append(stack, c)

		case strings.IndexByte(closeBrackets, c) >= 0:
			open := stack[len(stack)-1]
			if closerOf(open) != c {
				return lx.fail(
					"mismatched brackets "+string(open)+string(c), i)
			}

			stack = stack[:len(stack)-1]
		}

		i++
	}

	var typ TokenType

	switch lx.src[start] {
	case '(':
		typ = TokenParens
	case '{':
		typ = TokenCurly
	default:
		typ = TokenSquare
	}

	lx.emit(typ, lx.src[start+1:i-1], start, i)

	return nil
}

func (lx *lexer) quoted(quote byte, typ TokenType) error {
	start := lx.pos

	end, ok := skipQuoted(lx.src, start)
	if !ok {
		return lx.fail("expected closing "+string(quote), start)
	}

	lx.emit(typ, lx.src[start+1:end-1], start, end)

	return nil
}

func (lx *lexer) operator() error {
	start := lx.pos

	if start+1 < len(lx.src) {
		pair := lx.src[start : start+2]
		for _, op := range twoCharOperators {
			if pair == op {
				lx.emit(TokenOperator, pair, start, start+2)

				return nil
			}
		}
	}

	c := lx.src[start]

	switch c {
	case '=':
		lx.emit(TokenEquals, "=", start, start+1)
	case ';':
		lx.emit(TokenSemicolon, ";", start, start+1)
	case ',':
		lx.emit(TokenComma, ",", start, start+1)
	case '-':
		lx.emit(TokenMinus, "-", start, start+1)
	default:
		if strings.IndexByte(singleCharOperators, c) < 0 {
			return lx.fail("unexpected character", start)
		}

		lx.emit(TokenOperator, string(c), start, start+1)
	}

	return nil
}

// skipQuoted returns the offset just past the quoted literal starting at
// src[start]. A backslash unconditionally skips the byte that follows it.
func skipQuoted(src string, start int) (int, bool) {
	quote := src[start]

	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1, true
		}
	}

	return len(src), false
}

// skipLine returns the offset just past the next newline at or after start.
func skipLine(src string, start int) int {
	if n := strings.IndexByte(src[start:], '\n'); n >= 0 {
		return start + n + 1
	}

	return len(src)
}

func closerOf(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '{':
		return '}'
	default:
		return ']'
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' ||
		c == '\v' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentContinue(c byte) bool { return isIdentStart(c) || isDigit(c) }
