package lang

//go:generate go tool stringer --linecomment --type TokenType --output token_string.go

import (
	"maps"
	"slices"
	"strconv"
)

// TokenType classifies a [Token].
type TokenType int

const (
	TokenIdent     TokenType = iota // identifier
	TokenInt                        // int
	TokenFloat                      // float
	TokenString                     // string
	TokenChar                       // char
	TokenCurly                      // {...}
	TokenSquare                     // [...]
	TokenParens                     // (...)
	TokenOperator                   // operator
	TokenMinus                      // -
	TokenEquals                     // =
	TokenSemicolon                  // ;
	TokenComma                      // ,
	TokenVar                        // var
	TokenGlobal                     // global
	TokenWhile                      // while
	TokenIf                         // if
	TokenElse                       // else
	TokenBreak                      // break
	TokenContinue                   // continue
	TokenFor                        // for
	TokenReturn                     // return
	TokenUsing                      // using
	TokenTrue                       // true
	TokenFalse                      // false
	TokenNew                        // new
)

// reserved maps each reserved word to its token type. Identifiers not listed
// here remain [TokenIdent].
var reserved = map[string]TokenType{
	"var":      TokenVar,
	"global":   TokenGlobal,
	"while":    TokenWhile,
	"if":       TokenIf,
	"else":     TokenElse,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"for":      TokenFor,
	"return":   TokenReturn,
	"using":    TokenUsing,
	"true":     TokenTrue,
	"false":    TokenFalse,
	"new":      TokenNew,
}

// IsReserved reports whether word is a reserved word of the language.
func IsReserved(word string) bool {
	_, ok := reserved[word]

	return ok
}

// ReservedWords returns the reserved words in sorted order.
func ReservedWords() []string { return slices.Sorted(maps.Keys(reserved)) }

// Span is a half-open byte range [Start, End) within the tokenized text.
type Span struct {
	Start int
	End   int
}

// Token is a single lexical unit.
//
// Bracket tokens ([TokenCurly], [TokenSquare], [TokenParens]) hold the raw text
// between their delimiters, and quoted tokens ([TokenString], [TokenChar])
// hold the raw text between their quotes. Span always covers the delimiters.
type Token struct {
	Value string
	Span  Span
	Type  TokenType
}

// String returns a debug representation of the token.
func (t Token) String() string {
	return t.Type.String() + "(" + strconv.Quote(t.Value) + ")"
}

// Source returns the token as it appeared in source text, restoring any
// delimiters stripped during tokenization.
func (t Token) Source() string {
	switch t.Type {
	case TokenCurly:
		return "{" + t.Value + "}"
	case TokenSquare:
		return "[" + t.Value + "]"
	case TokenParens:
		return "(" + t.Value + ")"
	case TokenString:
		return `"` + t.Value + `"`
	case TokenChar:
		return "'" + t.Value + "'"
	default:
		return t.Value
	}
}

// producesValue reports whether a token of this type can end an operand.
func (t TokenType) producesValue() bool {
	switch t {
	case TokenIdent, TokenInt, TokenFloat, TokenString, TokenChar,
		TokenTrue, TokenFalse, TokenParens, TokenSquare:
		return true
	default:
		return false
	}
}
