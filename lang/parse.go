package lang

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/treewalk/log"
)

// Parse parses a complete program from source text.
//
// Unlike [ParseString], the result is never cached.
func Parse(ctx context.Context, text string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	p := &parser{
		ctx:      ctx,
		logger:   o.logger,
		maxDepth: o.maxDepth,
	}

	prog, err := p.parseProgram(text)
	if err != nil {
		p.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("using_count", len(prog.Usings)),
		slog.Int("function_count", len(prog.Functions)))

	return prog, nil
}

// parser holds the parser state.
type parser struct {
	ctx      context.Context
	logger   log.Logger
	maxDepth int
	depth    int
}

// binaryTiers lists the infix operator sets from loosest to tightest binding.
// Member access "." binds tighter than all of them and tighter than the
// prefix operators, so it is handled separately.
var binaryTiers = []func(Token) bool{
	func(t Token) bool { return t.Type == TokenEquals },
	operatorIn("&&", "||"),
	operatorIn("==", "!=", ">=", "<="),
	operatorIn("<", ">"),
	operatorIn("+", "-"),
	operatorIn("/", "*"),
}

func operatorIn(ops ...string) func(Token) bool {
	return func(t Token) bool {
		if t.Type != TokenOperator {
			return false
		}

		for _, op := range ops {
			if t.Value == op {
				return true
			}
		}

		return false
	}
}

func isDot(t Token) bool { return t.Type == TokenOperator && t.Value == "." }

// parseProgram parses: (Using | Function)*.
func (p *parser) parseProgram(text string) (*Program, error) {
	toks, err := Tokenize(text)
	if err != nil {
		return nil, err
	}

	prog := new(Program)

	for _, group := range splitStatements(toks) {
		if err := p.ctx.Err(); err != nil {
			return nil, ErrCanceled.Wrap(err)
		}

		if group[0].Type == TokenUsing {
			u, err := parseUsing(group)
			if err != nil {
				return nil, err
			}

			prog.Usings = append(prog.Usings, u)

			continue
		}

		fn, err := p.parseFunction(group)
		if err != nil {
			return nil, err
		}

		if _, ok := prog.Function(fn.Name.Value); ok {
			return nil, ErrRedeclaration.at(fn.Name).
				With(slog.String("function", fn.Name.Value))
		}

		prog.Functions = append(prog.Functions, fn)
	}

	prog.buildIndex()

	return prog, nil
}

// parseUsing parses: "using" Ident ("." Ident)*.
func parseUsing(group []Token) (*Using, error) {
	path := group[1:]
	if len(path)%2 == 0 {
		return nil, ErrSyntax.at(group[0]).
			With(slog.String("reason", "expected namespace name"))
	}

	for i, tok := range path {
		if i%2 == 0 && tok.Type != TokenIdent {
			return nil, ErrSyntax.at(tok).
				With(slog.String("reason", "expected identifier"))
		}

		if i%2 == 1 && !isDot(tok) {
			return nil, ErrSyntax.at(tok).
				With(slog.String("reason", "expected '.'"))
		}
	}

	return &Using{Path: path}, nil
}

// parseFunction parses: Ident "(" Params ")" "{" Body "}".
func (p *parser) parseFunction(group []Token) (*Function, error) {
	if len(group) != 3 ||
		group[0].Type != TokenIdent ||
		group[1].Type != TokenParens ||
		group[2].Type != TokenCurly {
		return nil, ErrSyntax.at(group[0]).
			With(slog.String("reason", "expected function definition"))
	}

	fn := &Function{Name: group[0]}

	inner, err := p.descend(group[1])
	if err != nil {
		return nil, err
	}

	groups := splitCommas(inner)
	p.ascend()

	for _, g := range groups {
		if len(g) != 1 || g[0].Type != TokenIdent {
			return nil, ErrSyntax.at(group[1]).
				With(slog.String("reason", "expected parameter name"))
		}

		for _, prev := range fn.Params {
			if prev.Value == g[0].Value {
				return nil, ErrRedeclaration.at(g[0]).
					With(slog.String("function", fn.Name.Value))
			}
		}

		fn.Params = append(fn.Params, g[0])
	}

	p.logger.TraceContext(p.ctx, "parse function",
		slog.String("name", fn.Name.Value),
		slog.Int("params", len(fn.Params)))

	fn.Body, err = p.parseBody(group[2])
	if err != nil {
		return nil, err
	}

	return fn, nil
}

// descend tokenizes the contents of a bracket token one nesting level deeper.
// Every successful call must be paired with [parser.ascend].
func (p *parser) descend(tok Token) ([]Token, error) {
	if p.maxDepth > 0 && p.depth >= p.maxDepth {
		return nil, ErrMaxDepthExceeded.at(tok).
			With(slog.Int("max_depth", p.maxDepth))
	}

	toks, err := tokenizeFrom(tok.Value, tok.Span.Start+1)
	if err != nil {
		return nil, err
	}

	p.depth++

	return toks, nil
}

func (p *parser) ascend() { p.depth-- }

// parseBody parses the statements captured by a curly token.
func (p *parser) parseBody(curly Token) (*Body, error) {
	toks, err := p.descend(curly)
	if err != nil {
		return nil, err
	}
	defer p.ascend()

	body := new(Body)

	// tail is the innermost if statement of the most recent if/else-if
	// chain that does not yet have an else branch.
	var tail *IfStmt

	for _, group := range splitStatements(toks) {
		if group[0].Type == TokenElse {
			next, err := p.parseElse(tail, group)
			if err != nil {
				return nil, err
			}

			tail = next

			continue
		}

		stmt, err := p.parseStmt(group)
		if err != nil {
			return nil, err
		}

		tail, _ = stmt.(*IfStmt)
		body.Stmts = append(body.Stmts, stmt)
	}

	return body, nil
}

// parseElse attaches an else branch to tail and returns the new chain tail.
func (p *parser) parseElse(tail *IfStmt, group []Token) (*IfStmt, error) {
	if tail == nil {
		return nil, ErrSyntax.at(group[0]).
			With(slog.String("reason", "else without if"))
	}

	switch {
	case len(group) == 2 && group[1].Type == TokenCurly:
		body, err := p.parseBody(group[1])
		if err != nil {
			return nil, err
		}

		tail.Else = body

		return nil, nil

	case len(group) > 1 && group[1].Type == TokenIf:
		stmt, err := p.parseStmt(group[1:])
		if err != nil {
			return nil, err
		}

		inner, _ := stmt.(*IfStmt)
		tail.Else = &Body{Stmts: []Stmt{inner}}

		return inner, nil

	default:
		return nil, ErrSyntax.at(group[0]).
			With(slog.String("reason", "expected block or if after else"))
	}
}

// parseStmt dispatches on the leading token of a statement group.
func (p *parser) parseStmt(group []Token) (Stmt, error) {
	head := group[0]

	switch head.Type {
	case TokenVar, TokenGlobal:
		if len(group) < 4 ||
			group[1].Type != TokenIdent ||
			group[2].Type != TokenEquals {
			return nil, ErrSyntax.at(head).
				With(slog.String("reason", "expected "+head.Value+" name = value"))
		}

		value, err := p.parseExpr(group[3:])
		if err != nil {
			return nil, err
		}

		if head.Type == TokenGlobal {
			return &GlobalStmt{Name: group[1], Value: value}, nil
		}

		return &VarStmt{Name: group[1], Value: value}, nil

	case TokenWhile, TokenIf:
		if len(group) != 3 ||
			group[1].Type != TokenParens ||
			group[2].Type != TokenCurly {
			return nil, ErrSyntax.at(head).
				With(slog.String("reason", "expected "+head.Value+" (cond) { body }"))
		}

		cond, err := p.parseParens(group[1])
		if err != nil {
			return nil, err
		}

		body, err := p.parseBody(group[2])
		if err != nil {
			return nil, err
		}

		if head.Type == TokenIf {
			return &IfStmt{Cond: cond, Body: body}, nil
		}

		return &WhileStmt{Cond: cond, Body: body}, nil

	case TokenFor:
		return p.parseFor(group)

	case TokenBreak, TokenContinue:
		if len(group) != 1 {
			return nil, ErrSyntax.at(group[1]).
				With(slog.String("reason", "unexpected token after "+head.Value))
		}

		if head.Type == TokenBreak {
			return &BreakStmt{Token: head}, nil
		}

		return &ContinueStmt{Token: head}, nil

	case TokenReturn:
		if len(group) == 1 {
			return &ReturnStmt{Token: head}, nil
		}

		value, err := p.parseExpr(group[1:])
		if err != nil {
			return nil, err
		}

		return &ReturnStmt{Token: head, Value: value}, nil

	case TokenUsing, TokenElse:
		return nil, ErrSyntax.at(head).
			With(slog.String("reason", "unexpected "+head.Value))

	default:
		expr, err := p.parseExpr(group)
		if err != nil {
			return nil, err
		}

		return &ExprStmt{Expr: expr}, nil
	}
}

// parseFor parses: "for" "(" Ident "," Expr "," Expr ")" "{" Body "}".
func (p *parser) parseFor(group []Token) (Stmt, error) {
	head := group[0]

	if len(group) != 3 ||
		group[1].Type != TokenParens ||
		group[2].Type != TokenCurly {
		return nil, ErrSyntax.at(head).
			With(slog.String("reason", "expected for (var, start, end) { body }"))
	}

	inner, err := p.descend(group[1])
	if err != nil {
		return nil, err
	}
	defer p.ascend()

	parts := splitCommas(inner)
	if len(parts) != 3 || len(parts[0]) != 1 || parts[0][0].Type != TokenIdent {
		return nil, ErrSyntax.at(group[1]).
			With(slog.String("reason", "expected for (var, start, end)"))
	}

	start, err := p.parseExpr(parts[1])
	if err != nil {
		return nil, err
	}

	end, err := p.parseExpr(parts[2])
	if err != nil {
		return nil, err
	}

	body, err := p.parseBody(group[2])
	if err != nil {
		return nil, err
	}

	return &ForStmt{Var: parts[0][0], Start: start, End: end, Body: body}, nil
}

// parseParens parses the single expression captured by a parens token.
func (p *parser) parseParens(parens Token) (Expr, error) {
	inner, err := p.descend(parens)
	if err != nil {
		return nil, err
	}
	defer p.ascend()

	if len(inner) == 0 {
		return nil, ErrSyntax.at(parens).
			With(slog.String("reason", "empty expression"))
	}

	return p.parseExpr(inner)
}

// parseArgs parses the comma-separated expressions captured by a parens token.
func (p *parser) parseArgs(parens Token) ([]Expr, error) {
	inner, err := p.descend(parens)
	if err != nil {
		return nil, err
	}
	defer p.ascend()

	groups := splitCommas(inner)
	args := make([]Expr, 0, len(groups))

	for _, g := range groups {
		if len(g) == 0 {
			return nil, ErrSyntax.at(parens).
				With(slog.String("reason", "empty argument"))
		}

		arg, err := p.parseExpr(g)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	return args, nil
}

// parseExpr parses a token slice as one expression.
func (p *parser) parseExpr(toks []Token) (Expr, error) {
	if len(toks) == 0 {
		return nil, ErrSyntax.With(slog.String("reason", "empty expression"))
	}

	classifyMinus(toks)

	return p.climb(toks)
}

// classifyMinus reclassifies each '-' that follows a value-producing token
// and precedes another token as a binary operator. Every other '-' remains
// [TokenMinus] and is parsed as unary negation.
func classifyMinus(toks []Token) {
	for i := range toks {
		if toks[i].Type != TokenMinus {
			continue
		}

		if i > 0 && i+1 < len(toks) && toks[i-1].Type.producesValue() {
			toks[i].Type = TokenOperator
		}
	}
}

// climb builds an expression by splitting at the last operator of the
// loosest tier present, recursing on both sides.
func (p *parser) climb(toks []Token) (Expr, error) {
	if len(toks) == 0 {
		return nil, ErrSyntax.With(slog.String("reason", "missing operand"))
	}

	for _, match := range binaryTiers {
		if i := lastIndex(toks, match); i >= 0 {
			return p.binary(toks, i)
		}
	}

	if head := toks[0]; len(toks) > 1 &&
		(head.Type == TokenMinus || (head.Type == TokenOperator && head.Value == "!")) {
		operand, err := p.climb(toks[1:])
		if err != nil {
			return nil, err
		}

		return &UnaryOp{Operand: operand, Op: head}, nil
	}

	if toks[0].Type == TokenNew {
		if expr, ok, err := p.qualifiedNew(toks); ok || err != nil {
			return expr, err
		}
	}

	if i := lastIndex(toks, isDot); i >= 0 {
		return p.member(toks, i)
	}

	return p.operand(toks)
}

func lastIndex(toks []Token, match func(Token) bool) int {
	for i := len(toks) - 1; i >= 0; i-- {
		if match(toks[i]) {
			return i
		}
	}

	return -1
}

func (p *parser) binary(toks []Token, i int) (Expr, error) {
	op := toks[i]

	if i == 0 || i == len(toks)-1 {
		return nil, ErrSyntax.at(op).
			With(slog.String("reason", "missing operand"))
	}

	left, err := p.climb(toks[:i])
	if err != nil {
		return nil, err
	}

	right, err := p.climb(toks[i+1:])
	if err != nil {
		return nil, err
	}

	return &BinaryOp{Left: left, Right: right, Op: op}, nil
}

// member parses a member access split at toks[i]. The right operand must
// name a property, a method call, or an indexed property.
func (p *parser) member(toks []Token, i int) (Expr, error) {
	expr, err := p.binary(toks, i)
	if err != nil {
		return nil, err
	}

	switch right := expr.(*BinaryOp).Right.(type) {
	case *Call, *Indexor:
		return expr, nil

	case *Literal:
		if right.Kind == LiteralIdent {
			return expr, nil
		}
	}

	return nil, ErrSyntax.at(toks[i+1]).
		With(slog.String("reason", "expected member name"))
}

// qualifiedNew parses: "new" Ident ("." Ident)* "(" Args ")". It reports
// false without error when toks does not have that shape.
func (p *parser) qualifiedNew(toks []Token) (Expr, bool, error) {
	n := len(toks)
	if n < 5 || toks[n-1].Type != TokenParens {
		return nil, false, nil
	}

	path := toks[1 : n-1]
	if len(path)%2 == 0 {
		return nil, false, nil
	}

	var name strings.Builder

	for j, tok := range path {
		if (j%2 == 0 && tok.Type != TokenIdent) || (j%2 == 1 && !isDot(tok)) {
			return nil, false, nil
		}

		name.WriteString(tok.Value)
	}

	args, err := p.parseArgs(toks[n-1])
	if err != nil {
		return nil, true, err
	}

	typ := Token{
		Value: name.String(),
		Span:  Span{Start: path[0].Span.Start, End: path[len(path)-1].Span.End},
		Type:  TokenIdent,
	}

	return &NewExpr{Type: typ, Args: args}, true, nil
}

// operand parses the base cases of an expression.
func (p *parser) operand(toks []Token) (Expr, error) {
	head := toks[0]

	switch len(toks) {
	case 1:
		if kind, ok := literalKind(head.Type); ok {
			return &Literal{Kind: kind, Token: head}, nil
		}

		if head.Type == TokenParens {
			return p.parseParens(head)
		}

	case 2:
		if head.Type != TokenIdent {
			break
		}

		switch toks[1].Type {
		case TokenParens:
			args, err := p.parseArgs(toks[1])
			if err != nil {
				return nil, err
			}

			return &Call{Name: head, Args: args}, nil

		case TokenSquare:
			inner, err := p.descend(toks[1])
			if err != nil {
				return nil, err
			}
			defer p.ascend()

			if len(inner) == 0 {
				return nil, ErrSyntax.at(toks[1]).
					With(slog.String("reason", "empty index"))
			}

			index, err := p.parseExpr(inner)
			if err != nil {
				return nil, err
			}

			return &Indexor{Base: head, Index: index}, nil
		}

	case 3:
		if head.Type == TokenNew &&
			toks[1].Type == TokenIdent &&
			toks[2].Type == TokenParens {
			args, err := p.parseArgs(toks[2])
			if err != nil {
				return nil, err
			}

			return &NewExpr{Type: toks[1], Args: args}, nil
		}
	}

	return nil, ErrSyntax.at(head).
		With(slog.String("reason", "unexpected token sequence"))
}

func literalKind(t TokenType) (LiteralKind, bool) {
	switch t {
	case TokenFloat:
		return LiteralFloat, true
	case TokenInt:
		return LiteralInt, true
	case TokenString:
		return LiteralString, true
	case TokenChar:
		return LiteralChar, true
	case TokenIdent:
		return LiteralIdent, true
	case TokenTrue:
		return LiteralTrue, true
	case TokenFalse:
		return LiteralFalse, true
	default:
		return 0, false
	}
}

// splitStatements splits a flat token list into statement groups at each
// semicolon (dropped) and after each curly token (kept). Empty groups are
// discarded.
func splitStatements(toks []Token) [][]Token {
	var groups [][]Token

	start := 0

	for i, tok := range toks {
		switch tok.Type {
		case TokenSemicolon:
			if i > start {
				groups = append(groups, toks[start:i])
			}

			start = i + 1

		case TokenCurly:
			groups = append(groups, toks[start:i+1])
			start = i + 1
		}
	}

	if start < len(toks) {
		groups = append(groups, toks[start:])
	}

	return groups
}

// splitCommas splits toks at each comma. An empty input has no groups; any
// other input has one more group than it has commas, some possibly empty.
func splitCommas(toks []Token) [][]Token {
	if len(toks) == 0 {
		return nil
	}

	var groups [][]Token

	start := 0

	for i, tok := range toks {
		if tok.Type == TokenComma {
			groups = append(groups, toks[start:i])
			start = i + 1
		}
	}

	return append(groups, toks[start:])
}
