package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/treewalk/log"
)

// Interpreter executes the functions of a parsed [Program].
//
// An Interpreter holds mutable evaluation state (call frames and globals) and
// must not be used by more than one goroutine at a time. Globals persist
// across calls to [Interpreter.Invoke] for the lifetime of the Interpreter,
// including any partially applied by a call that failed.
type Interpreter struct {
	program      *Program
	registry     *Registry
	logger       log.Logger
	usings       []string
	frames       []*frame
	session      *frame
	globals      globals
	maxDepth     int
	maxCallDepth int
}

// New creates an interpreter for program. The host object is bound as a
// global under [DefaultHostName] (see [WithHostName]), giving scripts a path
// back into the hosting application.
func New(program *Program, host any, opts ...Option) (*Interpreter, error) {
	if program == nil {
		return nil, ErrInternal.With(slog.String("reason", "nil program"))
	}

	o := makeOptions(opts...)

	i := &Interpreter{
		program:      program,
		registry:     o.registry,
		logger:       o.logger,
		usings:       program.Imports(),
		maxDepth:     o.maxDepth,
		maxCallDepth: o.maxCallDepth,
		globals:      globals{index: make(map[string]int)},
	}

	if o.hostName != "" {
		err := i.globals.declare(Token{Value: o.hostName}, ValueOf(host))
		if err != nil {
			return nil, err
		}
	}

	return i, nil
}

// Program returns the program the interpreter executes.
func (i *Interpreter) Program() *Program { return i.program }

// Registry returns the host-type registry, which may be nil.
func (i *Interpreter) Registry() *Registry { return i.registry }

// Global returns the value of a global binding.
func (i *Interpreter) Global(name string) (Value, bool) {
	if slot, ok := i.globals.index[name]; ok {
		return i.globals.slots[slot], true
	}

	return Value{}, false
}

// Globals returns the names of all global bindings, sorted.
func (i *Interpreter) Globals() []string { return i.globals.names() }

// Invoke calls the function name with args and returns its result.
//
// The result is the value of the first return statement executed, or null
// if the function completes without one. Any error aborts the call.
func (i *Interpreter) Invoke(
	ctx context.Context,
	name string,
	args ...Value,
) (Value, error) {
	fn, ok := i.program.Function(name)
	if !ok {
		return Value{}, nameError(Token{Value: name}, i.program.Names())
	}

	return i.call(ctx, fn, args)
}

// InvokeAny is like [Interpreter.Invoke] but converts each argument with
// [ValueOf].
func (i *Interpreter) InvokeAny(
	ctx context.Context,
	name string,
	args ...any,
) (Value, error) {
	vals := make([]Value, len(args))
	for j, a := range args {
		vals[j] = ValueOf(a)
	}

	return i.Invoke(ctx, name, vals...)
}

// Eval parses src as a sequence of statements and executes them in a
// top-level session frame that persists across calls, so variables declared
// by one call remain visible to the next. It returns the value of the last
// expression statement, or the value of a return statement.
func (i *Interpreter) Eval(ctx context.Context, src string) (Value, error) {
	p := &parser{ctx: ctx, logger: i.logger, maxDepth: i.maxDepth}

	body, err := p.parseBody(Token{Value: src, Span: Span{Start: -1}, Type: TokenCurly})
	if err != nil {
		return Value{}, err
	}

	if i.session == nil {
		i.session = new(frame)
		i.session.push()
	}

	i.frames = append(i.frames, i.session)
	defer func() { i.frames = i.frames[:len(i.frames)-1] }()

	var last Value

	for _, stmt := range body.Stmts {
		if es, ok := stmt.(*ExprStmt); ok {
			last, err = i.eval(ctx, es.Expr)
			if err != nil {
				return Value{}, err
			}

			continue
		}

		c, err := i.exec(ctx, stmt)
		if err != nil {
			return Value{}, err
		}

		switch c.flow {
		case flowReturn:
			return c.value, nil
		case flowBreak, flowContinue:
			// Escaping every loop ends the input, as it ends a function.
			return Value{}, nil
		}

		last = Value{}
	}

	return last, nil
}

// Reset discards the session frame used by [Interpreter.Eval].
func (i *Interpreter) Reset() { i.session = nil }

// Locals returns the names declared in the session frame.
func (i *Interpreter) Locals() []string {
	if i.session == nil {
		return nil
	}

	return i.session.names()
}

// call runs fn in a new frame with its parameters bound to args.
func (i *Interpreter) call(ctx context.Context, fn *Function, args []Value) (Value, error) {
	if err := ctx.Err(); err != nil {
		return Value{}, ErrCanceled.Wrap(context.Cause(ctx)).at(fn.Name)
	}

	// Extra arguments are evaluated by the caller and then ignored.
	if len(args) < len(fn.Params) {
		return Value{}, ErrArity.at(fn.Name).With(
			slog.Int("expected", len(fn.Params)),
			slog.Int("actual", len(args)))
	}

	if i.maxCallDepth > 0 && len(i.frames) >= i.maxCallDepth {
		return Value{}, ErrCallDepth.at(fn.Name).
			With(slog.Int("max_call_depth", i.maxCallDepth))
	}

	i.logger.TraceContext(ctx, "invoke",
		slog.String("function", fn.Name.Value),
		slog.Int("args", len(args)),
		slog.Int("depth", len(i.frames)))

	f := &frame{fn: fn, slots: make([]Value, 0, len(args))}
	f.push()

	for j, param := range fn.Params {
		if err := f.declare(param, args[j]); err != nil {
			return Value{}, err
		}
	}

	i.frames = append(i.frames, f)
	defer func() { i.frames = i.frames[:len(i.frames)-1] }()

	c, err := i.execBody(ctx, fn.Body)
	if err != nil {
		return Value{}, err
	}

	// A break or continue that escapes every loop ends the function
	// without a value.
	if c.flow == flowReturn {
		return c.value, nil
	}

	return Value{}, nil
}

func (i *Interpreter) top() *frame { return i.frames[len(i.frames)-1] }

// flow identifies how a statement completed.
type flow uint8

const (
	flowNormal flow = iota
	flowBreak
	flowContinue
	flowReturn
)

// completion is the outcome of executing a statement or body.
type completion struct {
	value Value
	flow  flow
}

// execBody runs body in a new scope, stopping at the first statement that
// does not complete normally.
func (i *Interpreter) execBody(ctx context.Context, body *Body) (completion, error) {
	f := i.top()
	f.push()
	defer f.pop()

	for _, stmt := range body.Stmts {
		c, err := i.exec(ctx, stmt)
		if err != nil {
			return completion{}, err
		}

		if c.flow != flowNormal {
			return c, nil
		}
	}

	return completion{}, nil
}

func (i *Interpreter) exec(ctx context.Context, stmt Stmt) (completion, error) {
	switch s := stmt.(type) {
	case *ExprStmt:
		_, err := i.eval(ctx, s.Expr)

		return completion{}, err

	case *VarStmt:
		v, err := i.eval(ctx, s.Value)
		if err != nil {
			return completion{}, err
		}

		return completion{}, i.top().declare(s.Name, v)

	case *GlobalStmt:
		v, err := i.eval(ctx, s.Value)
		if err != nil {
			return completion{}, err
		}

		return completion{}, i.globals.declare(s.Name, v)

	case *WhileStmt:
		return i.execWhile(ctx, s)

	case *ForStmt:
		return i.execFor(ctx, s)

	case *IfStmt:
		ok, err := i.cond(ctx, s.Cond)
		if err != nil {
			return completion{}, err
		}

		switch {
		case ok:
			return i.execBody(ctx, s.Body)
		case s.Else != nil:
			return i.execBody(ctx, s.Else)
		default:
			return completion{}, nil
		}

	case *BreakStmt:
		return completion{flow: flowBreak}, nil

	case *ContinueStmt:
		return completion{flow: flowContinue}, nil

	case *ReturnStmt:
		if s.Value == nil {
			return completion{flow: flowReturn}, nil
		}

		v, err := i.eval(ctx, s.Value)
		if err != nil {
			return completion{}, err
		}

		return completion{value: v, flow: flowReturn}, nil

	default:
		return completion{}, ErrInternal.With(
			slog.String("reason", "unknown statement"))
	}
}

func (i *Interpreter) cond(ctx context.Context, expr Expr) (bool, error) {
	v, err := i.eval(ctx, expr)
	if err != nil {
		return false, err
	}

	ok, err := truth(v)
	if err != nil {
		return false, err.(*Error).at(firstToken(expr))
	}

	return ok, nil
}

// iterate checks for cancellation at a loop back-edge.
func iterate(ctx context.Context, tok Token) error {
	if ctx.Err() != nil {
		return ErrCanceled.Wrap(context.Cause(ctx)).at(tok)
	}

	return nil
}

func (i *Interpreter) execWhile(ctx context.Context, s *WhileStmt) (completion, error) {
	for {
		if err := iterate(ctx, firstToken(s.Cond)); err != nil {
			return completion{}, err
		}

		ok, err := i.cond(ctx, s.Cond)
		if err != nil || !ok {
			return completion{}, err
		}

		c, err := i.execBody(ctx, s.Body)
		if err != nil {
			return completion{}, err
		}

		switch c.flow {
		case flowBreak:
			return completion{}, nil
		case flowReturn:
			return c, nil
		}
	}
}

// execFor counts the loop variable's slot from start while it is less than
// end, which is evaluated once. The body shares the slot, so assignments to
// the loop variable affect the iteration.
func (i *Interpreter) execFor(ctx context.Context, s *ForStmt) (completion, error) {
	start, err := i.eval(ctx, s.Start)
	if err != nil {
		return completion{}, err
	}

	end, err := i.eval(ctx, s.End)
	if err != nil {
		return completion{}, err
	}

	f := i.top()
	f.push()
	defer f.pop()

	if err := f.declare(s.Var, start); err != nil {
		return completion{}, err
	}

	slot, _ := f.lookup(s.Var.Value)
	one := IntValue(1)

	for {
		if err := iterate(ctx, s.Var); err != nil {
			return completion{}, err
		}

		lt, err := compare("<", f.slots[slot], end)
		if err != nil {
			return completion{}, err.(*Error).at(s.Var)
		}

		if !lt.Bool() {
			return completion{}, nil
		}

		c, err := i.execBody(ctx, s.Body)
		if err != nil {
			return completion{}, err
		}

		switch c.flow {
		case flowBreak:
			return completion{}, nil
		case flowReturn:
			return c, nil
		}

		next, err := binaryOp("+", f.slots[slot], one)
		if err != nil {
			return completion{}, err.(*Error).at(s.Var)
		}

		f.slots[slot] = next
	}
}

// eval evaluates an expression.
func (i *Interpreter) eval(ctx context.Context, expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *Literal:
		return i.literal(e)

	case *BinaryOp:
		switch {
		case e.Op.Type == TokenEquals:
			return i.assign(ctx, e)

		case isDot(e.Op):
			return i.member(ctx, e)

		case e.Op.Value == "&&" || e.Op.Value == "||":
			return i.logical(ctx, e)
		}

		l, err := i.eval(ctx, e.Left)
		if err != nil {
			return Value{}, err
		}

		r, err := i.eval(ctx, e.Right)
		if err != nil {
			return Value{}, err
		}

		v, err := binaryOp(e.Op.Value, l, r)
		if err != nil {
			return Value{}, err.(*Error).at(e.Op)
		}

		return v, nil

	case *UnaryOp:
		v, err := i.eval(ctx, e.Operand)
		if err != nil {
			return Value{}, err
		}

		v, err = unaryOp(e.Op.Value, v)
		if err != nil {
			return Value{}, err.(*Error).at(e.Op)
		}

		return v, nil

	case *Call:
		fn, ok := i.program.Function(e.Name.Value)
		if !ok {
			return Value{}, nameError(e.Name, i.program.Names())
		}

		args, err := i.evalArgs(ctx, e.Args)
		if err != nil {
			return Value{}, err
		}

		return i.call(ctx, fn, args)

	case *NewExpr:
		return i.construct(ctx, e)

	case *Indexor:
		base, err := i.variable(e.Base)
		if err != nil {
			return Value{}, err
		}

		return i.index(ctx, base, e)

	default:
		return Value{}, ErrInternal.With(
			slog.String("reason", "unknown expression"))
	}
}

func (i *Interpreter) evalArgs(ctx context.Context, exprs []Expr) ([]Value, error) {
	args := make([]Value, len(exprs))

	for j, a := range exprs {
		v, err := i.eval(ctx, a)
		if err != nil {
			return nil, err
		}

		args[j] = v
	}

	return args, nil
}

func (i *Interpreter) literal(e *Literal) (Value, error) {
	switch e.Kind {
	case LiteralInt:
		return parseIntLiteral(e.Token)

	case LiteralFloat:
		return parseFloatLiteral(e.Token)

	case LiteralString:
		return StringValue(e.Token.Value), nil

	case LiteralChar:
		for _, r := range e.Token.Value {
			return CharValue(r), nil
		}

		return Value{}, ErrSyntax.at(e.Token).
			With(slog.String("reason", "empty character literal"))

	case LiteralTrue:
		return BoolValue(true), nil

	case LiteralFalse:
		return BoolValue(false), nil

	default:
		return i.variable(e.Token)
	}
}

// slot returns a pointer to the storage bound to name, searching the
// current frame's scopes innermost first and then the globals.
func (i *Interpreter) slot(name string) (*Value, bool) {
	if len(i.frames) > 0 {
		f := i.top()
		if s, ok := f.lookup(name); ok {
			return &f.slots[s], true
		}
	}

	if s, ok := i.globals.index[name]; ok {
		return &i.globals.slots[s], true
	}

	return nil, false
}

// visible returns every variable name visible from the current frame.
func (i *Interpreter) visible() []string {
	var names []string
	if len(i.frames) > 0 {
		names = i.top().names()
	}

	return append(names, i.globals.names()...)
}

func (i *Interpreter) variable(tok Token) (Value, error) {
	if p, ok := i.slot(tok.Value); ok {
		return *p, nil
	}

	return Value{}, nameError(tok, i.visible())
}

// logical evaluates && and ||, skipping the right operand when the left
// operand determines the result.
func (i *Interpreter) logical(ctx context.Context, e *BinaryOp) (Value, error) {
	l, err := i.eval(ctx, e.Left)
	if err != nil {
		return Value{}, err
	}

	if l.kind != KindBool {
		return Value{}, typeError(e.Op.Value, l).at(e.Op)
	}

	if (e.Op.Value == "&&") != l.Bool() {
		return l, nil
	}

	r, err := i.eval(ctx, e.Right)
	if err != nil {
		return Value{}, err
	}

	if r.kind != KindBool {
		return Value{}, typeError(e.Op.Value, l, r).at(e.Op)
	}

	return r, nil
}

// assign stores the right operand into a variable or a property.
func (i *Interpreter) assign(ctx context.Context, e *BinaryOp) (Value, error) {
	switch target := e.Left.(type) {
	case *Literal:
		if target.Kind != LiteralIdent {
			break
		}

		v, err := i.eval(ctx, e.Right)
		if err != nil {
			return Value{}, err
		}

		p, ok := i.slot(target.Token.Value)
		if !ok {
			return Value{}, nameError(target.Token, i.visible())
		}

		*p = v

		return v, nil

	case *BinaryOp:
		if !isDot(target.Op) {
			break
		}

		name, ok := target.Right.(*Literal)
		if !ok {
			break
		}

		recv, err := i.receiver(ctx, target.Left)
		if err != nil {
			return Value{}, err
		}

		v, err := i.eval(ctx, e.Right)
		if err != nil {
			return Value{}, err
		}

		return v, i.setProperty(ctx, recv, name.Token, v)
	}

	return Value{}, ErrAssignment.at(e.Op).
		With(slog.String("target", exprKind(e.Left)))
}

// firstToken returns the leftmost token of an expression, for error
// positions.
func firstToken(expr Expr) Token {
	switch e := expr.(type) {
	case *Literal:
		return e.Token
	case *BinaryOp:
		return firstToken(e.Left)
	case *UnaryOp:
		return e.Op
	case *Call:
		return e.Name
	case *NewExpr:
		return e.Type
	case *Indexor:
		return e.Base
	default:
		return Token{}
	}
}

func exprKind(expr Expr) string {
	switch e := expr.(type) {
	case *Literal:
		return e.Kind.String()
	case *BinaryOp:
		return "BinaryOp(" + e.Op.Value + ")"
	case *UnaryOp:
		return "UnaryOp(" + e.Op.Value + ")"
	case *Call:
		return "Call"
	case *NewExpr:
		return "New"
	case *Indexor:
		return "Indexor"
	default:
		return "Unknown"
	}
}

// Functions returns the names of the program's functions that take n
// parameters, or all of them when n is negative.
func (i *Interpreter) Functions(n int) []string {
	var names []string

	for fn := range i.program.All() {
		if n < 0 || len(fn.Params) == n {
			names = append(names, fn.Name.Value)
		}
	}

	return names
}
