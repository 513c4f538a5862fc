package lang

import (
	"iter"
	"strings"
)

// Program is the root of a parsed script: its namespace imports and its
// function definitions, in source order.
type Program struct {
	Usings    []*Using
	Functions []*Function
	index     map[string]*Function
}

// Using is an imported namespace, e.g. "using Scene.Shapes;".
type Using struct {
	Path []Token
}

// Name returns the dotted namespace name.
func (u *Using) Name() string {
	var b strings.Builder

	for _, tok := range u.Path {
		b.WriteString(tok.Value)
	}

	return b.String()
}

// Function is a named function definition.
type Function struct {
	Name   Token
	Params []Token
	Body   *Body
}

// Body is an ordered sequence of statements executed in a fresh scope.
type Body struct {
	Stmts []Stmt
}

// Function returns the function with the given name.
func (p *Program) Function(name string) (*Function, bool) {
	if p.index != nil {
		fn, ok := p.index[name]

		return fn, ok
	}

	for _, fn := range p.Functions {
		if fn.Name.Value == name {
			return fn, true
		}
	}

	return nil, false
}

// All returns an iterator over all functions in definition order.
func (p *Program) All() iter.Seq[*Function] {
	return func(yield func(*Function) bool) {
		for _, fn := range p.Functions {
			if !yield(fn) {
				return
			}
		}
	}
}

// Names returns the names of all functions in definition order.
func (p *Program) Names() []string {
	names := make([]string, 0, len(p.Functions))
	for fn := range p.All() {
		names = append(names, fn.Name.Value)
	}

	return names
}

// Imports returns the names of all imported namespaces.
func (p *Program) Imports() []string {
	names := make([]string, 0, len(p.Usings))
	for _, u := range p.Usings {
		names = append(names, u.Name())
	}

	return names
}

// buildIndex indexes functions by name for constant-time lookup.
func (p *Program) buildIndex() {
	p.index = make(map[string]*Function, len(p.Functions))
	for _, fn := range p.Functions {
		p.index[fn.Name.Value] = fn
	}
}

// Expr is an expression node. The set of implementations is closed:
// [*Literal], [*BinaryOp], [*UnaryOp], [*Call], [*NewExpr], [*Indexor].
type Expr interface {
	exprNode()
}

// Stmt is a statement node. The set of implementations is closed:
// [*ExprStmt], [*VarStmt], [*GlobalStmt], [*WhileStmt], [*ForStmt],
// [*IfStmt], [*BreakStmt], [*ContinueStmt], [*ReturnStmt].
type Stmt interface {
	stmtNode()
}

// LiteralKind indicates how a [Literal] is evaluated.
type LiteralKind int

const (
	LiteralFloat LiteralKind = iota
	LiteralInt
	LiteralString
	LiteralChar
	LiteralIdent
	LiteralTrue
	LiteralFalse
)

// String returns a string representation of the literal kind.
func (k LiteralKind) String() string {
	switch k {
	case LiteralFloat:
		return "Float"

	case LiteralInt:
		return "Int"

	case LiteralString:
		return "String"

	case LiteralChar:
		return "Char"

	case LiteralIdent:
		return "Identifier"

	case LiteralTrue:
		return "True"

	case LiteralFalse:
		return "False"

	default:
		return "Unknown"
	}
}

type (
	// Literal is a constant or an identifier reference.
	Literal struct {
		Kind  LiteralKind
		Token Token
	}

	// BinaryOp applies an infix operator. Op "." is member access and Op "="
	// is assignment.
	BinaryOp struct {
		Left  Expr
		Right Expr
		Op    Token
	}

	// UnaryOp applies a prefix "-" or "!".
	UnaryOp struct {
		Operand Expr
		Op      Token
	}

	// Call invokes a user-defined function, or a host method when it is the
	// right operand of a member access.
	Call struct {
		Name Token
		Args []Expr
	}

	// NewExpr constructs an instance of a host type.
	NewExpr struct {
		Type Token
		Args []Expr
	}

	// Indexor indexes the value bound to Base.
	Indexor struct {
		Base  Token
		Index Expr
	}
)

func (*Literal) exprNode()  {}
func (*BinaryOp) exprNode() {}
func (*UnaryOp) exprNode()  {}
func (*Call) exprNode()     {}
func (*NewExpr) exprNode()  {}
func (*Indexor) exprNode()  {}

type (
	// ExprStmt evaluates an expression and discards its value.
	ExprStmt struct {
		Expr Expr
	}

	// VarStmt declares a binding in the innermost scope.
	VarStmt struct {
		Name  Token
		Value Expr
	}

	// GlobalStmt declares a binding in the global table.
	GlobalStmt struct {
		Name  Token
		Value Expr
	}

	// WhileStmt repeats Body while Cond is true.
	WhileStmt struct {
		Cond Expr
		Body *Body
	}

	// ForStmt counts Var from Start up to, but excluding, End.
	ForStmt struct {
		Var   Token
		Start Expr
		End   Expr
		Body  *Body
	}

	// IfStmt runs Body when Cond is true, otherwise Else (if any).
	IfStmt struct {
		Cond Expr
		Body *Body
		Else *Body
	}

	// BreakStmt exits the innermost loop.
	BreakStmt struct {
		Token Token
	}

	// ContinueStmt skips to the next iteration of the innermost loop.
	ContinueStmt struct {
		Token Token
	}

	// ReturnStmt exits the current function; Value may be nil.
	ReturnStmt struct {
		Token Token
		Value Expr
	}
)

func (*ExprStmt) stmtNode()     {}
func (*VarStmt) stmtNode()      {}
func (*GlobalStmt) stmtNode()   {}
func (*WhileStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*IfStmt) stmtNode()       {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()   {}
