package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in canonical source form.
//
// With indent > 0, each statement is written on its own line and nested
// bodies are indented by indent spaces per level. With indent == 0, each
// function is written on a single line.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	var sb strings.Builder

	f := formatter{sb: &sb, indent: indent}

	for _, u := range p.Usings {
		sb.WriteString("using " + u.Name() + ";\n")
	}

	for n, fn := range p.Functions {
		if indent > 0 && (n > 0 || len(p.Usings) > 0) {
			sb.WriteByte('\n')
		}

		f.function(fn)
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// FormatJSON writes the program as JSON.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the program as YAML.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// FormatTree writes an indented outline of the syntax tree, one node per
// line.
func (p *Program) FormatTree(_ context.Context, w io.Writer, indent int) error {
	if indent <= 0 {
		indent = 2
	}

	var sb strings.Builder

	line := func(depth int, format string, args ...any) {
		sb.WriteString(strings.Repeat(" ", depth*indent))
		fmt.Fprintf(&sb, format, args...)
		sb.WriteByte('\n')
	}

	var expr func(depth int, label string, e Expr)

	expr = func(depth int, label string, e Expr) {
		if label != "" {
			label += ": "
		}

		switch e := e.(type) {
		case *Literal:
			line(depth, "%sLiteral %s %s", label, e.Kind, e.Token.Source())

		case *BinaryOp:
			line(depth, "%sBinaryOp %s", label, e.Op.Value)
			expr(depth+1, "", e.Left)
			expr(depth+1, "", e.Right)

		case *UnaryOp:
			line(depth, "%sUnaryOp %s", label, e.Op.Value)
			expr(depth+1, "", e.Operand)

		case *Call:
			line(depth, "%sCall %s", label, e.Name.Value)

			for _, a := range e.Args {
				expr(depth+1, "", a)
			}

		case *NewExpr:
			line(depth, "%sNew %s", label, e.Type.Value)

			for _, a := range e.Args {
				expr(depth+1, "", a)
			}

		case *Indexor:
			line(depth, "%sIndexor %s", label, e.Base.Value)
			expr(depth+1, "", e.Index)
		}
	}

	var body func(depth int, b *Body)

	body = func(depth int, b *Body) {
		for _, stmt := range b.Stmts {
			switch s := stmt.(type) {
			case *ExprStmt:
				line(depth, "Expr")
				expr(depth+1, "", s.Expr)

			case *VarStmt:
				line(depth, "Var %s", s.Name.Value)
				expr(depth+1, "", s.Value)

			case *GlobalStmt:
				line(depth, "Global %s", s.Name.Value)
				expr(depth+1, "", s.Value)

			case *WhileStmt:
				line(depth, "While")
				expr(depth+1, "cond", s.Cond)
				body(depth+1, s.Body)

			case *ForStmt:
				line(depth, "For %s", s.Var.Value)
				expr(depth+1, "start", s.Start)
				expr(depth+1, "end", s.End)
				body(depth+1, s.Body)

			case *IfStmt:
				line(depth, "If")
				expr(depth+1, "cond", s.Cond)
				body(depth+1, s.Body)

				if s.Else != nil {
					line(depth, "Else")
					body(depth+1, s.Else)
				}

			case *BreakStmt:
				line(depth, "Break")

			case *ContinueStmt:
				line(depth, "Continue")

			case *ReturnStmt:
				line(depth, "Return")

				if s.Value != nil {
					expr(depth+1, "", s.Value)
				}
			}
		}
	}

	line(0, "Program")

	for _, u := range p.Usings {
		line(1, "Using %s", u.Name())
	}

	for _, fn := range p.Functions {
		line(1, "Function %s(%s)", fn.Name.Value, strings.Join(paramNames(fn), ", "))
		body(2, fn.Body)
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

func paramNames(fn *Function) []string {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Value
	}

	return names
}

// FormatExpr returns the canonical source form of an expression.
func FormatExpr(e Expr) string {
	var sb strings.Builder

	formatter{sb: &sb}.expr(e)

	return sb.String()
}

type formatter struct {
	sb     *strings.Builder
	indent int
}

func (f formatter) function(fn *Function) {
	f.sb.WriteString(fn.Name.Value + "(" + strings.Join(paramNames(fn), ", ") + ") ")
	f.body(fn.Body, 0)
}

// body writes a braced statement list at the given nesting depth.
func (f formatter) body(b *Body, depth int) {
	if len(b.Stmts) == 0 {
		f.sb.WriteString("{}")

		return
	}

	f.sb.WriteByte('{')

	for _, stmt := range b.Stmts {
		if f.indent > 0 {
			f.sb.WriteByte('\n')
			f.sb.WriteString(strings.Repeat(" ", (depth+1)*f.indent))
		} else {
			f.sb.WriteByte(' ')
		}

		f.stmt(stmt, depth+1)
	}

	if f.indent > 0 {
		f.sb.WriteByte('\n')
		f.sb.WriteString(strings.Repeat(" ", depth*f.indent))
	} else {
		f.sb.WriteByte(' ')
	}

	f.sb.WriteByte('}')
}

func (f formatter) stmt(stmt Stmt, depth int) {
	switch s := stmt.(type) {
	case *ExprStmt:
		f.expr(s.Expr)
		f.sb.WriteByte(';')

	case *VarStmt:
		f.sb.WriteString("var " + s.Name.Value + " = ")
		f.expr(s.Value)
		f.sb.WriteByte(';')

	case *GlobalStmt:
		f.sb.WriteString("global " + s.Name.Value + " = ")
		f.expr(s.Value)
		f.sb.WriteByte(';')

	case *WhileStmt:
		f.sb.WriteString("while (")
		f.expr(s.Cond)
		f.sb.WriteString(") ")
		f.body(s.Body, depth)

	case *ForStmt:
		f.sb.WriteString("for (" + s.Var.Value + ", ")
		f.expr(s.Start)
		f.sb.WriteString(", ")
		f.expr(s.End)
		f.sb.WriteString(") ")
		f.body(s.Body, depth)

	case *IfStmt:
		f.sb.WriteString("if (")
		f.expr(s.Cond)
		f.sb.WriteString(") ")
		f.body(s.Body, depth)

		if s.Else == nil {
			break
		}

		f.sb.WriteString(" else ")

		if len(s.Else.Stmts) == 1 {
			if chained, ok := s.Else.Stmts[0].(*IfStmt); ok {
				f.stmt(chained, depth)

				break
			}
		}

		f.body(s.Else, depth)

	case *BreakStmt:
		f.sb.WriteString("break;")

	case *ContinueStmt:
		f.sb.WriteString("continue;")

	case *ReturnStmt:
		f.sb.WriteString("return")

		if s.Value != nil {
			f.sb.WriteByte(' ')
			f.expr(s.Value)
		}

		f.sb.WriteByte(';')
	}
}

// precedence returns the binding strength of a binary operator, matching
// the parser's tiers. Higher binds tighter.
func precedence(op Token) int {
	for i, match := range binaryTiers {
		if match(op) {
			return i + 1
		}
	}

	if isDot(op) {
		return len(binaryTiers) + 2
	}

	return 0
}

// unaryPrecedence sits between the tightest infix tier and member access.
var unaryPrecedence = len(binaryTiers) + 1

func exprPrecedence(e Expr) int {
	switch e := e.(type) {
	case *BinaryOp:
		return precedence(e.Op)
	case *UnaryOp:
		return unaryPrecedence
	default:
		return unaryPrecedence + 2
	}
}

func (f formatter) expr(e Expr) {
	switch e := e.(type) {
	case *Literal:
		f.sb.WriteString(e.Token.Source())

	case *BinaryOp:
		p := precedence(e.Op)

		// Operators split at their last occurrence, so they associate left:
		// a right operand of equal strength needs parentheses.
		f.operand(e.Left, exprPrecedence(e.Left) < p)

		if isDot(e.Op) {
			f.sb.WriteByte('.')
		} else {
			f.sb.WriteString(" " + e.Op.Value + " ")
		}

		f.operand(e.Right, exprPrecedence(e.Right) <= p)

	case *UnaryOp:
		f.sb.WriteString(e.Op.Value)
		f.operand(e.Operand, exprPrecedence(e.Operand) < unaryPrecedence)

	case *Call:
		f.sb.WriteString(e.Name.Value)
		f.args(e.Args)

	case *NewExpr:
		f.sb.WriteString("new " + e.Type.Value)
		f.args(e.Args)

	case *Indexor:
		f.sb.WriteString(e.Base.Value + "[")
		f.expr(e.Index)
		f.sb.WriteByte(']')
	}
}

func (f formatter) operand(e Expr, parens bool) {
	if parens {
		f.sb.WriteByte('(')
	}

	f.expr(e)

	if parens {
		f.sb.WriteByte(')')
	}
}

func (f formatter) args(args []Expr) {
	f.sb.WriteByte('(')

	for i, a := range args {
		if i > 0 {
			f.sb.WriteString(", ")
		}

		f.expr(a)
	}

	f.sb.WriteByte(')')
}
