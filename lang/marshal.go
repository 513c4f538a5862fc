package lang

import "encoding/json"

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the program to a tree of maps and slices suitable for
// generic encoders. Nodes are single-key maps naming the node kind.
func (p *Program) ToMap() map[string]any {
	usings := make([]any, len(p.Usings))
	for i, u := range p.Usings {
		usings[i] = u.Name()
	}

	functions := make([]any, len(p.Functions))
	for i, fn := range p.Functions {
		params := make([]any, len(fn.Params))
		for j, name := range paramNames(fn) {
			params[j] = name
		}

		functions[i] = map[string]any{
			"name":   fn.Name.Value,
			"params": params,
			"body":   bodyToNative(fn.Body),
		}
	}

	return map[string]any{
		"usings":    usings,
		"functions": functions,
	}
}

func bodyToNative(b *Body) []any {
	stmts := make([]any, len(b.Stmts))
	for i, s := range b.Stmts {
		stmts[i] = stmtToNative(s)
	}

	return stmts
}

func stmtToNative(stmt Stmt) any {
	switch s := stmt.(type) {
	case *ExprStmt:
		return map[string]any{"expr": exprToNative(s.Expr)}

	case *VarStmt:
		return map[string]any{"var": map[string]any{
			"name":  s.Name.Value,
			"value": exprToNative(s.Value),
		}}

	case *GlobalStmt:
		return map[string]any{"global": map[string]any{
			"name":  s.Name.Value,
			"value": exprToNative(s.Value),
		}}

	case *WhileStmt:
		return map[string]any{"while": map[string]any{
			"cond": exprToNative(s.Cond),
			"body": bodyToNative(s.Body),
		}}

	case *ForStmt:
		return map[string]any{"for": map[string]any{
			"var":   s.Var.Value,
			"start": exprToNative(s.Start),
			"end":   exprToNative(s.End),
			"body":  bodyToNative(s.Body),
		}}

	case *IfStmt:
		m := map[string]any{
			"cond": exprToNative(s.Cond),
			"body": bodyToNative(s.Body),
		}

		if s.Else != nil {
			m["else"] = bodyToNative(s.Else)
		}

		return map[string]any{"if": m}

	case *BreakStmt:
		return "break"

	case *ContinueStmt:
		return "continue"

	case *ReturnStmt:
		if s.Value == nil {
			return map[string]any{"return": nil}
		}

		return map[string]any{"return": exprToNative(s.Value)}

	default:
		return nil
	}
}

func exprToNative(expr Expr) any {
	switch e := expr.(type) {
	case *Literal:
		if e.Kind == LiteralIdent {
			return map[string]any{"ident": e.Token.Value}
		}

		return map[string]any{"literal": map[string]any{
			"kind":  e.Kind.String(),
			"value": e.Token.Value,
		}}

	case *BinaryOp:
		return map[string]any{"binary": map[string]any{
			"op":    e.Op.Value,
			"left":  exprToNative(e.Left),
			"right": exprToNative(e.Right),
		}}

	case *UnaryOp:
		return map[string]any{"unary": map[string]any{
			"op":      e.Op.Value,
			"operand": exprToNative(e.Operand),
		}}

	case *Call:
		return map[string]any{"call": map[string]any{
			"name": e.Name.Value,
			"args": exprsToNative(e.Args),
		}}

	case *NewExpr:
		return map[string]any{"new": map[string]any{
			"type": e.Type.Value,
			"args": exprsToNative(e.Args),
		}}

	case *Indexor:
		return map[string]any{"index": map[string]any{
			"base":  e.Base.Value,
			"index": exprToNative(e.Index),
		}}

	default:
		return nil
	}
}

func exprsToNative(exprs []Expr) []any {
	out := make([]any, len(exprs))
	for i, e := range exprs {
		out[i] = exprToNative(e)
	}

	return out
}
