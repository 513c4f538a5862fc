package repl

import (
	"context"
	"strings"

	"github.com/ardnew/treewalk/lang"
)

// functionCall describes the call enclosing the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed call before cursor and
// the index of the argument being typed. Brackets and commas inside string
// and character literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	type open struct{ pos, commas int }

	var (
		stack []open
		quote byte
	)

	for i := 0; i < cursor; i++ {
		c := input[i]

		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}

			continue
		}

		switch c {
		case '"', '\'':
			quote = c
		case '(':
			stack = append(stack, open{pos: i})
		case ')':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ',':
			if len(stack) > 0 {
				stack[len(stack)-1].commas++
			}
		}
	}

	if len(stack) == 0 {
		return functionCall{}
	}

	top := stack[len(stack)-1]

	start := top.pos
	for start > 0 {
		r := rune(input[start-1])
		if r != '.' && r != '_' && !isLetter(r) && !isDigit(r) {
			break
		}

		start--
	}

	name := input[start:top.pos]
	if name == "" {
		return functionCall{}
	}

	return functionCall{name: name, argIndex: top.commas, inCall: true}
}

// signature is a callable's name and parameter list for the hint line.
type signature struct {
	name   string
	params []string
}

// signature returns the signature of the callable named name. Among host
// method overloads, it prefers the first that accepts at least argc
// arguments.
func (s *session) signature(ctx context.Context, name string, argc int) (signature, bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		fn, ok := s.in.Program().Function(name)
		if !ok {
			return signature{}, false
		}

		params := make([]string, len(fn.Params))
		for j, p := range fn.Params {
			params[j] = p.Value
		}

		return signature{name: name, params: params}, true
	}

	d, _ := s.describe(ctx, name[:i])
	if d == nil {
		return signature{}, false
	}

	member := name[i+1:]

	var found []lang.Method

	for t := range d.Hierarchy() {
		for _, m := range t.Methods {
			if m.Name == member {
				found = append(found, m)
			}
		}
	}

	if len(found) == 0 {
		return signature{}, false
	}

	best := found[0]

	for _, m := range found {
		if len(m.Params) >= argc {
			best = m

			break
		}
	}

	params := make([]string, len(best.Params))
	for j, p := range best.Params {
		params[j] = p.Name + " " + p.Type.String()
	}

	return signature{name: member, params: params}, true
}

// render draws the signature with the parameter at current highlighted.
func (sig signature) render(current int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(sig.name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range sig.params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == current {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
