// Package lang implements a small embeddable scripting language: a
// tokenizer, a parser producing a syntax tree, and a tree-walking
// interpreter that reaches into the hosting application through a registry
// of host types.
//
// # Grammar
//
// Informal EBNF:
//
//	Program   → (Using | Function)*
//	Using     → 'using' Ident ('.' Ident)* ';'
//	Function  → Ident '(' (Ident (',' Ident)*)? ')' Body
//	Body      → '{' Stmt* '}'
//	Stmt      → 'var' Ident '=' Expr ';'
//	          | 'global' Ident '=' Expr ';'
//	          | 'while' '(' Expr ')' Body
//	          | 'if' '(' Expr ')' Body ('else' (Body | IfStmt))?
//	          | 'for' '(' Ident ',' Expr ',' Expr ')' Body
//	          | 'break' ';' | 'continue' ';'
//	          | 'return' Expr? ';'
//	          | Expr ';'
//
// Operators, from loosest to tightest binding:
//
//	=
//	&&  ||
//	==  !=  >=  <=
//	<   >
//	+   -
//	*   /
//	-x  !x   (prefix)
//	.        (member access)
//
// Binary operators associate left. Comments run from "//" to end of line.
//
// # Example
//
//	using Scene;
//
//	Main(count) {
//	  var scene = host.Scene;
//	  for (i, 0, count) {
//	    if (i == 3) { continue; }
//	    scene.AddBox(new Vector(i * 2.0, 0, 0), 1.0);
//	  }
//	  return scene.Count;
//	}
//
// # Values
//
// Values are dynamically typed: 32-bit Int, 32-bit Float, String, Char,
// Bool, null, or a reference to a host object. Arithmetic on two Ints (or
// Chars) produces a wrapping Int; involving a Float produces a Float. "+"
// with a String operand concatenates. Conditions must be Bool. There are no
// implicit conversions beyond these.
//
// # Host binding
//
// Scripts reach the host only through member access ("a.b", "a.m(x)") and
// construction ("new T(x)"). A [Registry] maps type names to [TypeDesc]
// values listing constructors, methods, and properties; [Reflect] derives
// one from a Go type. The interpreter binds the host object passed to [New]
// as the global "host".
package lang
