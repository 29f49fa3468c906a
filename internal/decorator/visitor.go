package decorator

import (
	"github.com/jsdecor/declower/internal/ast"
	"github.com/jsdecor/declower/internal/traverse"
)

// VisitProgram is the top-level entry point from §4.1: walk a flat
// statement list, lowering every class declaration/expression it finds,
// splicing each lowered class's preStmts in ahead of the statement that
// held it.
func (p *Pass) VisitProgram(stmts []ast.Stmt) []ast.Stmt {
	return traverse.WalkProgram(stmts, p.visitStmt)
}

func (p *Pass) visitStmt(stmt ast.Stmt) []ast.Stmt {
	switch s := stmt.Data.(type) {
	case *ast.SClass:
		return p.lowerClassStmt(stmt)

	case *ast.SExportDefault:
		if _, ok := s.Value.Data.(*ast.SClass); ok {
			return p.lowerClassStmt(stmt)
		}
		// `export default <expr>`: named evaluation applies when the
		// expression is an anonymous decorated class (§4.1).
		if se, ok := s.Value.Data.(*ast.SExpr); ok {
			hint := ""
			if s.DefaultName.Ref.IsValid() {
				hint = p.Symbols[s.DefaultName.Ref.InnerIndex].OriginalName
			}
			pre, rewritten := p.rewriteExprForClasses(se.Value, hint)
			se.Value = rewritten
			return append(pre, stmt)
		}
		return []ast.Stmt{stmt}

	case *ast.SLocal:
		var pre []ast.Stmt
		for i := range s.Decls {
			hint := bindingNameHint(p, s.Decls[i].Binding)
			var sub []ast.Stmt
			sub, s.Decls[i].ValueOrNil = p.rewriteExprForClasses(s.Decls[i].ValueOrNil, hint)
			pre = append(pre, sub...)
		}
		return append(pre, stmt)

	case *ast.SExpr:
		pre, rewritten := p.rewriteExprForClasses(s.Value, "")
		s.Value = rewritten
		return append(pre, stmt)

	default:
		return []ast.Stmt{stmt}
	}
}

func (p *Pass) lowerClassStmt(stmt ast.Stmt) []ast.Stmt {
	res := p.LowerClass(stmt, ast.Expr{}, "")
	out := append([]ast.Stmt{}, res.Pre...)
	return append(out, res.Stmts...)
}

// rewriteExprForClasses walks the narrow set of expression positions named
// evaluation applies to (§4.1: variable initializer, assignment,
// default-export, object-property value) looking for a class expression to
// lower, without descending into nested function/arrow/class bodies — those
// introduce their own scope and are out of the flat top-level walk this
// package models.
func (p *Pass) rewriteExprForClasses(expr ast.Expr, nameHint string) ([]ast.Stmt, ast.Expr) {
	if expr.Data == nil {
		return nil, expr
	}
	switch e := expr.Data.(type) {
	case *ast.EClass:
		res := p.LowerClass(ast.Stmt{}, expr, nameHint)
		return res.Pre, res.Expr

	case *ast.EBinary:
		switch e.Op {
		case ast.BinOpAssign, ast.BinOpLogicalAndAssign, ast.BinOpLogicalOrAssign, ast.BinOpNullishCoalescingAssign:
			hint := identHint(p, e.Left)
			pre, rhs := p.rewriteExprForClasses(e.Right, hint)
			e.Right = rhs
			return pre, expr
		}
		return nil, expr

	case *ast.EObject:
		var pre []ast.Stmt
		for i := range e.Properties {
			hint := objectKeyHint(e.Properties[i].Key)
			sub, v := p.rewriteExprForClasses(e.Properties[i].Value, hint)
			pre = append(pre, sub...)
			e.Properties[i].Value = v
		}
		return pre, expr

	case *ast.ESequence:
		var pre []ast.Stmt
		for i := range e.Exprs {
			sub, v := p.rewriteExprForClasses(e.Exprs[i], "")
			pre = append(pre, sub...)
			e.Exprs[i] = v
		}
		return pre, expr

	default:
		return nil, expr
	}
}

func bindingNameHint(p *Pass, b ast.Binding) string {
	if id, ok := b.Data.(*ast.BIdentifier); ok && id.Ref.IsValid() {
		return p.Symbols[id.Ref.InnerIndex].OriginalName
	}
	return ""
}

func identHint(p *Pass, target ast.Expr) string {
	if id, ok := target.Data.(*ast.EIdentifier); ok && id.Ref.IsValid() {
		return p.Symbols[id.Ref.InnerIndex].OriginalName
	}
	return ""
}

func objectKeyHint(key ast.Expr) string {
	if s, ok := key.Data.(*ast.EString); ok {
		return s.Value
	}
	return ""
}
