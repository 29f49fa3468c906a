package decorator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsdecor/declower/internal/ast"
)

func TestVisitProgramLowersBareClassDeclaration(t *testing.T) {
	p := newTestPass(t, Version202305)
	class := ast.Class{Name: &ast.LocRef{Ref: ast.NewRef(0)}, Decorators: []ast.Expr{stringExpr(ast.Loc{}, "dec")}}
	p.Symbols = append(p.Symbols, ast.Symbol{OriginalName: "Foo"})
	stmts := []ast.Stmt{{Data: &ast.SClass{Class: class}}}

	out := p.VisitProgram(stmts)

	require.NotEmpty(t, out)
	// The decorated declaration rebinds to a fresh local via assignment,
	// so the result is no longer a bare SClass statement.
	_, stillBareClass := out[len(out)-1].Data.(*ast.SClass)
	require.False(t, stillBareClass)
}

func TestVisitProgramSplitsDecoratedNamedExport(t *testing.T) {
	p := newTestPass(t, Version202305)
	class := ast.Class{Name: &ast.LocRef{Ref: ast.NewRef(0)}, Decorators: []ast.Expr{stringExpr(ast.Loc{}, "dec")}}
	p.Symbols = append(p.Symbols, ast.Symbol{OriginalName: "Foo"})
	stmts := []ast.Stmt{{Data: &ast.SClass{Class: class, IsExport: true}}}

	out := p.VisitProgram(stmts)

	last := out[len(out)-1]
	clause, ok := last.Data.(*ast.SExportClause)
	require.True(t, ok, "a decorated named export must split into a declaration plus a trailing export clause")
	require.Len(t, clause.Items, 1)
	require.Equal(t, "Foo", clause.Items[0].Alias)
}

func TestVisitProgramSplitsDecoratedDefaultExport(t *testing.T) {
	p := newTestPass(t, Version202305)
	class := ast.Class{Name: &ast.LocRef{Ref: ast.NewRef(0)}, Decorators: []ast.Expr{stringExpr(ast.Loc{}, "dec")}}
	p.Symbols = append(p.Symbols, ast.Symbol{OriginalName: "Foo"})
	stmts := []ast.Stmt{{Data: &ast.SExportDefault{Value: ast.Stmt{Data: &ast.SClass{Class: class}}}}}

	out := p.VisitProgram(stmts)

	last := out[len(out)-1]
	clause, ok := last.Data.(*ast.SExportClause)
	require.True(t, ok)
	require.Equal(t, "default", clause.Items[0].Alias)
}

func TestVisitProgramNamedEvaluationInfersNameForAnonymousDecoratedExpression(t *testing.T) {
	p := newTestPass(t, Version202305)
	anon := ast.Class{Decorators: []ast.Expr{stringExpr(ast.Loc{}, "dec")}}
	nameRef := ast.NewRef(0)
	p.Symbols = append(p.Symbols, ast.Symbol{OriginalName: "Widget"})
	decl := ast.SLocal{
		Kind: ast.LocalConst,
		Decls: []ast.Decl{{
			Binding:    ast.Binding{Data: &ast.BIdentifier{Ref: nameRef}},
			ValueOrNil: ast.Expr{Data: &ast.EClass{Class: anon}},
		}},
	}
	stmts := []ast.Stmt{{Data: &decl}}

	p.VisitProgram(stmts)

	// The anonymous class must have picked up "Widget" as its inferred
	// internal name via rewriteEntry's hint plumbing.
	localDecl := stmts[0].Data.(*ast.SLocal)
	seq := localDecl.Decls[0].ValueOrNil
	// A decorated class expression becomes `(varId = <class>, varId)`; with
	// the wrapper elided (no static state here) the assignment's right side
	// is the class itself, which carries a synthesized Name now.
	var cls *ast.Class
	switch e := seq.Data.(type) {
	case *ast.EClass:
		cls = &e.Class
	case *ast.ESequence:
		assign := e.Exprs[0].Data.(*ast.EBinary)
		inner := assign.Right.Data.(*ast.EClass)
		cls = &inner.Class
	}
	require.NotNil(t, cls)
	require.NotNil(t, cls.Name)
	require.Equal(t, "Widget", p.Symbols[cls.Name.Ref.InnerIndex].OriginalName)
}
