package decorator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsdecor/declower/internal/ast"
	"github.com/jsdecor/declower/internal/helpers"
)

func newTestPass(t *testing.T, version Version) *Pass {
	t.Helper()
	p, err := New(Options{Version: version})
	require.NoError(t, err)
	return p
}

// fieldElement builds a plain `x = <init>` field, optionally decorated with
// a scope-constant string-literal "decorator" (good enough to exercise the
// pass's mechanics without needing a real scope-analysis collaborator).
func fieldElement(name string, decorated bool) ast.ClassElement {
	el := ast.ClassElement{Kind: ast.ElementField, Key: ast.Key{Name: name}, InitializerOrNil: numberExpr(ast.Loc{}, 1)}
	if decorated {
		el.Decorators = []ast.Expr{stringExpr(ast.Loc{}, "dec")}
	}
	return el
}

func TestLowerClassUndecoratedIsUnchanged(t *testing.T) {
	p := newTestPass(t, Version202305)
	class := ast.Class{Name: &ast.LocRef{Ref: ast.NewRef(0)}, Elements: []ast.ClassElement{fieldElement("x", false)}}
	p.Symbols = append(p.Symbols, ast.Symbol{OriginalName: "Foo"})
	stmt := ast.Stmt{Data: &ast.SClass{Class: class}}

	res := p.LowerClass(stmt, ast.Expr{}, "")

	require.Empty(t, res.Pre)
	require.Len(t, res.Stmts, 1)
	sclass, ok := res.Stmts[0].Data.(*ast.SClass)
	require.True(t, ok)
	require.Len(t, sclass.Class.Elements, 1)
	require.Empty(t, p.Helpers.Used(), "an undecorated class must not pull in any runtime helper")
}

func TestLowerClassSingleFieldDecoratorScenario(t *testing.T) {
	// Mirrors §8 scenario 1: one decorated field, no class decorators.
	p := newTestPass(t, Version202305)
	class := ast.Class{Name: &ast.LocRef{Ref: ast.NewRef(0)}, Elements: []ast.ClassElement{fieldElement("x", true)}}
	p.Symbols = append(p.Symbols, ast.Symbol{OriginalName: "Foo"})
	stmt := ast.Stmt{Data: &ast.SClass{Class: class}}

	res := p.LowerClass(stmt, ast.Expr{}, "")

	require.Len(t, res.Stmts, 1)
	sclass := res.Stmts[0].Data.(*ast.SClass)
	// A decoration static block is prepended ahead of the original field.
	require.Len(t, sclass.Class.Elements, 2)
	require.Equal(t, ast.ElementStaticBlock, sclass.Class.Elements[0].Kind)
	require.Equal(t, ast.ElementField, sclass.Class.Elements[1].Kind)
	require.Contains(t, p.Helpers.Used(), helpers.ApplyDecs2305)
	require.False(t, p.Log.HasErrors())

	// The field's initializer must call its init thunk with the original
	// value, not silently keep the original literal (§8 scenario 1:
	// `x = init_x(this, 1)`).
	field := sclass.Class.Elements[1]
	call, ok := field.InitializerOrNil.Data.(*ast.ECall)
	require.True(t, ok, "decorated field initializer must be rewritten into a call to its init thunk")
	require.Len(t, call.Args, 2)
	_, isThis := call.Args[0].Data.(*ast.EThis)
	require.True(t, isThis)
	num, ok := call.Args[1].Data.(*ast.ENumber)
	require.True(t, ok)
	require.Equal(t, float64(1), num.Value)
}

func TestLowerClassWithClassDecoratorBuildsWrapperWhenStaticStateExists(t *testing.T) {
	// Mirrors §8 scenario 2: a class decorator plus a static field, forcing
	// the identity-wrapper construction since static state must move.
	p := newTestPass(t, Version202305)
	class := ast.Class{
		Name:       &ast.LocRef{Ref: ast.NewRef(0)},
		Decorators: []ast.Expr{stringExpr(ast.Loc{}, "classDec")},
		Elements: []ast.ClassElement{
			{Kind: ast.ElementField, Key: ast.Key{Name: "count"}, IsStatic: true, InitializerOrNil: numberExpr(ast.Loc{}, 0)},
		},
	}
	p.Symbols = append(p.Symbols, ast.Symbol{OriginalName: "Foo"})
	stmt := ast.Stmt{Data: &ast.SClass{Class: class}}

	res := p.LowerClass(stmt, ast.Expr{}, "")

	require.Len(t, res.Stmts, 1)
	assign, ok := res.Stmts[0].Data.(*ast.SExpr)
	require.True(t, ok, "a class-level decorator always rebinds to a fresh outer local")
	bin, ok := assign.Value.Data.(*ast.EBinary)
	require.True(t, ok)
	require.Equal(t, ast.BinOpAssign, bin.Op)
	seq, ok := bin.Right.Data.(*ast.ESequence)
	require.True(t, ok, "expected the (classIdLocal = class..., wrapper) sequence")
	require.Len(t, seq.Exprs, 2)
	_, isNew := seq.Exprs[1].Data.(*ast.ENew)
	require.True(t, isNew, "expected the wrapper's `new` expression as the sequence's final value")
}

func TestLowerClassElidesWrapperWhenNoStaticStateToMove(t *testing.T) {
	p := newTestPass(t, Version202305)
	class := ast.Class{
		Name:       &ast.LocRef{Ref: ast.NewRef(0)},
		Decorators: []ast.Expr{stringExpr(ast.Loc{}, "classDec")},
		Elements:   []ast.ClassElement{fieldElement("x", false)},
	}
	p.Symbols = append(p.Symbols, ast.Symbol{OriginalName: "Foo"})
	stmt := ast.Stmt{Data: &ast.SClass{Class: class}}

	res := p.LowerClass(stmt, ast.Expr{}, "")
	require.Len(t, res.Stmts, 1)
	assign := res.Stmts[0].Data.(*ast.SExpr)
	bin := assign.Value.Data.(*ast.EBinary)
	_, isClass := bin.Right.Data.(*ast.EClass)
	require.True(t, isClass, "with nothing to move, the class value should be a bare EClass, not a wrapper sequence")
}

func TestLowerClassIsIdempotent(t *testing.T) {
	p := newTestPass(t, Version202305)
	class := ast.Class{Name: &ast.LocRef{Ref: ast.NewRef(0)}, Elements: []ast.ClassElement{fieldElement("x", true)}}
	p.Symbols = append(p.Symbols, ast.Symbol{OriginalName: "Foo"})
	stmt := ast.Stmt{Data: &ast.SClass{Class: class}}

	first := p.LowerClass(stmt, ast.Expr{}, "")
	again := p.LowerClass(first.Stmts[0], ast.Expr{}, "")

	require.Equal(t, first.Stmts, again.Stmts, "re-running the pass on its own output must be a no-op")
	require.Empty(t, again.Pre)
}

func TestLowerClassValidatesForbiddenPrivateMethodWrite(t *testing.T) {
	p := newTestPass(t, Version202305)
	privRef := ast.NewRef(1)
	method := ast.ClassElement{
		Kind:       ast.ElementMethod,
		Key:        ast.Key{Private: &ast.EPrivateIdentifier{Ref: privRef}},
		Decorators: []ast.Expr{stringExpr(ast.Loc{}, "dec")},
		ValueOrNil: ast.Expr{Data: &ast.EFunction{Fn: ast.Fn{Body: nil}}},
	}
	ctor := ast.ClassElement{
		Kind: ast.ElementConstructor,
		ValueOrNil: ast.Expr{Data: &ast.EFunction{Fn: ast.Fn{Body: []ast.Stmt{
			// `this.#m = 1` — forbidden, #m is a decorated private method.
			exprStmt(ast.Assign(
				ast.Expr{Data: &ast.EIndex{Target: thisExpr(ast.Loc{}), Index: privateExpr(privRef, ast.Loc{})}},
				numberExpr(ast.Loc{}, 1),
			)),
		}}}},
	}
	class := ast.Class{Name: &ast.LocRef{Ref: ast.NewRef(0)}, Elements: []ast.ClassElement{method, ctor}}
	p.Symbols = append(p.Symbols, ast.Symbol{OriginalName: "Foo"}, ast.Symbol{OriginalName: "m", Kind: ast.SymbolPrivateMethod})
	stmt := ast.Stmt{Data: &ast.SClass{Class: class}}

	p.LowerClass(stmt, ast.Expr{}, "")

	require.True(t, p.Log.HasErrors())
	msgs := p.Log.Msgs()
	require.NotEmpty(t, msgs)
	require.Contains(t, msgs[0].Text, "read-only")
}

func TestLowerClassExpressionWrapsAsCommaSequence(t *testing.T) {
	p := newTestPass(t, Version202305)
	class := ast.Class{Name: &ast.LocRef{Ref: ast.NewRef(0)}, Elements: []ast.ClassElement{fieldElement("x", false)}, Decorators: []ast.Expr{stringExpr(ast.Loc{}, "dec")}}
	p.Symbols = append(p.Symbols, ast.Symbol{OriginalName: "Foo"})
	expr := ast.Expr{Data: &ast.EClass{Class: class}}

	res := p.LowerClass(ast.Stmt{}, expr, "")

	require.Nil(t, res.Stmts)
	seq, ok := res.Expr.Data.(*ast.ESequence)
	require.True(t, ok, "a decorated class expression must become a (assign, varId) sequence")
	require.Len(t, seq.Exprs, 2)
	_, isIdent := seq.Exprs[1].Data.(*ast.EIdentifier)
	require.True(t, isIdent)
}
