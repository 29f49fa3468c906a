package scope

import (
	"testing"

	"github.com/jsdecor/declower/internal/ast"
)

func TestGenerateUIDAvoidsCollisions(t *testing.T) {
	symbols := ast.SymbolMap{{OriginalName: "_foo"}}
	s := New(&symbols)

	ref := s.GenerateUID("_foo")
	name := symbols[ref.InnerIndex].OriginalName
	if name == "_foo" {
		t.Fatalf("expected a collision-free name, got %q", name)
	}
}

func TestGenerateDeclaredUIDIsTracked(t *testing.T) {
	symbols := ast.SymbolMap{}
	s := New(&symbols)
	a := s.GenerateDeclaredUID("_a")
	b := s.GenerateUID("_b") // not declared
	declared := s.Declared()
	if len(declared) != 1 || declared[0] != a {
		t.Fatalf("expected exactly [a] to be declared, got %v (b=%v)", declared, b)
	}
}

func TestRenameFollowsChain(t *testing.T) {
	symbols := ast.SymbolMap{{}, {}, {}}
	s := New(&symbols)
	r0, r1, r2 := ast.NewRef(0), ast.NewRef(1), ast.NewRef(2)
	s.Rename(r0, r1)
	s.Rename(r1, r2)
	if got := s.Resolve(r0); got != r2 {
		t.Fatalf("expected r0 to resolve through the chain to r2, got %v", got)
	}
}

func TestIsStaticRecognizesConstantsAndLiterals(t *testing.T) {
	symbols := ast.SymbolMap{{Constant: true}, {Constant: false}}
	s := New(&symbols)
	constRef, mutableRef := ast.NewRef(0), ast.NewRef(1)

	cases := []struct {
		name   string
		expr   ast.Expr
		static bool
	}{
		{"this", ast.Expr{Data: ast.EThisShared}, true},
		{"string literal", ast.Expr{Data: &ast.EString{Value: "x"}}, true},
		{"constant identifier", ast.Expr{Data: &ast.EIdentifier{Ref: constRef}}, true},
		{"mutable identifier", ast.Expr{Data: &ast.EIdentifier{Ref: mutableRef}}, false},
		{"call expression", ast.Expr{Data: &ast.ECall{Target: ast.Expr{Data: &ast.EIdentifier{Ref: constRef}}}}, false},
		{
			"dot chain on constant",
			ast.Expr{Data: &ast.EDot{Target: ast.Expr{Data: &ast.EIdentifier{Ref: constRef}}, Name: "x"}},
			true,
		},
		{
			"dot chain on mutable",
			ast.Expr{Data: &ast.EDot{Target: ast.Expr{Data: &ast.EIdentifier{Ref: mutableRef}}, Name: "x"}},
			false,
		},
	}
	for _, c := range cases {
		if got := s.IsStatic(c.expr); got != c.static {
			t.Errorf("%s: IsStatic() = %v, want %v", c.name, got, c.static)
		}
	}
}

func TestMaybeGenerateMemoisedOnlyForNonStatic(t *testing.T) {
	symbols := ast.SymbolMap{}
	s := New(&symbols)

	if ref, memoized := s.MaybeGenerateMemoised(ast.Expr{Data: ast.EThisShared}, "_a"); memoized {
		t.Fatalf("did not expect `this` to be memoized, got ref %v", ref)
	}

	call := ast.Expr{Data: &ast.ECall{Target: ast.Expr{Data: &ast.EIdentifier{Ref: ast.NewRef(0)}}}}
	ref, memoized := s.MaybeGenerateMemoised(call, "_a")
	if !memoized {
		t.Fatal("expected a call expression to require memoization")
	}
	declared := s.Declared()
	if len(declared) != 1 || declared[0] != ref {
		t.Fatalf("expected the memoized ref to be declared, got %v", declared)
	}
}
