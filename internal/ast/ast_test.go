package ast

import "testing"

func TestCloneExprIsDeepForIdentifier(t *testing.T) {
	orig := Expr{Data: &EIdentifier{Ref: NewRef(3)}}
	clone := CloneExpr(orig)

	origID := orig.Data.(*EIdentifier)
	cloneID := clone.Data.(*EIdentifier)
	if origID == cloneID {
		t.Fatal("expected a distinct node, got the same pointer")
	}
	if cloneID.Ref != origID.Ref {
		t.Fatalf("expected clone to keep the same Ref, got %v vs %v", cloneID.Ref, origID.Ref)
	}

	// Mutating the clone must not affect the original.
	cloneID.Ref = NewRef(99)
	if origID.Ref == cloneID.Ref {
		t.Fatal("mutating the clone leaked back into the original")
	}
}

func TestCloneExprDotChain(t *testing.T) {
	orig := Expr{Data: &EDot{
		Target: Expr{Data: ESuperShared},
		Name:   "x",
	}}
	clone := CloneExpr(orig)
	dot, ok := clone.Data.(*EDot)
	if !ok {
		t.Fatalf("expected *EDot, got %T", clone.Data)
	}
	if !IsSuper(dot.Target) {
		t.Fatal("expected cloned target to still be `super`")
	}
	if dot.Name != "x" {
		t.Fatalf("expected name 'x', got %q", dot.Name)
	}
}

func TestIsClassDeclaration(t *testing.T) {
	if !IsClassDeclaration(Stmt{Data: &SClass{}}) {
		t.Fatal("expected SClass to count as a class declaration")
	}
	if !IsClassDeclaration(Stmt{Data: &SExportDefault{Value: Stmt{Data: &SClass{}}}}) {
		t.Fatal("expected export-default-class to count as a class declaration")
	}
	if IsClassDeclaration(Stmt{Data: &SExportDefault{Value: Stmt{Data: &SExpr{}}}}) {
		t.Fatal("expected export-default-expression to NOT count as a class declaration")
	}
}

func TestKeysEqual(t *testing.T) {
	a := Key{Name: "x"}
	b := Key{Name: "x"}
	c := Key{Name: "y"}
	if !KeysEqual(a, b) {
		t.Fatal("expected equal names to compare equal")
	}
	if KeysEqual(a, c) {
		t.Fatal("expected different names to compare unequal")
	}

	computed := Key{Computed: Expr{Data: &EString{Value: "x"}}}
	if KeysEqual(a, computed) {
		t.Fatal("a computed key must never compare equal to a non-computed one, even with the same apparent name")
	}

	ref1, ref2 := NewRef(1), NewRef(2)
	p1 := Key{Private: &EPrivateIdentifier{Ref: ref1}}
	p1Same := Key{Private: &EPrivateIdentifier{Ref: ref1}}
	p2 := Key{Private: &EPrivateIdentifier{Ref: ref2}}
	if !KeysEqual(p1, p1Same) {
		t.Fatal("expected private keys with the same Ref to compare equal")
	}
	if KeysEqual(p1, p2) {
		t.Fatal("expected private keys with different Refs to compare unequal")
	}
}
