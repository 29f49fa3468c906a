// Package ast defines the node types the decorator lowering pass operates
// on. It is deliberately narrow: only the shapes a class body, its member
// initializers, and the surrounding statement can take. A host compiler
// with a full JS/TS grammar would hand the pass a view over its own much
// larger AST instead; this package stands in for that view.
package ast

// Loc is a source location. It carries enough to frame a diagnostic
// (package diag) without depending on an actual source-map/printer.
type Loc struct {
	Line   int
	Column int
}

// Ref identifies a symbol by index into a SymbolMap. It never holds the
// symbol data directly so that renaming and merging stay O(1).
type Ref struct {
	InnerIndex uint32
	valid      bool
}

var InvalidRef = Ref{}

func (r Ref) IsValid() bool { return r.valid }

func NewRef(index uint32) Ref { return Ref{InnerIndex: index, valid: true} }

type LocRef struct {
	Loc Loc
	Ref Ref
}

type SymbolKind uint8

const (
	SymbolOther SymbolKind = iota
	SymbolPrivateField
	SymbolPrivateMethod
	SymbolPrivateGet
	SymbolPrivateSet
	SymbolPrivateGetSetPair
	SymbolPrivateStaticField
	SymbolPrivateStaticMethod
	SymbolPrivateStaticGet
	SymbolPrivateStaticSet
	SymbolPrivateStaticGetSetPair
)

func (k SymbolKind) IsPrivate() bool {
	return k >= SymbolPrivateField && k <= SymbolPrivateStaticGetSetPair
}

// Symbol is one entry in a SymbolMap. OriginalName is kept for diagnostics
// and for deriving hinted fresh names; Link implements union-find style
// merging the same way the teacher's renamer does.
type Symbol struct {
	OriginalName     string
	Kind             SymbolKind
	Link             Ref
	UseCountEstimate int
	// Constant is set by scope analysis (external capability, §6) when the
	// binding this symbol refers to is known to never change before class
	// evaluation completes. It backs Scope.IsStatic.
	Constant bool
}

// SymbolMap is the per-compilation-unit symbol table. It is owned by the
// scope package but shared by reference with ast/decorator so that a Ref
// can be resolved from either side without a circular import.
type SymbolMap = []Symbol

// OpCode enumerates the handful of operators the pass needs to recognize
// or synthesize (assignment, update, and the few binary ops that appear in
// generated code such as `in` for brand checks).
type OpCode uint8

const (
	OpCodeUnknown OpCode = iota
	BinOpAssign
	BinOpLogicalAndAssign
	BinOpLogicalOrAssign
	BinOpNullishCoalescingAssign
	BinOpIn
	BinOpComma
	UnOpPreInc
	UnOpPreDec
	UnOpPostInc
	UnOpPostDec
)

func (op OpCode) IsAssign() bool {
	switch op {
	case BinOpAssign, BinOpLogicalAndAssign, BinOpLogicalOrAssign, BinOpNullishCoalescingAssign:
		return true
	}
	return false
}

func (op OpCode) IsUpdate() bool {
	switch op {
	case UnOpPreInc, UnOpPreDec, UnOpPostInc, UnOpPostDec:
		return true
	}
	return false
}
