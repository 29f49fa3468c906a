// Package scope stands in for the "scope/binding analysis" external
// collaborator described in spec §1 and §6: the capability to allocate
// fresh identifiers that are safe in a given lexical scope, to rename
// binding uses, and to judge whether an expression is safe to duplicate
// without re-running its side effects ("scope-constant", §4.5).
//
// It is grounded on the teacher's generateTempRef /
// captureValueWithPossibleSideEffects / mergeSymbols family in
// js_parser_lower.go, simplified to a single-scope model since this pass
// only ever needs fresh names local to the one class it is rewriting.
package scope

import (
	"fmt"

	"github.com/jsdecor/declower/internal/ast"
)

// Scope owns the symbol table for one compilation unit (here: everything
// one decorator Pass lowers, shared by all of its classes) and the
// bookkeeping needed to hand out collision-free names.
type Scope struct {
	symbols   *ast.SymbolMap
	used      map[string]bool
	declared  []ast.Ref
	counter   int
}

func New(symbols *ast.SymbolMap) *Scope {
	s := &Scope{symbols: symbols, used: map[string]bool{}}
	for _, sym := range *symbols {
		s.used[sym.OriginalName] = true
	}
	return s
}

func (s *Scope) newSymbol(kind ast.SymbolKind, name string) ast.Ref {
	ref := ast.NewRef(uint32(len(*s.symbols)))
	*s.symbols = append(*s.symbols, ast.Symbol{OriginalName: name, Kind: kind, Link: ast.InvalidRef})
	s.used[name] = true
	return ref
}

func (s *Scope) uniqueName(hint string) string {
	if hint == "" {
		hint = "_"
	}
	if !s.used[hint] {
		return hint
	}
	for {
		s.counter++
		candidate := fmt.Sprintf("%s%d", hint, s.counter)
		if !s.used[candidate] {
			return candidate
		}
	}
}

// GenerateUID allocates a fresh identifier hinted by name, recorded but not
// added to any enclosing declaration list. Matches
// scope.generateUidIdentifier(hint) from §6.
func (s *Scope) GenerateUID(hint string) ast.Ref {
	return s.newSymbol(ast.SymbolOther, s.uniqueName(hint))
}

// GenerateUIDBasedOnNode derives a hint from an existing key/expression
// (e.g. "_x" for a field named "x", "_" for anything else) the way
// scope.generateUidIdentifierBasedOnNode does.
func (s *Scope) GenerateUIDBasedOnNode(key ast.Key) ast.Ref {
	hint := "_"
	switch {
	case key.IsPrivate():
		hint = "_"
	case key.IsComputed():
		hint = "_"
	case key.Name != "":
		hint = "_" + key.Name
	}
	return s.GenerateUID(hint)
}

// GenerateDeclaredUID is like GenerateUID but also registers the symbol as
// a declared (var-like) binding that the caller must emit a declaration
// for, mirroring scope.generateDeclaredUidIdentifier(hint).
func (s *Scope) GenerateDeclaredUID(hint string) ast.Ref {
	ref := s.GenerateUID(hint)
	s.declared = append(s.declared, ref)
	return ref
}

// Declared returns every Ref allocated via GenerateDeclaredUID since the
// scope was created, in allocation order, across every class lowered so
// far. The decorator pass does not build its `let` hoists from this; it
// keeps its own per-class list of locals.
func (s *Scope) Declared() []ast.Ref {
	out := make([]ast.Ref, len(s.declared))
	copy(out, s.declared)
	return out
}

// Rename points every future reference to `from` at `to`'s symbol,
// matching scope.rename(from, to). It is implemented as a union-find link
// so it composes if called more than once for the same symbol, the same
// way the teacher's mergeSymbols does.
func (s *Scope) Rename(from, to ast.Ref) {
	syms := *s.symbols
	root := from
	for syms[root.InnerIndex].Link.IsValid() {
		root = syms[root.InnerIndex].Link
	}
	if root == to {
		return
	}
	syms[root.InnerIndex].Link = to
}

// Resolve follows Link chains to the final symbol for ref.
func (s *Scope) Resolve(ref ast.Ref) ast.Ref {
	syms := *s.symbols
	for syms[ref.InnerIndex].Link.IsValid() {
		ref = syms[ref.InnerIndex].Link
	}
	return ref
}

func (s *Scope) RecordUsage(ref ast.Ref) {
	(*s.symbols)[s.Resolve(ref).InnerIndex].UseCountEstimate++
}

// IsStatic reports whether expr is "scope-constant" (§4.5): it has no
// observable side effect, and any binding it reads cannot change before
// class evaluation completes. This is necessarily conservative — it
// recognizes literals, `this`, private names, and identifiers the host's
// real scope analysis has flagged Constant, plus member-expression chains
// built entirely out of those. Anything else (calls, `new`, computed
// member access on non-constant objects, assignment expressions) is not
// scope-constant and must be memoized before reuse.
func (s *Scope) IsStatic(expr ast.Expr) bool {
	switch e := expr.Data.(type) {
	case *ast.EThis, *ast.ESuper, *ast.ENull, *ast.EUndefined, *ast.EString, *ast.ENumber, *ast.EBoolean:
		return true
	case *ast.EIdentifier:
		return (*s.symbols)[s.Resolve(e.Ref).InnerIndex].Constant
	case *ast.EPrivateIdentifier:
		return true
	case *ast.EDot:
		return s.IsStatic(e.Target)
	case *ast.EIndex:
		if _, ok := e.Index.Data.(*ast.EPrivateIdentifier); ok {
			return s.IsStatic(e.Target)
		}
		return s.IsStatic(e.Target) && s.IsStatic(e.Index)
	}
	return false
}

// MaybeGenerateMemoised mirrors scope.maybeGenerateMemoised(expr): if expr
// is NOT scope-constant, it returns a fresh declared UID that the caller
// should assign expr's value into once, plus true. If expr is already
// scope-constant, it returns (ast.InvalidRef, false) so the caller reuses
// expr directly without introducing a temporary.
func (s *Scope) MaybeGenerateMemoised(expr ast.Expr, hint string) (ast.Ref, bool) {
	if s.IsStatic(expr) {
		return ast.InvalidRef, false
	}
	return s.GenerateDeclaredUID(hint), true
}

// Crawl re-synchronizes any binding tables the pass perturbed. Spec §5
// requires every phase sequence for one class to end with a call to this
// so the host's scope data stays coherent; there is nothing for the
// simplified single-scope model here to recompute, so this is a no-op
// hook kept for contract parity (and so a future richer Scope
// implementation has a well-known place to do real work).
func (s *Scope) Crawl() {}
