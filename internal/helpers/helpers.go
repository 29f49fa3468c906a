// Package helpers names the fixed set of runtime functions the pass emits
// calls to (spec §6) and provides the "addHelper" import registry that
// turns a bare name into a usable, use-counted AST reference. It is
// grounded on the teacher's importFromRuntime/callRuntime pair in
// js_parser_lower.go, simplified because this pass never needs to bundle
// or tree-shake the helper module itself — it only needs a stable
// identifier to call.
package helpers

import "github.com/jsdecor/declower/internal/ast"

// The fixed runtime helper names from spec §6. The pass never defines
// these; it only imports them by name for the host's runtime module to
// supply.
const (
	ApplyDecs       = "applyDecs"
	ApplyDecs2203   = "applyDecs2203"
	ApplyDecs2203R  = "applyDecs2203R"
	ApplyDecs2301   = "applyDecs2301"
	ApplyDecs2305   = "applyDecs2305"
	SetFunctionName = "setFunctionName"
	ToPropertyKey   = "toPropertyKey"
	Identity        = "identity"
)

// Registry hands out a stable EIdentifier for each helper name requested,
// creating (and recording a symbol for) it on first use. One Registry is
// scoped to one compilation unit, same as the teacher's
// parser.runtimeImports map.
type Registry struct {
	symbols *ast.SymbolMap
	imports map[string]ast.Ref
	order   []string
}

func NewRegistry(symbols *ast.SymbolMap) *Registry {
	return &Registry{symbols: symbols, imports: map[string]ast.Ref{}}
}

// Import returns a reference expression for the named helper, creating the
// backing symbol on first use and bumping its use count on every call,
// matching importFromRuntime.
func (r *Registry) Import(loc ast.Loc, name string) ast.Expr {
	ref, ok := r.imports[name]
	if !ok {
		ref = ast.NewRef(uint32(len(*r.symbols)))
		*r.symbols = append(*r.symbols, ast.Symbol{OriginalName: name, Kind: ast.SymbolOther, Link: ast.InvalidRef})
		r.imports[name] = ref
		r.order = append(r.order, name)
	}
	(*r.symbols)[ref.InnerIndex].UseCountEstimate++
	return ast.Expr{Loc: loc, Data: &ast.EIdentifier{Ref: ref}}
}

// Call builds a call expression to the named helper, matching callRuntime.
func (r *Registry) Call(loc ast.Loc, name string, args []ast.Expr) ast.Expr {
	return ast.Expr{Loc: loc, Data: &ast.ECall{Target: r.Import(loc, name), Args: args}}
}

// Used reports every helper name that has been imported so far, in first-use
// order — useful for tests asserting which helpers a scenario pulls in
// without caring about emission order elsewhere in the tree.
func (r *Registry) Used() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
