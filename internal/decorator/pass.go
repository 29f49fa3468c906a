package decorator

import (
	"fmt"

	"github.com/jsdecor/declower/internal/ast"
	"github.com/jsdecor/declower/internal/diag"
	"github.com/jsdecor/declower/internal/helpers"
	"github.com/jsdecor/declower/internal/scope"
)

// Pass is the plugin entry point from spec §6: constructed once per
// compilation with a version, a host-version assertion, and the
// constantSuper assumption, then invoked once per class found by the
// top-level visitor (§4.1), decorated or not.
//
// Visited is an instance field, not process-global state (§5, §9): the
// host may run distinct Pass instances concurrently across different
// compiler invocations, but within one invocation this guards against
// re-visiting a class after it has already been lowered (the idempotence
// property in §8).
type Pass struct {
	Options Options
	Policy  VersionPolicy
	Symbols ast.SymbolMap
	Scope   *scope.Scope
	Helpers *helpers.Registry
	Log     *diag.Log

	visited map[*ast.Class]bool
}

// New constructs a Pass, validating configuration per spec §7.2. A
// ConfigError here is the only error New returns; everything else about
// the pass's behavior is determined entirely by the resulting Pass value.
func New(opts Options) (*Pass, error) {
	if !opts.Version.Valid() {
		return nil, &ConfigError{Text: fmt.Sprintf(
			"unsupported decorator spec version %q: must be one of 2021-12, 2022-03, 2023-01, 2023-05", opts.Version)}
	}
	if opts.HostVersion != "" {
		if min, ok := minHostVersion[opts.Version]; ok && compareVersions(opts.HostVersion, min) < 0 {
			return nil, &ConfigError{Text: fmt.Sprintf(
				"decorator spec version %q requires host version >= %s, got %s", opts.Version, min, opts.HostVersion)}
		}
	}

	p := &Pass{
		Options: opts,
		Policy:  policyFor(opts.Version, opts.Prefer2203R),
		visited: map[*ast.Class]bool{},
	}
	p.Scope = scope.New(&p.Symbols)
	p.Helpers = helpers.NewRegistry(&p.Symbols)
	p.Log = &diag.Log{}
	return p, nil
}

// markVisited records that class has been lowered, and reports whether it
// was already marked (the §4.1 "Visited set guards against re-visiting
// after replacement").
func (p *Pass) markVisited(class *ast.Class) (alreadyVisited bool) {
	if p.visited[class] {
		return true
	}
	p.visited[class] = true
	return false
}
