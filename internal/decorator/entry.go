package decorator

import "github.com/jsdecor/declower/internal/ast"

// rewriteEntry is P1 (§4.2). Because this pass operates on Refs rather than
// printed text, there is no textual name collision to avoid by renaming:
// every symbol already has a unique Ref. What P1 actually has to decide is
// (a) what internal identifier the class body uses to refer to itself, and
// (b) whether a decorated DECLARATION needs a fresh outer binding that the
// rest of the program gets rebound to via Scope.Rename, matching the "two
// distinct bindings sharing one OriginalName" shape described in §4.2 and
// the cyclic-reference design note in §9.
func (p *Pass) rewriteEntry(ctx *classCtx) {
	if ctx.class.Name != nil {
		ctx.nameToKeep = p.Symbols[ctx.class.Name.Ref.InnerIndex].OriginalName
	}

	// Re-entrant class fields (SPEC_FULL.md "Re-entrant class fields"):
	// always synthesize an inner id when the class has none, regardless of
	// whether anything is decorated, so a static field initializer that
	// refers to the class by name keeps working once P5 moves static state
	// into a wrapper class.
	if ctx.class.Name == nil {
		hint := ctx.nameToKeep
		if hint == "" {
			hint = ctx.inferredName
		}
		if hint == "" {
			hint = "decorated_class"
		}
		ref := p.Scope.GenerateUID(hint)
		ctx.class.Name = &ast.LocRef{Loc: ctx.classLoc, Ref: ref}
		p.Symbols[ref.InnerIndex].OriginalName = hint
		if ctx.nameToKeep == "" {
			ctx.nameToKeep = hint
		}
	}
	ctx.classIdLocal = ctx.class.Name.Ref

	if !ctx.class.HasOwnDecorators() {
		return
	}
	if ctx.kind == classKindExpr {
		// §4.2: "wrap as (classExpression, varId) sequence" — the sequence
		// construction itself happens in finishAndGenerateCode once the
		// class body is final; here we only need the fresh binding.
		name := ctx.nameToKeep
		if name == "" {
			name = ctx.inferredName
		}
		if name == "" {
			name = "decorated_class"
		}
		ctx.varId = p.Scope.GenerateDeclaredUID(name)
		ctx.declaredLocals = append(ctx.declaredLocals, ctx.varId)
		return
	}

	// Decorated declaration (bare, exported, or default-exported): allocate
	// the fresh outer local every external reference is rebound to, and
	// request the rename. The class keeps its own id (classIdLocal) so
	// `Class.name`/toString observe the original name from inside.
	name := ctx.nameToKeep
	if name == "" {
		name = "decorated_class"
	}
	ctx.varId = p.Scope.GenerateDeclaredUID(name)
	ctx.declaredLocals = append(ctx.declaredLocals, ctx.varId)
	p.Scope.Rename(ctx.classIdLocal, ctx.varId)
}
