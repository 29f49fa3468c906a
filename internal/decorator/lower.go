package decorator

import (
	"github.com/jsdecor/declower/internal/ast"
	"github.com/jsdecor/declower/internal/diag"
)

// classKind distinguishes the four syntactic positions a class can appear
// in, per §4.1/§4.6.
type classKind uint8

const (
	classKindExpr classKind = iota
	classKindStmt
	classKindExportStmt
	classKindExportDefaultStmt
)

// classCtx threads state through phases P1-P6 for one class, the same role
// the teacher's lowerClassContext plays across processProperties /
// insertInitializersIntoConstructor / finishAndGenerateCode.
type classCtx struct {
	class      *ast.Class
	classLoc   ast.Loc
	kind       classKind
	nameToKeep string

	// inferredName comes from named evaluation (§4.1) when the class is an
	// anonymous expression bound by a variable/assignment/property/default.
	inferredName string

	// classIdLocal is the identifier used for self-references from inside
	// the class body (static blocks, extracted private method bodies,
	// super rewriting). It always resolves to class.Name.Ref once P1 runs.
	classIdLocal ast.Ref

	// varId is the fresh outer binding a decorated class DECLARATION is
	// rebound to (§4.2); for a decorated class expression it is the local
	// of the `(varId = class, varId)` sequence. InvalidRef unless the class
	// itself carries decorators.
	varId ast.Ref

	// P2 survey output
	ctorIndex                 int // -1 if no constructor
	firstFieldOrAccessorIndex int // -1 if none

	// P4/P5 accumulated output
	preStmts        []ast.Stmt // memoizations, emitted before the class
	infos           []*DecoratorInfo
	computedProps   []*ComputedPropInfo
	classDecorators []ast.Expr // possibly-memoized class-level decorator expressions

	// declaredLocals accumulates every fresh local this class's lowering
	// introduced that needs a `let` hoist ahead of preStmts: decorator and
	// computed-key memoization targets, the applyDecs* destructuring
	// targets, and the outer class binding itself. Kept on classCtx rather
	// than read back from Scope.Declared(), since Scope is shared across
	// every class one Pass lowers and Declared() would mix in unrelated
	// classes' locals.
	declaredLocals []ast.Ref

	protoInitLocal   ast.Ref
	staticInitLocal  ast.Ref
	classInitLocal   ast.Ref
	protoInitNeeded  bool
	staticInitNeeded bool

	// instanceBrandPrivate is set to the last decorated instance private
	// field, method, getter or setter key (in source order) when the class
	// needs an instance brand check (2023-01 and 2023-05, §4.6). Decorated
	// private auto-accessors, which P3 handles, do not set it.
	instanceBrandPrivate *ast.EPrivateIdentifier

	superClassRef ast.Ref // memoized superclass, when reused textually (2023-05)

	// decorationBlock identifies, by pointer, the static block emit()
	// creates to hold the applyDecs* destructure so the class-decorator
	// wrapper construction (§4.6) can tell it apart from pre-existing
	// static blocks that need to move into the wrapper as IIFEs.
	decorationBlock *ast.ClassStaticBlock

	// wrapperExpr is non-nil iff the class itself was decorated and had
	// static state to wrap (§4.6); finishAndGenerateCode uses it instead of
	// a bare EClass when present.
	wrapperExpr ast.Expr
}

// Result is what LowerClass hands back to the caller: the statements to
// splice in before the class, and the class's final form. For a class
// expression, Expr is populated and Stmts is empty. For a class
// declaration (bare, exported, or default-exported), Stmts holds the
// replacement statement(s) — normally one, but two when a decorated
// default export is split into a declaration plus a trailing
// `export { Name as default }` (§4.1).
type Result struct {
	Pre   []ast.Stmt
	Stmts []ast.Stmt
	Expr  ast.Expr
}

// LowerClass applies all six phases to one class (§4). stmt is non-nil for
// a class declaration (bare, exported, or default-exported); expr is
// non-nil for a class expression. inferredName comes from the top-level
// visitor's named-evaluation pass (§4.1).
func (p *Pass) LowerClass(stmt ast.Stmt, expr ast.Expr, inferredName string) Result {
	ctx := &classCtx{
		ctorIndex:                 -1,
		firstFieldOrAccessorIndex: -1,
		varId:                     ast.InvalidRef,
		protoInitLocal:            ast.InvalidRef,
		staticInitLocal:           ast.InvalidRef,
		classInitLocal:            ast.InvalidRef,
		superClassRef:             ast.InvalidRef,
		inferredName:              inferredName,
	}

	switch {
	case stmt.Data == nil:
		e := expr.Data.(*ast.EClass)
		ctx.class = &e.Class
		ctx.kind = classKindExpr
		ctx.classLoc = expr.Loc
	default:
		switch s := stmt.Data.(type) {
		case *ast.SClass:
			ctx.class = &s.Class
			if s.IsExport {
				ctx.kind = classKindExportStmt
			} else {
				ctx.kind = classKindStmt
			}
		case *ast.SExportDefault:
			inner := s.Value.Data.(*ast.SClass)
			ctx.class = &inner.Class
			ctx.kind = classKindExportDefaultStmt
		}
		ctx.classLoc = stmt.Loc
	}

	if p.markVisited(ctx.class) {
		// Idempotence (§8): running the pass on its own output is a no-op.
		if ctx.kind == classKindExpr {
			return Result{Expr: expr}
		}
		return Result{Stmts: []ast.Stmt{stmt}}
	}

	p.rewriteEntry(ctx)
	// Auto-accessor desugaring must run before the survey: it expands each
	// `accessor` element into three (storage field, getter, setter),
	// shifting every later element's index, so ctorIndex/
	// firstFieldOrAccessorIndex have to be computed against the expanded
	// list or threadProtoInit would index the wrong element.
	p.desugarAutoAccessors(ctx)
	p.surveyElements(ctx)

	if !ctx.class.HasOwnDecorators() && !ctx.class.HasAnyElementDecorators() && len(ctx.infos) == 0 {
		// §4.3: "If neither class nor any element is decorated, emit only
		// any pending computed-key memoizations and return." Auto-accessor
		// desugaring above has already run unconditionally (invariant 4);
		// it clears the decorators of the accessors it expands, so a
		// decorated accessor shows up here only as an entry in ctx.infos.
		return p.finishWithoutDecorators(ctx, stmt, expr)
	}

	p.extractDecorators(ctx)
	p.emit(ctx)

	for _, m := range p.validate(ctx) {
		p.Log.AddErrorWithNotes(m.Loc, m.Text, []diag.Msg{{Kind: diag.Note, Text: "private name declared here", Loc: m.Note}})
	}

	p.Scope.Crawl()
	return p.finishAndGenerateCode(ctx, stmt, expr)
}
