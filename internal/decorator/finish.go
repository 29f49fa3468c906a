package decorator

import "github.com/jsdecor/declower/internal/ast"

// buildPre assembles the final statement sequence to splice in ahead of the
// class: a single `let` hoist for every fresh local this class's lowering
// introduced (decorator/computed-key memoizations, applyDecs* destructuring
// targets, the outer class binding), followed by the memoization
// assignments themselves, which reference those locals.
func buildPre(ctx *classCtx) []ast.Stmt {
	if len(ctx.declaredLocals) == 0 {
		return ctx.preStmts
	}
	hoist := letDecl(ctx.classLoc, ctx.declaredLocals)
	return append([]ast.Stmt{hoist}, ctx.preStmts...)
}

// finishWithoutDecorators implements the early-return half of §4.3: P1-P3
// have already run (auto-accessors are desugared unconditionally, and a
// non-constant computed key on an auto-accessor got its one toPropertyKey
// memoization through resolveKey; computed keys on other elements are left
// as written), but nothing on the class needs P4-P6, so
// the original stmt/expr is handed back unchanged in shape with only the
// pending memoizations spliced in front of it.
func (p *Pass) finishWithoutDecorators(ctx *classCtx, stmt ast.Stmt, expr ast.Expr) Result {
	pre := buildPre(ctx)
	if ctx.kind == classKindExpr {
		return Result{Pre: pre, Expr: expr}
	}
	return Result{Pre: pre, Stmts: []ast.Stmt{stmt}}
}

// finishAndGenerateCode implements the rest of §4.2/§4.6: assemble the
// final class value (a bare class, or the identity-wrapper sequence when
// class decorators moved static state out), and bind it according to the
// syntactic position the class started in.
func (p *Pass) finishAndGenerateCode(ctx *classCtx, originalStmt ast.Stmt, originalExpr ast.Expr) Result {
	loc := ctx.classLoc
	pre := buildPre(ctx)

	if !ctx.varId.IsValid() {
		// Only elements were decorated, not the class itself (§4.2 only
		// allocates varId when the class carries its own decorators). The
		// class body was mutated in place by P2-P6, so the original node is
		// handed back in its original shape.
		if ctx.kind == classKindExpr {
			return Result{Pre: pre, Expr: originalExpr}
		}
		return Result{Pre: pre, Stmts: []ast.Stmt{originalStmt}}
	}

	var classValue ast.Expr
	if ctx.wrapperExpr.Data != nil {
		// §4.6: bind the original class to its own internal name first, then
		// evaluate the wrapper (which references that name as origRef).
		classValue = ast.JoinWithComma(
			ast.Assign(identExpr(ctx.classIdLocal, loc), ast.Expr{Loc: loc, Data: &ast.EClass{Class: *ctx.class}}),
			ctx.wrapperExpr,
		)
	} else {
		classValue = ast.Expr{Loc: loc, Data: &ast.EClass{Class: *ctx.class}}
	}

	if ctx.kind == classKindExpr {
		// §4.2: "wrap as (classExpression, varId) sequence".
		seq := ast.JoinWithComma(ast.Assign(identExpr(ctx.varId, loc), classValue), identExpr(ctx.varId, loc))
		return Result{Pre: pre, Expr: seq}
	}

	assign := assignStmt(loc, ctx.varId, classValue)

	switch ctx.kind {
	case classKindExportStmt:
		// §4.1: both export shapes split unconditionally once decorated, so
		// other modules importing the original name observe the rebound
		// value via the trailing export clause rather than a bare `export`
		// keyword on the declaration itself.
		clause := ast.Stmt{Loc: loc, Data: &ast.SExportClause{
			Items: []ast.ExportClauseItem{{Name: ast.LocRef{Loc: loc, Ref: ctx.varId}, Alias: ctx.nameToKeep}},
		}}
		return Result{Pre: pre, Stmts: []ast.Stmt{assign, clause}}
	case classKindExportDefaultStmt:
		clause := ast.Stmt{Loc: loc, Data: &ast.SExportClause{
			Items: []ast.ExportClauseItem{{Name: ast.LocRef{Loc: loc, Ref: ctx.varId}, Alias: "default"}},
		}}
		return Result{Pre: pre, Stmts: []ast.Stmt{assign, clause}}
	default:
		return Result{Pre: pre, Stmts: []ast.Stmt{assign}}
	}
}
