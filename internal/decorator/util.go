package decorator

import "github.com/jsdecor/declower/internal/ast"

func identExpr(ref ast.Ref, loc ast.Loc) ast.Expr {
	return ast.Expr{Loc: loc, Data: &ast.EIdentifier{Ref: ref}}
}

func privateExpr(ref ast.Ref, loc ast.Loc) ast.Expr {
	return ast.Expr{Loc: loc, Data: &ast.EPrivateIdentifier{Ref: ref}}
}

func stringExpr(loc ast.Loc, s string) ast.Expr {
	return ast.Expr{Loc: loc, Data: &ast.EString{Value: s}}
}

func numberExpr(loc ast.Loc, n float64) ast.Expr {
	return ast.Expr{Loc: loc, Data: &ast.ENumber{Value: n}}
}

func callExpr(loc ast.Loc, target ast.Expr, args []ast.Expr) ast.Expr {
	return ast.Expr{Loc: loc, Data: &ast.ECall{Target: target, Args: args}}
}

func arrayExpr(loc ast.Loc, items []ast.Expr) ast.Expr {
	return ast.Expr{Loc: loc, Data: &ast.EArray{Items: items}}
}

func exprStmt(e ast.Expr) ast.Stmt {
	return ast.Stmt{Loc: e.Loc, Data: &ast.SExpr{Value: e}}
}

func assignStmt(loc ast.Loc, ref ast.Ref, value ast.Expr) ast.Stmt {
	return exprStmt(ast.Assign(identExpr(ref, loc), value))
}

// letDecl builds `let a, b, c;` for the given refs, with no initializers.
func letDecl(loc ast.Loc, refs []ast.Ref) ast.Stmt {
	decls := make([]ast.Decl, len(refs))
	for i, ref := range refs {
		decls[i] = ast.Decl{Binding: ast.Binding{Loc: loc, Data: &ast.BIdentifier{Ref: ref}}}
	}
	return ast.Stmt{Loc: loc, Data: &ast.SLocal{Kind: ast.LocalLet, Decls: decls}}
}

func keyNameExpr(loc ast.Loc, key ast.Key) ast.Expr {
	switch {
	case key.IsPrivate():
		return privateExpr(key.Private.Ref, loc)
	case key.IsComputed():
		return key.Computed
	default:
		return stringExpr(loc, key.Name)
	}
}

func accessorHint(key ast.Key) string {
	switch {
	case key.IsPrivate():
		return "_"
	case key.IsComputed():
		return "computed"
	default:
		return key.Name
	}
}

func thisExpr(loc ast.Loc) ast.Expr {
	return ast.Expr{Loc: loc, Data: ast.EThisShared}
}
