package decorator

import "github.com/jsdecor/declower/internal/ast"

// validate is P6 (§4.7): scan the finished class body for a forbidden
// write to a decorated private method name, returning one diagnostic Msg
// per offending site found.
func (p *Pass) validate(ctx *classCtx) []diagMsg {
	names := map[ast.Ref]ast.Loc{}
	for _, info := range ctx.infos {
		if info.Kind != KindMethod && info.Kind != KindGetter && info.Kind != KindSetter {
			continue
		}
		if info.element != nil && info.element.Key.IsPrivate() {
			names[info.element.Key.Private.Ref] = info.element.Loc
		}
	}
	if len(names) == 0 {
		return nil
	}

	var out []diagMsg
	for i := range ctx.class.Elements {
		el := &ctx.class.Elements[i]
		switch el.Kind {
		case ast.ElementField, ast.ElementAutoAccessor:
			out = append(out, checkExprForForbiddenWrite(el.InitializerOrNil, names)...)
		case ast.ElementMethod, ast.ElementGetter, ast.ElementSetter, ast.ElementConstructor:
			if fn, ok := el.ValueOrNil.Data.(*ast.EFunction); ok {
				out = append(out, checkStmtsForForbiddenWrite(fn.Fn.Body, names)...)
			}
		case ast.ElementStaticBlock:
			out = append(out, checkStmtsForForbiddenWrite(el.StaticBlockOrNil.Block.Stmts, names)...)
		}
	}
	return out
}

type diagMsg struct {
	Loc  ast.Loc
	Text string
	Note ast.Loc
	Name string
}

func checkStmtsForForbiddenWrite(stmts []ast.Stmt, names map[ast.Ref]ast.Loc) []diagMsg {
	var out []diagMsg
	for _, s := range stmts {
		switch stmt := s.Data.(type) {
		case *ast.SExpr:
			out = append(out, checkExprForForbiddenWrite(stmt.Value, names)...)
		case *ast.SReturn:
			out = append(out, checkExprForForbiddenWrite(stmt.ValueOrNil, names)...)
		case *ast.SBlock:
			out = append(out, checkStmtsForForbiddenWrite(stmt.Stmts, names)...)
		case *ast.SLocal:
			for _, d := range stmt.Decls {
				out = append(out, checkExprForForbiddenWrite(d.ValueOrNil, names)...)
			}
		case *ast.SForOf:
			out = append(out, checkForOfBindingForForbiddenWrite(stmt.Init, names)...)
			out = append(out, checkStmtsForForbiddenWrite([]ast.Stmt{stmt.Body}, names)...)
		}
	}
	return out
}

func checkForOfBindingForForbiddenWrite(init ast.Stmt, names map[ast.Ref]ast.Loc) []diagMsg {
	if target, ok := init.Data.(*ast.SExpr); ok {
		return checkPrivateTarget(target.Value, names)
	}
	local, ok := init.Data.(*ast.SLocal)
	if !ok || len(local.Decls) == 0 {
		return nil
	}
	if id, ok := local.Decls[0].Binding.Data.(*ast.BIdentifier); ok {
		if loc, bad := names[id.Ref]; bad {
			return []diagMsg{forbiddenWriteMsg(init.Loc, loc, "")}
		}
	}
	return nil
}

// checkExprForForbiddenWrite recurses through an initializer/statement
// expression looking for the update-operator, assignment-LHS, rest/array
// pattern, and object-pattern-value shapes forbidden by §4.7. A private
// name simply read (e.g. as a call target `this.#m()`) is left alone.
func checkExprForForbiddenWrite(expr ast.Expr, names map[ast.Ref]ast.Loc) []diagMsg {
	if expr.Data == nil {
		return nil
	}
	var out []diagMsg
	switch e := expr.Data.(type) {
	case *ast.EUnary:
		if e.Op.IsUpdate() {
			out = append(out, checkPrivateTarget(e.Value, names)...)
		}
		out = append(out, checkExprForForbiddenWrite(e.Value, names)...)
	case *ast.EBinary:
		if e.Op.IsAssign() {
			out = append(out, checkAssignTarget(e.Left, names)...)
		}
		out = append(out, checkExprForForbiddenWrite(e.Left, names)...)
		out = append(out, checkExprForForbiddenWrite(e.Right, names)...)
	case *ast.ECall:
		out = append(out, checkExprForForbiddenWrite(e.Target, names)...)
		for _, a := range e.Args {
			out = append(out, checkExprForForbiddenWrite(a, names)...)
		}
	case *ast.ENew:
		out = append(out, checkExprForForbiddenWrite(e.Target, names)...)
		for _, a := range e.Args {
			out = append(out, checkExprForForbiddenWrite(a, names)...)
		}
	case *ast.EDot:
		out = append(out, checkExprForForbiddenWrite(e.Target, names)...)
	case *ast.EIndex:
		out = append(out, checkExprForForbiddenWrite(e.Target, names)...)
		out = append(out, checkExprForForbiddenWrite(e.Index, names)...)
	case *ast.EArray:
		for _, item := range e.Items {
			if spread, ok := item.Data.(*ast.ESpread); ok {
				out = append(out, checkPrivateTarget(spread.Value, names)...)
			}
			out = append(out, checkExprForForbiddenWrite(item, names)...)
		}
	case *ast.ESequence:
		for _, sub := range e.Exprs {
			out = append(out, checkExprForForbiddenWrite(sub, names)...)
		}
	case *ast.ESpread:
		out = append(out, checkExprForForbiddenWrite(e.Value, names)...)
	}
	return out
}

// checkAssignTarget handles the assignment-LHS case, including a
// destructuring pattern appearing on the left of `=`.
func checkAssignTarget(target ast.Expr, names map[ast.Ref]ast.Loc) []diagMsg {
	switch e := target.Data.(type) {
	case *ast.EIndex, *ast.EDot:
		_ = e
		return checkPrivateTarget(target, names)
	case *ast.EObject:
		var out []diagMsg
		for _, prop := range e.Properties {
			if loc, bad := privateRefOf(prop.Value, names); bad {
				out = append(out, forbiddenWriteMsg(prop.Value.Loc, loc, ""))
			}
		}
		return out
	case *ast.EArray:
		var out []diagMsg
		for _, item := range e.Items {
			if loc, bad := privateRefOf(item, names); bad {
				out = append(out, forbiddenWriteMsg(item.Loc, loc, ""))
			}
		}
		return out
	}
	return nil
}

func checkPrivateTarget(target ast.Expr, names map[ast.Ref]ast.Loc) []diagMsg {
	if loc, bad := privateRefOf(target, names); bad {
		return []diagMsg{forbiddenWriteMsg(target.Loc, loc, "")}
	}
	return nil
}

func privateRefOf(expr ast.Expr, names map[ast.Ref]ast.Loc) (ast.Loc, bool) {
	idx, ok := expr.Data.(*ast.EIndex)
	if !ok {
		return ast.Loc{}, false
	}
	priv, ok := idx.Index.Data.(*ast.EPrivateIdentifier)
	if !ok {
		return ast.Loc{}, false
	}
	loc, bad := names[priv.Ref]
	return loc, bad
}

func forbiddenWriteMsg(loc, declLoc ast.Loc, name string) diagMsg {
	return diagMsg{
		Loc:  loc,
		Text: "Decorated private methods are read-only, but this private name is updated via this expression.",
		Note: declLoc,
	}
}
