package decorator

import "github.com/jsdecor/declower/internal/ast"

// desugarAutoAccessors is P3 (§4.4), run unconditionally on every
// `accessor` field regardless of decoration (invariant 4, §3) so later
// passes always see plain fields plus get/set pairs.
func (p *Pass) desugarAutoAccessors(ctx *classCtx) {
	out := make([]ast.ClassElement, 0, len(ctx.class.Elements))
	for i, el := range ctx.class.Elements {
		if el.Kind != ast.ElementAutoAccessor {
			out = append(out, el)
			continue
		}
		out = append(out, p.desugarOneAccessor(ctx, el, i)...)
	}
	ctx.class.Elements = out
}

func (p *Pass) desugarOneAccessor(ctx *classCtx, el ast.ClassElement, sourceIndex int) []ast.ClassElement {
	storageKind := ast.SymbolPrivateField
	if el.IsStatic {
		storageKind = ast.SymbolPrivateStaticField
	}
	storageRef := p.Scope.GenerateUIDBasedOnNode(el.Key)
	p.Symbols[storageRef.InnerIndex].Kind = storageKind
	storageKey := ast.Key{Loc: el.Key.Loc, Private: &ast.EPrivateIdentifier{Ref: storageRef}}

	publicKey, _ := p.resolveKey(ctx, el.Key)

	decorated := len(el.Decorators) > 0
	receiver := func(loc ast.Loc) ast.Expr {
		if el.IsStatic && p.Policy.Version == Version202305 {
			// SPEC_FULL.md "static accessor receiver rewriting": the
			// receiver for a static accessor under 2023-05 is the class
			// identifier, not `this`.
			return identExpr(ctx.classIdLocal, loc)
		}
		return thisExpr(loc)
	}

	var storageInit ast.Expr
	var getBody, setBody ast.Expr
	var info *DecoratorInfo

	if !decorated {
		storageInit = el.InitializerOrNil
		getBody = ast.Expr{Loc: el.Loc, Data: &ast.EIndex{
			Target: receiver(el.Loc),
			Index:  privateExpr(storageRef, el.Loc),
		}}
		setBody = getBody
	} else {
		hint := accessorHint(publicKey)
		initLocal := p.Scope.GenerateUID("init_" + hint)
		getLocal := p.Scope.GenerateUID("get_" + hint)
		setLocal := p.Scope.GenerateUID("set_" + hint)

		args := []ast.Expr{receiver(el.Loc)}
		if el.InitializerOrNil.Data != nil {
			args = append(args, el.InitializerOrNil)
		}
		storageInit = callExpr(el.Loc, identExpr(initLocal, el.Loc), args)
		getBody = callExpr(el.Loc, identExpr(getLocal, el.Loc), []ast.Expr{receiver(el.Loc)})
		setBody = ast.Expr{} // built per-setter-arg below in buildSetter

		decs, this := p.memoizeDecorators(ctx, el.Decorators)
		info = &DecoratorInfo{
			Kind:           KindAccessor,
			IsStatic:       el.IsStatic,
			Name:           keyNameExpr(el.Loc, publicKey),
			Decorators:     decs,
			DecoratorsThis: this,
			Locals:         []ast.Ref{initLocal, getLocal, setLocal},
			element:        &el,
			sourceIndex:    sourceIndex,
		}
		el.Decorators = nil
	}

	storageField := ast.ClassElement{
		Loc: el.Loc, Kind: ast.ElementField, Key: storageKey, IsStatic: el.IsStatic,
		InitializerOrNil: storageInit,
	}
	getter := ast.ClassElement{
		Loc: el.Loc, Kind: ast.ElementGetter, Key: publicKey, IsStatic: el.IsStatic,
		ValueOrNil: ast.Expr{Loc: el.Loc, Data: &ast.EFunction{Fn: ast.Fn{
			Body: []ast.Stmt{{Loc: el.Loc, Data: &ast.SReturn{ValueOrNil: getBody}}},
		}}},
	}

	valueArg := p.Scope.GenerateUID("v")
	if decorated {
		setBody = callExpr(el.Loc, identExpr(info.Locals[2], el.Loc), []ast.Expr{receiver(el.Loc), identExpr(valueArg, el.Loc)})
	} else {
		setBody = ast.Assign(ast.Expr{Loc: el.Loc, Data: &ast.EIndex{
			Target: receiver(el.Loc), Index: privateExpr(storageRef, el.Loc),
		}}, identExpr(valueArg, el.Loc))
	}
	setter := ast.ClassElement{
		Loc: el.Loc, Kind: ast.ElementSetter, Key: publicKey, IsStatic: el.IsStatic,
		ValueOrNil: ast.Expr{Loc: el.Loc, Data: &ast.EFunction{Fn: ast.Fn{
			Args: []ast.Arg{{Binding: ast.Binding{Loc: el.Loc, Data: &ast.BIdentifier{Ref: valueArg}}}},
			Body: []ast.Stmt{exprStmt(setBody)},
		}}},
	}

	if info != nil {
		if el.IsStatic {
			ctx.staticInitNeeded = true
		} else {
			ctx.protoInitNeeded = true
		}
		ctx.infos = append(ctx.infos, info)
		ctx.declaredLocals = append(ctx.declaredLocals, info.Locals...)
	}

	return []ast.ClassElement{storageField, getter, setter}
}
