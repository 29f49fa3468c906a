package decorator

import "github.com/jsdecor/declower/internal/ast"

// memoizeDecorators implements the shared half of §4.5 used by both P3
// (accessors, which build their own DecoratorInfo in accessor.go) and the
// per-element loop below: record a receiver for `super.x`/`this.x`
// decorators (2023-05 only), then memoize any decorator expression that
// isn't scope-constant into a fresh local assigned before the class.
func (p *Pass) memoizeDecorators(ctx *classCtx, decorators []ast.Expr) (out []ast.Expr, this []ast.Expr) {
	out = make([]ast.Expr, len(decorators))
	this = make([]ast.Expr, len(decorators))
	for i, d := range decorators {
		dec := d
		var receiver ast.Expr
		if p.Policy.TracksThis {
			var target ast.Expr
			switch e := d.Data.(type) {
			case *ast.EDot:
				target = e.Target
			case *ast.EIndex:
				target = e.Target
			}
			if target.Data != nil && (ast.IsSuper(target) || ast.IsThisExpression(target)) {
				receiver = target
			}
		}
		if !p.Scope.IsStatic(dec) {
			if ref, needs := p.Scope.MaybeGenerateMemoised(dec, "dec"); needs {
				ctx.preStmts = append(ctx.preStmts, assignStmt(dec.Loc, ref, dec))
				ctx.declaredLocals = append(ctx.declaredLocals, ref)
				dec = identExpr(ref, dec.Loc)
			}
		}
		out[i] = dec
		this[i] = receiver
	}
	return out, this
}

// resolveKey implements the computed-key half of §4.4/§4.6 shared by
// accessors and plain fields/methods: a non-constant computed key is
// evaluated once via toPropertyKey into a memoized local before the class,
// and that local stands in for the key everywhere afterward (the element's
// own Key.Computed, and the decoration-array name slot).
func (p *Pass) resolveKey(ctx *classCtx, key ast.Key) (resolved ast.Key, memoRef ast.Ref) {
	if !key.IsComputed() || p.Scope.IsStatic(key.Computed) {
		return key, ast.InvalidRef
	}
	ref := p.Scope.GenerateDeclaredUID("computed_key")
	wrapped := p.Helpers.Call(key.Loc, "toPropertyKey", []ast.Expr{key.Computed})
	ctx.preStmts = append(ctx.preStmts, assignStmt(key.Loc, ref, wrapped))
	ctx.declaredLocals = append(ctx.declaredLocals, ref)
	ctx.computedProps = append(ctx.computedProps, &ComputedPropInfo{KeyRef: ref})
	key.Computed = identExpr(ref, key.Loc)
	return key, ref
}

// extractDecorators is P4 for everything except auto-accessors (which build
// their DecoratorInfo inline in accessor.go, since §4.4 already folds their
// decorator mechanics into the desugar step). It also resolves proto-init /
// static-init threading (§4.5) and the class's own decorators.
func (p *Pass) extractDecorators(ctx *classCtx) {
	for i := range ctx.class.Elements {
		el := &ctx.class.Elements[i]
		if el.Kind == ast.ElementAutoAccessor || el.Kind == ast.ElementStaticBlock {
			continue
		}
		if len(el.Decorators) == 0 {
			if el.Key.IsComputed() {
				resolved, _ := p.resolveKey(ctx, el.Key)
				el.Key = resolved
			}
			continue
		}

		resolvedKey, _ := p.resolveKey(ctx, el.Key)
		el.Key = resolvedKey

		decs, this := p.memoizeDecorators(ctx, el.Decorators)
		el.Decorators = nil

		kind := elementDecoratorKind(el)
		info := &DecoratorInfo{
			Kind:           kind,
			IsStatic:       el.IsStatic,
			Name:           keyNameExpr(el.Loc, resolvedKey),
			Decorators:     decs,
			DecoratorsThis: this,
			sourceIndex:    i,
			element:        el,
		}

		wasPrivateMethod := el.IsPrivateMethod()
		if wasPrivateMethod {
			p.extractPrivateMethod(ctx, el, info)
		} else {
			local := p.Scope.GenerateUID("init_" + accessorHint(el.Key))
			info.Locals = []ast.Ref{local}
			if kind == KindField {
				// The runtime's init thunk is the field's real initializer now:
				// `x = init_x(this, <original init>)`.
				args := []ast.Expr{thisExpr(el.Loc)}
				if el.InitializerOrNil.Data != nil {
					args = append(args, el.InitializerOrNil)
				}
				el.InitializerOrNil = callExpr(el.Loc, identExpr(local, el.Loc), args)
			}
		}

		if kind != KindField {
			if el.IsStatic {
				ctx.staticInitNeeded = true
			} else {
				ctx.protoInitNeeded = true
			}
		}
		if resolvedKey.IsPrivate() && !el.IsStatic {
			ctx.instanceBrandPrivate = resolvedKey.Private
		}

		ctx.infos = append(ctx.infos, info)
		ctx.declaredLocals = append(ctx.declaredLocals, info.Locals...)
	}

	if ctx.class.HasOwnDecorators() {
		decs, _ := p.memoizeClassDecorators(ctx, ctx.class.Decorators)
		ctx.classDecorators = decs
	}
}

// memoizeClassDecorators mirrors memoizeDecorators for the class's own
// decorator list; class decorators never track a `this` receiver (§3: only
// element decorators populate decoratorsThis) and their memoization defers
// to emission time relative to element decorators (§4.5), which here just
// means they are prepended to ctx.preStmts in their own right.
func (p *Pass) memoizeClassDecorators(ctx *classCtx, decorators []ast.Expr) (out []ast.Expr, changed bool) {
	out = make([]ast.Expr, len(decorators))
	var memo []ast.Stmt
	for i, d := range decorators {
		dec := d
		if !p.Scope.IsStatic(dec) {
			if ref, needs := p.Scope.MaybeGenerateMemoised(dec, "classDec"); needs {
				memo = append(memo, assignStmt(dec.Loc, ref, dec))
				ctx.declaredLocals = append(ctx.declaredLocals, ref)
				dec = identExpr(ref, dec.Loc)
				changed = true
			}
		}
		out[i] = dec
	}
	ctx.preStmts = append(memo, ctx.preStmts...)
	return out, changed
}

func elementDecoratorKind(el *ast.ClassElement) DecoratorKind {
	switch el.Kind {
	case ast.ElementGetter:
		return KindGetter
	case ast.ElementSetter:
		return KindSetter
	case ast.ElementMethod, ast.ElementConstructor:
		return KindMethod
	default:
		return KindField
	}
}

// extractPrivateMethod implements §4.5's private-method rewrite: replace
// the method/getter/setter with a private field initialized to the
// call-thunk local, and record the original body (with `super` rewritten
// against classIdLocal per the constantSuper assumption) as the extracted
// callable.
func (p *Pass) extractPrivateMethod(ctx *classCtx, el *ast.ClassElement, info *DecoratorInfo) {
	switch info.Kind {
	case KindGetter, KindSetter:
		local := p.Scope.GenerateUID(accessorHint(el.Key) + "_thunk")
		info.Locals = []ast.Ref{local}
		thunk := rewriteSuper(el.ValueOrNil, ctx.classIdLocal, p.Options.resolveConstantSuper())
		info.PrivateMethods = []ast.Expr{thunk}
		el.ValueOrNil = callThunkBody(el, local, info.Kind == KindSetter)
	default:
		local := p.Scope.GenerateUID(accessorHint(el.Key) + "_fn")
		info.Locals = []ast.Ref{local}
		thunk := rewriteSuper(el.ValueOrNil, ctx.classIdLocal, p.Options.resolveConstantSuper())
		info.PrivateMethods = []ast.Expr{thunk}
		el.Kind = ast.ElementField
		el.ValueOrNil = ast.Expr{}
		el.InitializerOrNil = identExpr(local, el.Loc)
	}
}

// callThunkBody builds the `{ return get_x(this) }` / `{ set_x(v) { set_x(this, v) } }`
// body for a decorated private accessor kept in accessor form.
func callThunkBody(el *ast.ClassElement, local ast.Ref, isSetter bool) ast.Expr {
	fn := el.ValueOrNil.Data.(*ast.EFunction)
	if isSetter {
		var arg ast.Ref
		if len(fn.Fn.Args) > 0 {
			if id, ok := fn.Fn.Args[0].Binding.Data.(*ast.BIdentifier); ok {
				arg = id.Ref
			}
		}
		call := callExpr(el.Loc, identExpr(local, el.Loc), []ast.Expr{thisExpr(el.Loc), identExpr(arg, el.Loc)})
		return ast.Expr{Loc: el.Loc, Data: &ast.EFunction{Fn: ast.Fn{
			Args: fn.Fn.Args,
			Body: []ast.Stmt{exprStmt(call)},
		}}}
	}
	call := callExpr(el.Loc, identExpr(local, el.Loc), []ast.Expr{thisExpr(el.Loc)})
	return ast.Expr{Loc: el.Loc, Data: &ast.EFunction{Fn: ast.Fn{
		Body: []ast.Stmt{{Loc: el.Loc, Data: &ast.SReturn{ValueOrNil: call}}},
	}}}
}

// rewriteSuper walks expr replacing bare `super` receivers with classIdLocal
// when constantSuper holds (the assumption from §6 that the superclass
// binding cannot change, so a detached function may reference the class
// directly instead of relying on lexical `super`). When constantSuper is
// false, `super` is left as-is; the host's own super-lowering concern (out
// of scope per §1) is responsible for anything more general.
func rewriteSuper(expr ast.Expr, classIdLocal ast.Ref, constantSuper bool) ast.Expr {
	if !constantSuper || expr.Data == nil {
		return expr
	}
	switch e := expr.Data.(type) {
	case *ast.EFunction:
		v := *e
		v.Fn.Body = rewriteSuperStmts(e.Fn.Body, classIdLocal)
		return ast.Expr{Loc: expr.Loc, Data: &v}
	}
	return expr
}

func rewriteSuperStmts(stmts []ast.Stmt, classIdLocal ast.Ref) []ast.Stmt {
	out := make([]ast.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = rewriteSuperStmt(s, classIdLocal)
	}
	return out
}

func rewriteSuperStmt(stmt ast.Stmt, classIdLocal ast.Ref) ast.Stmt {
	switch s := stmt.Data.(type) {
	case *ast.SReturn:
		if s.ValueOrNil.Data != nil {
			return ast.Stmt{Loc: stmt.Loc, Data: &ast.SReturn{ValueOrNil: rewriteSuperExpr(s.ValueOrNil, classIdLocal)}}
		}
	case *ast.SExpr:
		return ast.Stmt{Loc: stmt.Loc, Data: &ast.SExpr{Value: rewriteSuperExpr(s.Value, classIdLocal)}}
	}
	return stmt
}

func rewriteSuperExpr(expr ast.Expr, classIdLocal ast.Ref) ast.Expr {
	switch e := expr.Data.(type) {
	case *ast.EDot:
		target := e.Target
		if ast.IsSuper(target) {
			target = ast.Expr{Loc: target.Loc, Data: &ast.EDot{
				Target: identExpr(classIdLocal, target.Loc), Name: "prototype",
			}}
		} else {
			target = rewriteSuperExpr(target, classIdLocal)
		}
		return ast.Expr{Loc: expr.Loc, Data: &ast.EDot{Target: target, Name: e.Name, NameLoc: e.NameLoc}}
	case *ast.EIndex:
		target := e.Target
		if ast.IsSuper(target) {
			target = ast.Expr{Loc: target.Loc, Data: &ast.EDot{
				Target: identExpr(classIdLocal, target.Loc), Name: "prototype",
			}}
		} else {
			target = rewriteSuperExpr(target, classIdLocal)
		}
		return ast.Expr{Loc: expr.Loc, Data: &ast.EIndex{Target: target, Index: e.Index}}
	case *ast.ECall:
		return ast.Expr{Loc: expr.Loc, Data: &ast.ECall{
			Target: rewriteSuperExpr(e.Target, classIdLocal), Args: e.Args, OptionalChain: e.OptionalChain,
		}}
	case *ast.EBinary:
		return ast.Expr{Loc: expr.Loc, Data: &ast.EBinary{
			Op: e.Op, Left: rewriteSuperExpr(e.Left, classIdLocal), Right: rewriteSuperExpr(e.Right, classIdLocal),
		}}
	}
	return expr
}
