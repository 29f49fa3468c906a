package decorator

import "github.com/jsdecor/declower/internal/ast"

// emit is P5 (§4.6): assemble the applyDecs* call, its destructuring
// pattern, thread the proto-init/static-init calls, and — when the class
// itself is decorated — build the identity-extending wrapper (or its
// elided single-static-block form).
func (p *Pass) emit(ctx *classCtx) {
	loc := ctx.classLoc
	ordered := orderDecoratorInfos(ctx.infos)

	var elementLocals []ast.Ref
	tuples := make([]ast.Expr, len(ordered))
	for i, info := range ordered {
		tuples[i] = p.buildTuple(info)
		elementLocals = append(elementLocals, info.Locals...)
	}

	var classLocals []ast.Ref
	if ctx.class.HasOwnDecorators() {
		ctx.classInitLocal = p.Scope.GenerateUID("initClass")
		classLocals = append(classLocals, ctx.classInitLocal)
	}
	if ctx.staticInitNeeded {
		ctx.staticInitLocal = p.Scope.GenerateUID("initStatic")
		classLocals = append(classLocals, ctx.staticInitLocal)
	}
	if ctx.protoInitNeeded {
		ctx.protoInitLocal = p.Scope.GenerateUID("initProto")
		classLocals = append(classLocals, ctx.protoInitLocal)
	}
	ctx.declaredLocals = append(ctx.declaredLocals, classLocals...)

	call := p.buildApplyDecsCall(ctx, loc, tuples)

	var destructureStmt ast.Stmt
	if len(elementLocals) > 0 || len(classLocals) > 0 {
		destructureStmt = p.buildDestructure(loc, call, elementLocals, classLocals)
	} else {
		destructureStmt = exprStmt(call)
	}

	blockStmts := []ast.Stmt{destructureStmt}
	if ctx.staticInitNeeded {
		blockStmts = append(blockStmts, exprStmt(callExpr(loc, identExpr(ctx.staticInitLocal, loc), []ast.Expr{thisExpr(loc)})))
	}
	block := &ast.ClassStaticBlock{Block: ast.SBlock{Stmts: blockStmts}}
	ctx.decorationBlock = block

	decorationElement := ast.ClassElement{Loc: loc, Kind: ast.ElementStaticBlock, IsStatic: true, StaticBlockOrNil: block}
	ctx.class.Elements = append([]ast.ClassElement{decorationElement}, ctx.class.Elements...)

	p.threadProtoInit(ctx, loc)

	if ctx.class.HasOwnDecorators() {
		ctx.wrapperExpr = p.buildClassDecoratorWrapper(ctx, loc)
	}
}

// buildTuple builds one `[decs, flag, name, ...privateMethods]` entry of
// the decoration array (Glossary: "Decoration array").
func (p *Pass) buildTuple(info *DecoratorInfo) ast.Expr {
	loc := info.Name.Loc
	decItems := make([]ast.Expr, len(info.Decorators))
	for i, d := range info.Decorators {
		if p.Policy.TracksThis && i < len(info.DecoratorsThis) && info.DecoratorsThis[i].Data != nil {
			decItems[i] = arrayExpr(loc, []ast.Expr{info.DecoratorsThis[i], d})
		} else {
			decItems[i] = d
		}
	}
	items := []ast.Expr{arrayExpr(loc, decItems), numberExpr(loc, float64(info.EncodeFlag(p.Policy))), info.Name}
	items = append(items, info.PrivateMethods...)
	return arrayExpr(loc, items)
}

// buildApplyDecsCall builds the version-dispatched helper call (§4.6). The
// trailing arguments (classDecsFlag, instanceBrandCheck, superClass) are
// each included only when meaningful, mirroring scenario 1 (no class
// decorators: three args) vs scenario 2 (class decorators: four args)
// in §8.
func (p *Pass) buildApplyDecsCall(ctx *classCtx, loc ast.Loc, tuples []ast.Expr) ast.Expr {
	thisArg := thisExpr(loc)
	if ctx.kind == classKindExpr && ctx.inferredName != "" {
		thisArg = p.Helpers.Call(loc, "setFunctionName", []ast.Expr{thisArg, stringExpr(loc, ctx.inferredName)})
	}

	args := []ast.Expr{thisArg, arrayExpr(loc, tuples), arrayExpr(loc, ctx.classDecorators)}

	needsFlag := len(ctx.classDecorators) > 0
	needsBrand := supportsBrandCheck(p.Policy) && ctx.instanceBrandPrivate != nil
	needsSuper := p.Policy.EmitsSuperClass && ctx.class.ExtendsOrNil.Data != nil

	if !needsFlag && !needsBrand && !needsSuper {
		return p.Helpers.Call(loc, p.Policy.Helper, args)
	}
	args = append(args, numberExpr(loc, 0))

	if supportsBrandCheck(p.Policy) {
		if needsBrand {
			args = append(args, p.buildBrandCheck(ctx, loc))
		} else if needsSuper {
			args = append(args, ast.Expr{Loc: loc, Data: ast.EUndefinedShared})
		}
	}
	if needsSuper {
		args = append(args, p.memoizeSuperClass(ctx, loc))
	}
	return p.Helpers.Call(loc, p.Policy.Helper, args)
}

func supportsBrandCheck(policy VersionPolicy) bool {
	return policy.Version == Version202301 || policy.Version == Version202305
}

// buildBrandCheck builds `_ => #lastInstancePrivate in _` (§4.6).
func (p *Pass) buildBrandCheck(ctx *classCtx, loc ast.Loc) ast.Expr {
	param := p.Scope.GenerateUID("_")
	body := ast.Expr{Loc: loc, Data: &ast.EBinary{
		Op:    ast.BinOpIn,
		Left:  privateExpr(ctx.instanceBrandPrivate.Ref, loc),
		Right: identExpr(param, loc),
	}}
	return ast.Expr{Loc: loc, Data: &ast.EArrow{
		Args:       []ast.Arg{{Binding: ast.Binding{Loc: loc, Data: &ast.BIdentifier{Ref: param}}}},
		Body:       []ast.Stmt{exprStmt(body)},
		PreferExpr: true,
	}}
}

func (p *Pass) memoizeSuperClass(ctx *classCtx, loc ast.Loc) ast.Expr {
	super := ctx.class.ExtendsOrNil
	if ref, needs := p.Scope.MaybeGenerateMemoised(super, "superClass"); needs {
		ctx.preStmts = append(ctx.preStmts, assignStmt(loc, ref, super))
		ctx.declaredLocals = append(ctx.declaredLocals, ref)
		ctx.superClassRef = ref
		return identExpr(ref, loc)
	}
	return super
}

// buildDestructure implements §4.6's destructuring minimization: an array
// pattern off `call.e`/`call.c` when only one side is needed, an object
// pattern over both when both are needed, and a single concatenated array
// pattern for the flat-array-shaped legacy versions.
func (p *Pass) buildDestructure(loc ast.Loc, call ast.Expr, elementLocals, classLocals []ast.Ref) ast.Stmt {
	if p.Policy.FlatArrayShape {
		all := append(append([]ast.Ref{}, elementLocals...), classLocals...)
		return exprStmt(ast.Assign(buildArrayPattern(loc, all), call))
	}
	switch {
	case len(elementLocals) > 0 && len(classLocals) == 0:
		return exprStmt(ast.Assign(buildArrayPattern(loc, elementLocals), ast.Expr{Loc: loc, Data: &ast.EDot{Target: call, Name: "e"}}))
	case len(classLocals) > 0 && len(elementLocals) == 0:
		return exprStmt(ast.Assign(buildArrayPattern(loc, classLocals), ast.Expr{Loc: loc, Data: &ast.EDot{Target: call, Name: "c"}}))
	default:
		obj := ast.Expr{Loc: loc, Data: &ast.EObject{Properties: []ast.ObjectProperty{
			{Key: stringExpr(loc, "e"), Value: buildArrayPattern(loc, elementLocals)},
			{Key: stringExpr(loc, "c"), Value: buildArrayPattern(loc, classLocals)},
		}}}
		return exprStmt(ast.Assign(obj, call))
	}
}

func buildArrayPattern(loc ast.Loc, refs []ast.Ref) ast.Expr {
	items := make([]ast.Expr, len(refs))
	for i, ref := range refs {
		items[i] = identExpr(ref, loc)
	}
	return arrayExpr(loc, items)
}

// threadProtoInit implements the second half of §4.5: the proto-init call
// is threaded into the first non-static field/accessor's initializer, or
// after the constructor's super() call, or a synthesized constructor,
// exactly in that preference order.
func (p *Pass) threadProtoInit(ctx *classCtx, loc ast.Loc) {
	if !ctx.protoInitNeeded {
		return
	}
	call := func() ast.Expr { return callExpr(loc, identExpr(ctx.protoInitLocal, loc), []ast.Expr{thisExpr(loc)}) }

	if ctx.firstFieldOrAccessorIndex != -1 {
		// Index shifted by one: the decoration static block was prepended.
		el := &ctx.class.Elements[ctx.firstFieldOrAccessorIndex+1]
		el.InitializerOrNil = ast.JoinWithComma(call(), el.InitializerOrNil)
		return
	}

	if ctx.ctorIndex != -1 {
		el := &ctx.class.Elements[ctx.ctorIndex+1]
		fn := el.ValueOrNil.Data.(*ast.EFunction)
		body := fn.Fn.Body
		for i, s := range body {
			if expr, ok := s.Data.(*ast.SExpr); ok {
				if c, ok := expr.Value.Data.(*ast.ECall); ok && ast.IsSuper(c.Target) {
					body[i] = exprStmt(callExpr(loc, identExpr(ctx.protoInitLocal, loc), []ast.Expr{expr.Value}))
					return
				}
			}
		}
		fn.Fn.Body = append([]ast.Stmt{exprStmt(call())}, body...)
		return
	}

	// No constructor at all: synthesize one (§4.5 "If no constructor
	// exists, synthesize one").
	var body []ast.Stmt
	var args []ast.Arg
	if ctx.class.ExtendsOrNil.Data != nil {
		restRef := p.Scope.GenerateUID("args")
		superCall := callExpr(loc, ast.Expr{Loc: loc, Data: ast.ESuperShared}, []ast.Expr{{Loc: loc, Data: &ast.ESpread{Value: identExpr(restRef, loc)}}})
		body = []ast.Stmt{exprStmt(callExpr(loc, identExpr(ctx.protoInitLocal, loc), []ast.Expr{superCall}))}
		args = []ast.Arg{{Binding: ast.Binding{Loc: loc, Data: &ast.BIdentifier{Ref: restRef}}}}
	} else {
		body = []ast.Stmt{exprStmt(call())}
	}
	ctor := ast.ClassElement{
		Loc: loc, Kind: ast.ElementConstructor,
		ValueOrNil: ast.Expr{Loc: loc, Data: &ast.EFunction{Fn: ast.Fn{Args: args, Body: body}}},
	}
	// Constructors conventionally sit right after the decoration static
	// block, ahead of ordinary fields/methods.
	ctx.class.Elements = append(ctx.class.Elements[:1], append([]ast.ClassElement{ctor}, ctx.class.Elements[1:]...)...)
}

// buildClassDecoratorWrapper implements §4.6's class-decorator emission:
// move static members/blocks out of the original class into a wrapper that
// extends `identity`, or elide the wrapper entirely when there was no
// static state to move.
func (p *Pass) buildClassDecoratorWrapper(ctx *classCtx, loc ast.Loc) ast.Expr {
	var movedStatic []ast.ClassElement
	var movedBlocks []*ast.ClassStaticBlock
	var kept []ast.ClassElement
	for _, el := range ctx.class.Elements {
		if el.IsStatic {
			if el.Kind == ast.ElementStaticBlock {
				if el.StaticBlockOrNil == ctx.decorationBlock {
					kept = append(kept, el)
				} else {
					movedBlocks = append(movedBlocks, el.StaticBlockOrNil)
				}
				continue
			}
			movedStatic = append(movedStatic, el)
			continue
		}
		kept = append(kept, el)
	}

	if len(movedStatic) == 0 && len(movedBlocks) == 0 {
		ctx.class.Elements = append(kept, ast.ClassElement{
			Loc: loc, Kind: ast.ElementStaticBlock, IsStatic: true,
			StaticBlockOrNil: &ast.ClassStaticBlock{Block: ast.SBlock{Stmts: []ast.Stmt{
				exprStmt(callExpr(loc, identExpr(ctx.classInitLocal, loc), nil)),
			}}},
		})
		return ast.Expr{}
	}
	ctx.class.Elements = kept

	// The original class value is bound to classIdLocal as a plain
	// assignment (finishAndGenerateCode), not a class declaration, so it
	// needs the same outer `let` hoist as any other fresh local here.
	ctx.declaredLocals = append(ctx.declaredLocals, ctx.classIdLocal)
	origRef := ctx.classIdLocal
	ctorBody := []ast.Stmt{
		exprStmt(callExpr(loc, ast.Expr{Loc: loc, Data: ast.ESuperShared}, []ast.Expr{identExpr(origRef, loc)})),
	}
	for _, blk := range movedBlocks {
		iife := callExpr(loc, ast.Expr{Loc: loc, Data: &ast.EArrow{Body: blk.Block.Stmts}}, nil)
		ctorBody = append(ctorBody, exprStmt(iife))
	}
	ctorBody = append(ctorBody, exprStmt(callExpr(loc, identExpr(ctx.classInitLocal, loc), nil)))

	wrapper := ast.Class{
		ExtendsOrNil: p.Helpers.Import(loc, "identity"),
		Elements: append(append([]ast.ClassElement{}, movedStatic...), ast.ClassElement{
			Loc: loc, Kind: ast.ElementConstructor,
			ValueOrNil: ast.Expr{Loc: loc, Data: &ast.EFunction{Fn: ast.Fn{Body: ctorBody}}},
		}),
	}
	return ast.Expr{Loc: loc, Data: &ast.ENew{
		Target: ast.Expr{Loc: loc, Data: &ast.EClass{Class: wrapper}},
		Args:   []ast.Expr{identExpr(origRef, loc)},
	}}
}
