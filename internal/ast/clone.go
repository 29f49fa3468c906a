package ast

// CloneExpr returns a deep, shape-preserving copy of expr. The pass uses
// this whenever the same sub-expression must appear at two points in the
// output (e.g. a receiver captured for a `super.x`/`this.x` decorator, or
// re-emitting a class's own identifier inside a static block it encloses —
// see the design notes on the cyclic class/body reference in §9). Cloning
// an identifier just copies its Ref; it does not call Scope.Rename or bump
// use counts, that's the caller's job via the scope package.
func CloneExpr(expr Expr) Expr {
	if expr.Data == nil {
		return expr
	}
	clone := expr
	switch e := expr.Data.(type) {
	case *EIdentifier:
		v := *e
		clone.Data = &v
	case *EPrivateIdentifier:
		v := *e
		clone.Data = &v
	case *EThis, *ESuper, *ENull, *EUndefined:
		// Stateless singletons have no fields to mutate, so the pointer is
		// shared rather than copied.
		clone.Data = expr.Data
	case *EString:
		v := *e
		clone.Data = &v
	case *ENumber:
		v := *e
		clone.Data = &v
	case *EBoolean:
		v := *e
		clone.Data = &v
	case *EDot:
		v := *e
		v.Target = CloneExpr(e.Target)
		clone.Data = &v
	case *EIndex:
		v := *e
		v.Target = CloneExpr(e.Target)
		v.Index = CloneExpr(e.Index)
		clone.Data = &v
	case *ECall:
		v := *e
		v.Target = CloneExpr(e.Target)
		v.Args = cloneExprSlice(e.Args)
		clone.Data = &v
	case *ENew:
		v := *e
		v.Target = CloneExpr(e.Target)
		v.Args = cloneExprSlice(e.Args)
		clone.Data = &v
	case *EArray:
		v := *e
		v.Items = cloneExprSlice(e.Items)
		clone.Data = &v
	case *EObject:
		v := *e
		props := make([]ObjectProperty, len(e.Properties))
		for i, p := range e.Properties {
			props[i] = ObjectProperty{Kind: p.Kind, Key: CloneExpr(p.Key), Value: CloneExpr(p.Value), IsComputed: p.IsComputed}
		}
		v.Properties = props
		clone.Data = &v
	case *EBinary:
		v := *e
		v.Left = CloneExpr(e.Left)
		v.Right = CloneExpr(e.Right)
		clone.Data = &v
	case *EUnary:
		v := *e
		v.Value = CloneExpr(e.Value)
		clone.Data = &v
	case *ESpread:
		v := *e
		v.Value = CloneExpr(e.Value)
		clone.Data = &v
	case *ESequence:
		v := *e
		v.Exprs = cloneExprSlice(e.Exprs)
		clone.Data = &v
	case *EFunction, *EArrow, *EClass:
		// Function/class literals are moved, never duplicated, by every
		// phase of this pass, so a shallow reuse of the pointer is safe and
		// avoids an expensive recursive statement-tree clone.
		clone.Data = expr.Data
	default:
		clone.Data = expr.Data
	}
	return clone
}

func cloneExprSlice(in []Expr) []Expr {
	if in == nil {
		return nil
	}
	out := make([]Expr, len(in))
	for i, e := range in {
		out[i] = CloneExpr(e)
	}
	return out
}
