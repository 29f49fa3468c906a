package decorator

import "github.com/jsdecor/declower/internal/ast"

// surveyElements is P2 (§4.3): walk the body in source order, locate the
// constructor (if any) and the first non-static field-or-accessor (for
// proto-init threading in P4), and classify each element. The "property
// visitor inherited from a sibling pass" that §4.3 mentions is out of scope
// here (it belongs to the undecorated field-lowering pass, §1's external
// collaborators); this pass only needs the survey data P4/P5 consume.
func (p *Pass) surveyElements(ctx *classCtx) {
	for i := range ctx.class.Elements {
		el := &ctx.class.Elements[i]
		if el.Kind == ast.ElementConstructor {
			ctx.ctorIndex = i
		}
		if ctx.firstFieldOrAccessorIndex == -1 && !el.IsStatic && isFieldOrAccessor(el) {
			ctx.firstFieldOrAccessorIndex = i
		}
	}
}

func isFieldOrAccessor(el *ast.ClassElement) bool {
	return el.Kind == ast.ElementField || el.Kind == ast.ElementAutoAccessor
}
