package decorator

import "github.com/jsdecor/declower/internal/ast"

// DecoratorKind is the P4-output element classification from §3.
type DecoratorKind uint8

const (
	KindField DecoratorKind = iota
	KindAccessor
	KindMethod
	KindGetter
	KindSetter
)

// bucket implements invariant (2) of §3: emission order is static
// accessors/getters/setters, then instance accessors/getters/setters, then
// static fields, then instance fields; ties within a bucket keep source
// order. Lower bucket numbers sort first.
func bucket(kind DecoratorKind, isStatic bool) int {
	isFieldLike := kind == KindField
	switch {
	case isStatic && !isFieldLike:
		return 0
	case !isStatic && !isFieldLike:
		return 1
	case isStatic && isFieldLike:
		return 2
	default: // instance field
		return 3
	}
}

// DecoratorInfo is the P4 output record for one decorated element (§3).
type DecoratorInfo struct {
	Kind     DecoratorKind
	IsStatic bool

	// Name is a string-literal name for identifier/private keys, or the
	// (already-memoized) computed key expression reference.
	Name ast.Expr

	// Decorators is the ordered, possibly-memoized-in-place sequence of
	// decorator expressions for this element (§4.5).
	Decorators []ast.Expr

	// DecoratorsThis is parallel to Decorators: entry i is the receiver
	// expression for decorator i when it was a `super.x`/`this.x` member
	// expression that needs a separate this-argument (2023-05 only, §3).
	// A nil entry means "no separate receiver".
	DecoratorsThis []ast.Expr

	// PrivateMethods holds the extracted callable(s) the runtime invokes
	// for a private-key decorated element: two closures (getter, setter)
	// for KindAccessor, one function expression for
	// KindMethod/KindGetter/KindSetter. Empty for non-private elements.
	PrivateMethods []ast.Expr

	// Locals are the fresh identifiers the destructured runtime result
	// writes the initializer/getter/setter thunks for this element into.
	Locals []ast.Ref

	// sourceIndex records original body order, used as the bucket tie
	// breaker (§3 invariant 2).
	sourceIndex int

	// element points back at the originating class element; P6 validation
	// reads it to find decorated private method names.
	element *ast.ClassElement
}

// hasReceiverTracking reports whether any decorator on this element needs
// a separate this-argument, which sets bit 4 of the element flag (§4.6.1).
func (d *DecoratorInfo) hasReceiverTracking() bool {
	for _, t := range d.DecoratorsThis {
		if t.Data != nil {
			return true
		}
	}
	return false
}

// EncodeFlag implements §4.6.1's element-flag encoding, dispatched by
// policy so 2021-12/2022-03/2023-01's "add literal 5 for static" quirk and
// 2023-05's "bit 3 is static" rule share one call site.
func (d *DecoratorInfo) EncodeFlag(policy VersionPolicy) int {
	flag := int(d.Kind)
	if d.IsStatic {
		if policy.StaticBitIsFlag {
			flag |= 1 << 3
		} else {
			flag += 5
		}
	}
	if policy.TracksThis && d.hasReceiverTracking() {
		flag |= 1 << 4
	}
	return flag
}

// orderDecoratorInfos sorts infos into the emission order required by §3
// invariant 2, using a stable sort so within-bucket ties keep source
// order (also guaranteed explicitly via sourceIndex as a tiebreaker, which
// keeps this correct even if call sites forget to pre-sort by source
// order before calling it).
func orderDecoratorInfos(infos []*DecoratorInfo) []*DecoratorInfo {
	out := make([]*DecoratorInfo, len(infos))
	copy(out, infos)
	// Simple stable insertion sort: the input sizes here (one class body)
	// are always small, and this keeps the comparison logic easy to read
	// and to test against invariant (2) directly.
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && less(out[j], out[j-1]) {
			out[j], out[j-1] = out[j-1], out[j]
			j--
		}
	}
	return out
}

func less(a, b *DecoratorInfo) bool {
	ba, bb := bucket(a.Kind, a.IsStatic), bucket(b.Kind, b.IsStatic)
	if ba != bb {
		return ba < bb
	}
	return a.sourceIndex < b.sourceIndex
}

// ComputedPropInfo records one computed key that resolveKey memoized
// (§3). The records are collected on classCtx.computedProps but nothing
// reads them back: emission does not interleave them with DecoratorInfo
// entries, and each key's evaluation point is simply the position of its
// memoization assignment in the statements emitted before the class.
type ComputedPropInfo struct {
	// KeyRef is the memoized local the computed key's value was assigned
	// to (see the toPropertyKey memoization in extract.go's resolveKey).
	KeyRef ast.Ref
	// sourceIndex is not set by resolveKey and stays zero.
	sourceIndex int
}
