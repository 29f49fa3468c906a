package ast

// ElementKind tags a class body element. It is the "tagged variant" the
// design notes (§9) call for in place of an inheritance hierarchy.
type ElementKind uint8

const (
	ElementField ElementKind = iota
	ElementMethod
	ElementGetter
	ElementSetter
	ElementConstructor
	ElementAutoAccessor
	ElementStaticBlock
	ElementTypeOnly       // type-only declaration; ignored (§3)
	ElementIndexSignature // index signature; ignored (§3)
)

func (k ElementKind) IsMethodLike() bool {
	switch k {
	case ElementMethod, ElementGetter, ElementSetter, ElementConstructor:
		return true
	}
	return false
}

// Key is a class element's property key: exactly one of Computed, Private,
// or Name is populated, matching §3's "identifier, computed expression, or
// private name".
type Key struct {
	Loc      Loc
	Computed Expr                // non-nil for `[expr]`
	Private  *EPrivateIdentifier // non-nil for `#name`
	Name     string              // identifier or string literal name
}

func (k Key) IsComputed() bool { return k.Computed.Data != nil }
func (k Key) IsPrivate() bool  { return k.Private != nil }

// KeysEqual is the structural-equality primitive §6 calls "isProtoKey":
// enough to tell whether two non-computed keys name the same property.
// A computed key never compares equal to any key. The pass itself does
// not call it.
func KeysEqual(a, b Key) bool {
	if a.IsPrivate() != b.IsPrivate() {
		return false
	}
	if a.IsPrivate() {
		return a.Private.Ref == b.Private.Ref
	}
	if a.IsComputed() || b.IsComputed() {
		return false
	}
	return a.Name == b.Name
}

// ClassElement is one member of a class body.
type ClassElement struct {
	Loc        Loc
	Kind       ElementKind
	Key        Key
	IsStatic   bool
	Decorators []Expr

	// ValueOrNil is the function literal for methods/getters/setters, nil
	// for fields and accessors.
	ValueOrNil Expr

	// InitializerOrNil is the `= expr` initializer for fields and
	// auto-accessors, nil otherwise.
	InitializerOrNil Expr

	// StaticBlockOrNil is non-nil iff Kind == ElementStaticBlock.
	StaticBlockOrNil *ClassStaticBlock
}

func (e *ClassElement) IsPrivateField() bool {
	return e.Kind == ElementField && e.Key.IsPrivate()
}

func (e *ClassElement) IsPrivateMethod() bool {
	return e.Key.IsPrivate() && (e.Kind == ElementMethod || e.Kind == ElementGetter || e.Kind == ElementSetter)
}

// Class is the working representation of a class declaration or
// expression body (§3).
type Class struct {
	Name         *LocRef
	ExtendsOrNil Expr
	Decorators   []Expr
	Elements     []ClassElement
	BodyLoc      Loc

	// UseDefineForClassFields mirrors the TypeScript compiler option of the
	// same name; it only affects non-private, non-computed field lowering
	// and is surfaced here because the teacher's lowerField branches on it.
	UseDefineForClassFields bool
}

func (c *Class) HasOwnDecorators() bool { return len(c.Decorators) > 0 }

func (c *Class) HasAnyElementDecorators() bool {
	for i := range c.Elements {
		if len(c.Elements[i].Decorators) > 0 {
			return true
		}
	}
	return false
}

// IsClassDeclaration reports whether a statement is (or wraps, via a
// default export) a class declaration, one of the §6 type predicates.
func IsClassDeclaration(stmt Stmt) bool {
	switch s := stmt.Data.(type) {
	case *SClass:
		return true
	case *SExportDefault:
		_, ok := s.Value.Data.(*SClass)
		return ok
	}
	return false
}

func IsMemberExpression(expr Expr) bool {
	switch expr.Data.(type) {
	case *EDot, *EIndex:
		return true
	}
	return false
}

func IsSuper(expr Expr) bool {
	_, ok := expr.Data.(*ESuper)
	return ok
}

func IsThisExpression(expr Expr) bool {
	_, ok := expr.Data.(*EThis)
	return ok
}

func IsStaticBlockElement(e *ClassElement) bool { return e.Kind == ElementStaticBlock }

func IsClassPrivateProperty(e *ClassElement) bool { return e.IsPrivateField() }

func IsClassPrivateMethod(e *ClassElement) bool { return e.IsPrivateMethod() }
