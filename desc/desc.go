// Package desc defines the structural type descriptors consumed by the
// typeguard compiler. Descriptors are plain immutable data: construction
// helpers validate shape, Equal/Hash provide structural identity, and the
// normalizer (internal/norm) resolves references and generics.
package desc

// Kind identifies a descriptor variant.
type Kind int

const (
	// Primitive kinds. A primitive descriptor matches a value by its
	// runtime kind alone.
	KindString Kind = iota
	KindNumber
	KindBool
	KindNull
	KindUndefined // absence; only meaningful for object properties
	KindBigInt
	KindAny
	KindUnknown
	KindNever

	// Composite kinds.
	KindLiteral
	KindArray
	KindTuple
	KindObject
	KindUnion
	KindIntersection
	KindRef
	KindInstance
	KindParam
)

// String returns the kind name used in diagnostics ("string", "object", ...).
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindBigInt:
		return "bigint"
	case KindAny:
		return "any"
	case KindUnknown:
		return "unknown"
	case KindNever:
		return "never"
	case KindLiteral:
		return "literal"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindObject:
		return "object"
	case KindUnion:
		return "union"
	case KindIntersection:
		return "intersection"
	case KindRef:
		return "ref"
	case KindInstance:
		return "instance"
	case KindParam:
		return "param"
	default:
		return "invalid"
	}
}

// Type is the closed descriptor variant. Implementations live in this package
// only; consumers switch on Kind(). Descriptors must be treated as immutable
// once constructed.
type Type interface {
	Kind() Kind
}

// Primitive matches a value by runtime kind.
type Primitive struct {
	K Kind
}

func (p *Primitive) Kind() Kind { return p.K }

var (
	primString    = &Primitive{K: KindString}
	primNumber    = &Primitive{K: KindNumber}
	primBool      = &Primitive{K: KindBool}
	primNull      = &Primitive{K: KindNull}
	primUndefined = &Primitive{K: KindUndefined}
	primBigInt    = &Primitive{K: KindBigInt}
	primAny       = &Primitive{K: KindAny}
	primUnknown   = &Primitive{K: KindUnknown}
	primNever     = &Primitive{K: KindNever}
)

// String returns the string primitive descriptor.
func String() Type { return primString }

// Number returns the number primitive descriptor. It accepts float64,
// json.Number, and the Go integer families at validation time.
func Number() Type { return primNumber }

// Bool returns the boolean primitive descriptor.
func Bool() Type { return primBool }

// Null matches a nil value.
func Null() Type { return primNull }

// Undefined matches absence. A present value never satisfies it; it exists so
// that object properties and unions can model "may be missing".
func Undefined() Type { return primUndefined }

// BigInt matches *big.Int values and integral json.Number / Go integers.
func BigInt() Type { return primBigInt }

// Any matches every value.
func Any() Type { return primAny }

// Unknown matches every value. It is kept distinct from Any for callers that
// track the difference statically.
func Unknown() Type { return primUnknown }

// Never matches no value.
func Never() Type { return primNever }

// Literal matches one specific scalar value. Permitted value types are
// string, bool, nil, and the numeric families; anything else is rejected at
// normalization time as a malformed descriptor.
type Literal struct {
	Value any
}

func (l *Literal) Kind() Kind { return KindLiteral }

// LiteralOf builds a literal descriptor for v.
func LiteralOf(v any) *Literal { return &Literal{Value: v} }

// EnumOf builds a union of literal descriptors, one per value.
func EnumOf(values ...any) *Union {
	ms := make([]Type, 0, len(values))
	for _, v := range values {
		ms = append(ms, LiteralOf(v))
	}
	return &Union{Members: ms}
}

// Array is a homogeneous sequence.
type Array struct {
	Elem Type
}

func (a *Array) Kind() Kind { return KindArray }

// ArrayOf builds an array descriptor with the given element descriptor.
func ArrayOf(elem Type) *Array { return &Array{Elem: elem} }

// Tuple is a fixed-arity sequence with per-position descriptors and an
// optional trailing variadic tail. The rest element is always final by
// construction; there is no way to build one elsewhere.
type Tuple struct {
	Elems []Type
	Rest  Type
}

func (t *Tuple) Kind() Kind { return KindTuple }

// TupleOf builds a tuple descriptor from the positional element descriptors.
func TupleOf(elems ...Type) *Tuple { return &Tuple{Elems: elems} }

// WithRest returns a copy of the tuple with a trailing variadic tail.
func (t *Tuple) WithRest(rest Type) *Tuple {
	return &Tuple{Elems: t.Elems, Rest: rest}
}

// Property is one declared object property. Readonly is a static-only flag
// with no runtime check; it is carried for tooling.
type Property struct {
	Name     string
	Type     Type
	Optional bool
	Readonly bool
}

// IndexKey selects the key family of an index signature.
type IndexKey int

const (
	IndexString IndexKey = iota
	IndexNumber
)

// Index is an object index signature: keys of the given family that are not
// covered by a declared property validate against Elem.
type Index struct {
	Key  IndexKey
	Elem Type
}

// Object is a structural record with ordered declared properties and an
// optional index signature. Property order is preserved for deterministic
// diagnostics; it does not affect validity.
type Object struct {
	Props []Property
	Index *Index
}

func (o *Object) Kind() Kind { return KindObject }

// Union matches a value satisfying at least one member. Member order
// determines diagnostic precedence, not validity.
type Union struct {
	Members []Type
}

func (u *Union) Kind() Kind { return KindUnion }

// UnionOf builds a union descriptor over the given members.
func UnionOf(members ...Type) *Union { return &Union{Members: members} }

// Optional is shorthand for Union(t, undefined), the usual shape of an
// optional value outside an object property.
func Optional(t Type) *Union { return UnionOf(t, Undefined()) }

// Nullable is shorthand for Union(t, null).
func Nullable(t Type) *Union { return UnionOf(t, Null()) }

// Intersection matches a value satisfying every member. Members are
// evaluated independently against the same value; object members are not
// merged into a single check.
type Intersection struct {
	Members []Type
}

func (i *Intersection) Kind() Kind { return KindIntersection }

// IntersectionOf builds an intersection descriptor over the given members.
func IntersectionOf(members ...Type) *Intersection {
	return &Intersection{Members: members}
}

// Ref is a named placeholder resolved through its Registry. Refs are the only
// legal way to form a cyclic descriptor graph. Build them via Registry.Ref so
// the resolution scope is always attached.
type Ref struct {
	Name  string
	Scope *Registry
}

func (r *Ref) Kind() Kind { return KindRef }

// Instance is a generic instantiation: the named base definition with its
// parameters substituted by Args. All arguments must be closed (parameter
// free) descriptors by the time the instance is normalized.
type Instance struct {
	Base  string
	Args  []Type
	Scope *Registry
}

func (i *Instance) Kind() Kind { return KindInstance }

// Param is a free generic parameter. It may only appear inside the body of a
// registered generic definition; a Param surviving substitution is an
// unbound-parameter error.
type Param struct {
	Name string
}

func (p *Param) Kind() Kind { return KindParam }

// ParamOf builds a generic parameter placeholder.
func ParamOf(name string) *Param { return &Param{Name: name} }
