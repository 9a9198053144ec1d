package desc

import (
	"encoding/binary"
	"math"
	"math/big"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
)

// Equal reports structural equality of two descriptors. Refs compare by name
// and scope identity, never by resolved body, so Equal always terminates on
// cyclic graphs.
func Equal(a, b Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Primitive:
		return true // kinds already matched
	case *Literal:
		return LiteralEqual(x.Value, b.(*Literal).Value)
	case *Array:
		return Equal(x.Elem, b.(*Array).Elem)
	case *Tuple:
		y := b.(*Tuple)
		if len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		if (x.Rest == nil) != (y.Rest == nil) {
			return false
		}
		return x.Rest == nil || Equal(x.Rest, y.Rest)
	case *Object:
		y := b.(*Object)
		if len(x.Props) != len(y.Props) {
			return false
		}
		for i := range x.Props {
			p, q := x.Props[i], y.Props[i]
			if p.Name != q.Name || p.Optional != q.Optional || p.Readonly != q.Readonly {
				return false
			}
			if !Equal(p.Type, q.Type) {
				return false
			}
		}
		if (x.Index == nil) != (y.Index == nil) {
			return false
		}
		if x.Index != nil {
			if x.Index.Key != y.Index.Key || !Equal(x.Index.Elem, y.Index.Elem) {
				return false
			}
		}
		return true
	case *Union:
		return equalMembers(x.Members, b.(*Union).Members)
	case *Intersection:
		return equalMembers(x.Members, b.(*Intersection).Members)
	case *Ref:
		y := b.(*Ref)
		return x.Name == y.Name && x.Scope == y.Scope
	case *Instance:
		y := b.(*Instance)
		if x.Base != y.Base || x.Scope != y.Scope {
			return false
		}
		return equalMembers(x.Args, y.Args)
	case *Param:
		return x.Name == b.(*Param).Name
	default:
		return false
	}
}

func equalMembers(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Hash computes a stable structural hash of a descriptor, suitable as a cache
// key alongside Equal verification. Refs hash by name only; the resolved body
// is deliberately not followed, keeping Hash total on cyclic graphs.
func Hash(t Type) uint64 {
	d := xxhash.New()
	hashInto(d, t)
	return d.Sum64()
}

func hashInto(d *xxhash.Digest, t Type) {
	var tag [1]byte
	if t == nil {
		tag[0] = 0xff
		_, _ = d.Write(tag[:])
		return
	}
	tag[0] = byte(t.Kind())
	_, _ = d.Write(tag[:])
	switch x := t.(type) {
	case *Primitive:
	case *Literal:
		_, _ = d.WriteString(LiteralKey(x.Value))
	case *Array:
		hashInto(d, x.Elem)
	case *Tuple:
		hashLen(d, len(x.Elems))
		for _, e := range x.Elems {
			hashInto(d, e)
		}
		hashInto(d, x.Rest)
	case *Object:
		hashLen(d, len(x.Props))
		for _, p := range x.Props {
			_, _ = d.WriteString(p.Name)
			flags := byte(0)
			if p.Optional {
				flags |= 1
			}
			if p.Readonly {
				flags |= 2
			}
			_, _ = d.Write([]byte{0, flags})
			hashInto(d, p.Type)
		}
		if x.Index != nil {
			_, _ = d.Write([]byte{byte(x.Index.Key) + 1})
			hashInto(d, x.Index.Elem)
		} else {
			_, _ = d.Write([]byte{0})
		}
	case *Union:
		hashLen(d, len(x.Members))
		for _, m := range x.Members {
			hashInto(d, m)
		}
	case *Intersection:
		hashLen(d, len(x.Members))
		for _, m := range x.Members {
			hashInto(d, m)
		}
	case *Ref:
		_, _ = d.WriteString(x.Name)
	case *Instance:
		_, _ = d.WriteString(x.Base)
		hashLen(d, len(x.Args))
		for _, a := range x.Args {
			hashInto(d, a)
		}
	case *Param:
		_, _ = d.WriteString(x.Name)
	}
}

func hashLen(d *xxhash.Digest, n int) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(n))
	_, _ = d.Write(buf[:])
}

// Children enumerates the direct child descriptors of t in deterministic
// order. Refs have no children; their target belongs to the registry.
func Children(t Type) []Type {
	switch x := t.(type) {
	case *Array:
		return []Type{x.Elem}
	case *Tuple:
		out := make([]Type, 0, len(x.Elems)+1)
		out = append(out, x.Elems...)
		if x.Rest != nil {
			out = append(out, x.Rest)
		}
		return out
	case *Object:
		out := make([]Type, 0, len(x.Props)+1)
		for _, p := range x.Props {
			out = append(out, p.Type)
		}
		if x.Index != nil {
			out = append(out, x.Index.Elem)
		}
		return out
	case *Union:
		return append([]Type(nil), x.Members...)
	case *Intersection:
		return append([]Type(nil), x.Members...)
	case *Instance:
		return append([]Type(nil), x.Args...)
	default:
		return nil
	}
}

// CollectRefs gathers the names referenced anywhere under t, instantiation
// bases included. Useful for registry completeness checks and tooling.
func CollectRefs(t Type) []string {
	var out []string
	seenName := map[string]struct{}{}
	var walk func(Type)
	walk = func(t Type) {
		switch x := t.(type) {
		case *Ref:
			if _, ok := seenName[x.Name]; !ok {
				seenName[x.Name] = struct{}{}
				out = append(out, x.Name)
			}
		case *Instance:
			if _, ok := seenName[x.Base]; !ok {
				seenName[x.Base] = struct{}{}
				out = append(out, x.Base)
			}
		}
		for _, c := range Children(t) {
			walk(c)
		}
	}
	walk(t)
	return out
}

// ---- literal value identity ----

// LiteralEqual implements the exact-match semantics of literal descriptors.
// Numeric values compare across representations (int 1, float64 1.0 and
// json.Number "1" are the same literal); everything else compares by ==.
func LiteralEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if an, aok := numericValue(a); aok {
		bn, bok := numericValue(b)
		if !bok {
			return false
		}
		return an.Cmp(bn) == 0
	}
	return a == b
}

// LiteralKey renders a canonical identity string for a literal value, used by
// Hash and by the normalizer's dedup signature.
func LiteralKey(v any) string {
	if v == nil {
		return "null"
	}
	if n, ok := numericValue(v); ok {
		return "n:" + n.Text('g', -1)
	}
	switch x := v.(type) {
	case string:
		return "s:" + x
	case bool:
		return "b:" + strconv.FormatBool(x)
	default:
		return "?:" + LiteralGoString(v)
	}
}

// LiteralGoString renders a literal for diagnostics.
func LiteralGoString(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case json.Number:
		return x.String()
	default:
		if n, ok := numericValue(v); ok {
			return n.Text('g', -1)
		}
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b)
		}
		return "<non-scalar>"
	}
}

// numericValue widens any supported numeric representation to *big.Float so
// cross-representation comparison is exact.
func numericValue(v any) (*big.Float, bool) {
	switch x := v.(type) {
	case int:
		return new(big.Float).SetInt64(int64(x)), true
	case int8:
		return new(big.Float).SetInt64(int64(x)), true
	case int16:
		return new(big.Float).SetInt64(int64(x)), true
	case int32:
		return new(big.Float).SetInt64(int64(x)), true
	case int64:
		return new(big.Float).SetInt64(x), true
	case uint:
		return new(big.Float).SetUint64(uint64(x)), true
	case uint8:
		return new(big.Float).SetUint64(uint64(x)), true
	case uint16:
		return new(big.Float).SetUint64(uint64(x)), true
	case uint32:
		return new(big.Float).SetUint64(uint64(x)), true
	case uint64:
		return new(big.Float).SetUint64(x), true
	case float32:
		if math.IsNaN(float64(x)) {
			return nil, false
		}
		return new(big.Float).SetFloat64(float64(x)), true
	case float64:
		if math.IsNaN(x) {
			return nil, false
		}
		return new(big.Float).SetFloat64(x), true
	case json.Number:
		f, _, err := big.ParseFloat(x.String(), 10, 256, big.ToNearestEven)
		if err != nil {
			return nil, false
		}
		return f, true
	case *big.Int:
		return new(big.Float).SetInt(x), true
	default:
		return nil, false
	}
}

// NumericValue widens a supported numeric representation to *big.Float, the
// identity LiteralEqual compares numbers under.
func NumericValue(v any) (*big.Float, bool) { return numericValue(v) }

// IsScalarLiteral reports whether v is a value a Literal descriptor may
// carry.
func IsScalarLiteral(v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case string, bool:
		return true
	}
	_, ok := numericValue(v)
	return ok
}
