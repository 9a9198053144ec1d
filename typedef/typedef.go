// Package typedef imports descriptor sets from YAML or JSON documents using
// a JSON-Schema-flavoured syntax. A document declares named types and an
// optional root:
//
//	types:
//	  Category:
//	    type: object
//	    properties:
//	      name: { type: string }
//	      children: { type: array, items: { $ref: Category } }
//	    required: [name, children]
//	root: Category
//
// Supported keywords: type (string, number, boolean, null, bigint, any,
// unknown, never, object, array), const, enum, oneOf/anyOf, allOf, $ref,
// properties/required/additionalProperties, items, prefixItems (tuples, with
// items as the variadic tail), and nullable. Properties import in sorted
// name order, since YAML/JSON mappings decode without order.
//
// Generic definitions are deliberately not expressible here; they are an API
// level feature (desc.Registry.DefineGeneric).
package typedef

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/typeguard/desc"
)

// Set is an imported descriptor collection sharing one resolution scope.
type Set struct {
	reg   *desc.Registry
	root  desc.Type
	names []string
}

// Registry exposes the resolution scope the set was imported into.
func (s *Set) Registry() *desc.Registry { return s.reg }

// Names returns the imported type names in sorted order.
func (s *Set) Names() []string { return append([]string(nil), s.names...) }

// Root returns the document's root descriptor, if one was declared.
func (s *Set) Root() (desc.Type, bool) { return s.root, s.root != nil }

// Lookup returns a reference to a named type from the document.
func (s *Set) Lookup(name string) (desc.Type, bool) {
	if _, ok := s.reg.Lookup(name); !ok {
		return nil, false
	}
	return s.reg.Ref(name), true
}

// ImportJSON imports a descriptor document from JSON bytes.
func ImportJSON(data []byte) (*Set, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("typedef: invalid JSON: %w", err)
	}
	m, ok := normalizeMap(doc)
	if !ok {
		return nil, errors.New("typedef: document root must be a mapping")
	}
	return Import(m)
}

// Import builds a Set from an already-decoded document. The document either
// carries a "types" mapping (plus optional "root" name), or is itself a
// single anonymous schema, which becomes the root.
func Import(doc map[string]any) (*Set, error) {
	s := &Set{reg: desc.NewRegistry()}
	typesRaw, hasTypes := doc["types"]
	if !hasTypes {
		t, err := s.importType(doc)
		if err != nil {
			return nil, err
		}
		s.root = t
		return s, nil
	}
	types, ok := normalizeMap(typesRaw)
	if !ok {
		return nil, errors.New(`typedef: "types" must be a mapping`)
	}
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		body, ok := normalizeMap(types[name])
		if !ok {
			return nil, fmt.Errorf("typedef: type %q must be a mapping", name)
		}
		t, err := s.importType(body)
		if err != nil {
			return nil, fmt.Errorf("typedef: type %q: %w", name, err)
		}
		if err := s.reg.Define(name, t); err != nil {
			return nil, err
		}
	}
	s.names = names
	if rootName, ok := doc["root"].(string); ok {
		if _, defined := s.reg.Lookup(rootName); !defined {
			return nil, fmt.Errorf("typedef: root %q is not defined under types", rootName)
		}
		s.root = s.reg.Ref(rootName)
	}
	return s, nil
}

func (s *Set) importType(m map[string]any) (desc.Type, error) {
	t, err := s.importCore(m)
	if err != nil {
		return nil, err
	}
	if nullable, _ := m["nullable"].(bool); nullable {
		t = desc.Nullable(t)
	}
	return t, nil
}

func (s *Set) importCore(m map[string]any) (desc.Type, error) {
	if ref, ok := m["$ref"].(string); ok {
		return s.reg.Ref(refName(ref)), nil
	}
	if v, ok := m["const"]; ok {
		return desc.LiteralOf(v), nil
	}
	if vs, ok := m["enum"].([]any); ok {
		return desc.EnumOf(vs...), nil
	}
	if ms, ok := m["oneOf"].([]any); ok {
		return s.importMembers(ms, func(members ...desc.Type) desc.Type {
			return desc.UnionOf(members...)
		})
	}
	if ms, ok := m["anyOf"].([]any); ok {
		return s.importMembers(ms, func(members ...desc.Type) desc.Type {
			return desc.UnionOf(members...)
		})
	}
	if ms, ok := m["allOf"].([]any); ok {
		return s.importMembers(ms, func(members ...desc.Type) desc.Type {
			return desc.IntersectionOf(members...)
		})
	}
	if ps, ok := m["prefixItems"].([]any); ok {
		return s.importTuple(ps, m["items"])
	}
	kind, _ := m["type"].(string)
	switch kind {
	case "string":
		return desc.String(), nil
	case "number", "integer":
		return desc.Number(), nil
	case "boolean":
		return desc.Bool(), nil
	case "null":
		return desc.Null(), nil
	case "bigint":
		return desc.BigInt(), nil
	case "any":
		return desc.Any(), nil
	case "unknown":
		return desc.Unknown(), nil
	case "never":
		return desc.Never(), nil
	case "array":
		return s.importArray(m)
	case "object":
		return s.importObject(m)
	case "":
		return nil, errors.New("schema needs a type, $ref, const, enum, oneOf, allOf or prefixItems")
	default:
		return nil, fmt.Errorf("unsupported type %q", kind)
	}
}

func (s *Set) importMembers(raw []any, combine func(...desc.Type) desc.Type) (desc.Type, error) {
	if len(raw) == 0 {
		return nil, errors.New("member list must not be empty")
	}
	members := make([]desc.Type, 0, len(raw))
	for i, r := range raw {
		mm, ok := normalizeMap(r)
		if !ok {
			return nil, fmt.Errorf("member %d must be a mapping", i)
		}
		t, err := s.importType(mm)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		members = append(members, t)
	}
	return combine(members...), nil
}

func (s *Set) importArray(m map[string]any) (desc.Type, error) {
	items, ok := normalizeMap(m["items"])
	if !ok {
		return desc.ArrayOf(desc.Any()), nil
	}
	elem, err := s.importType(items)
	if err != nil {
		return nil, fmt.Errorf("items: %w", err)
	}
	return desc.ArrayOf(elem), nil
}

func (s *Set) importTuple(prefix []any, itemsRaw any) (desc.Type, error) {
	elems := make([]desc.Type, 0, len(prefix))
	for i, r := range prefix {
		mm, ok := normalizeMap(r)
		if !ok {
			return nil, fmt.Errorf("prefixItems[%d] must be a mapping", i)
		}
		t, err := s.importType(mm)
		if err != nil {
			return nil, fmt.Errorf("prefixItems[%d]: %w", i, err)
		}
		elems = append(elems, t)
	}
	tup := desc.TupleOf(elems...)
	if items, ok := normalizeMap(itemsRaw); ok {
		rest, err := s.importType(items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		tup = tup.WithRest(rest)
	}
	return tup, nil
}

func (s *Set) importObject(m map[string]any) (desc.Type, error) {
	b := desc.NewObject()
	required := map[string]struct{}{}
	if rs, ok := m["required"].([]any); ok {
		for _, r := range rs {
			if name, ok := r.(string); ok {
				required[name] = struct{}{}
			}
		}
	}
	if propsRaw, ok := normalizeMap(m["properties"]); ok {
		names := make([]string, 0, len(propsRaw))
		for name := range propsRaw {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			pm, ok := normalizeMap(propsRaw[name])
			if !ok {
				return nil, fmt.Errorf("property %q must be a mapping", name)
			}
			pt, err := s.importType(pm)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			f := b.Field(name, pt)
			if _, req := required[name]; !req {
				b = f.Optional()
			} else {
				b = f.Done()
			}
		}
	}
	// additionalProperties: a schema becomes a string index signature;
	// booleans are ignored because open/closed is a runtime mode here.
	if ap, ok := normalizeMap(m["additionalProperties"]); ok {
		elem, err := s.importType(ap)
		if err != nil {
			return nil, fmt.Errorf("additionalProperties: %w", err)
		}
		b.IndexSignature(desc.IndexString, elem)
	}
	return b.Build()
}

// refName strips JSON-Pointer-style prefixes so both "$ref: Category" and
// "$ref: #/types/Category" resolve the same name.
func refName(ref string) string {
	ref = strings.TrimPrefix(ref, "#/")
	ref = strings.TrimPrefix(ref, "types/")
	ref = strings.TrimPrefix(ref, "$defs/")
	return ref
}

// normalizeMap widens YAML's historical map[any]any form into map[string]any.
func normalizeMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}
