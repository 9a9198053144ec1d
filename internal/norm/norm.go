// Package norm lowers a descriptor graph into a closed, deduplicated node
// arena the compiler can walk by identity. This package is internal and not
// part of the public API.
package norm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/typeguard/desc"
)

// Node is one normalized descriptor. Nodes form a graph that may be cyclic,
// but only through nodes marked Recursive (the ones minted for named or
// generic definitions); everything else is a tree over the arena.
type Node struct {
	ID   int
	Kind desc.Kind

	// Literal payload (KindLiteral).
	Literal any

	// Elem is the array element (KindArray).
	Elem *Node

	// Elems holds tuple positions, union members or intersection members.
	Elems []*Node
	// Rest is the tuple variadic tail, nil when absent.
	Rest *Node

	// Props and Index describe objects.
	Props []Prop
	Index *Index

	// Recursive marks nodes that may participate in a reference cycle. The
	// runtime recursion guard applies only to these.
	Recursive bool
	// Name is the definition name for recursive nodes, used in diagnostics.
	Name string
}

// Prop is a normalized object property. Readonly is dropped here: it has no
// runtime meaning.
type Prop struct {
	Name     string
	Node     *Node
	Optional bool
}

// Index is a normalized index signature.
type Index struct {
	Key  desc.IndexKey
	Elem *Node
}

// Program is a normalized descriptor graph with a designated root.
type Program struct {
	Root  *Node
	Nodes []*Node
}

type instKey struct {
	scope *desc.Registry
	base  string
	args  string // comma-joined normalized argument IDs
}

type namedKey struct {
	scope *desc.Registry
	name  string
}

type normalizer struct {
	arena []*Node
	// sig deduplicates structurally identical non-recursive subtrees.
	sig map[string]*Node
	// named maps a (scope, name) definition to its node; the node is
	// allocated before its body is walked so self-references tie back.
	named map[namedKey]*Node
	// insts memoizes generic instantiations by (base, argument IDs).
	insts map[instKey]*Node
	// visiting detects structural cycles not mediated by a Ref.
	visiting map[desc.Type]struct{}
	// instDepth caps generic expansion so an infinitely expanding
	// instantiation (List[T] -> List[Box[T]] -> ...) fails instead of
	// recursing forever.
	instDepth int
}

// maxInstDepth bounds nested generic expansion.
const maxInstDepth = 256

// Normalize resolves references and generic instantiations, deduplicates
// identical subtrees, and returns the closed node graph for t.
func Normalize(t desc.Type) (*Program, error) {
	n := &normalizer{
		sig:      map[string]*Node{},
		named:    map[namedKey]*Node{},
		insts:    map[instKey]*Node{},
		visiting: map[desc.Type]struct{}{},
	}
	root, err := n.walk(t, nil)
	if err != nil {
		return nil, err
	}
	return &Program{Root: root, Nodes: n.arena}, nil
}

// alloc places a node in the arena and assigns its ID.
func (n *normalizer) alloc(node *Node) *Node {
	node.ID = len(n.arena)
	n.arena = append(n.arena, node)
	return node
}

// intern commits a fully built non-recursive node, reusing a structurally
// identical one when present.
func (n *normalizer) intern(node *Node) *Node {
	key := signature(node)
	if prev, ok := n.sig[key]; ok {
		return prev
	}
	n.alloc(node)
	n.sig[key] = node
	return node
}

func (n *normalizer) walk(t desc.Type, env map[string]*Node) (*Node, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil descriptor", desc.ErrMalformedDescriptor)
	}
	switch t.Kind() {
	case desc.KindRef, desc.KindInstance, desc.KindParam:
		// Indirections carry their own cycle discipline below.
	default:
		if _, active := n.visiting[t]; active {
			return nil, fmt.Errorf("%w: %s revisited during expansion", desc.ErrCyclicWithoutReference, t.Kind())
		}
		n.visiting[t] = struct{}{}
		defer delete(n.visiting, t)
	}

	switch x := t.(type) {
	case *desc.Primitive:
		return n.intern(&Node{Kind: x.K}), nil
	case *desc.Literal:
		if !desc.IsScalarLiteral(x.Value) {
			return nil, fmt.Errorf("%w: literal value %T is not a scalar", desc.ErrMalformedDescriptor, x.Value)
		}
		return n.intern(&Node{Kind: desc.KindLiteral, Literal: x.Value}), nil
	case *desc.Array:
		elem, err := n.walk(x.Elem, env)
		if err != nil {
			return nil, err
		}
		return n.intern(&Node{Kind: desc.KindArray, Elem: elem}), nil
	case *desc.Tuple:
		elems, err := n.walkAll(x.Elems, env)
		if err != nil {
			return nil, err
		}
		var rest *Node
		if x.Rest != nil {
			if rest, err = n.walk(x.Rest, env); err != nil {
				return nil, err
			}
		}
		return n.intern(&Node{Kind: desc.KindTuple, Elems: elems, Rest: rest}), nil
	case *desc.Object:
		return n.walkObject(x, env)
	case *desc.Union:
		elems, err := n.walkAll(x.Members, env)
		if err != nil {
			return nil, err
		}
		return n.intern(&Node{Kind: desc.KindUnion, Elems: elems}), nil
	case *desc.Intersection:
		elems, err := n.walkAll(x.Members, env)
		if err != nil {
			return nil, err
		}
		return n.intern(&Node{Kind: desc.KindIntersection, Elems: elems}), nil
	case *desc.Ref:
		return n.walkRef(x, env)
	case *desc.Instance:
		return n.walkInstance(x, env)
	case *desc.Param:
		if bound, ok := env[x.Name]; ok {
			return bound, nil
		}
		return nil, fmt.Errorf("%w: %q", desc.ErrUnboundTypeParameter, x.Name)
	default:
		return nil, fmt.Errorf("%w: unsupported descriptor %T", desc.ErrMalformedDescriptor, t)
	}
}

func (n *normalizer) walkAll(ts []desc.Type, env map[string]*Node) ([]*Node, error) {
	out := make([]*Node, 0, len(ts))
	for _, t := range ts {
		c, err := n.walk(t, env)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (n *normalizer) walkObject(o *desc.Object, env map[string]*Node) (*Node, error) {
	seen := make(map[string]struct{}, len(o.Props))
	props := make([]Prop, 0, len(o.Props))
	for _, p := range o.Props {
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate property %q", desc.ErrMalformedDescriptor, p.Name)
		}
		seen[p.Name] = struct{}{}
		pn, err := n.walk(p.Type, env)
		if err != nil {
			return nil, err
		}
		props = append(props, Prop{Name: p.Name, Node: pn, Optional: p.Optional})
	}
	node := &Node{Kind: desc.KindObject, Props: props}
	if o.Index != nil {
		elem, err := n.walk(o.Index.Elem, env)
		if err != nil {
			return nil, err
		}
		node.Index = &Index{Key: o.Index.Key, Elem: elem}
	}
	return n.intern(node), nil
}

func (n *normalizer) walkRef(r *desc.Ref, env map[string]*Node) (*Node, error) {
	if r.Scope == nil {
		return nil, fmt.Errorf("%w: reference %q has no scope", desc.ErrMalformedDescriptor, r.Name)
	}
	key := namedKey{scope: r.Scope, name: r.Name}
	if node, ok := n.named[key]; ok {
		return node, nil
	}
	body, ok := r.Scope.Lookup(r.Name)
	if !ok {
		return nil, fmt.Errorf("%w: unresolved reference %q", desc.ErrMalformedDescriptor, r.Name)
	}
	// Allocate the definition node first so references inside the body,
	// direct or transitive, resolve to it instead of expanding forever.
	node := n.alloc(&Node{Recursive: true, Name: r.Name})
	n.named[key] = node
	built, err := n.walk(body, env)
	if err != nil {
		return nil, err
	}
	fill(node, built)
	return node, nil
}

func (n *normalizer) walkInstance(ins *desc.Instance, env map[string]*Node) (*Node, error) {
	if ins.Scope == nil {
		return nil, fmt.Errorf("%w: instantiation %q has no scope", desc.ErrMalformedDescriptor, ins.Base)
	}
	def, ok := ins.Scope.LookupGeneric(ins.Base)
	if !ok {
		return nil, fmt.Errorf("%w: unresolved generic %q", desc.ErrMalformedDescriptor, ins.Base)
	}
	if len(def.Params) != len(ins.Args) {
		return nil, fmt.Errorf("%w: %q wants %d argument(s), got %d",
			desc.ErrMalformedDescriptor, ins.Base, len(def.Params), len(ins.Args))
	}
	// Normalize arguments first; the memo key is their node identity, so a
	// recursive generic (List[T] referencing List[Box[T]]) still terminates.
	argNodes, err := n.walkAll(ins.Args, env)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(argNodes))
	for i, a := range argNodes {
		ids[i] = strconv.Itoa(a.ID)
	}
	key := instKey{scope: ins.Scope, base: ins.Base, args: strings.Join(ids, ",")}
	if node, ok := n.insts[key]; ok {
		return node, nil
	}
	n.instDepth++
	defer func() { n.instDepth-- }()
	if n.instDepth > maxInstDepth {
		return nil, fmt.Errorf("%w: generic %q expands without bound", desc.ErrCyclicWithoutReference, ins.Base)
	}
	binding := make(map[string]*Node, len(def.Params))
	for i, p := range def.Params {
		binding[p] = argNodes[i]
	}
	node := n.alloc(&Node{Recursive: true, Name: ins.Base})
	n.insts[key] = node
	built, err := n.walk(def.Body, binding)
	if err != nil {
		return nil, err
	}
	fill(node, built)
	return node, nil
}

// fill copies the substance of built into the pre-allocated definition node,
// keeping its ID, Recursive flag and Name.
func fill(dst, src *Node) {
	dst.Kind = src.Kind
	dst.Literal = src.Literal
	dst.Elem = src.Elem
	dst.Elems = src.Elems
	dst.Rest = src.Rest
	dst.Props = src.Props
	dst.Index = src.Index
}

// signature renders a structural identity string over already-normalized
// children. Only non-recursive nodes are interned, so child IDs are final.
func signature(node *Node) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(node.Kind)))
	switch node.Kind {
	case desc.KindLiteral:
		b.WriteByte('|')
		b.WriteString(desc.LiteralKey(node.Literal))
	case desc.KindArray:
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(node.Elem.ID))
	case desc.KindTuple, desc.KindUnion, desc.KindIntersection:
		for _, e := range node.Elems {
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(e.ID))
		}
		if node.Rest != nil {
			b.WriteString("|rest:")
			b.WriteString(strconv.Itoa(node.Rest.ID))
		}
	case desc.KindObject:
		for _, p := range node.Props {
			b.WriteByte(',')
			b.WriteString(strconv.Quote(p.Name))
			if p.Optional {
				b.WriteByte('?')
			}
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(p.Node.ID))
		}
		if node.Index != nil {
			b.WriteString("|idx")
			b.WriteString(strconv.Itoa(int(node.Index.Key)))
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(node.Index.Elem.ID))
		}
	}
	return b.String()
}
