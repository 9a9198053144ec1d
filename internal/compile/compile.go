package compile

import (
	"sort"
	"strconv"

	"github.com/reoring/typeguard/desc"
	"github.com/reoring/typeguard/internal/norm"
)

// proc is one compiled validation procedure. It reports conformance and, on
// failure, appends issues to the runtime.
type proc func(v any, rt *Runtime) bool

// Validator is an immutable compiled program. It is safe for concurrent use;
// every Run owns its own Runtime.
type Validator struct {
	root proc
}

// Compile lowers a normalized program into a Validator. Each node compiles
// exactly once into an arena indexed by node ID; references that form cycles
// compile into a lazy indexed call instead of expanding.
func Compile(p *norm.Program) *Validator {
	c := &compiler{
		procs: make([]proc, len(p.Nodes)),
		state: make([]uint8, len(p.Nodes)),
	}
	root := c.ensure(p.Root)
	return &Validator{root: root}
}

// Run validates v with a fresh runtime and returns the collected issues, nil
// on conformance.
func (vd *Validator) Run(v any, opt Options) []Issue {
	rt := newRuntime(opt)
	if vd.root(v, rt) {
		return nil
	}
	return rt.issues
}

type compiler struct {
	procs []proc
	state []uint8 // 0 unbuilt, 1 building, 2 built
}

// ensure returns a proc for the node, building it on first use. While a node
// is still building (a reference cycle), callers get an indexed trampoline
// that resolves when the build completes.
func (c *compiler) ensure(n *norm.Node) proc {
	switch c.state[n.ID] {
	case 2:
		return c.procs[n.ID]
	case 1:
		id := n.ID
		return func(v any, rt *Runtime) bool { return c.procs[id](v, rt) }
	}
	c.state[n.ID] = 1
	c.procs[n.ID] = c.build(n)
	c.state[n.ID] = 2
	return c.procs[n.ID]
}

func (c *compiler) build(n *norm.Node) proc {
	body := c.buildBody(n)
	if !n.Recursive {
		return body
	}
	// Recursive definitions guard on (node, value identity) so cyclic data
	// terminates. Re-entering the same pair during one call passes; this is
	// a documented relaxation, not a soundness guarantee for cyclic data.
	id := n.ID
	return func(v any, rt *Runtime) bool {
		release, ok := rt.enter(id, v)
		if !ok {
			return true
		}
		defer release()
		return body(v, rt)
	}
}

func (c *compiler) buildBody(n *norm.Node) proc {
	switch n.Kind {
	case desc.KindString:
		return func(v any, rt *Runtime) bool {
			if _, ok := v.(string); ok {
				return rt.pass()
			}
			return rt.failType("string", v)
		}
	case desc.KindNumber:
		return func(v any, rt *Runtime) bool {
			if isNumber(v) {
				return rt.pass()
			}
			return rt.failType("number", v)
		}
	case desc.KindBool:
		return func(v any, rt *Runtime) bool {
			if _, ok := v.(bool); ok {
				return rt.pass()
			}
			return rt.failType("boolean", v)
		}
	case desc.KindNull:
		return func(v any, rt *Runtime) bool {
			if v == nil {
				return rt.pass()
			}
			return rt.failType("null", v)
		}
	case desc.KindUndefined:
		// A present value never satisfies absence; optional properties are
		// handled at the object level before procedures run.
		return func(v any, rt *Runtime) bool {
			return rt.failType("undefined", v)
		}
	case desc.KindBigInt:
		return func(v any, rt *Runtime) bool {
			if isBigInt(v) {
				return rt.pass()
			}
			return rt.failType("bigint", v)
		}
	case desc.KindAny, desc.KindUnknown:
		return func(v any, rt *Runtime) bool { return rt.pass() }
	case desc.KindNever:
		return func(v any, rt *Runtime) bool {
			return rt.fail(CodeUnreachable, "never admits no value", nil)
		}
	case desc.KindLiteral:
		want := n.Literal
		rendered := desc.LiteralGoString(want)
		return func(v any, rt *Runtime) bool {
			if desc.LiteralEqual(want, v) {
				return rt.pass()
			}
			return rt.fail(CodeInvalidLiteral, "expected literal "+rendered, map[string]any{
				"expected": rendered,
				"got":      desc.LiteralGoString(v),
			})
		}
	case desc.KindArray:
		return c.buildArray(n)
	case desc.KindTuple:
		return c.buildTuple(n)
	case desc.KindObject:
		return c.buildObject(n)
	case desc.KindUnion:
		return c.buildUnion(n)
	case desc.KindIntersection:
		return c.buildIntersection(n)
	default:
		// Normalization guarantees no Ref/Instance/Param nodes survive.
		return func(v any, rt *Runtime) bool {
			return rt.fail(CodeUnreachable, "uncompilable node", nil)
		}
	}
}

func (rt *Runtime) failType(expected string, v any) bool {
	got := kindName(v)
	return rt.fail(CodeInvalidType, "expected "+expected+", got "+got, map[string]any{
		"expected": expected,
		"got":      got,
	})
}

func (c *compiler) buildArray(n *norm.Node) proc {
	elem := c.ensure(n.Elem)
	return func(v any, rt *Runtime) bool {
		arr, ok := v.([]any)
		if !ok {
			return rt.failType("array", v)
		}
		allOK := true
		for i, ev := range arr {
			rt.push(strconv.Itoa(i))
			ok := elem(ev, rt)
			rt.pop()
			if !ok {
				allOK = false
				if rt.opt.FailFast {
					return false
				}
			}
		}
		return allOK
	}
}

func (c *compiler) buildTuple(n *norm.Node) proc {
	elems := make([]proc, len(n.Elems))
	for i, e := range n.Elems {
		elems[i] = c.ensure(e)
	}
	var rest proc
	if n.Rest != nil {
		rest = c.ensure(n.Rest)
	}
	arity := len(n.Elems)
	return func(v any, rt *Runtime) bool {
		arr, ok := v.([]any)
		if !ok {
			return rt.failType("tuple", v)
		}
		if len(arr) < arity || (rest == nil && len(arr) > arity) {
			return rt.fail(CodeArityMismatch, "tuple arity mismatch", map[string]any{
				"expected": arity,
				"got":      len(arr),
				"variadic": rest != nil,
			})
		}
		allOK := true
		for i, p := range elems {
			rt.push(strconv.Itoa(i))
			ok := p(arr[i], rt)
			rt.pop()
			if !ok {
				allOK = false
				if rt.opt.FailFast {
					return false
				}
			}
		}
		if rest != nil {
			for i := arity; i < len(arr); i++ {
				rt.push(strconv.Itoa(i))
				ok := rest(arr[i], rt)
				rt.pop()
				if !ok {
					allOK = false
					if rt.opt.FailFast {
						return false
					}
				}
			}
		}
		return allOK
	}
}

func (c *compiler) buildObject(n *norm.Node) proc {
	type field struct {
		name     string
		proc     proc
		optional bool
	}
	fields := make([]field, len(n.Props))
	declared := make(map[string]struct{}, len(n.Props))
	for i, p := range n.Props {
		fields[i] = field{name: p.Name, proc: c.ensure(p.Node), optional: p.Optional}
		declared[p.Name] = struct{}{}
	}
	var index proc
	var indexKey desc.IndexKey
	if n.Index != nil {
		index = c.ensure(n.Index.Elem)
		indexKey = n.Index.Key
	}
	return func(v any, rt *Runtime) bool {
		m, ok := v.(map[string]any)
		if !ok {
			return rt.failType("object", v)
		}
		allOK := true
		for _, f := range fields {
			fv, present := m[f.name]
			if !present {
				if f.optional {
					continue
				}
				rt.push(f.name)
				rt.fail(CodeRequired, "required property missing", map[string]any{"key": f.name})
				rt.pop()
				allOK = false
				if rt.opt.FailFast {
					return false
				}
				continue
			}
			rt.push(f.name)
			ok := f.proc(fv, rt)
			rt.pop()
			if !ok {
				allOK = false
				if rt.opt.FailFast {
					return false
				}
			}
		}
		// Undeclared keys, in sorted order for deterministic diagnostics.
		var extras []string
		for k := range m {
			if _, known := declared[k]; !known {
				extras = append(extras, k)
			}
		}
		sort.Strings(extras)
		for _, k := range extras {
			if index != nil && indexKeyMatches(indexKey, k) {
				rt.push(k)
				ok := index(m[k], rt)
				rt.pop()
				if !ok {
					allOK = false
					if rt.opt.FailFast {
						return false
					}
				}
				continue
			}
			if rt.opt.Strict {
				rt.push(k)
				rt.fail(CodeUnknownKey, "property not declared", map[string]any{"key": k})
				rt.pop()
				allOK = false
				if rt.opt.FailFast {
					return false
				}
			}
		}
		return allOK
	}
}

// indexKeyMatches reports whether key k belongs to the index signature's key
// family. Number signatures cover keys that parse as numbers.
func indexKeyMatches(key desc.IndexKey, k string) bool {
	if key == desc.IndexString {
		return true
	}
	_, err := strconv.ParseFloat(k, 64)
	return err == nil
}

func (c *compiler) buildUnion(n *norm.Node) proc {
	members := make([]proc, len(n.Elems))
	for i, m := range n.Elems {
		members[i] = c.ensure(m)
	}
	return func(v any, rt *Runtime) bool {
		mark := len(rt.issues)
		here := rt.depth()
		bestDepth := -1
		bestPassed := -1
		var best []Issue
		for _, m := range members {
			passedBefore := rt.passed
			if m(v, rt) {
				// First passing member wins; discard branch failures.
				rt.issues = rt.issues[:mark]
				return true
			}
			branch := rt.issues[mark:]
			depth := here
			for _, is := range branch {
				if is.Depth > depth {
					depth = is.Depth
				}
			}
			passed := rt.passed - passedBefore
			// Deepest partial match wins; equal depths fall back to how much
			// of the branch matched, then to declaration order.
			if depth > bestDepth || (depth == bestDepth && passed > bestPassed) {
				bestDepth = depth
				bestPassed = passed
				best = append([]Issue(nil), branch...)
			}
			rt.issues = rt.issues[:mark]
		}
		if bestDepth > here {
			rt.issues = append(rt.issues, best...)
			return false
		}
		return rt.fail(CodeUnionMismatch, "no union member matched", map[string]any{
			"members": len(members),
			"got":     kindName(v),
		})
	}
}

func (c *compiler) buildIntersection(n *norm.Node) proc {
	members := make([]proc, len(n.Elems))
	for i, m := range n.Elems {
		members[i] = c.ensure(m)
	}
	return func(v any, rt *Runtime) bool {
		for _, m := range members {
			// Members evaluate independently against the same value; the
			// first failing member is the one reported.
			if !m(v, rt) {
				return false
			}
		}
		return true
	}
}
