// Package compile lowers a normalized descriptor graph into composable
// validation procedures and runs them against untyped values. This package is
// internal; the root package wraps it with the public entry points.
package compile

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
)

// Issue codes. Kept as plain strings to decouple this layer from the public
// error model; the root package re-exports matching constants.
const (
	CodeInvalidType    = "invalid_type"
	CodeInvalidLiteral = "invalid_literal"
	CodeRequired       = "required"
	CodeUnknownKey     = "unknown_key"
	CodeArityMismatch  = "arity_mismatch"
	CodeUnionMismatch  = "union_mismatch"
	CodeUnreachable    = "unreachable"
)

// Issue is one validation failure with its navigation path already rendered
// as a JSON Pointer. Depth is the number of path segments at the failure
// point; unions use it to rank branch failures.
type Issue struct {
	Path   string
	Code   string
	Hint   string
	Params map[string]any
	Depth  int
}

// Options configure one top-level run.
type Options struct {
	// Strict rejects object keys not accounted for by declared properties
	// or an index signature, at every object level reached.
	Strict bool
	// FailFast stops at the first failure; used by the boolean call shape.
	FailFast bool
}

type guardKey struct {
	node  int
	value uintptr
}

// Runtime is the per-call validation context: mode flags, the mutable path
// stack, and the recursion guard for cyclic values. A fresh Runtime is
// created for every top-level call, so compiled procedures stay stateless.
type Runtime struct {
	opt    Options
	path   []string
	seen   map[guardKey]struct{}
	issues []Issue
	// passed counts leaf-level successes; unions use it as a tie-break for
	// "most specific branch" when failure depths are equal.
	passed int
}

func newRuntime(opt Options) *Runtime {
	return &Runtime{opt: opt}
}

func (rt *Runtime) push(seg string) { rt.path = append(rt.path, seg) }
func (rt *Runtime) pop()            { rt.path = rt.path[:len(rt.path)-1] }

func (rt *Runtime) depth() int { return len(rt.path) }

// pointer renders the current path as a JSON Pointer ("/" at the root).
func (rt *Runtime) pointer() string {
	if len(rt.path) == 0 {
		return "/"
	}
	return "/" + strings.Join(rt.path, "/")
}

func (rt *Runtime) fail(code, hint string, params map[string]any) bool {
	rt.issues = append(rt.issues, Issue{
		Path:   rt.pointer(),
		Code:   code,
		Hint:   hint,
		Params: params,
		Depth:  rt.depth(),
	})
	return false
}

func (rt *Runtime) pass() bool {
	rt.passed++
	return true
}

// enter registers a (node, value) pair in the recursion guard. It reports
// ok=false when the pair is already on the stack, meaning a value cycle was
// re-entered and the check must be treated as a pass.
func (rt *Runtime) enter(node int, v any) (release func(), ok bool) {
	id, guardable := valueIdentity(v)
	if !guardable {
		return func() {}, true
	}
	key := guardKey{node: node, value: id}
	if rt.seen == nil {
		rt.seen = map[guardKey]struct{}{}
	}
	if _, active := rt.seen[key]; active {
		return nil, false
	}
	rt.seen[key] = struct{}{}
	return func() { delete(rt.seen, key) }, true
}

// valueIdentity returns a stable identity for container values. Scalars have
// no identity and cannot participate in value cycles.
func valueIdentity(v any) (uintptr, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer:
		return rv.Pointer(), true
	default:
		return 0, false
	}
}

// ---- runtime kind probing ----

// kindName names the runtime kind of v for diagnostics.
func kindName(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return "number"
	case *big.Int:
		return "bigint"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", x)
	}
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return true
	}
	return false
}

func isBigInt(v any) bool {
	switch x := v.(type) {
	case *big.Int:
		return true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case json.Number:
		_, ok := new(big.Int).SetString(x.String(), 10)
		return ok
	}
	return false
}
