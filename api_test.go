package typeguard_test

import (
	"math/big"
	"testing"

	json "github.com/goccy/go-json"

	typeguard "github.com/reoring/typeguard"
	"github.com/reoring/typeguard/desc"
)

func TestCheck_PrimitiveKinds(t *testing.T) {
	values := map[string]any{
		"string":  "hello",
		"number":  3.14,
		"boolean": true,
		"null":    nil,
		"bigint":  big.NewInt(42),
		"array":   []any{1.0},
		"object":  map[string]any{},
	}
	cases := []struct {
		name string
		d    desc.Type
		pass []string // keys into values that must pass; the rest must fail
	}{
		{"string", desc.String(), []string{"string"}},
		{"number", desc.Number(), []string{"number"}},
		{"boolean", desc.Bool(), []string{"boolean"}},
		{"null", desc.Null(), []string{"null"}},
		{"bigint", desc.BigInt(), []string{"bigint"}},
		{"never", desc.Never(), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := typeguard.MustCompile(tc.d)
			allowed := map[string]bool{}
			for _, k := range tc.pass {
				allowed[k] = true
			}
			for name, val := range values {
				got := v.Check(val)
				if got != allowed[name] {
					t.Fatalf("Check(%s, %s) = %v, want %v", tc.name, name, got, allowed[name])
				}
			}
		})
	}
}

func TestCheck_NumberRepresentations(t *testing.T) {
	v := typeguard.MustCompile(desc.Number())
	for _, val := range []any{3.0, float32(3), 3, int64(3), uint(3), json.Number("3")} {
		if !v.Check(val) {
			t.Fatalf("expected %T(%v) to be a number", val, val)
		}
	}
	if v.Check("3") {
		t.Fatalf("string must not pass number")
	}
}

func TestCheck_AnyUnknownPassEverything(t *testing.T) {
	for _, d := range []desc.Type{desc.Any(), desc.Unknown()} {
		v := typeguard.MustCompile(d)
		for _, val := range []any{nil, "x", 1.0, true, []any{}, map[string]any{"k": 1.0}} {
			if !v.Check(val) {
				t.Fatalf("%s must pass %#v", d.Kind(), val)
			}
		}
	}
}

func TestCheck_Literal(t *testing.T) {
	v := typeguard.MustCompile(desc.LiteralOf("on"))
	if !v.Check("on") || v.Check("off") || v.Check(1.0) {
		t.Fatalf("literal semantics broken")
	}

	// numbers compare across representations
	n := typeguard.MustCompile(desc.LiteralOf(1))
	if !n.Check(1.0) || !n.Check(json.Number("1")) || n.Check(2.0) {
		t.Fatalf("numeric literal must match across representations")
	}
}

func TestCheck_Object(t *testing.T) {
	user := desc.NewObject().
		Field("name", desc.String()).
		Field("age", desc.Number()).Optional().
		MustBuild()
	v := typeguard.MustCompile(user)

	if !v.Check(map[string]any{"name": "ann"}) {
		t.Fatalf("optional property may be absent")
	}
	if !v.Check(map[string]any{"name": "ann", "age": 30.0}) {
		t.Fatalf("full object must pass")
	}
	if v.Check(map[string]any{"age": 30.0}) {
		t.Fatalf("missing required property must fail")
	}
	if v.Check([]any{"ann"}) || v.Check(nil) {
		t.Fatalf("non-object values must fail")
	}
	// unknown keys are allowed outside strict mode
	if !v.Check(map[string]any{"name": "ann", "extra": true}) {
		t.Fatalf("unknown keys pass in non-strict mode")
	}
}

func TestCheck_ObjectIndexSignature(t *testing.T) {
	scores := desc.NewObject().
		Field("id", desc.String()).
		IndexSignature(desc.IndexString, desc.Number()).
		MustBuild()
	v := typeguard.MustCompile(scores)

	if !v.Check(map[string]any{"id": "a", "math": 90.0, "art": 75.0}) {
		t.Fatalf("index signature values must validate")
	}
	if v.Check(map[string]any{"id": "a", "math": "ninety"}) {
		t.Fatalf("index signature mismatch must fail")
	}
	// declared properties are not constrained by the signature
	if v.Check(map[string]any{"id": 1.0}) {
		t.Fatalf("declared property keeps its own descriptor")
	}
}

func TestCheck_NumberIndexSignature(t *testing.T) {
	sparse := desc.NewObject().
		IndexSignature(desc.IndexNumber, desc.String()).
		MustBuild()
	v := typeguard.MustCompile(sparse)

	if !v.Check(map[string]any{"0": "a", "42": "b"}) {
		t.Fatalf("numeric keys must validate against the signature")
	}
	if v.Check(map[string]any{"0": 1.0}) {
		t.Fatalf("signature element mismatch must fail")
	}
	// non-numeric keys are outside the signature; only strict mode rejects them
	if !v.Check(map[string]any{"name": 1.0}) {
		t.Fatalf("non-numeric key passes in non-strict mode")
	}
	if v.Equals(map[string]any{"name": "x"}) {
		t.Fatalf("non-numeric key is superfluous in strict mode")
	}
}

func TestValidate_PathsAndMessages(t *testing.T) {
	item := desc.NewObject().
		Field("name", desc.String()).
		MustBuild()
	root := desc.NewObject().
		Field("items", desc.ArrayOf(item)).
		MustBuild()
	v := typeguard.MustCompile(root)

	iss := v.Validate(map[string]any{
		"items": []any{
			map[string]any{"name": "ok"},
			map[string]any{"name": "ok"},
			map[string]any{"name": 7.0},
		},
	})
	if len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", iss)
	}
	if iss[0].Path != "/items/2/name" {
		t.Fatalf("unexpected path %q", iss[0].Path)
	}
	if iss[0].Code != typeguard.CodeInvalidType {
		t.Fatalf("unexpected code %q", iss[0].Code)
	}
	if iss[0].Message != "expected string, got number" {
		t.Fatalf("unexpected message %q", iss[0].Message)
	}
}

func TestValidate_MessageRenderingDisabled(t *testing.T) {
	typeguard.SetErrorMessages(false)
	defer typeguard.SetErrorMessages(true)

	iss := typeguard.Validate(desc.String(), 1.0)
	if len(iss) != 1 || iss[0].Message != "" {
		t.Fatalf("expected unrendered issue, got %v", iss)
	}
	if iss[0].Code != typeguard.CodeInvalidType || iss[0].Path != "/" {
		t.Fatalf("code and path must survive without rendering: %v", iss)
	}
}

func TestAssert_ReturnsValueOrError(t *testing.T) {
	d := desc.NewObject().Field("x", desc.String()).MustBuild()

	in := map[string]any{"x": "a"}
	out, err := typeguard.Assert(d, in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m, ok := out.(map[string]any); !ok || m["x"] != "a" {
		t.Fatalf("assert must return the original value, got %#v", out)
	}

	_, err = typeguard.Assert(d, map[string]any{})
	if err == nil {
		t.Fatalf("expected error")
	}
	iss, ok := typeguard.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != typeguard.CodeRequired {
		t.Fatalf("expected required issue, got %v", err)
	}
}

func TestShortCircuit_AlwaysPasses(t *testing.T) {
	typeguard.SetShortCircuit(true)
	defer typeguard.SetShortCircuit(false)
	if !typeguard.ShortCircuit() {
		t.Fatalf("mode getter must reflect the setter")
	}

	d := desc.NewObject().Field("x", desc.String()).MustBuild()
	if !typeguard.Check(d, nil) || !typeguard.Equals(d, 42.0) {
		t.Fatalf("short-circuit mode must pass everything")
	}
	if iss := typeguard.Validate(d, "nope"); iss != nil {
		t.Fatalf("short-circuit mode must report no issues, got %v", iss)
	}
}

func TestCompile_Idempotent(t *testing.T) {
	d := desc.NewObject().Field("x", desc.String()).MustBuild()
	v1 := typeguard.MustCompile(d)
	// A structurally identical but distinct descriptor hits the cache too.
	v2 := typeguard.MustCompile(desc.NewObject().Field("x", desc.String()).MustBuild())

	for _, val := range []any{map[string]any{"x": "a"}, map[string]any{}, "x", nil} {
		if v1.Check(val) != v2.Check(val) {
			t.Fatalf("validators disagree on %#v", val)
		}
	}
}

func TestCompile_MalformedDescriptor(t *testing.T) {
	reg := desc.NewRegistry()
	_, err := typeguard.Compile(reg.Ref("Nope"))
	if err == nil {
		t.Fatalf("unresolved reference must fail at compile time")
	}
}
