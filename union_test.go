package typeguard_test

import (
	"testing"

	typeguard "github.com/reoring/typeguard"
	"github.com/reoring/typeguard/desc"
)

func TestUnion_FirstMatchWins(t *testing.T) {
	v := typeguard.MustCompile(desc.UnionOf(desc.String(), desc.Number()))
	if !v.Check("x") || !v.Check(1.0) {
		t.Fatalf("union members must pass")
	}
	if v.Check(true) {
		t.Fatalf("non-member must fail")
	}
}

func TestUnion_GenericMismatchAtRoot(t *testing.T) {
	v := typeguard.MustCompile(desc.UnionOf(desc.String(), desc.Number()))
	iss := v.Validate(true)
	if len(iss) != 1 || iss[0].Code != typeguard.CodeUnionMismatch {
		t.Fatalf("expected union_mismatch, got %v", iss)
	}
	if iss[0].Path != "/" {
		t.Fatalf("root mismatch reports at root, got %q", iss[0].Path)
	}
}

func TestUnion_DeepestBranchDiagnostic(t *testing.T) {
	first := desc.NewObject().Field("a", desc.String()).MustBuild()
	second := desc.NewObject().
		Field("a", desc.Number()).
		Field("b", desc.String()).
		MustBuild()
	v := typeguard.MustCompile(desc.UnionOf(first, second))

	// {"a": 1} fails both branches, but the second matched more of the
	// value (its "a" is a number), so its failure is the one reported.
	iss := v.Validate(map[string]any{"a": 1.0})
	if len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", iss)
	}
	if iss[0].Code != typeguard.CodeRequired || iss[0].Path != "/b" {
		t.Fatalf("expected the second branch's missing-b failure, got %v", iss[0])
	}
}

func TestUnion_DeeperPathBeatsShallower(t *testing.T) {
	shallow := desc.Number()
	deep := desc.NewObject().
		Field("inner", desc.NewObject().Field("leaf", desc.String()).MustBuild()).
		MustBuild()
	v := typeguard.MustCompile(desc.UnionOf(shallow, deep))

	iss := v.Validate(map[string]any{"inner": map[string]any{"leaf": 1.0}})
	if len(iss) != 1 || iss[0].Path != "/inner/leaf" {
		t.Fatalf("expected the deep branch failure, got %v", iss)
	}
}

func TestUnion_TieBrokenByDeclarationOrder(t *testing.T) {
	first := desc.NewObject().Field("x", desc.String()).MustBuild()
	second := desc.NewObject().Field("y", desc.String()).MustBuild()
	v := typeguard.MustCompile(desc.UnionOf(first, second))

	// {} fails both with equally specific required issues; declaration
	// order decides.
	iss := v.Validate(map[string]any{})
	if len(iss) != 1 || iss[0].Path != "/x" {
		t.Fatalf("expected the first branch's failure, got %v", iss)
	}
}

func TestUnion_OptionalViaUndefinedMember(t *testing.T) {
	// Optional(t) is Union(t, undefined); present mismatching values fail,
	// and absence is handled at the object-property level.
	d := desc.NewObject().
		Field("note", desc.Optional(desc.String())).Optional().
		MustBuild()
	v := typeguard.MustCompile(d)

	if !v.Check(map[string]any{}) || !v.Check(map[string]any{"note": "x"}) {
		t.Fatalf("absent and matching present values must pass")
	}
	if v.Check(map[string]any{"note": 3.0}) {
		t.Fatalf("present non-string must fail")
	}
}
