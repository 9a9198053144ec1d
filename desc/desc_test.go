package desc_test

import (
	"errors"
	"testing"

	"github.com/reoring/typeguard/desc"
)

func TestObjectBuilder_DuplicateProperty(t *testing.T) {
	_, err := desc.NewObject().
		Field("x", desc.String()).
		Field("x", desc.Number()).
		Build()
	if !errors.Is(err, desc.ErrMalformedDescriptor) {
		t.Fatalf("expected ErrMalformedDescriptor, got %v", err)
	}
}

func TestObjectBuilder_PreservesOrderAndFlags(t *testing.T) {
	o := desc.NewObject().
		Field("b", desc.String()).Optional().
		Field("a", desc.Number()).Readonly().
		MustBuild()
	if len(o.Props) != 2 {
		t.Fatalf("expected two properties")
	}
	if o.Props[0].Name != "b" || !o.Props[0].Optional || o.Props[0].Readonly {
		t.Fatalf("unexpected first property %+v", o.Props[0])
	}
	if o.Props[1].Name != "a" || o.Props[1].Optional || !o.Props[1].Readonly {
		t.Fatalf("unexpected second property %+v", o.Props[1])
	}
}

func TestObjectBuilder_StepType(t *testing.T) {
	// the step Field returns is part of the API; it can be held, configured,
	// and chained back into the builder
	var step *desc.ObjectField = desc.NewObject().Field("x", desc.String())
	o := step.Readonly().Field("y", desc.Number()).Optional().MustBuild()
	if len(o.Props) != 2 || !o.Props[0].Readonly || !o.Props[1].Optional {
		t.Fatalf("unexpected object %+v", o.Props)
	}
}

func TestTuple_WithRestCopies(t *testing.T) {
	base := desc.TupleOf(desc.String())
	ext := base.WithRest(desc.Bool())
	if base.Rest != nil {
		t.Fatalf("WithRest must not mutate the receiver")
	}
	if ext.Rest == nil || len(ext.Elems) != 1 {
		t.Fatalf("unexpected extended tuple %+v", ext)
	}
}

func TestRegistry_RedefinitionRejected(t *testing.T) {
	reg := desc.NewRegistry()
	reg.MustDefine("T", desc.String())
	if err := reg.Define("T", desc.Number()); !errors.Is(err, desc.ErrMalformedDescriptor) {
		t.Fatalf("expected ErrMalformedDescriptor, got %v", err)
	}
}

func TestChildren_Enumeration(t *testing.T) {
	o := desc.NewObject().
		Field("a", desc.String()).
		IndexSignature(desc.IndexString, desc.Number()).
		MustBuild()
	cs := desc.Children(o)
	if len(cs) != 2 {
		t.Fatalf("expected property child plus index child, got %d", len(cs))
	}
	if len(desc.Children(desc.String())) != 0 {
		t.Fatalf("primitives have no children")
	}
}

func TestCollectRefs(t *testing.T) {
	reg := desc.NewRegistry()
	o := desc.NewObject().
		Field("next", reg.Ref("Node")).
		Field("items", desc.ArrayOf(reg.Instantiate("List", desc.String()))).
		MustBuild()
	refs := desc.CollectRefs(o)
	if len(refs) != 2 || refs[0] != "Node" || refs[1] != "List" {
		t.Fatalf("unexpected refs %v", refs)
	}
}
