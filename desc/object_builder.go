package desc

import "fmt"

// ObjectBuilder accumulates declared properties in insertion order and
// produces an immutable Object. Duplicate property names are rejected at
// Build time.
type ObjectBuilder struct {
	props []Property
	index *Index
}

// ObjectField is the per-field step Field returns. Its flag methods return
// the builder so declarations chain:
//
//	desc.NewObject().
//		Field("name", desc.String()).
//		Field("age", desc.Number()).Optional().
//		MustBuild()
type ObjectField struct {
	b *ObjectBuilder
	i int // index of the property this step configures
}

// NewObject starts an object builder.
func NewObject() *ObjectBuilder { return &ObjectBuilder{} }

// Field declares a required property and returns a step for per-field flags.
func (b *ObjectBuilder) Field(name string, t Type) *ObjectField {
	b.props = append(b.props, Property{Name: name, Type: t})
	return &ObjectField{b: b, i: len(b.props) - 1}
}

// Optional marks the field as optional (absence allowed).
func (f *ObjectField) Optional() *ObjectBuilder {
	f.b.props[f.i].Optional = true
	return f.b
}

// Readonly marks the field readonly. Readonly is static-only metadata; the
// runtime performs no check for it.
func (f *ObjectField) Readonly() *ObjectBuilder {
	f.b.props[f.i].Readonly = true
	return f.b
}

// OptionalReadonly combines both flags.
func (f *ObjectField) OptionalReadonly() *ObjectBuilder {
	f.b.props[f.i].Optional = true
	f.b.props[f.i].Readonly = true
	return f.b
}

// Done returns the builder without changing field flags.
func (f *ObjectField) Done() *ObjectBuilder { return f.b }

// Field on a step delegates to the builder so chains read naturally.
func (f *ObjectField) Field(name string, t Type) *ObjectField {
	return f.b.Field(name, t)
}

// IndexSignature declares a dynamic-key signature: keys of the given family
// not covered by a declared property validate against elem.
func (b *ObjectBuilder) IndexSignature(key IndexKey, elem Type) *ObjectBuilder {
	b.index = &Index{Key: key, Elem: elem}
	return b
}

// Build finalizes the object descriptor. It fails with ErrMalformedDescriptor
// when two properties share a name.
func (b *ObjectBuilder) Build() (*Object, error) {
	seen := make(map[string]struct{}, len(b.props))
	for _, p := range b.props {
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate property %q", ErrMalformedDescriptor, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	props := make([]Property, len(b.props))
	copy(props, b.props)
	return &Object{Props: props, Index: b.index}, nil
}

// MustBuild is Build panicking on error, for descriptor literals in tests and
// package-level variables.
func (b *ObjectBuilder) MustBuild() *Object {
	o, err := b.Build()
	if err != nil {
		panic(err)
	}
	return o
}

// IndexSignature on a step delegates to the builder.
func (f *ObjectField) IndexSignature(key IndexKey, elem Type) *ObjectBuilder {
	return f.b.IndexSignature(key, elem)
}

// Build on a step finalizes the whole object.
func (f *ObjectField) Build() (*Object, error) { return f.b.Build() }

// MustBuild on a step finalizes the whole object, panicking on error.
func (f *ObjectField) MustBuild() *Object { return f.b.MustBuild() }
