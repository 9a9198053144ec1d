// Package typeguard compiles structural type descriptors into reusable
// runtime validators for untyped values, the shape of data a JSON or YAML
// decoder produces.
//
// A descriptor (package desc) describes a type: primitives, literals,
// arrays, tuples, objects with optional properties and index signatures,
// unions, intersections, named references (which make recursive types
// expressible) and generic instantiations. Compile lowers a descriptor into
// an immutable Validator:
//
//	user := desc.NewObject().
//		Field("name", desc.String()).
//		Field("age", desc.Number()).Optional().
//		MustBuild()
//
//	v := typeguard.MustCompile(user)
//	v.Check(map[string]any{"name": "ann"}) // true
//
// Check answers with a plain boolean and stops at the first failure. Equals
// additionally rejects object keys the descriptor does not declare, at every
// object level. Validate returns the full explanation as Issues, each with a
// JSON Pointer path and a reason code; Assert returns the value unchanged or
// an Issues error.
//
// Compiled validators are pure and safe for concurrent use; each call owns
// its own validation context. The compile cache and the process-wide modes
// (SetShortCircuit, SetErrorMessages, i18n.SetTranslator) are the only
// shared state and follow a set-at-startup contract.
package typeguard
