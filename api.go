package typeguard

import (
	"fmt"
	"strconv"

	"github.com/reoring/typeguard/desc"
	"github.com/reoring/typeguard/i18n"
	"github.com/reoring/typeguard/internal/compile"
)

// Validator is an immutable compiled validation procedure for one
// descriptor. Build one with Compile or MustCompile; it is safe for
// concurrent use and arbitrarily many invocations.
type Validator struct {
	prog *compile.Validator
}

// Compile lowers a descriptor into a Validator. Results are cached by the
// descriptor's structural hash, so compiling the same shape twice returns
// the same procedure. Construction-time problems (malformed descriptors,
// unresolved references, unbound type parameters, unmediated cycles) are
// reported here; validation itself never fails on well-formed input.
func Compile(d desc.Type) (*Validator, error) {
	prog, err := compiledFor(d)
	if err != nil {
		return nil, err
	}
	return &Validator{prog: prog}, nil
}

// MustCompile is Compile panicking on error, for descriptors known to be
// well formed at build time.
func MustCompile(d desc.Type) *Validator {
	v, err := Compile(d)
	if err != nil {
		panic(fmt.Sprintf("typeguard: %v", err))
	}
	return v
}

// Check reports whether v conforms to the descriptor. It stops at the first
// failure and never allocates diagnostics.
func (vd *Validator) Check(v any) bool {
	if shortCircuit {
		return true
	}
	return vd.prog.Run(v, compile.Options{FailFast: true}) == nil
}

// Equals reports whether v conforms exactly: conformance plus no
// superfluous object keys, at every object level reached.
func (vd *Validator) Equals(v any) bool {
	if shortCircuit {
		return true
	}
	return vd.prog.Run(v, compile.Options{Strict: true, FailFast: true}) == nil
}

// Validate explains: it returns every collected failure with path and
// reason, or nil when v conforms.
func (vd *Validator) Validate(v any) Issues {
	if shortCircuit {
		return nil
	}
	return render(vd.prog.Run(v, compile.Options{}))
}

// ValidateStrict is Validate with superfluous-key rejection enabled.
func (vd *Validator) ValidateStrict(v any) Issues {
	if shortCircuit {
		return nil
	}
	return render(vd.prog.Run(v, compile.Options{Strict: true}))
}

// Assert returns v unchanged when it conforms, or an Issues error carrying
// the rendered path and reason. It is the only call shape that converts a
// failed verdict into an error.
func (vd *Validator) Assert(v any) (any, error) {
	if iss := vd.Validate(v); len(iss) > 0 {
		return nil, iss
	}
	return v, nil
}

// AssertStrict is Assert with superfluous-key rejection enabled.
func (vd *Validator) AssertStrict(v any) (any, error) {
	if iss := vd.ValidateStrict(v); len(iss) > 0 {
		return nil, iss
	}
	return v, nil
}

// ---- package-level conveniences ----
//
// These compile through the cache on first use and panic on construction
// errors, mirroring MustCompile. Use Compile directly when descriptor
// construction is dynamic and errors must be handled.

// Check reports whether v conforms to d.
func Check(d desc.Type, v any) bool { return MustCompile(d).Check(v) }

// Equals reports whether v conforms to d with no superfluous object keys.
func Equals(d desc.Type, v any) bool { return MustCompile(d).Equals(v) }

// Validate returns the full explanation for v against d, nil on conformance.
func Validate(d desc.Type, v any) Issues { return MustCompile(d).Validate(v) }

// Assert returns v unchanged or an Issues error.
func Assert(d desc.Type, v any) (any, error) { return MustCompile(d).Assert(v) }

// ---- rendering ----

// render converts engine issues into the public Issue model, attaching
// translated messages when message rendering is enabled. The translator is
// consulted only here, at explanation-rendering time.
func render(in []compile.Issue) Issues {
	if len(in) == 0 {
		return nil
	}
	out := make(Issues, 0, len(in))
	for _, it := range in {
		pub := Issue{Path: it.Path, Code: it.Code, Hint: it.Hint, Params: it.Params}
		if renderMessages {
			pub.Message = i18n.T(it.Code, stringParams(it.Params))
		}
		out = append(out, pub)
	}
	return out
}

func stringParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		switch x := v.(type) {
		case string:
			out[k] = x
		case int:
			out[k] = strconv.Itoa(x)
		case bool:
			out[k] = strconv.FormatBool(x)
		default:
			out[k] = fmt.Sprint(x)
		}
	}
	return out
}
