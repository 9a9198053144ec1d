package desc

import (
	"fmt"
	"sync"
)

// GenericDef is a parametrized descriptor body registered under a name.
// Params lists the free parameter names the body may use.
type GenericDef struct {
	Params []string
	Body   Type
}

// Registry is a resolution scope for named and generic definitions. Refs and
// Instances carry a pointer to the registry they were minted from, so a
// descriptor graph is always resolved against the scope that created it.
//
// Registries are safe for concurrent use, but the expected pattern is to
// populate one during program initialization and treat it as read-only after.
type Registry struct {
	mu       sync.RWMutex
	named    map[string]Type
	generics map[string]GenericDef
}

// NewRegistry creates an empty resolution scope.
func NewRegistry() *Registry {
	return &Registry{
		named:    map[string]Type{},
		generics: map[string]GenericDef{},
	}
}

// Define registers a named descriptor. Redefinition is rejected so that a Ref
// resolved twice can never observe two different bodies.
func (r *Registry) Define(name string, t Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.named[name]; dup {
		return fmt.Errorf("%w: type %q already defined", ErrMalformedDescriptor, name)
	}
	r.named[name] = t
	return nil
}

// MustDefine is Define panicking on error.
func (r *Registry) MustDefine(name string, t Type) {
	if err := r.Define(name, t); err != nil {
		panic(err)
	}
}

// DefineGeneric registers a parametrized definition. The body may use
// ParamOf(p) for each p in params.
func (r *Registry) DefineGeneric(name string, params []string, body Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.generics[name]; dup {
		return fmt.Errorf("%w: generic %q already defined", ErrMalformedDescriptor, name)
	}
	ps := make([]string, len(params))
	copy(ps, params)
	r.generics[name] = GenericDef{Params: ps, Body: body}
	return nil
}

// MustDefineGeneric is DefineGeneric panicking on error.
func (r *Registry) MustDefineGeneric(name string, params []string, body Type) {
	if err := r.DefineGeneric(name, params, body); err != nil {
		panic(err)
	}
}

// Ref mints a reference to the named definition in this scope. The name does
// not need to be defined yet; resolution happens at normalization, which is
// what makes self-referential definitions expressible.
func (r *Registry) Ref(name string) *Ref {
	return &Ref{Name: name, Scope: r}
}

// Instantiate mints a generic instantiation in this scope. Arguments must be
// closed descriptors; a free parameter among them is reported at
// normalization as ErrUnboundTypeParameter.
func (r *Registry) Instantiate(base string, args ...Type) *Instance {
	as := make([]Type, len(args))
	copy(as, args)
	return &Instance{Base: base, Args: as, Scope: r}
}

// Lookup resolves a named definition.
func (r *Registry) Lookup(name string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.named[name]
	return t, ok
}

// LookupGeneric resolves a generic definition.
func (r *Registry) LookupGeneric(name string) (GenericDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.generics[name]
	return g, ok
}

// Names returns the defined (non-generic) names. Order is unspecified.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.named))
	for k := range r.named {
		out = append(out, k)
	}
	return out
}
