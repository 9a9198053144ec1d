package desc

import "errors"

// Construction-time errors. These indicate a descriptor the engine cannot
// safely compile and are surfaced immediately from Build/Normalize/Compile;
// they never occur while validating a value.
var (
	// ErrMalformedDescriptor covers structural construction mistakes:
	// duplicate object property names, non-scalar literal values, and
	// references that do not resolve in their scope.
	ErrMalformedDescriptor = errors.New("malformed descriptor")

	// ErrUnboundTypeParameter reports a generic parameter that survived
	// substitution, or an instantiation argument that is itself a free
	// parameter.
	ErrUnboundTypeParameter = errors.New("unbound type parameter")

	// ErrCyclicWithoutReference reports a descriptor cycle that is not
	// mediated by a Ref node. Such cycles would unroll forever.
	ErrCyclicWithoutReference = errors.New("cycle without reference")
)
