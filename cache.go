package typeguard

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/reoring/typeguard/desc"
	"github.com/reoring/typeguard/internal/compile"
	"github.com/reoring/typeguard/internal/norm"
)

// The compile cache is the only shared mutable state in the engine. It maps
// a descriptor's structural hash to compiled validators, with Equal
// verification so hash collisions stay correct. singleflight keeps
// compilation at-most-once per distinct descriptor under concurrency;
// compilation being a pure function of the descriptor, a duplicated compile
// would be wasteful but not unsafe.
var (
	cacheMu sync.RWMutex
	cache   = map[uint64][]cacheEntry{}
	flight  singleflight.Group
)

type cacheEntry struct {
	d    desc.Type
	prog *compile.Validator
}

func cacheLookup(h uint64, d desc.Type) (*compile.Validator, bool) {
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	for _, e := range cache[h] {
		if desc.Equal(e.d, d) {
			return e.prog, true
		}
	}
	return nil, false
}

func cacheStore(h uint64, d desc.Type, prog *compile.Validator) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	for _, e := range cache[h] {
		if desc.Equal(e.d, d) {
			return // first writer wins
		}
	}
	cache[h] = append(cache[h], cacheEntry{d: d, prog: prog})
}

func compiledFor(d desc.Type) (*compile.Validator, error) {
	if d == nil {
		return nil, desc.ErrMalformedDescriptor
	}
	h := desc.Hash(d)
	if prog, ok := cacheLookup(h, d); ok {
		return prog, nil
	}
	_, err, _ := flight.Do(strconv.FormatUint(h, 16), func() (any, error) {
		if prog, ok := cacheLookup(h, d); ok {
			return prog, nil
		}
		p, err := norm.Normalize(d)
		if err != nil {
			return nil, err
		}
		prog := compile.Compile(p)
		cacheStore(h, d, prog)
		return prog, nil
	})
	if err != nil {
		return nil, err
	}
	// When a colliding flight was already in progress for a different
	// descriptor with the same hash, our closure never ran; compile
	// directly in that rare case.
	if prog, ok := cacheLookup(h, d); ok {
		return prog, nil
	}
	p, err := norm.Normalize(d)
	if err != nil {
		return nil, err
	}
	prog := compile.Compile(p)
	cacheStore(h, d, prog)
	return prog, nil
}
