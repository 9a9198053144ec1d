package typedef

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ImportYAML imports a descriptor document from YAML bytes. Multi-document
// streams are merged: each document contributes its "types" to one shared
// scope, and the last "root" wins. A document may carry only a "root"
// selector. Bare schema documents are accepted alone, not in a stream.
func ImportYAML(data []byte) (*Set, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	merged := map[string]any{}
	types := map[string]any{}
	for {
		var node any
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("typedef: invalid YAML: %w", err)
		}
		m, ok := normalizeMap(node)
		if !ok {
			return nil, errors.New("typedef: YAML document must be a mapping")
		}
		tsRaw, hasTypes := m["types"]
		rootRaw, hasRoot := m["root"]
		if hasTypes || hasRoot {
			if hasTypes {
				ts, ok := normalizeMap(tsRaw)
				if !ok {
					return nil, errors.New(`typedef: "types" must be a mapping`)
				}
				for name, body := range ts {
					if _, dup := types[name]; dup {
						return nil, fmt.Errorf("typedef: type %q defined in more than one document", name)
					}
					types[name] = body
				}
			}
			if hasRoot {
				merged["root"] = rootRaw
			}
			continue
		}
		// A bare schema document is only meaningful on its own.
		if len(types) > 0 {
			return nil, errors.New(`typedef: mixing bare schemas and "types" documents is not supported`)
		}
		return Import(m)
	}
	if len(types) == 0 {
		return nil, errors.New("typedef: no types found")
	}
	merged["types"] = types
	return Import(merged)
}
