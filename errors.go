package typeguard

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType    = "invalid_type"    // runtime kind does not match
	CodeInvalidLiteral = "invalid_literal" // literal value does not match
	CodeRequired       = "required"        // declared property missing
	CodeUnknownKey     = "unknown_key"     // superfluous property in strict mode
	CodeArityMismatch  = "arity_mismatch"  // tuple length wrong
	CodeUnionMismatch  = "union_mismatch"  // no union member matched
	CodeUnreachable    = "unreachable"     // value reached a never descriptor
)

// Issue represents a single validation failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/name).
	Code    string // One of the codes listed above.
	Message string // Rendered text; empty when message rendering is disabled.
	Hint    string // Optional remediation hint.
	// Params carries structured parameters (e.g., {"expected":"string",
	// "got":"number"}) for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		if it.Message != "" {
			fmt.Fprintf(b, "%s at %s: %s", it.Code, it.Path, it.Message)
		} else {
			fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
