package lang

import (
	"fmt"
	"strings"
)

// Canonical language identifiers accepted by the extractor and classifier.
const (
	Python     = "python"
	JavaScript = "javascript"
	Java       = "java"
	C          = "c"
	Go         = "go"
	Rust       = "rust"
	Solidity   = "solidity"
)

// All lists every language the pipeline accepts, in display order.
var All = []string{Python, JavaScript, Java, C, Go, Rust, Solidity}

var aliases = map[string]string{
	"py":      Python,
	"python3": Python,
	"js":      JavaScript,
	"node":    JavaScript,
	"golang":  Go,
	"rs":      Rust,
	"sol":     Solidity,
}

// Normalize lowercases a language tag and resolves common aliases.
// It does not validate; use Known for that.
func Normalize(language string) string {
	l := strings.ToLower(strings.TrimSpace(language))
	if canonical, ok := aliases[l]; ok {
		return canonical
	}
	return l
}

// Known reports whether the (normalized) language has any rule set at all.
func Known(language string) bool {
	for _, l := range All {
		if l == language {
			return true
		}
	}
	return false
}

// UnsupportedError signals a request for a language with no grammar and no
// fallback rule set. Callers use this to tell "we cannot analyze this" apart
// from "nothing suspicious found".
type UnsupportedError struct {
	Language string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported language: %q (supported: %s)", e.Language, strings.Join(All, ", "))
}
