// Package redact masks credential-looking literals before analyzed source
// snippets are written to the audit log. The scanner flags hardcoded secrets;
// it must not copy them verbatim into its own log file.
package redact

import (
	"regexp"
)

var secretPatterns = []*regexp.Regexp{
	// assignments and comparisons against credential-named identifiers
	regexp.MustCompile(`(?i)(password|passwd|pwd|secret|api_?key|access_token|auth_token|credential)\w*\s*(==|=|:)\s*['"][^'"]{6,}['"]`),

	// well-known token shapes
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36}`),
	regexp.MustCompile(`xox[baprs]-[0-9]{10,13}-[0-9]{10,13}[a-zA-Z0-9-]*`),
	regexp.MustCompile(`sk_live_[0-9a-zA-Z]{24}`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_-]{20,}`),

	// private key headers
	regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----`),

	// basic auth embedded in URLs
	regexp.MustCompile(`https?://[^:/\s]+:[^@\s]+@`),
}

const placeholder = "[REDACTED]"

// Snippet masks secret-looking spans in a source snippet.
func Snippet(input string) string {
	result := input
	for _, pattern := range secretPatterns {
		result = pattern.ReplaceAllString(result, placeholder)
	}
	return result
}

// Truncate bounds a snippet for logging after masking.
func Truncate(input string, max int) string {
	if max > 0 && len(input) > max {
		return input[:max] + "..."
	}
	return input
}
