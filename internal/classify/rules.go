package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/qtracelabs/qtrace/internal/lang"
)

// StaticRule is one textual detector in the syntactic catalog. Detection is
// case-insensitive substring/regex matching; no semantic evaluation.
type StaticRule struct {
	ID        string
	Tag       Tag
	Languages []string // empty = any language
	Regex     string   // case-insensitive regex over the unit text
	Keywords  []string // lowercase substrings; any hit matches

	re *regexp.Regexp
}

func (r *StaticRule) compile() error {
	if r.ID == "" {
		return fmt.Errorf("static rule with tag %s has no id", r.Tag)
	}
	if !KnownTag(string(r.Tag)) {
		return fmt.Errorf("rule %s: unknown tag %q", r.ID, r.Tag)
	}
	for _, l := range r.Languages {
		if !lang.Known(lang.Normalize(l)) {
			return fmt.Errorf("rule %s: unknown language %q", r.ID, l)
		}
	}
	if r.Regex == "" && len(r.Keywords) == 0 {
		return fmt.Errorf("rule %s: no regex and no keywords", r.ID)
	}
	if r.Regex != "" {
		re, err := regexp.Compile("(?i)" + r.Regex)
		if err != nil {
			return fmt.Errorf("rule %s: bad regex: %w", r.ID, err)
		}
		r.re = re
	}
	return nil
}

func (r *StaticRule) appliesTo(language string) bool {
	if len(r.Languages) == 0 {
		return true
	}
	for _, l := range r.Languages {
		if lang.Normalize(l) == language {
			return true
		}
	}
	return false
}

func (r *StaticRule) matches(unit, unitLower string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(unitLower, kw) {
			return true
		}
	}
	if r.re != nil {
		return r.re.MatchString(unit)
	}
	return false
}

// builtinRules is the ordered detector catalog. Rules are independent;
// every matching rule adds its tag.
func builtinRules() []StaticRule {
	return []StaticRule{
		// --- bitwise / logic operators ---
		{ID: "xor-operator", Tag: TagXOR, Regex: `\bxor\b`, Keywords: []string{"^"}},
		{ID: "xor-chain", Tag: TagThreeXOR, Regex: `\^[^^\n]*\^`},
		{ID: "and-operator", Tag: TagAND, Regex: `&&|\band\b|&`},
		{ID: "or-operator", Tag: TagOR, Regex: `\|\||\bor\b|\|`},

		// --- comparisons against crafted values ---
		{ID: "arith-equality", Tag: TagArithmeticComparison, Regex: `[%+\-*/][^=<>\n]*==`},
		{ID: "magic-constant", Tag: TagMagicConstant, Regex: `==\s*(0x[0-9a-f]+|\d+\b|"[^"]+"|'[^']+')`},

		// --- time-based triggers ---
		{ID: "time-vocabulary", Tag: TagTimeBomb, Regex: `\b(time|date|year|month|day|hour|minute|second|timestamp|epoch)\b`},
		{ID: "sol-block-timestamp", Tag: TagTimeBomb, Languages: []string{lang.Solidity}, Keywords: []string{"block.timestamp", "block.number", "now"}},

		// --- control-flow obfuscation ---
		{ID: "control-flow", Tag: TagControlFlow, Regex: `\bgoto\b|\bunreachable\b|\blabel\s*:|longjmp`},

		// --- dangerous calls, generic then per-language ---
		{ID: "dangerous-generic", Tag: TagDangerousFunction, Regex: `\b(system|exec[a-z]*|eval|popen|shellexec)\s*\(`},
		{ID: "py-dangerous", Tag: TagDangerousFunction, Languages: []string{lang.Python}, Regex: `os\.system|subprocess\.|os\.popen|\b(eval|exec|compile)\s*\(|__import__|ctypes`},
		{ID: "js-dangerous", Tag: TagDangerousFunction, Languages: []string{lang.JavaScript}, Regex: `child_process|\beval\s*\(|new\s+function\s*\(|require\s*\(\s*['"]vm['"]`},
		{ID: "java-dangerous", Tag: TagDangerousFunction, Languages: []string{lang.Java}, Regex: `processbuilder|runtime\.getruntime|\.exec\s*\(|setaccessible|system\.load`},
		{ID: "c-dangerous", Tag: TagDangerousFunction, Languages: []string{lang.C}, Regex: `\b(system|popen|execve|execl|fork)\s*\(`},
		{ID: "go-dangerous", Tag: TagDangerousFunction, Languages: []string{lang.Go}, Regex: `syscall\.exec|exec\.command|os/exec|unsafe\.pointer`},
		{ID: "rust-dangerous", Tag: TagDangerousFunction, Languages: []string{lang.Rust}, Regex: `process::command|command::new|\bunsafe\b|transmute`},
		{ID: "sol-dangerous", Tag: TagDangerousFunction, Languages: []string{lang.Solidity}, Regex: `delegatecall|selfdestruct|suicide\s*\(|tx\.origin|call\.value`},

		// --- deserialization entry points ---
		{ID: "java-deser", Tag: TagUnsafeDeserialization, Languages: []string{lang.Java}, Regex: `objectinputstream|readobject|xmldecoder`},
		{ID: "py-deser", Tag: TagUnsafeDeserialization, Languages: []string{lang.Python}, Regex: `pickle\.loads?|yaml\.load\b|marshal\.loads?|shelve\.open`},
		{ID: "js-deser", Tag: TagUnsafeDeserialization, Languages: []string{lang.JavaScript}, Regex: `unserialize|node-serialize`},
		{ID: "generic-deser", Tag: TagUnsafeDeserialization, Regex: `\bdeserialize\s*\(`},

		// --- hardcoded credentials ---
		{ID: "hardcoded-credential", Tag: TagHardcodedCredential,
			Regex: `(password|passwd|pwd|secret|api_?key|token|credential|auth)\w*\s*(==|=|:)\s*["'][^"']{6,}["']`},

		// --- insecure randomness ---
		{ID: "insecure-random", Tag: TagInsecureRandom,
			Regex: `random\.random|random\.randint|math\.random|\brand\s*\(|\bsrand\s*\(|java\.util\.random|math/rand|\brandrange\b`},

		// --- unrestricted file writes ---
		{ID: "file-write", Tag: TagUnrestrictedFileWrite,
			Regex: `fopen\s*\([^)]*"[wa]\+?"|open\s*\([^)]*['"][wa]\+?b?['"]|writefile|os\.create|createfile|\.write\s*\(`},

		// --- route / debug backdoors ---
		{ID: "debug-backdoor", Tag: TagDebugBackdoor,
			Regex: `\bbackdoor\b|debug\s*==\s*true|/debug\b|debug_mode|magic_cookie|(route|endpoint|mapping)[^\n]*(debug|admin|hidden)`},
	}
}
