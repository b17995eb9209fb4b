package classify

import (
	"regexp"
	"strings"

	"github.com/qtracelabs/qtrace/internal/lang"
)

// Block mirrors extract.LogicBlock for the adversarial detectors, keeping
// this package free of an extract dependency (the pipeline converts).
type Block struct {
	Condition string
	Body      []string
	Calls     []string
}

var (
	randomSourceRe = regexp.MustCompile(`(?i)random\.random\s*\(|random\.randint\s*\(|math\.random\s*\(|\brand\s*\(|\brandom\s*\(|randrange\s*\(|randbytes\s*\(`)
	dangerActionRe = regexp.MustCompile(`(?i)os\.system|subprocess\.|\bsystem\s*\(|\bexec[a-z]*\s*\(|\beval\s*\(|\bpopen\s*\(|shutdown|rm -rf|del\s+/|format\s*\(\s*['"]?c:|grant_\w+|setuid|chmod\s`)
	encodeVocabRe  = regexp.MustCompile(`(?i)\b(encode|decode|hide|embed|obfuscat\w*|steg\w*|base64|b64encode|xor_encrypt)\b`)
	debugVocabRe   = regexp.MustCompile(`(?i)\b(sleep|settrace|gettrace|ptrace|debugger|isdebuggerpresent|tracemalloc|sys\.breakpointhook)\b`)
	conjCallsRe    = regexp.MustCompile(`\w+\s*\([^)]*\)\s+(and|&&)\s+\w+\s*\(`)
)

// riskyNameParts flags callee names that themselves suggest danger.
var riskyNameParts = []string{
	"danger", "bomb", "exploit", "attack", "payload", "backdoor",
	"trigger", "detonate", "destroy", "wipe", "kill", "grant", "root",
}

// ClassifyBlocks runs the adversarial detectors over deep-inlined blocks.
// The detectors are deliberately broad and overlapping: this is best-effort
// triage, not mutually exclusive classification. Output is never empty.
func (c *Classifier) ClassifyBlocks(blocks []Block, language string) ([]Tag, error) {
	language = lang.Normalize(language)
	if !lang.Known(language) {
		return nil, &lang.UnsupportedError{Language: language}
	}

	set := newTagSet()
	for _, b := range blocks {
		if strings.TrimSpace(b.Condition) == "" || len(b.Body) == 0 {
			continue
		}
		c.classifyBlock(&b, set)
	}
	return set.result(), nil
}

func (c *Classifier) classifyBlock(b *Block, set *tagSet) {
	body := strings.Join(b.Body, "\n")
	whole := b.Condition + "\n" + body

	condRandom := randomSourceRe.MatchString(b.Condition)
	randomCount := len(randomSourceRe.FindAllString(whole, -1))
	dangerCount := len(dangerActionRe.FindAllString(whole, -1))
	bodyDanger := dangerActionRe.MatchString(body)

	// randomness-gated dangerous action
	if condRandom && bodyDanger {
		set.add(TagProbabilisticBomb)
	}

	// two-or-more independent randomness sources and two-or-more dangerous
	// actions across condition+body
	if randomCount >= 2 && dangerCount >= 2 {
		set.add(TagEntangledBomb)
	}

	// a callee whose name suggests danger, or a conjunction of calls guarding
	// a dangerous body
	for _, call := range b.Calls {
		if hasRiskyName(call) {
			set.add(TagChainedBomb)
			break
		}
	}
	if conjCallsRe.MatchString(b.Condition) && bodyDanger {
		set.add(TagChainedBomb)
	}

	// encode/hide vocabulary under a random gate
	if condRandom && encodeVocabRe.MatchString(body) {
		set.add(TagSteganography)
	}

	// timing/debugger vocabulary under a random gate
	if condRandom && debugVocabRe.MatchString(body) {
		set.add(TagAntiDebug)
	}

	// any outgoing calls with randomness anywhere in condition or call names.
	// Broad and overlapping with ENTANGLED/CHAINED on purpose.
	if len(b.Calls) > 0 && (condRandom || callsMentionRandom(b.Calls)) {
		set.add(TagCrossFunctionBomb)
	}
}

func hasRiskyName(call string) bool {
	lower := strings.ToLower(call)
	for _, part := range riskyNameParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

func callsMentionRandom(calls []string) bool {
	for _, c := range calls {
		if strings.Contains(strings.ToLower(c), "rand") {
			return true
		}
	}
	return false
}
