package classify

// Tag is a member of the closed vocabulary of suspicious-logic families.
// Tags are not mutually exclusive: one block can carry many.
type Tag string

const (
	// bitwise / comparison signatures
	TagXOR                  Tag = "XOR"
	TagThreeXOR             Tag = "THREE_XOR"
	TagAND                  Tag = "AND"
	TagOR                   Tag = "OR"
	TagArithmeticComparison Tag = "ARITHMETIC_COMPARISON"
	TagMagicConstant        Tag = "MAGIC_CONSTANT"

	// trigger and obfuscation signatures
	TagTimeBomb    Tag = "TIME_BOMB"
	TagControlFlow Tag = "CONTROL_FLOW"

	// dangerous usage signatures
	TagDangerousFunction     Tag = "DANGEROUS_FUNCTION"
	TagUnsafeDeserialization Tag = "UNSAFE_DESERIALIZATION"
	TagHardcodedCredential   Tag = "HARDCODED_CREDENTIAL"
	TagInsecureRandom        Tag = "INSECURE_RANDOM"
	TagUnrestrictedFileWrite Tag = "UNRESTRICTED_FILE_WRITE"
	TagDebugBackdoor         Tag = "DEBUG_BACKDOOR"

	// adversarial combinations over deep-inlined blocks
	TagProbabilisticBomb Tag = "PROBABILISTIC_BOMB"
	TagEntangledBomb     Tag = "ENTANGLED_BOMB"
	TagChainedBomb       Tag = "CHAINED_BOMB"
	TagCrossFunctionBomb Tag = "CROSS_FUNCTION_BOMB"
	TagSteganography     Tag = "STEGANOGRAPHY"
	TagAntiDebug         Tag = "ANTI_DEBUG"

	// TagUnknown is the default member: classifier output is never empty.
	TagUnknown Tag = "UNKNOWN"
)

// AllTags lists the closed vocabulary, used to validate rule packs and the
// scorer's dispatch table.
var AllTags = []Tag{
	TagXOR, TagThreeXOR, TagAND, TagOR, TagArithmeticComparison, TagMagicConstant,
	TagTimeBomb, TagControlFlow,
	TagDangerousFunction, TagUnsafeDeserialization, TagHardcodedCredential,
	TagInsecureRandom, TagUnrestrictedFileWrite, TagDebugBackdoor,
	TagProbabilisticBomb, TagEntangledBomb, TagChainedBomb, TagCrossFunctionBomb,
	TagSteganography, TagAntiDebug,
	TagUnknown,
}

// KnownTag reports whether the string names a member of the vocabulary.
func KnownTag(s string) bool {
	for _, t := range AllTags {
		if string(t) == s {
			return true
		}
	}
	return false
}

// tagSet accumulates tags preserving first-seen order.
type tagSet struct {
	tags []Tag
	seen map[Tag]bool
}

func newTagSet() *tagSet {
	return &tagSet{seen: map[Tag]bool{}}
}

func (s *tagSet) add(t Tag) {
	if s.seen[t] {
		return
	}
	s.seen[t] = true
	s.tags = append(s.tags, t)
}

// result returns the collected tags, falling back to {UNKNOWN} when nothing
// matched so downstream code always has at least one tag to branch on.
func (s *tagSet) result() []Tag {
	if len(s.tags) == 0 {
		return []Tag{TagUnknown}
	}
	return s.tags
}
