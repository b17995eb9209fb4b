package extract

// LogicBlock is one conditional construct lifted out of the source: the
// guarding expression, the statements lexically inside the branch (possibly
// with helper-function bodies inlined), and the names of functions the body
// invokes.
//
// A LogicBlock is only emitted when both Condition and Body are non-empty.
// Blocks are never mutated after extraction.
type LogicBlock struct {
	Condition string
	Body      []string
	Calls     []string
}

// HasCall reports whether the block records a call to the given function name.
func (b *LogicBlock) HasCall(name string) bool {
	for _, c := range b.Calls {
		if c == name {
			return true
		}
	}
	return false
}

func appendCall(calls []string, name string) []string {
	for _, c := range calls {
		if c == name {
			return calls
		}
	}
	return append(calls, name)
}
