// Package score attaches a manufactured risk value to certain pattern tags
// by repeated sampling of a small stochastic trigger model. Scores are
// bounded in [0,1] and deterministic up to sampling noise (fully
// deterministic under a fixed seed).
package score

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/qtracelabs/qtrace/internal/classify"
)

// ErrUnsupportedPattern marks tags with no risk model. Callers attach no
// numeric score for these; it is not a pipeline failure.
var ErrUnsupportedPattern = errors.New("pattern has no risk model")

// DefaultShots is the sample count when Params.Shots is unset.
const DefaultShots = 1024

// Params are the free-form numeric parameters of the scoring contract.
// Builders read only the fields they require and reject missing ones.
type Params struct {
	Prob        float64   // single trigger probability
	Probs       []float64 // per-stage probabilities (entangled)
	ChainLength int       // number of linked stages (chained)
	FuncProbs   []float64 // per-function probabilities (cross-function)
	EncodeVal   int       // steganography encode bit
}

// Measurements is the raw sampling data behind a score.
type Measurements struct {
	Shots    int
	Stages   []string       // stage labels in model order
	Triggers map[string]int // per-stage count of triggered shots
	AllCount int            // shots where every stage triggered
}

// model is the classical trigger model a builder produces: per-stage
// probabilities, optionally chain-linked stage to stage.
type model struct {
	stages []float64
	linked bool
}

type builderSpec struct {
	build    func(Params) (model, error)
	required string // documented parameter list, for error messages
}

// builders is the dispatch table from tag to risk model. Validated by
// Validate so adding a vocabulary tag cannot silently no-op.
var builders = map[classify.Tag]builderSpec{
	classify.TagProbabilisticBomb: {required: "prob", build: func(p Params) (model, error) {
		return model{stages: []float64{defaultProb(p.Prob, 0.2)}}, nil
	}},
	classify.TagEntangledBomb: {required: "probs (>=2)", build: func(p Params) (model, error) {
		probs := p.Probs
		if len(probs) == 0 {
			probs = []float64{0.2, 0.5}
		}
		if len(probs) < 2 {
			return model{}, fmt.Errorf("entangled model needs >=2 probs, got %d", len(probs))
		}
		return model{stages: probs, linked: true}, nil
	}},
	classify.TagChainedBomb: {required: "chain_length, prob", build: func(p Params) (model, error) {
		n := p.ChainLength
		if n <= 0 {
			n = 3
		}
		stages := make([]float64, n)
		for i := range stages {
			stages[i] = defaultProb(p.Prob, 0.3)
		}
		return model{stages: stages, linked: true}, nil
	}},
	classify.TagCrossFunctionBomb: {required: "func_probs", build: func(p Params) (model, error) {
		probs := p.FuncProbs
		if len(probs) == 0 {
			probs = []float64{0.3, 0.5, 0.8}
		}
		return model{stages: probs, linked: true}, nil
	}},
	classify.TagSteganography: {required: "encode_val", build: func(p Params) (model, error) {
		// encoded bit goes through a fair mixing step; the measured
		// frequency is 0.5 regardless of the encoded value
		return model{stages: []float64{0.5}}, nil
	}},
	classify.TagAntiDebug: {required: "prob", build: func(p Params) (model, error) {
		return model{stages: []float64{defaultProb(p.Prob, 0.1)}}, nil
	}},
}

// Validate checks the dispatch table against the tag vocabulary: every entry
// names a known tag and can build its default model. Run at startup.
func Validate() error {
	for tag, spec := range builders {
		if !classify.KnownTag(string(tag)) {
			return fmt.Errorf("risk model for unknown tag %q", tag)
		}
		if spec.build == nil {
			return fmt.Errorf("risk model for %s has no builder", tag)
		}
		if _, err := spec.build(Params{}); err != nil {
			return fmt.Errorf("risk model for %s rejects defaults: %w", tag, err)
		}
	}
	return nil
}

// Supported reports whether the tag has a risk model.
func Supported(tag classify.Tag) bool {
	_, ok := builders[tag]
	return ok
}

// Simulator runs the repeated-sampling measurement. The zero value is not
// usable; construct with NewSimulator.
type Simulator struct {
	shots int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates a simulator with the given sample count (<=0 means
// DefaultShots) and seed (0 means a nondeterministic seed).
func NewSimulator(shots int, seed int64) *Simulator {
	if shots <= 0 {
		shots = DefaultShots
	}
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Simulator{
		shots: shots,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Supported implements the pipeline's Scorer contract.
func (s *Simulator) Supported(tag classify.Tag) bool {
	return Supported(tag)
}

// Score maps a pattern tag and parameters to a measured trigger frequency in
// [0,1]. Unsupported tags return ErrUnsupportedPattern.
func (s *Simulator) Score(tag classify.Tag, p Params) (float64, *Measurements, error) {
	spec, ok := builders[tag]
	if !ok {
		return 0, nil, fmt.Errorf("%w: %s", ErrUnsupportedPattern, tag)
	}
	m, err := spec.build(p)
	if err != nil {
		return 0, nil, fmt.Errorf("build %s model (needs %s): %w", tag, spec.required, err)
	}
	meas := s.measure(m)
	return float64(meas.AllCount) / float64(meas.Shots), meas, nil
}

// measure samples the model: each stage triggers with its probability, linked
// models fold each stage's outcome into the next. The score is the frequency
// every stage triggered in the same shot.
func (s *Simulator) measure(m model) *Measurements {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := &Measurements{
		Shots:    s.shots,
		Triggers: make(map[string]int, len(m.stages)),
	}
	for i := range m.stages {
		out.Stages = append(out.Stages, fmt.Sprintf("stage%d", i))
	}
	bits := make([]bool, len(m.stages))
	for shot := 0; shot < s.shots; shot++ {
		sampleShot(s.rng, m, bits)
		for i, b := range bits {
			if b {
				out.Triggers[out.Stages[i]]++
			}
		}
		if allTrue(bits) {
			out.AllCount++
		}
	}
	return out
}

func sampleShot(rng *rand.Rand, m model, bits []bool) {
	for i, p := range m.stages {
		bits[i] = rng.Float64() < p
	}
	if m.linked {
		for i := 0; i < len(bits)-1; i++ {
			if bits[i] {
				bits[i+1] = !bits[i+1]
			}
		}
	}
}

func allTrue(bits []bool) bool {
	for _, b := range bits {
		if !b {
			return false
		}
	}
	return true
}

func defaultProb(p, fallback float64) float64 {
	if p <= 0 || p > 1 {
		return fallback
	}
	return p
}
