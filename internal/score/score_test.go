package score

import (
	"errors"
	"testing"

	"github.com/qtracelabs/qtrace/internal/classify"
)

func TestValidate(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestScore_Bounds(t *testing.T) {
	s := NewSimulator(0, 7)
	for tag := range builders {
		got, meas, err := s.Score(tag, Params{})
		if err != nil {
			t.Errorf("%s: %v", tag, err)
			continue
		}
		if got < 0 || got > 1 {
			t.Errorf("%s: score %v out of [0,1]", tag, got)
		}
		if meas.Shots != DefaultShots {
			t.Errorf("%s: shots = %d, want %d", tag, meas.Shots, DefaultShots)
		}
	}
}

func TestScore_SeedDeterminism(t *testing.T) {
	a := NewSimulator(2048, 42)
	b := NewSimulator(2048, 42)
	for _, tag := range []classify.Tag{
		classify.TagProbabilisticBomb,
		classify.TagEntangledBomb,
		classify.TagChainedBomb,
	} {
		x, _, err := a.Score(tag, Params{})
		if err != nil {
			t.Fatal(err)
		}
		y, _, err := b.Score(tag, Params{})
		if err != nil {
			t.Fatal(err)
		}
		if x != y {
			t.Errorf("%s: same seed gave %v and %v", tag, x, y)
		}
	}
}

func TestScore_UnsupportedPattern(t *testing.T) {
	s := NewSimulator(16, 1)
	_, _, err := s.Score(classify.TagXOR, Params{})
	if !errors.Is(err, ErrUnsupportedPattern) {
		t.Fatalf("want ErrUnsupportedPattern, got %v", err)
	}
}

func TestScore_CertainProbabilisticTrigger(t *testing.T) {
	s := NewSimulator(256, 1)
	got, meas, err := s.Score(classify.TagProbabilisticBomb, Params{Prob: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got != 1.0 {
		t.Errorf("prob=1: score = %v, want 1.0", got)
	}
	if meas.AllCount != meas.Shots {
		t.Errorf("AllCount = %d, want %d", meas.AllCount, meas.Shots)
	}
}

func TestScore_EntangledFlipPropagation(t *testing.T) {
	s := NewSimulator(256, 1)

	// first stage certain, second impossible: the link flips the second
	got, _, err := s.Score(classify.TagEntangledBomb, Params{Probs: []float64{1, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if got != 1.0 {
		t.Errorf("probs [1,0]: score = %v, want 1.0", got)
	}

	// both certain: the link negates the second
	got, _, err = s.Score(classify.TagEntangledBomb, Params{Probs: []float64{1, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("probs [1,1]: score = %v, want 0", got)
	}
}

func TestScore_EntangledRejectsSingleStage(t *testing.T) {
	s := NewSimulator(16, 1)
	if _, _, err := s.Score(classify.TagEntangledBomb, Params{Probs: []float64{0.5}}); err == nil {
		t.Fatal("expected error for a single-stage entangled model")
	}
}

func TestScore_ChainedAllCertainCancels(t *testing.T) {
	s := NewSimulator(256, 1)
	got, _, err := s.Score(classify.TagChainedBomb, Params{ChainLength: 3, Prob: 1})
	if err != nil {
		t.Fatal(err)
	}
	// certain stages flip their successors, so the chain can never be all-true
	if got != 0 {
		t.Errorf("all-certain chain: score = %v, want 0", got)
	}
}

func TestSupported(t *testing.T) {
	if !Supported(classify.TagProbabilisticBomb) {
		t.Error("PROBABILISTIC_BOMB must have a risk model")
	}
	if Supported(classify.TagTimeBomb) {
		t.Error("TIME_BOMB must not have a risk model")
	}
	if Supported(classify.TagUnknown) {
		t.Error("UNKNOWN must not have a risk model")
	}
}

func TestDefaultProb(t *testing.T) {
	cases := []struct {
		p, fallback, want float64
	}{
		{0.25, 0.2, 0.25},
		{0, 0.2, 0.2},
		{-1, 0.2, 0.2},
		{1.5, 0.2, 0.2},
		{1, 0.2, 1},
	}
	for _, tc := range cases {
		if got := defaultProb(tc.p, tc.fallback); got != tc.want {
			t.Errorf("defaultProb(%v, %v) = %v, want %v", tc.p, tc.fallback, got, tc.want)
		}
	}
}
