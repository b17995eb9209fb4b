// Package redteam generates adversarial Python samples: multi-function,
// probabilistic, chained logic bombs with light identifier obfuscation.
// The samples exercise the deep-inlining extractor and the adversarial
// classifier in tests and the redteam CLI command.
package redteam

import (
	"fmt"
	"math/rand"
	"strings"
)

const identLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// invisible characters slipped into identifiers to confuse naive scanners
var invisibleChars = []string{"", "​", "‌", "‍", "_"}

// Generator produces adversarial samples from a seeded source so test runs
// are reproducible.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator. seed 0 means a nondeterministic seed.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Ident returns a randomized identifier with optional invisible-character
// obfuscation.
func (g *Generator) Ident(prefix string) string {
	n := 4 + g.rng.Intn(5)
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(invisibleChars[g.rng.Intn(len(invisibleChars))])
	for i := 0; i < n; i++ {
		sb.WriteByte(identLetters[g.rng.Intn(len(identLetters))])
	}
	return sb.String()
}

// Bomb returns one multi-function probabilistic chained bomb in Python.
// The dangerous action is split across helpers so only deep inlining
// surfaces it.
func (g *Generator) Bomb() string {
	seed := g.Ident("seed_")
	fuse := g.Ident("fuse_")
	det := g.Ident("det_")
	bomb := g.Ident("bomb_")

	return fmt.Sprintf(`import random, os

def %[1]s(x):
    if random.random() > 0.5:
        return x ^ 0x%[5]X
    return x

def %[2]s(y):
    z = y // 3
    if y > 12345:
        return y * 2
    return z

def %[3]s(z):
    if z & 0x%[6]X == 0x%[7]X:
        return %[1]s(z) ^ %[2]s(z)
    return z

def %[4]s(w):
    k = %[3]s(w)
    if random.random() < 0.%[8]02d:
        os.system('shutdown -h now')
        print("logic bomb detonated")
`,
		seed, fuse, det, bomb,
		0x100000+g.rng.Intn(0xEFFFFF),
		1+g.rng.Intn(15),
		1+g.rng.Intn(15),
		5+g.rng.Intn(90),
	)
}

// Suite returns n independent bomb samples.
func (g *Generator) Suite(n int) []string {
	samples := make([]string, n)
	for i := range samples {
		samples[i] = g.Bomb()
	}
	return samples
}
