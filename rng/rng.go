// SPDX-License-Identifier: MIT
// Package: lvising/rng
//
// Package rng provides the deterministic bit generator used by every sampler.
//
// The generator is George Marsaglia's multiply-with-carry pair: two 16-bit
// lag-1 MWC streams concatenated into one 32-bit output. Floats in [0,1) are
// produced by planting 23 random bits into the mantissa of a float32 in
// [1,2) and subtracting one.
//
// Goals:
//   - Determinism: same seed ⇒ identical sequence on every platform.
//   - Encapsulation: seeds are explicit; TimeSeed is the only entropy source.
//   - Performance: no allocations, no locks, O(1) per draw.
//
// Concurrency:
//   - *MWC is NOT goroutine-safe. Do not share one across goroutines.
//   - Use Derive to create independent streams for trials and replicas.
package rng

import (
	"math"
	"time"
)

// Marsaglia's reference seeds; used to replace a zero half, which would make
// the corresponding stream absorbing at zero.
const (
	defaultZ uint32 = 362436069
	defaultW uint32 = 521288629
)

// MWC is a multiply-with-carry generator with 64 bits of state.
type MWC struct {
	z uint32
	w uint32
}

// New returns a generator seeded from seed.
// The high half seeds z and the low half seeds w; zero halves fall back to
// the reference constants.
//
// Complexity: O(1).
func New(seed uint64) *MWC {
	g := &MWC{}
	g.Seed(seed)
	return g
}

// Seed resets the generator state from seed.
func (g *MWC) Seed(seed uint64) {
	g.z = uint32(seed >> 32)
	g.w = uint32(seed)
	if g.z == 0 {
		g.z = defaultZ
	}
	if g.w == 0 {
		g.w = defaultW
	}
}

// State returns the raw (z, w) pair.
func (g *MWC) State() (z, w uint32) { return g.z, g.w }

func (g *MWC) nextZ() uint32 {
	g.z = 36969*(g.z&0xffff) + (g.z >> 16)
	return g.z
}

func (g *MWC) nextW() uint32 {
	g.w = 18000*(g.w&0xffff) + (g.w >> 16)
	return g.w
}

// Uint32 returns the next uniform 32-bit value.
func (g *MWC) Uint32() uint32 {
	return (g.nextZ() << 16) + g.nextW()
}

// Float32 returns a uniform float32 in [0,1).
func (g *MWC) Float32() float32 {
	return math.Float32frombits(0x3F800000|(g.Uint32()>>9)) - 1
}

// Float64 returns Float32 widened to float64; still in [0,1).
func (g *MWC) Float64() float64 {
	return float64(g.Float32())
}

// Intn returns Uint32() % n. It panics if n <= 0.
func (g *MWC) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn with non-positive n")
	}
	return int(g.Uint32() % uint32(n))
}

// Shuffle permutes a with one MWC%n swap per position, the same pass the
// pseudo-random sweep uses.
//
// Complexity: O(n) time, O(1) extra space.
func (g *MWC) Shuffle(a []int) {
	n := len(a)
	if n <= 1 {
		return
	}
	for i := 0; i < n; i++ {
		j := g.Intn(n)
		a[i], a[j] = a[j], a[i]
	}
}

// DeriveSeed mixes a parent seed and a stream identifier into a new seed
// with the SplitMix64 finalizer, so consecutive stream ids give unrelated
// seeds.
//
// Complexity: O(1).
func DeriveSeed(parent, stream uint64) uint64 {
	x := parent ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Derive returns a generator seeded with DeriveSeed(parent, stream).
func Derive(parent, stream uint64) *MWC {
	return New(DeriveSeed(parent, stream))
}

// TimeSeed returns a seed from the wall clock. Only the CLI uses it, and only
// when no explicit seed was configured.
func TimeSeed() uint64 {
	return uint64(time.Now().UnixNano())
}
