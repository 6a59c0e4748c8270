// Package randutil builds reproducible random sources for races.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a PCG-backed *rand.Rand derived from a single int64 seed. The
// same seed always yields the same sequence of advancements.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(u), splitmix(u+goldenRatio64)))
}

// Resolve returns the explicit seed when one was given, otherwise a seed
// taken from the wall clock. The second value reports which one was used.
func Resolve(explicit *int64) (int64, bool) {
	if explicit != nil {
		return *explicit, true
	}
	return time.Now().UnixNano(), false
}

// Derive returns n independent seeds for parallel workers.
func Derive(seed int64, n int) []int64 {
	r := New(seed)
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = r.Int64()
	}
	return seeds
}

func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
