package game

import "golang.org/x/exp/rand"

// Rand is a seeded generator whose state can be copied, so cloned simulations
// continue the same random sequence independently of each other.
type Rand struct {
	src *rand.PCGSource
	rnd *rand.Rand
}

func NewRand(seed uint64) *Rand {
	src := &rand.PCGSource{}
	src.Seed(seed)
	return &Rand{src: src, rnd: rand.New(src)}
}

func (r *Rand) Clone() *Rand {
	src := *r.src
	return &Rand{src: &src, rnd: rand.New(&src)}
}

func (r *Rand) Intn(n int) int {
	return r.rnd.Intn(n)
}

func (r *Rand) Float64() float64 {
	return r.rnd.Float64()
}

func (r *Rand) Uint64() uint64 {
	return r.rnd.Uint64()
}
