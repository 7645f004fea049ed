package generator

import "math/rand"

// Uniform generates integers in [lb, ub] randomly.
type Uniform struct {
	lb       int64
	ub       int64
	interval int64
}

// NewUniform creates the Uniform generator.
func NewUniform(lb int64, ub int64) *Uniform {
	return &Uniform{
		lb:       lb,
		ub:       ub,
		interval: ub - lb + 1,
	}
}

// Next returns the next value.
func (u *Uniform) Next(r *rand.Rand) int64 {
	return r.Int63n(u.interval) + u.lb
}

// Pick returns a uniformly chosen element of choices.
func Pick(r *rand.Rand, choices []string) string {
	return choices[NewUniform(0, int64(len(choices)-1)).Next(r)]
}
