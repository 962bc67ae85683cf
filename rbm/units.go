package rbm

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Source is a source of random numbers. *math/rand.Rand satisfies it.
//
// Every stochastic operation takes a Source so that sampling can be made deterministic.
type Source interface {
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64
	// NormFloat64 returns a draw from the standard normal distribution.
	NormFloat64() float64
}

// Units is a vector of binary units. The final slot is the bias unit, which is always on.
//
// A Units value may be shared between two layers: the hidden units of one layer are the
// visible units of the layer above it. Writes through either layer are seen by both.
type Units []bool

func makeUnits(n int) Units {
	retVal := make(Units, n+1)
	retVal[n] = true
	return retVal
}

// Len returns the number of units, not counting the bias.
func (u Units) Len() int { return len(u) - 1 }

// Clone returns a copy of the units that does not share storage with u.
func (u Units) Clone() Units {
	retVal := make(Units, len(u))
	copy(retVal, u)
	return retVal
}

func (u Units) valid() bool { return len(u) >= 2 && u[len(u)-1] }

// set overwrites the leading units with values. The bias is never written.
func (u Units) set(values []bool) error {
	if len(values) > u.Len() {
		return errors.Wrapf(ErrOutOfRange, "%d values given for %d units", len(values), u.Len())
	}
	copy(u, values)
	return nil
}

// logsig is the logistic function, sharpened by a rate in (0, 1].
func logsig(x, rate float32) float32 {
	return 1 / (1 + math32.Exp(-x/rate))
}

// sample reports whether a unit with activation probability p turns on.
func sample(r Source, p float32) bool { return r.Float64() < float64(p) }
