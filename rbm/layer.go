package rbm

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

var (
	// ErrOutOfRange is returned when a unit index or an input falls outside a layer.
	ErrOutOfRange = errors.New("out of range")
	// ErrNoExamples is returned when an update or a training run has no examples to work with.
	ErrNoExamples = errors.New("no examples")
)

// Layer is a two layer restricted Boltzmann machine with binary units.
//
// Base is the plain variant; Clamped adds visible units that are held fixed during sampling.
type Layer interface {
	// ActivateVisible resamples the non-bias visible units from the hidden units.
	ActivateVisible(r Source)
	// ActivateHidden resamples the non-bias hidden units from the visible units.
	ActivateHidden(r Source)

	AccumulatePositive()
	AccumulateNegative()

	// Train runs one CD-k estimate from the current visible state into the accumulators.
	Train(r Source, numCycles int)
	// UpdateWeights applies the accumulated gradient over numExamples and clears the accumulators.
	UpdateWeights(numExamples int) error

	Energy() float32

	Visible() Units
	Hidden() Units
	SetInput(values []bool) error

	AnnealingRate() float32
	SetAnnealingRate(rate float32) error

	Weights() *tensor.Dense
}

// contrastiveDivergence samples the hidden units from the data, records the positive phase,
// runs numCycles alternating Gibbs steps and records the negative phase.
//
// l must be the outermost layer value so that a Clamped layer resamples its own visible units.
func contrastiveDivergence(l Layer, r Source, numCycles int) {
	l.ActivateHidden(r)
	l.AccumulatePositive()
	for i := 0; i < numCycles; i++ {
		l.ActivateVisible(r)
		l.ActivateHidden(r)
	}
	l.AccumulateNegative()
}

func activateHidden(r Source, visible, hidden Units, w [][]float32, rate float32) {
	for i := 0; i < hidden.Len(); i++ {
		var sum float32
		for j, on := range visible {
			if on {
				sum += w[j][i]
			}
		}
		hidden[i] = sample(r, logsig(sum, rate))
	}
}

// visibleSum is the input to a visible unit whose weight row is row.
func visibleSum(row []float32, hidden Units) (sum float32) {
	for j, on := range hidden {
		if on {
			sum += row[j]
		}
	}
	return sum
}

func accumulate(d [][]float32, visible, hidden Units) {
	for i, on := range visible {
		if !on {
			continue
		}
		row := d[i]
		for j, hon := range hidden {
			if hon {
				row[j]++
			}
		}
	}
}

func energy(w [][]float32, visible, hidden Units) float32 {
	var e float32
	for i, on := range visible {
		if !on {
			continue
		}
		e -= visibleSum(w[i], hidden)
	}
	return e
}
