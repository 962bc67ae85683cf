package rbm

import (
	"github.com/pkg/errors"
)

// Clamped is an input layer whose visible units can be clamped. A clamped unit is treated as known
// evidence: visible resampling never changes it.
//
// Clamp indices address the non-bias visible units, [0, n). Any index or range outside of that fails
// with an error wrapping ErrOutOfRange, and no flag is changed.
type Clamped struct {
	Base
	clamped []bool
}

// NewClamped creates an input layer with no units clamped.
func NewClamped(r Source, visible, hidden int) (*Clamped, error) {
	return newClamped(r, visible, hidden, DefaultStdDev, DefaultLearnRate)
}

func newClamped(r Source, visible, hidden int, stdDev float64, learnRate float32) (*Clamped, error) {
	if visible < 1 {
		return nil, errors.Errorf("Cannot create a layer with %d visible units", visible)
	}
	base, err := newBase(r, makeUnits(visible), hidden, stdDev, learnRate)
	if err != nil {
		return nil, err
	}
	return &Clamped{
		Base:    *base,
		clamped: make([]bool, visible),
	}, nil
}

func (l *Clamped) checkRange(start, end int) error {
	if start < 0 || end > len(l.clamped) || start > end {
		return errors.Wrapf(ErrOutOfRange, "Cannot clamp [%d, %d) of %d visible units", start, end, len(l.clamped))
	}
	return nil
}

func (l *Clamped) setClamp(start, end int, v bool) error {
	if err := l.checkRange(start, end); err != nil {
		return err
	}
	for i := start; i < end; i++ {
		l.clamped[i] = v
	}
	return nil
}

// Clamp holds the visible unit at index fixed.
func (l *Clamped) Clamp(index int) error { return l.setClamp(index, index+1, true) }

// ClampRange clamps the visible units in [start, end).
func (l *Clamped) ClampRange(start, end int) error { return l.setClamp(start, end, true) }

func (l *Clamped) Unclamp(index int) error { return l.setClamp(index, index+1, false) }

// UnclampRange releases the visible units in [start, end).
func (l *Clamped) UnclampRange(start, end int) error { return l.setClamp(start, end, false) }

func (l *Clamped) UnclampAll() {
	for i := range l.clamped {
		l.clamped[i] = false
	}
}

// IsClamped reports whether the visible unit at index is clamped. Out of range indices are never clamped.
func (l *Clamped) IsClamped(index int) bool {
	return index >= 0 && index < len(l.clamped) && l.clamped[index]
}

// ActivateVisible resamples the unclamped visible units. Clamped units keep their value and do not
// consume a random draw.
func (l *Clamped) ActivateVisible(r Source) {
	for i, c := range l.clamped {
		if c {
			continue
		}
		l.visible[i] = sample(r, logsig(visibleSum(l.w[i], l.hidden), 1))
	}
}

func (l *Clamped) Train(r Source, numCycles int) { contrastiveDivergence(l, r, numCycles) }

// SetInput overwrites the leading visible units, clamped or not. It is used to load a fresh observation
// before clamping.
func (l *Clamped) SetInput(values []bool) error { return l.visible.set(values) }

// Predict returns the activation probability of every non-bias visible unit given the current hidden
// units. Nothing is sampled.
func (l *Clamped) Predict() []float32 {
	retVal := make([]float32, l.visible.Len())
	for i := range retVal {
		retVal[i] = logsig(visibleSum(l.w[i], l.hidden), 1)
	}
	return retVal
}

// Energy mirrors Base.Energy over the input layer's units.
func (l *Clamped) Energy() float32 { return energy(l.w, l.visible, l.hidden) }
