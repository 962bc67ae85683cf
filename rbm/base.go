package rbm

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/tensor/native"
	"gorgonia.org/vecf32"
)

// Base is a restricted Boltzmann machine with a visible and a hidden layer of binary units.
//
// The weight matrix and both gradient accumulators are (visible+1) × (hidden+1), bias row and column
// included. Base is not safe for concurrent use.
type Base struct {
	visible, hidden Units

	weights    *tensor.Dense
	dPos, dNeg *tensor.Dense

	// row views into the dense backings above
	w, pos, neg [][]float32

	rate      float32 // annealing rate
	learnRate float32
}

// NewBase creates a layer with fresh visible units and weights drawn from N(0, 0.1²).
func NewBase(r Source, visible, hidden int) (*Base, error) {
	if visible < 1 {
		return nil, errors.Errorf("Cannot create a layer with %d visible units", visible)
	}
	return newBase(r, makeUnits(visible), hidden, DefaultStdDev, DefaultLearnRate)
}

// NewBaseOn creates a layer whose visible units are the given units. The storage is shared, not copied,
// which is how a layer is stacked on the hidden units of the layer below.
func NewBaseOn(r Source, visible Units, hidden int) (*Base, error) {
	return newBase(r, visible, hidden, DefaultStdDev, DefaultLearnRate)
}

func newBase(r Source, visible Units, hidden int, stdDev float64, learnRate float32) (*Base, error) {
	if !visible.valid() {
		return nil, errors.Errorf("Visible units must end with an active bias unit. Got %v", visible)
	}
	if hidden < 1 {
		return nil, errors.Errorf("Cannot create a layer with %d hidden units", hidden)
	}
	retVal := &Base{
		visible:   visible,
		hidden:    makeUnits(hidden),
		rate:      1,
		learnRate: learnRate,
	}
	rows, cols := len(visible), hidden+1
	retVal.weights = newMatrix(rows, cols)
	retVal.dPos = newMatrix(rows, cols)
	retVal.dNeg = newMatrix(rows, cols)
	if err := retVal.views(); err != nil {
		return nil, err
	}
	for i := range retVal.w {
		for j := range retVal.w[i] {
			retVal.w[i][j] = float32(stdDev * r.NormFloat64())
		}
	}
	return retVal, nil
}

func newMatrix(rows, cols int) *tensor.Dense {
	return tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(make([]float32, rows*cols)))
}

// views rebuilds the row views after the dense matrices were (re)allocated.
func (l *Base) views() (err error) {
	if l.w, err = native.MatrixF32(l.weights); err != nil {
		return errors.Wrapf(err, "weights")
	}
	if l.pos, err = native.MatrixF32(l.dPos); err != nil {
		return errors.Wrapf(err, "positive accumulator")
	}
	if l.neg, err = native.MatrixF32(l.dNeg); err != nil {
		return errors.Wrapf(err, "negative accumulator")
	}
	return nil
}

func (l *Base) ActivateHidden(r Source) {
	activateHidden(r, l.visible, l.hidden, l.w, l.rate)
}

func (l *Base) ActivateVisible(r Source) {
	for i := 0; i < l.visible.Len(); i++ {
		l.visible[i] = sample(r, logsig(visibleSum(l.w[i], l.hidden), 1))
	}
}

func (l *Base) AccumulatePositive() { accumulate(l.pos, l.visible, l.hidden) }
func (l *Base) AccumulateNegative() { accumulate(l.neg, l.visible, l.hidden) }

func (l *Base) Train(r Source, numCycles int) { contrastiveDivergence(l, r, numCycles) }

// UpdateWeights performs
//		W += learnRate * (dPos - dNeg) / numExamples
// and then zeroes both accumulators.
func (l *Base) UpdateWeights(numExamples int) error {
	if numExamples < 1 {
		return errors.Wrapf(ErrNoExamples, "Cannot update weights over %d examples", numExamples)
	}
	w := l.weights.Data().([]float32)
	diff := borrowF32(len(w))
	copy(diff, l.dPos.Data().([]float32))
	vecf32.Sub(diff, l.dNeg.Data().([]float32))
	vecf32.Scale(diff, l.learnRate/float32(numExamples))
	vecf32.Add(w, diff)
	returnF32(diff)

	l.dPos.Zero()
	l.dNeg.Zero()
	return nil
}

// Energy is the negated sum of the weights between active unit pairs.
func (l *Base) Energy() float32 { return energy(l.w, l.visible, l.hidden) }

// Visible returns the visible units. They are shared with the layer below, if any.
func (l *Base) Visible() Units { return l.visible }

// Hidden returns the hidden units. They are shared with the layer above, if any.
func (l *Base) Hidden() Units { return l.hidden }

// SetInput overwrites the leading visible units. It is an error to pass more values than there are
// non-bias visible units.
func (l *Base) SetInput(values []bool) error { return l.visible.set(values) }

func (l *Base) AnnealingRate() float32 { return l.rate }

// SetAnnealingRate sets the rate that sharpens the hidden sigmoid. It must be in (0, 1].
func (l *Base) SetAnnealingRate(rate float32) error {
	if !validRate(rate) {
		return errors.Errorf("Annealing rate must be in (0, 1]. Got %v", rate)
	}
	l.rate = rate
	return nil
}

func validRate(rate float32) bool { return !math32.IsNaN(rate) && rate > 0 && rate <= 1 }

func (l *Base) LearnRate() float32 { return l.learnRate }

// Weights returns the weight matrix. Changes to it are seen by the layer.
func (l *Base) Weights() *tensor.Dense { return l.weights }

// SetWeights replaces the weight matrix with a copy of w, which must have the layer's shape.
func (l *Base) SetWeights(w *tensor.Dense) error {
	if !w.Shape().Eq(l.weights.Shape()) {
		return errors.Errorf("Expected weights of shape %v. Got %v", l.weights.Shape(), w.Shape())
	}
	data, ok := w.Data().([]float32)
	if !ok {
		return errors.Errorf("Expected float32 weights. Got %v", w.Dtype())
	}
	copy(l.weights.Data().([]float32), data)
	return nil
}

// Accumulators returns the positive and negative gradient accumulators.
func (l *Base) Accumulators() (dPos, dNeg *tensor.Dense) { return l.dPos, l.dNeg }
