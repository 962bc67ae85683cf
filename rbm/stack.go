package rbm

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// EpochFunc is called at the end of every epoch of layer-wise training with the mean energy of the
// layer being trained.
type EpochFunc func(layer, epoch int, energy float32) error

// Stack is a deep belief network: a stack of RBMs where the hidden units of each layer are the visible
// units of the layer above it.
//
// The bottom layer is a Clamped layer. A Stack is not safe for concurrent use.
type Stack struct {
	Config

	input  *Clamped
	upper  []*Base
	layers []Layer

	// OnEpoch, if set, is called by LayeredLearn after every epoch.
	OnEpoch EpochFunc
}

// NewStack builds a stack with freshly initialized weights.
func NewStack(r Source, conf Config) (*Stack, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("Invalid configuration %+v", conf)
	}
	input, err := newClamped(r, conf.Visible, conf.Hidden[0], conf.StdDev, conf.LearnRate)
	if err != nil {
		return nil, errors.WithMessage(err, "input layer")
	}
	retVal := &Stack{
		Config: conf,
		input:  input,
	}
	var below Layer = input
	for i := 1; i < len(conf.Hidden); i++ {
		var l *Base
		if l, err = newBase(r, below.Hidden(), conf.Hidden[i], conf.StdDev, conf.LearnRate); err != nil {
			return nil, errors.WithMessage(err, "layer "+strconv.Itoa(i))
		}
		retVal.upper = append(retVal.upper, l)
		below = l
	}
	retVal.link()
	return retVal, nil
}

// link rebuilds the ordered layer list.
func (s *Stack) link() {
	s.layers = make([]Layer, 0, len(s.upper)+1)
	s.layers = append(s.layers, s.input)
	for _, l := range s.upper {
		s.layers = append(s.layers, l)
	}
}

// Input returns the bottom layer.
func (s *Stack) Input() *Clamped { return s.input }

// Layers returns the layers, bottom first.
func (s *Stack) Layers() []Layer { return s.layers }

// PropagateInput sets the input layer's visible units and samples the hidden units of the first depth
// layers, bottom up.
func (s *Stack) PropagateInput(r Source, input []bool, depth int) error {
	if depth < 0 || depth > len(s.layers) {
		return errors.Wrapf(ErrOutOfRange, "Cannot propagate to depth %d of %d layers", depth, len(s.layers))
	}
	if err := s.input.SetInput(input); err != nil {
		return err
	}
	for i := 0; i < depth; i++ {
		s.layers[i].ActivateHidden(r)
	}
	return nil
}

// LayeredLearn trains the layers greedily, bottom first.
//
// During epoch e of numEpochs the layer's annealing rate is 1 - e/numEpochs. Every example is propagated
// up to the layer, which then runs one CD estimate and updates its weights over len(inputs) examples.
// The update happens once per example. Every input must have exactly Visible values.
func (s *Stack) LayeredLearn(r Source, inputs [][]bool, numEpochs int) error {
	if len(inputs) == 0 {
		return errors.Wrapf(ErrNoExamples, "Cannot train on %d inputs", len(inputs))
	}
	if numEpochs < 1 {
		return errors.Errorf("Cannot train for %d epochs", numEpochs)
	}
	if err := checkWidths(inputs, s.Visible); err != nil {
		return err
	}
	for li, l := range s.layers {
		for epoch := 0; epoch < numEpochs; epoch++ {
			rate := 1 - (1/float32(numEpochs))*float32(epoch)
			if err := l.SetAnnealingRate(rate); err != nil {
				return errors.WithMessage(err, "layer "+strconv.Itoa(li))
			}

			var total float32
			for i, input := range inputs {
				if err := s.PropagateInput(r, input, li); err != nil {
					return errors.WithMessage(err, "example "+strconv.Itoa(i))
				}
				l.Train(r, s.CDSteps)
				if s.OnEpoch != nil {
					total += l.Energy()
				}
				if err := l.UpdateWeights(len(inputs)); err != nil {
					return err
				}
			}
			if s.OnEpoch != nil {
				if err := s.OnEpoch(li, epoch, total/float32(len(inputs))); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Train treats visible unit 0 of the input layer as a label: it is clamped, so that it stays fixed during
// the Gibbs steps of every CD estimate, and the stack is trained with LayeredLearn.
func (s *Stack) Train(r Source, inputs [][]bool, numEpochs int) error {
	if err := checkWidths(inputs, s.Visible); err != nil {
		return err
	}
	if err := s.input.Clamp(0); err != nil {
		return err
	}
	return s.LayeredLearn(r, inputs, numEpochs)
}

// LayeredGenerate sets seed as the input and runs numCycles sweeps of alternating Gibbs sampling over the
// whole stack: hidden units bottom up, then visible units top down. It returns a copy of the input
// layer's visible units.
func (s *Stack) LayeredGenerate(r Source, seed []bool, numCycles int) (Units, error) {
	if err := s.input.SetInput(seed); err != nil {
		return nil, err
	}
	for cycle := 0; cycle < numCycles; cycle++ {
		for _, l := range s.layers {
			l.ActivateHidden(r)
		}
		for i := len(s.layers) - 1; i >= 0; i-- {
			s.layers[i].ActivateVisible(r)
		}
	}
	return s.input.Visible().Clone(), nil
}

// Settle infers visible unit 0 of every test example. Unit 0 is released, every other visible unit is
// clamped, and for each example the stack settles from a seed made of a random guess for unit 0 followed
// by the example's bits, so every example has exactly Visible-1 values. fn, if not nil, is called after
// each example has settled.
func (s *Stack) Settle(r Source, testInputs [][]bool, numCycles int, fn func(i int, input *Clamped) error) error {
	if err := checkWidths(testInputs, s.Visible-1); err != nil {
		return err
	}
	if err := s.input.Unclamp(0); err != nil {
		return err
	}
	if err := s.input.ClampRange(1, s.Visible); err != nil {
		return err
	}
	for i, x := range testInputs {
		seed := make([]bool, len(x)+1)
		seed[0] = r.Float64() < 0.5
		copy(seed[1:], x)
		if _, err := s.LayeredGenerate(r, seed, numCycles); err != nil {
			return errors.WithMessage(err, "test example "+strconv.Itoa(i))
		}
		if fn != nil {
			if err := fn(i, s.input); err != nil {
				return err
			}
		}
	}
	return nil
}

// Predict settles the stack on every test example and then writes the input layer's visible
// probabilities to w, one per line.
//
// The probabilities are read once, after the last example, so they reflect only that example.
func (s *Stack) Predict(r Source, testInputs [][]bool, numCycles int, w io.Writer) error {
	if err := s.Settle(r, testInputs, numCycles, nil); err != nil {
		return err
	}
	return WriteProbabilities(w, s.input.Predict())
}

// WriteProbabilities writes one probability per line.
func WriteProbabilities(w io.Writer, probs []float32) error {
	bw := bufio.NewWriter(w)
	for _, p := range probs {
		bw.WriteString(strconv.FormatFloat(float64(p), 'g', -1, 32))
		bw.WriteByte('\n')
	}
	return errors.WithStack(bw.Flush())
}

// checkWidths fails on the first row that does not have exactly width values.
func checkWidths(rows [][]bool, width int) error {
	for i, row := range rows {
		if len(row) != width {
			return errors.Wrapf(ErrOutOfRange, "Row %d has %d values, expected %d", i, len(row), width)
		}
	}
	return nil
}
