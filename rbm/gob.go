package rbm

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// baseState is the persisted form of a Base. Random sources are never persisted.
type baseState struct {
	Weights, DPos, DNeg *tensor.Dense
	Rate, LearnRate     float32
	Visible, Hidden     []bool
}

func (l *Base) state() baseState {
	return baseState{
		Weights:   l.weights,
		DPos:      l.dPos,
		DNeg:      l.dNeg,
		Rate:      l.rate,
		LearnRate: l.learnRate,
		Visible:   l.visible,
		Hidden:    l.hidden,
	}
}

func (l *Base) restore(st baseState) error {
	if st.Weights == nil || st.DPos == nil || st.DNeg == nil {
		return errors.New("Missing weight matrices")
	}
	visible, hidden := Units(st.Visible), Units(st.Hidden)
	if !visible.valid() || !hidden.valid() {
		return errors.New("Unit vectors must end with an active bias unit")
	}
	shape := st.Weights.Shape()
	if shape.Dims() != 2 || shape[0] != len(visible) || shape[1] != len(hidden) {
		return errors.Errorf("Weights of shape %v do not match %d visible and %d hidden units", shape, len(visible), len(hidden))
	}
	if !st.DPos.Shape().Eq(shape) || !st.DNeg.Shape().Eq(shape) {
		return errors.Errorf("Accumulators of shape %v and %v do not match weights of shape %v", st.DPos.Shape(), st.DNeg.Shape(), shape)
	}
	if !validRate(st.Rate) {
		return errors.Errorf("Annealing rate must be in (0, 1]. Got %v", st.Rate)
	}
	l.weights, l.dPos, l.dNeg = st.Weights, st.DPos, st.DNeg
	l.rate, l.learnRate = st.Rate, st.LearnRate
	l.visible, l.hidden = visible, hidden
	return l.views()
}

func (l *Base) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(l.state()); err != nil {
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}

func (l *Base) GobDecode(p []byte) error {
	var st baseState
	if err := gob.NewDecoder(bytes.NewReader(p)).Decode(&st); err != nil {
		return errors.WithStack(err)
	}
	return l.restore(st)
}

type clampedState struct {
	Base    baseState
	Clamped []bool
}

func (l *Clamped) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	st := clampedState{
		Base:    l.Base.state(),
		Clamped: l.clamped,
	}
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}

func (l *Clamped) GobDecode(p []byte) error {
	var st clampedState
	if err := gob.NewDecoder(bytes.NewReader(p)).Decode(&st); err != nil {
		return errors.WithStack(err)
	}
	if err := l.Base.restore(st.Base); err != nil {
		return err
	}
	if len(st.Clamped) != l.visible.Len() {
		return errors.Errorf("%d clamp flags for %d visible units", len(st.Clamped), l.visible.Len())
	}
	l.clamped = st.Clamped
	return nil
}

// GobEncode writes the configuration followed by every layer, bottom first.
func (s *Stack) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(s.Config); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := enc.Encode(s.input); err != nil {
		return nil, errors.Wrapf(err, "input layer")
	}
	for i, l := range s.upper {
		if err := enc.Encode(l); err != nil {
			return nil, errors.Wrapf(err, "layer %d", i+1)
		}
	}
	return buf.Bytes(), nil
}

// GobDecode restores a stack and shares the hidden units of every layer with the visible units of the
// layer above it again.
func (s *Stack) GobDecode(p []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(p))
	var conf Config
	if err := dec.Decode(&conf); err != nil {
		return errors.WithStack(err)
	}
	if !conf.IsValid() {
		return errors.Errorf("Invalid configuration %+v", conf)
	}
	input := new(Clamped)
	if err := dec.Decode(input); err != nil {
		return errors.Wrapf(err, "input layer")
	}
	if input.visible.Len() != conf.Visible || input.hidden.Len() != conf.Hidden[0] {
		return errors.Errorf("Input layer is %d×%d, expected %d×%d", input.visible.Len(), input.hidden.Len(), conf.Visible, conf.Hidden[0])
	}

	var below Layer = input
	upper := make([]*Base, 0, len(conf.Hidden)-1)
	for i := 1; i < len(conf.Hidden); i++ {
		l := new(Base)
		if err := dec.Decode(l); err != nil {
			return errors.Wrapf(err, "layer %d", i)
		}
		if l.hidden.Len() != conf.Hidden[i] || len(l.visible) != len(below.Hidden()) {
			return errors.Errorf("Layer %d does not fit on the layer below it", i)
		}
		l.visible = below.Hidden()
		upper = append(upper, l)
		below = l
	}

	s.Config = conf
	s.input = input
	s.upper = upper
	s.link()
	return nil
}
