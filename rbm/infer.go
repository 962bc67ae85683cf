package rbm

import (
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

var Float = G.Float32

// Inferencer computes the visible read-out of a layer,
//		sigmoid(W·h)
// with a forward-only expression graph. The weights are copied when the Inferencer is created, so
// later training does not affect it.
type Inferencer struct {
	g      *G.ExprGraph
	w, h   *G.Node
	out    *G.Node
	m      G.VM
	hidden *tensor.Dense
	probs  G.Value

	visible int // non-bias visible units
}

// Infer creates an Inferencer from the current weights of l.
func Infer(l Layer) (*Inferencer, error) {
	src := l.Weights()
	shape := src.Shape().Clone()
	if shape.Dims() != 2 {
		return nil, errors.Errorf("Expected a weight matrix. Got shape %v", shape)
	}
	data, ok := src.Data().([]float32)
	if !ok {
		return nil, errors.Errorf("Expected float32 weights. Got %v", src.Dtype())
	}
	weights := tensor.New(tensor.WithShape(shape...), tensor.WithBacking(make([]float32, len(data))))
	copy(weights.Data().([]float32), data)

	retVal := &Inferencer{
		g:       G.NewGraph(),
		hidden:  tensor.New(tensor.WithShape(shape[1]), tensor.WithBacking(make([]float32, shape[1]))),
		visible: shape[0] - 1,
	}
	retVal.w = G.NewMatrix(retVal.g, Float, G.WithShape(shape...), G.WithName("W"), G.WithValue(weights))
	retVal.h = G.NewVector(retVal.g, Float, G.WithShape(shape[1]), G.WithName("h"), G.WithValue(retVal.hidden))

	var m maebe
	retVal.out = m.sigmoid(m.mul(retVal.w, retVal.h))
	if m.err != nil {
		return nil, m.err
	}
	G.Read(retVal.out, &retVal.probs)
	retVal.m = G.NewTapeMachine(retVal.g)
	return retVal, nil
}

// Readout returns the activation probability of every non-bias visible unit given hidden.
func (inf *Inferencer) Readout(hidden Units) ([]float32, error) {
	if len(hidden) != inf.hidden.Shape()[0] {
		return nil, errors.Wrapf(ErrOutOfRange, "Expected %d hidden units. Got %d", inf.hidden.Shape()[0], len(hidden))
	}
	EncodeUnits(hidden, inf.hidden.Data().([]float32))

	inf.m.Reset()
	if err := G.Let(inf.h, inf.hidden); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := inf.m.RunAll(); err != nil {
		return nil, errors.WithStack(err)
	}
	probs := inf.probs.Data().([]float32)
	retVal := make([]float32, inf.visible)
	copy(retVal, probs[:inf.visible])
	return retVal, nil
}

// Close implements io.Closer. The VM is a resource.
func (inf *Inferencer) Close() error { return inf.m.Close() }
