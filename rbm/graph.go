package rbm

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// ToDot renders the stack as a graphviz graph. Every unit vector is a node and every layer is an edge
// between its visible and hidden units, so a vector shared by two layers appears once.
func (s *Stack) ToDot() (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		return "", errors.WithStack(err)
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.WithStack(err)
	}

	names := make([]string, len(s.layers)+1)
	names[0] = "input"
	for i := range s.layers {
		names[i+1] = fmt.Sprintf("h%d", i)
	}

	for i, name := range names {
		var units Units
		if i == 0 {
			units = s.input.Visible()
		} else {
			units = s.layers[i-1].Hidden()
		}
		attrs := map[string]string{
			"shape": "box",
			"label": fmt.Sprintf("%q", fmt.Sprintf("%s\n%d units + bias", name, units.Len())),
		}
		if err := g.AddNode("G", name, attrs); err != nil {
			return "", errors.WithStack(err)
		}
	}

	for i, l := range s.layers {
		attrs := map[string]string{
			"label": fmt.Sprintf("%q", fmt.Sprintf("layer %d\nrate %.3g\nmean |w| %.3g", i, l.AnnealingRate(), meanAbs(l.Weights().Data().([]float32)))),
		}
		if err := g.AddEdge(names[i], names[i+1], true, attrs); err != nil {
			return "", errors.WithStack(err)
		}
	}
	return g.String(), nil
}

func meanAbs(a []float32) float32 {
	if len(a) == 0 {
		return 0
	}
	var sum float32
	for _, v := range a {
		sum += math32.Abs(v)
	}
	return sum / float32(len(a))
}
