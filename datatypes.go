package dbn

import (
	"github.com/gorgonia/dbn/rbm"
)

type Config struct {
	Name          string
	RBMConf       rbm.Config
	Epochs        int // training epochs per layer
	PredictCycles int // Gibbs sweeps per test example

	// extensions
	Encoder OutputEncoder
}

// DefaultConfig returns the settings of the reference driver: 100 epochs per layer and 25 settling
// sweeps per test example.
func DefaultConfig(visible int, hidden ...int) Config {
	return Config{
		Name:          "DBN",
		RBMConf:       rbm.DefaultConf(visible, hidden...),
		Epochs:        100,
		PredictCycles: 25,
	}
}

func (c Config) IsValid() bool {
	return c.RBMConf.IsValid() &&
		c.Epochs > 0 &&
		c.PredictCycles >= 0
}

// MetaState is the state of a training run at the end of an epoch.
type MetaState interface {
	Name() string
	Layer() int
	Epoch() int
	Energy() float32
	// Weights returns the weight rows of the layer being trained.
	Weights() [][]float32
}

// OutputEncoder encodes the training progress as whatever.
//
// An example OutputEncoder is the GifEncoder in encoding/gif. Another example would be a logger.
type OutputEncoder interface {
	Encode(ms MetaState) error
	Flush() error
}
