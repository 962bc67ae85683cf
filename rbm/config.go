package rbm

// Config configures a stack of RBMs.
type Config struct {
	Visible int   // number of input units, not counting the bias
	Hidden  []int // hidden layer widths, bottom to top

	LearnRate float32 // scale of the contrastive divergence update
	StdDev    float64 // standard deviation of the initial weights
	CDSteps   int     // Gibbs steps per contrastive divergence estimate
}

const (
	DefaultLearnRate = 0.2
	DefaultStdDev    = 0.1
	DefaultCDSteps   = 5
)

// DefaultConf returns the configuration for an input of the given length and the given hidden layer widths.
func DefaultConf(visible int, hidden ...int) Config {
	sizes := make([]int, len(hidden))
	copy(sizes, hidden)
	return Config{
		Visible:   visible,
		Hidden:    sizes,
		LearnRate: DefaultLearnRate,
		StdDev:    DefaultStdDev,
		CDSteps:   DefaultCDSteps,
	}
}

func (conf Config) IsValid() bool {
	if conf.Visible < 1 || len(conf.Hidden) == 0 {
		return false
	}
	for _, h := range conf.Hidden {
		if h < 1 {
			return false
		}
	}
	return conf.LearnRate > 0 &&
		conf.StdDev >= 0 &&
		conf.CDSteps >= 0
}
