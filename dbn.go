package dbn

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gorgonia/dbn/rbm"
	"github.com/pkg/errors"
	"gorgonia.org/tensor/native"
)

// DBN is the top level structure and the entry point of the API.
// It wraps a stack of RBMs with the settings and bookkeeping of a train, save, predict run.
// DBN stands for Deep Belief Network.
type DBN struct {
	// state
	Statistics
	stack *rbm.Stack
	r     rbm.Source

	// config
	conf Config
	enc  OutputEncoder

	// current epoch, for MetaState
	name   string
	layer  int
	epoch  int
	energy float32

	buf    bytes.Buffer
	logger *log.Logger
}

// New creates a DBN with fresh weights. r is used for every random draw; it is never persisted.
func New(conf Config, r rbm.Source) (*DBN, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("Invalid configuration %+v", conf)
	}
	stack, err := rbm.NewStack(r, conf.RBMConf)
	if err != nil {
		return nil, err
	}
	name := conf.Name
	if name == "" {
		name = "UNNAMED DBN"
	}
	retVal := &DBN{
		Statistics: makeStatistics(len(conf.RBMConf.Hidden)),
		r:          r,
		conf:       conf,
		enc:        conf.Encoder,
		name:       name,
	}
	retVal.logger = log.New(&retVal.buf, "", log.Ltime)
	retVal.setStack(stack)
	return retVal, nil
}

func (d *DBN) setStack(s *rbm.Stack) {
	d.stack = s
	d.stack.OnEpoch = d.endEpoch
}

// Stack returns the underlying stack of RBMs.
func (d *DBN) Stack() *rbm.Stack { return d.stack }

// Train trains the stack layer by layer. Visible unit 0 of every input is treated as the label.
func (d *DBN) Train(inputs [][]bool) error {
	log.Printf("Training %v on %d examples, layers %v", d.name, len(inputs), d.conf.RBMConf.Hidden)
	d.logger.Printf("Training on %d examples for %d epochs", len(inputs), d.conf.Epochs)
	if err := d.stack.Train(d.r, inputs, d.conf.Epochs); err != nil {
		return errors.WithMessage(err, "Train fail")
	}
	if d.enc != nil {
		return d.enc.Flush()
	}
	return nil
}

func (d *DBN) endEpoch(layer, epoch int, energy float32) error {
	d.layer, d.epoch, d.energy = layer, epoch, energy
	d.update(layer, epoch, energy)
	d.logger.Printf("Layer %d, epoch %d: energy %v", layer, epoch, energy)
	if epoch == d.conf.Epochs-1 {
		log.Printf("\tLayer %d trained. Final energy %v", layer, energy)
	}
	if d.enc != nil {
		return d.enc.Encode(d)
	}
	return nil
}

// Predict infers the label of every test example and writes the input layer's visible probabilities
// to w, one per line. The probabilities are read once, after the last example.
func (d *DBN) Predict(testInputs [][]bool, w io.Writer) error {
	d.logger.Printf("Predicting %d examples", len(testInputs))
	return d.stack.Predict(d.r, testInputs, d.conf.PredictCycles, w)
}

// PredictEach is like Predict but reads the visible probabilities after every example.
func (d *DBN) PredictEach(testInputs [][]bool) (retVal [][]float32, err error) {
	var inf *rbm.Inferencer
	if inf, err = rbm.Infer(d.stack.Input()); err != nil {
		return nil, err
	}
	defer func() {
		if cerr := inf.Close(); cerr != nil && err == nil {
			err = errors.WithStack(cerr)
		}
	}()

	d.logger.Printf("Predicting %d examples, one read-out each", len(testInputs))
	retVal = make([][]float32, 0, len(testInputs))
	err = d.stack.Settle(d.r, testInputs, d.conf.PredictCycles, func(i int, input *rbm.Clamped) error {
		probs, err := inf.Readout(input.Hidden())
		if err != nil {
			return errors.WithMessage(err, fmt.Sprintf("example %d", i))
		}
		retVal = append(retVal, probs)
		return nil
	})
	return retVal, err
}

// settings is the part of a Config that is saved with the stack.
type settings struct {
	Name          string
	Epochs        int
	PredictCycles int
}

// Save the settings and the stack into filename.
func (d *DBN) Save(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	enc := gob.NewEncoder(f)
	st := settings{
		Name:          d.name,
		Epochs:        d.conf.Epochs,
		PredictCycles: d.conf.PredictCycles,
	}
	if err = enc.Encode(st); err != nil {
		return errors.WithStack(err)
	}
	if err = enc.Encode(d.stack); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(f.Close())
}

// Load a stack saved with Save. The name, the number of epochs, the number of settling sweeps and the
// whole stack come from the file, so the loaded DBN predicts the way the saved one did. The random
// source and the output encoder are kept, and the statistics are cleared.
func (d *DBN) Load(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	var st settings
	s := new(rbm.Stack)
	dec := gob.NewDecoder(f)
	if err = dec.Decode(&st); err != nil {
		return errors.Wrapf(err, "Unable to load %v", filename)
	}
	if err = dec.Decode(s); err != nil {
		return errors.Wrapf(err, "Unable to load %v", filename)
	}
	conf := d.conf
	conf.RBMConf = s.Config
	conf.Epochs, conf.PredictCycles = st.Epochs, st.PredictCycles
	if !conf.IsValid() {
		return errors.Errorf("Invalid configuration in %v: %+v", filename, st)
	}
	d.conf = conf
	d.name = st.Name
	d.setStack(s)
	d.Statistics = makeStatistics(len(s.Hidden))
	return nil
}

// Log writes the execution log.
func (d *DBN) Log(w io.Writer) {
	fmt.Fprint(w, d.buf.String())
}

// ToDot renders the topology of the stack as graphviz.
func (d *DBN) ToDot() (string, error) { return d.stack.ToDot() }

func (d *DBN) Name() string    { return d.name }
func (d *DBN) Layer() int      { return d.layer }
func (d *DBN) Epoch() int      { return d.epoch }
func (d *DBN) Energy() float32 { return d.energy }

// Weights returns the weight rows of the layer most recently trained. The rows share storage with the
// layer.
func (d *DBN) Weights() [][]float32 {
	w, err := native.MatrixF32(d.stack.Layers()[d.layer].Weights())
	if err != nil {
		return nil
	}
	return w
}
