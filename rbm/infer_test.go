package rbm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferencer(t *testing.T) {
	s := newTestStack(t, 1, 6, 4, 3)
	r := rand.New(rand.NewSource(21))
	if err := s.Train(r, trainingSet, 3); err != nil {
		t.Fatalf("%+v", err)
	}

	inf, err := Infer(s.Input())
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer inf.Close()

	err = s.Settle(r, testSet, 5, func(i int, input *Clamped) error {
		got, err := inf.Readout(input.Hidden())
		if err != nil {
			return err
		}
		want := input.Predict()
		assert.Len(t, got, len(want))
		for j := range want {
			assert.InDelta(t, want[j], got[j], 1e-5, "example %d, unit %d", i, j)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("%+v", err)
	}

	_, err = inf.Readout(Units{true, true})
	assert.Error(t, err)
}

func TestInferencerIsASnapshot(t *testing.T) {
	l, err := NewClamped(constSource(0), 2, 3)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	l.SetWeights(fixedWeights())
	inf, err := Infer(l)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer inf.Close()

	before, err := inf.Readout(l.Hidden())
	if err != nil {
		t.Fatalf("%+v", err)
	}
	l.Weights().Data().([]float32)[3] = 10
	after, err := inf.Readout(l.Hidden())
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, before, after)
	assert.InDelta(t, logsig(0.3, 1), after[0], 1e-5)
}

func TestEncodeUnits(t *testing.T) {
	assert.Equal(t, []float32{1, 0, 1}, EncodeUnits([]bool{true, false, true}, nil))
	prealloc := []float32{5, 5}
	got := EncodeUnits([]bool{false, true}, prealloc)
	assert.Equal(t, []float32{0, 1}, got)
	assert.Equal(t, prealloc, got, "a preallocated slice of the right size is reused")
}
