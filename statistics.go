package dbn

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Statistics records the mean energy of every layer at the end of every training epoch.
type Statistics struct {
	Energies [][]float32 // indexed by layer, then epoch
}

func makeStatistics(layers int) Statistics {
	return Statistics{
		Energies: make([][]float32, layers),
	}
}

func (s *Statistics) update(layer, epoch int, energy float32) {
	for len(s.Energies) <= layer {
		s.Energies = append(s.Energies, nil)
	}
	if epoch == 0 {
		s.Energies[layer] = s.Energies[layer][:0]
	}
	s.Energies[layer] = append(s.Energies[layer], energy)
}

// Dump writes the statistics as CSV: a header naming the layers and one row per epoch.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)

	header := make([]string, len(s.Energies)+1)
	header[0] = "epoch"
	var epochs int
	for i, e := range s.Energies {
		header[i+1] = fmt.Sprintf("layer%d", i)
		if len(e) > epochs {
			epochs = len(e)
		}
	}
	if err := w.Write(header); err != nil {
		return errors.WithStack(err)
	}

	records := make([][]string, 0, epochs)
	for epoch := 0; epoch < epochs; epoch++ {
		record := make([]string, len(s.Energies)+1)
		record[0] = strconv.Itoa(epoch)
		for i, e := range s.Energies {
			if epoch < len(e) {
				record[i+1] = strconv.FormatFloat(float64(e[epoch]), 'f', 3, 32)
			}
		}
		records = append(records, record)
	}
	if err := w.WriteAll(records); err != nil {
		return errors.WithStack(err)
	}
	w.Flush()
	return errors.WithStack(f.Close())
}
