// Package dataset reads the text files a DBN is trained and tested on.
//
// A data file has one example per line, its bits separated by commas:
//
//	1, 0, 1, 1
//	0, 0, 1, 0
//
// A sizes file has one hidden layer width per line, bottom layer first.
package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrEmpty is returned when a file holds no rows.
var ErrEmpty = errors.New("no rows")

// ReadMatrix reads a data file.
func ReadMatrix(filename string) ([][]bool, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	m, err := ParseMatrix(f)
	if err != nil {
		return nil, errors.WithMessage(err, filename)
	}
	return m, nil
}

// ParseMatrix parses rows of comma separated bits. Every row must have as many bits as the first one.
// A bit is anything strconv.ParseBool accepts.
func ParseMatrix(r io.Reader) ([][]bool, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 0

	var retVal [][]bool
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "malformed row %d", len(retVal)+1)
		}
		row := make([]bool, len(record))
		for i, field := range record {
			if row[i], err = strconv.ParseBool(strings.TrimSpace(field)); err != nil {
				line, col := reader.FieldPos(i)
				return nil, errors.Errorf("line %d, column %d: %q is not a bit", line, col, field)
			}
		}
		retVal = append(retVal, row)
	}
	if len(retVal) == 0 {
		return nil, ErrEmpty
	}
	return retVal, nil
}

// ReadSizes reads a sizes file.
func ReadSizes(filename string) ([]int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	sizes, err := ParseSizes(f)
	if err != nil {
		return nil, errors.WithMessage(err, filename)
	}
	return sizes, nil
}

// ParseSizes parses one positive integer per line. Blank lines are skipped.
func ParseSizes(r io.Reader) ([]int, error) {
	var retVal []int
	s := bufio.NewScanner(r)
	for line := 1; s.Scan(); line++ {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			continue
		}
		size, err := strconv.Atoi(text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if size < 1 {
			return nil, errors.Errorf("line %d: layer size must be positive. Got %d", line, size)
		}
		retVal = append(retVal, size)
	}
	if err := s.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	if len(retVal) == 0 {
		return nil, ErrEmpty
	}
	return retVal, nil
}
