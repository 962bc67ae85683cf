package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseMatrix(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    [][]bool
		wantErr bool
	}{
		{"plain", "1,0,1\n0,0,1\n", [][]bool{{true, false, true}, {false, false, true}}, false},
		{"spaces", "1, 0,  1\n0 ,1,0", [][]bool{{true, false, true}, {false, true, false}}, false},
		{"words", "true,false\nF,T\n", [][]bool{{true, false}, {false, true}}, false},
		{"blank lines are skipped", "1,0\n\n0,1\n", [][]bool{{true, false}, {false, true}}, false},
		{"ragged", "1,0,1\n0,1\n", nil, true},
		{"not a bit", "1,0\n0,2\n", nil, true},
		{"empty", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMatrix(strings.NewReader(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMatrix() error = %v, wantErr %v", err, tt.wantErr)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMatrixErrors(t *testing.T) {
	_, err := ParseMatrix(strings.NewReader("1,0,1\n0,1\n"))
	var perr *csv.ParseError
	if assert.True(t, errors.As(err, &perr), "expected a csv.ParseError, got %v", err) {
		assert.Equal(t, 2, perr.Line)
		assert.Equal(t, csv.ErrFieldCount, perr.Err)
	}

	_, err = ParseMatrix(strings.NewReader("1,0\n1,x\n"))
	assert.EqualError(t, err, `line 2, column 3: "x" is not a bit`)

	_, err = ParseMatrix(strings.NewReader(""))
	assert.Equal(t, ErrEmpty, err)
}

func TestParseSizes(t *testing.T) {
	got, err := ParseSizes(strings.NewReader("10\n 5 \n\n2\n"))
	assert.NoError(t, err)
	assert.Equal(t, []int{10, 5, 2}, got)

	for _, in := range []string{"10\n0\n", "10\n-3\n", "ten\n", "", "\n\n"} {
		_, err := ParseSizes(strings.NewReader(in))
		assert.Error(t, err, "%q", in)
	}
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "train.txt")
	sizes := filepath.Join(dir, "layers.txt")
	if err := os.WriteFile(data, []byte("1,0\n0,1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sizes, []byte("3\n2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := ReadMatrix(data)
	assert.NoError(t, err)
	assert.Equal(t, [][]bool{{true, false}, {false, true}}, m)

	s, err := ReadSizes(sizes)
	assert.NoError(t, err)
	assert.Equal(t, []int{3, 2}, s)

	_, err = ReadMatrix(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
	_, err = ReadSizes(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
