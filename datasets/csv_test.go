package datasets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

func TestReadCSV(t *testing.T) {
	input := `x,y
1, 2
2, 4
# comment
3, 5
`
	ds, names, err := ReadCSV(strings.NewReader(input), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"intercept", "x"}, names)

	n, p := ds.Dims()
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, p)
	assert.Equal(t, []float64{1, 1, 1}, ds.X.Col(0))
	assert.Equal(t, []float64{1, 2, 3}, ds.X.Col(1))
	assert.Equal(t, []float64{2, 4, 5}, ds.Y.Col(0))
}

func TestReadCSVWithoutHeader(t *testing.T) {
	ds, names, err := ReadCSV(strings.NewReader("1,2,3\n4,5,6\n"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"intercept", "x1", "x2"}, names)
	assert.Equal(t, []float64{3, 6}, ds.Y.Col(0))
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		header bool
		is     error
	}{
		{name: "empty", input: "", header: false, is: errors.ErrEmptyData},
		{name: "header only", input: "x,y\n", header: true, is: errors.ErrEmptyData},
		{name: "ragged rows", input: "1,2\n1,2,3\n", is: errors.ErrDimensionMismatch},
		{name: "short header", input: "a\n1,2,3\n4,5,6\n", header: true, is: errors.ErrDimensionMismatch},
		{name: "long header", input: "a,b,c\n1,2\n", header: true, is: errors.ErrDimensionMismatch},
		{name: "single column", input: "1\n2\n"},
		{name: "not a number", input: "1,abc\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadCSV(strings.NewReader(tt.input), tt.header)
			require.Error(t, err)
			if tt.is != nil {
				assert.True(t, errors.Is(err, tt.is), "got %v", err)
			}
		})
	}
}
