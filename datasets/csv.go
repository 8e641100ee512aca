package datasets

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/fisherscore/core/linalg"
	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

// ReadCSV loads a dataset from comma-separated rows of regressors followed
// by the response in the last column. A column of ones is prepended to the
// regressors. When hasHeader is true the first record supplies the column
// names, otherwise names are x1..xk.
func ReadCSV(r io.Reader, hasHeader bool) (*Dataset, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(err, "datasets.ReadCSV")
	}

	var header []string
	if hasHeader {
		if len(records) == 0 {
			return nil, nil, errors.NewModelError("datasets.ReadCSV", "missing header", errors.ErrEmptyData)
		}
		header, records = records[0], records[1:]
	}
	if len(records) == 0 {
		return nil, nil, errors.NewModelError("datasets.ReadCSV", "no data rows", errors.ErrEmptyData)
	}

	width := len(records[0])
	if width < 2 {
		return nil, nil, errors.NewValueError("datasets.ReadCSV", "need at least one regressor and a response column")
	}
	if header != nil && len(header) != width {
		return nil, nil, errors.NewDimensionError("datasets.ReadCSV", width, len(header), 1)
	}

	n, p := len(records), width
	X := linalg.New(n, p)
	Y := linalg.New(n, 1)
	for i, rec := range records {
		if len(rec) != width {
			return nil, nil, errors.NewDimensionError("datasets.ReadCSV", width, len(rec), 1)
		}
		X.Set(i, 0, 1)
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "datasets.ReadCSV: row %d column %d", i+1, j+1)
			}
			if j == width-1 {
				Y.Set(i, 0, v)
			} else {
				X.Set(i, j+1, v)
			}
		}
	}

	names := make([]string, p)
	names[0] = "intercept"
	for j := 1; j < p; j++ {
		if header != nil {
			names[j] = header[j-1]
		} else {
			names[j] = "x" + strconv.Itoa(j)
		}
	}
	return &Dataset{X: X, Y: Y}, names, nil
}
