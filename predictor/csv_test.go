package predictor

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	testData := map[string]struct {
		input         string
		cases         []float64
		hasCovariates bool
		err           error
	}{
		"cases only with header and comments": {
			input: "cases\n# monthly counts\n\n45\n52\n  61  \n",
			cases: []float64{45, 52, 61},
		},
		"mixed separators": {
			input:         "cases,rain;temp\n45,120.5;27\n52\t130;28\n61;;140,29\n",
			cases:         []float64{45, 52, 61},
			hasCovariates: true,
		},
		"trailing separator": {
			input: "10,\n20;\n",
			cases: []float64{10, 20},
		},
		"unparsable line skipped": {
			input:         "1,2\nx,3\n4,abc\n5,6\n",
			cases:         []float64{1, 5},
			hasCovariates: true,
		},
		"partial covariates are dropped": {
			input: "1,2\n3\n4,5\n",
			cases: []float64{1, 3, 4},
		},
		"non-finite values skipped": {
			input: "NaN\nInf\n7\n",
			cases: []float64{7},
		},
		"leading separator skipped": {
			input: ",5\n6\n",
			cases: []float64{6},
		},
		"empty": {
			input: "",
			err:   ErrNoCases,
		},
		"only headers": {
			input: "cases,rain\n# nothing\n",
			err:   ErrNoCases,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			p, err := ReadCSV(strings.NewReader(td.input), quietOptions())
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.cases, p.Cases())
			assert.Equal(t, td.hasCovariates, p.HasCovariates())
		})
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.csv")
	var sb strings.Builder
	sb.WriteString("cases\n")
	for _, v := range SampleCases() {
		sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64) + "\n")
	}
	require.Nil(t, os.WriteFile(path, []byte(sb.String()), 0o644))

	p, err := LoadCSV(path, quietOptions())
	require.Nil(t, err)
	assert.Equal(t, SampleCases(), p.Cases())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), quietOptions())
	assert.NotNil(t, err)
}

func TestSampleCasesIsCopy(t *testing.T) {
	s := SampleCases()
	require.Len(t, s, 48)
	s[0] = -1
	assert.Equal(t, 45.0, SampleCases()[0])
}
