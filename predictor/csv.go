package predictor

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var fieldSep = regexp.MustCompile(`[,;\t]+`)

// ReadCSV builds a predictor from delimited text. Each record is one line whose first field is
// the case count and whose remaining fields are covariates, separated by any run of commas,
// semicolons or tabs. Blank lines, lines starting with '#' and lines with a field that is not a
// finite number are skipped, which covers headers. Covariates are used only if every accepted
// line carried them.
func ReadCSV(r io.Reader, opt *Options) (*Predictor, error) {
	cases, covariates, err := parseRecords(r)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("no parsable records, %w", ErrNoCases)
	}
	if len(covariates) != len(cases) {
		covariates = nil
	}
	return New(cases, covariates, opt)
}

// LoadCSV reads the file at path with ReadCSV
func LoadCSV(path string, opt *Options) (*Predictor, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s, %w", path, err)
	}
	defer file.Close()

	return ReadCSV(file, opt)
}

func parseRecords(r io.Reader) ([]float64, [][]float64, error) {
	var cases []float64
	var covariates [][]float64

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		vals, ok := parseLine(line)
		if !ok {
			continue
		}
		cases = append(cases, vals[0])
		if len(vals) > 1 {
			covariates = append(covariates, vals[1:])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("unable to read records, %w", err)
	}
	return cases, covariates, nil
}

func parseLine(line string) ([]float64, bool) {
	fields := fieldSep.Split(line, -1)
	for len(fields) > 1 && strings.TrimSpace(fields[len(fields)-1]) == "" {
		fields = fields[:len(fields)-1]
	}

	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		vals = append(vals, v)
	}
	return vals, true
}
