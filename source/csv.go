// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"Game_Duration_Trend_Project/application/trend"
)

// CSVLoader reads a series from a CSV file with a header row. The year and
// duration columns are picked by name; every other column becomes an auxiliary
// regressor. Empty, NA and NaN cells are missing values.
type CSVLoader struct {
	Path           string
	Name           string
	YearColumn     string // default "year"
	DurationColumn string // default "duration"
}

func (c *CSVLoader) Load(ctx context.Context) (*trend.Series, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Path, err)
	}
	defer f.Close()

	s, err := ReadCSV(f, c.Name, c.YearColumn, c.DurationColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Path, err)
	}
	log.Debug().Str("path", c.Path).Int("rows", s.Len()).Int("observed", s.Observed()).
		Strs("aux", s.AuxNames).Msg("loaded csv series")
	return s, nil
}

// ReadCSV parses a series from r. See CSVLoader for the layout.
func ReadCSV(r io.Reader, name, yearCol, durationCol string) (*trend.Series, error) {
	if yearCol == "" {
		yearCol = "year"
	}
	if durationCol == "" {
		durationCol = "duration"
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	yearIdx, durIdx := -1, -1
	var auxIdx []int
	var auxNames []string
	for j, h := range header {
		h = strings.TrimSpace(h)
		switch {
		case strings.EqualFold(h, yearCol):
			yearIdx = j
		case strings.EqualFold(h, durationCol):
			durIdx = j
		default:
			auxIdx = append(auxIdx, j)
			auxNames = append(auxNames, h)
		}
	}
	if yearIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingCol, yearCol)
	}
	if durIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingCol, durationCol)
	}

	var records []trend.Record
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		year, err := strconv.Atoi(strings.TrimSpace(rec[yearIdx]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w: %q", line, ErrBadYear, rec[yearIdx])
		}
		dur, err := parseCell(rec[durIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d col %q: %w", line, durationCol, err)
		}
		aux := make([]float64, len(auxIdx))
		for k, j := range auxIdx {
			if aux[k], err = parseCell(rec[j]); err != nil {
				return nil, fmt.Errorf("row %d col %q: %w", line, auxNames[k], err)
			}
		}
		records = append(records, trend.Record{Year: year, Duration: dur, Aux: aux})
	}

	if len(records) == 0 {
		return nil, ErrNoData
	}
	return trend.NewSeries(name, auxNames, records)
}

// parseCell reads a float, mapping blank and NA cells to trend.Missing.
func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "", "NA", "NAN", "NULL":
		return trend.Missing, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", trend.ErrNonFinite, s)
	}
	return v, nil
}
