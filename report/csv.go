// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"Game_Duration_Trend_Project/application/trend"
)

// Digits after the decimal point in CSV output
const csvPlaces = 4

// WriteFittedCSV writes Year, Observed, Fitted, Residual for every fitted row.
func WriteFittedCSV(path string, m *trend.Model) error {
	records := [][]string{{"Year", "Observed", "Fitted", "Residual"}}
	for _, r := range m.Rows {
		records = append(records, []string{
			strconv.Itoa(r.Year),
			fixed(r.Observed),
			fixed(r.Fitted),
			fixed(r.Residual),
		})
	}
	return writeCSV(path, records)
}

// WriteForecastCSV writes Year, Mean, StdError and a Lower/Upper pair per level.
func WriteForecastCSV(path string, f *trend.ForecastResult) error {
	header := []string{"Year", "Mean", "StdError"}
	for _, lvl := range f.Levels {
		pct := decimal.NewFromFloat(lvl * 100).String()
		header = append(header, "Lower"+pct, "Upper"+pct)
	}
	records := [][]string{header}

	for _, p := range f.Points {
		rec := []string{strconv.Itoa(p.Year), fixed(p.Mean), fixed(p.StdError)}
		for _, iv := range p.Intervals {
			rec = append(rec, fixed(iv.Lower), fixed(iv.Upper))
		}
		records = append(records, rec)
	}
	return writeCSV(path, records)
}

// WriteACFCSV writes Lag, ACF, Bound, Significant.
func WriteACFCSV(path string, d *trend.Diagnostics) error {
	records := [][]string{{"Lag", "ACF", "Bound", "Significant"}}
	for k, r := range d.ACF {
		records = append(records, []string{
			strconv.Itoa(k + 1),
			fixed(r),
			fixed(d.ACFBound),
			strconv.FormatBool(math.Abs(r) > d.ACFBound),
		})
	}
	return writeCSV(path, records)
}

func writeCSV(path string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// fixed renders v with csvPlaces decimals, NA for missing values.
func fixed(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NA"
	}
	return decimal.NewFromFloat(v).StringFixed(csvPlaces)
}
