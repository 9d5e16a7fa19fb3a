// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package source

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"Game_Duration_Trend_Project/application/trend"
)

// fakeRows feeds fixed values through the sql.Scanner interface, nil meaning NULL.
type fakeRows struct {
	data [][]any
	pos  int
}

func (f *fakeRows) Next() bool {
	f.pos++
	return f.pos <= len(f.data)
}

func (f *fakeRows) Scan(dest ...any) error {
	row := f.data[f.pos-1]
	for i, d := range dest {
		if err := d.(sql.Scanner).Scan(row[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRows) Err() error { return nil }

func TestScanSeries(t *testing.T) {
	rows := &fakeRows{data: [][]any{
		{int64(1990), 2.8, 4.4},
		{int64(1991), nil, 4.6},
		{int64(1993), 2.86, nil},
	}}

	s, err := scanSeries(rows, []string{"year", "duration", "runs9"}, "CLE")
	if err != nil {
		t.Fatalf("scanSeries returned error: %v", err)
	}
	if s.Len() != 3 || s.Observed() != 2 {
		t.Errorf("got %d rows, %d observed; want 3, 2", s.Len(), s.Observed())
	}
	if len(s.AuxNames) != 1 || s.AuxNames[0] != "runs9" {
		t.Errorf("aux names = %v; want [runs9]", s.AuxNames)
	}
	if !trend.IsMissing(s.Records[1].Duration) || !trend.IsMissing(s.Records[2].Aux[0]) {
		t.Errorf("NULLs should be missing: %+v", s.Records)
	}
	if s.Records[2].Year != 1993 {
		t.Errorf("third year = %d; want 1993", s.Records[2].Year)
	}
}

func TestScanSeriesErrors(t *testing.T) {
	if _, err := scanSeries(&fakeRows{}, []string{"year"}, ""); !errors.Is(err, ErrMissingCol) {
		t.Errorf("one column: got %v; want ErrMissingCol", err)
	}
	if _, err := scanSeries(&fakeRows{}, []string{"year", "duration"}, ""); !errors.Is(err, ErrNoData) {
		t.Errorf("no rows: got %v; want ErrNoData", err)
	}
	nullYear := &fakeRows{data: [][]any{{nil, 2.0}}}
	if _, err := scanSeries(nullYear, []string{"year", "duration"}, ""); !errors.Is(err, ErrBadYear) {
		t.Errorf("NULL year: got %v; want ErrBadYear", err)
	}
}

func TestDataSourceName(t *testing.T) {
	pg, err := DBConfig{Driver: "postgres", Host: "db", Port: 5432, User: "stats", DBName: "mlb"}.DataSourceName()
	if err != nil {
		t.Fatalf("postgres DSN: %v", err)
	}
	for _, part := range []string{"host=db", "port=5432", "user=stats", "dbname=mlb", "sslmode=disable"} {
		if !strings.Contains(pg, part) {
			t.Errorf("postgres DSN %q missing %q", pg, part)
		}
	}

	my, err := DBConfig{Driver: "mysql", Host: "db", Port: 3306, User: "stats", Password: "pw", DBName: "mlb"}.DataSourceName()
	if err != nil {
		t.Fatalf("mysql DSN: %v", err)
	}
	if !strings.HasPrefix(my, "stats:pw@tcp(db:3306)/mlb") {
		t.Errorf("mysql DSN = %q", my)
	}

	raw, _ := DBConfig{Driver: "mysql", DSN: "x"}.DataSourceName()
	if raw != "x" {
		t.Errorf("explicit DSN not used: %q", raw)
	}

	if _, err := (DBConfig{Driver: "sqlite"}).DataSourceName(); !errors.Is(err, ErrBadDriver) {
		t.Errorf("sqlite: got %v; want ErrBadDriver", err)
	}
	if _, err := OpenDB(context.Background(), DBConfig{Driver: "oracle"}); !errors.Is(err, ErrBadDriver) {
		t.Errorf("OpenDB oracle: got %v; want ErrBadDriver", err)
	}
}
