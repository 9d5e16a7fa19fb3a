// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"Game_Duration_Trend_Project/application/trend"
)

// DBConfig describes a database holding the annual table.
type DBConfig struct {
	Driver   string `yaml:"driver"` // postgres or mysql
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"` // postgres only
	// Raw DSN, overrides the fields above when set
	DSN string `yaml:"dsn"`
}

// DataSourceName builds the driver-specific DSN.
func (c DBConfig) DataSourceName() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	switch c.Driver {
	case "postgres":
		sslmode := c.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		parts := []string{
			"host=" + c.Host,
			fmt.Sprintf("port=%d", c.Port),
			"user=" + c.User,
			"dbname=" + c.DBName,
			"sslmode=" + sslmode,
		}
		if c.Password != "" {
			parts = append(parts, "password="+c.Password)
		}
		return strings.Join(parts, " "), nil
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
		mc.DBName = c.DBName
		return mc.FormatDSN(), nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadDriver, c.Driver)
}

// OpenDB opens and pings the configured database.
func OpenDB(ctx context.Context, c DBConfig) (*sql.DB, error) {
	if c.Driver != "postgres" && c.Driver != "mysql" {
		return nil, fmt.Errorf("%w: %q", ErrBadDriver, c.Driver)
	}
	dsn, err := c.DataSourceName()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(c.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Driver, err)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", c.Driver, err)
	}
	return db, nil
}

// SQLLoader reads a series from a query. The first column is the year, the
// second the duration; the rest are auxiliary regressors named after their
// columns. NULL becomes trend.Missing. Rows must come back ordered by year.
type SQLLoader struct {
	DB    *sql.DB
	Query string
	Args  []any
	Name  string
}

func (l *SQLLoader) Load(ctx context.Context) (*trend.Series, error) {
	rows, err := l.DB.QueryContext(ctx, l.Query, l.Args...)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	s, err := scanSeries(rows, cols, l.Name)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("series", l.Name).Int("rows", s.Len()).Strs("aux", s.AuxNames).Msg("loaded sql series")
	return s, nil
}

// rowScanner is the part of *sql.Rows that scanSeries needs.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSeries(rows rowScanner, cols []string, name string) (*trend.Series, error) {
	if len(cols) < 2 {
		return nil, fmt.Errorf("%w: need year and duration, got %v", ErrMissingCol, cols)
	}

	var records []trend.Record
	for rows.Next() {
		var year sql.NullInt64
		vals := make([]sql.NullFloat64, len(cols)-1)
		dest := make([]any, len(cols))
		dest[0] = &year
		for j := range vals {
			dest[j+1] = &vals[j]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(records)+1, err)
		}
		if !year.Valid {
			return nil, fmt.Errorf("row %d: %w: NULL", len(records)+1, ErrBadYear)
		}

		rec := trend.Record{
			Year:     int(year.Int64),
			Duration: nullable(vals[0]),
			Aux:      make([]float64, len(vals)-1),
		}
		for j := range rec.Aux {
			rec.Aux[j] = nullable(vals[j+1])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	auxNames := append([]string(nil), cols[2:]...)
	return trend.NewSeries(name, auxNames, records)
}

func nullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return trend.Missing
	}
	return v.Float64
}
