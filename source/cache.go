// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/rs/zerolog/log"

	"Game_Duration_Trend_Project/application/trend"
)

// Cache keeps a loaded series on disk as snappy-compressed JSON and only asks
// Next on a miss.
type Cache struct {
	Dir  string
	Key  string
	Next Loader
}

// cachedSeries is the on-disk form. JSON has no NaN, so missing values are null.
type cachedSeries struct {
	Name     string         `json:"name"`
	AuxNames []string       `json:"aux_names"`
	Records  []cachedRecord `json:"records"`
}

type cachedRecord struct {
	Year     int        `json:"year"`
	Duration *float64   `json:"duration"`
	Aux      []*float64 `json:"aux,omitempty"`
}

// Path is the cache file for this entry.
func (c *Cache) Path() string {
	return filepath.Join(c.Dir, c.Key+".series.sz")
}

func (c *Cache) Load(ctx context.Context) (*trend.Series, error) {
	s, err := c.read()
	switch {
	case err == nil:
		log.Debug().Str("path", c.Path()).Msg("series cache hit")
		return s, nil
	case errors.Is(err, fs.ErrNotExist):
		log.Debug().Str("path", c.Path()).Msg("series cache miss")
	default:
		return nil, err
	}

	if c.Next == nil {
		return nil, fmt.Errorf("cache %s: no loader behind cache", c.Key)
	}
	s, err = c.Next.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Store(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Store writes s to the cache, replacing any earlier entry.
func (c *Cache) Store(s *trend.Series) error {
	payload := cachedSeries{Name: s.Name, AuxNames: s.AuxNames, Records: make([]cachedRecord, len(s.Records))}
	for i, r := range s.Records {
		cr := cachedRecord{Year: r.Year, Duration: present(r.Duration)}
		if len(r.Aux) > 0 {
			cr.Aux = make([]*float64, len(r.Aux))
			for j, v := range r.Aux {
				cr.Aux[j] = present(v)
			}
		}
		payload.Records[i] = cr
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cache %s: %w", c.Key, err)
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	// write then rename so a crash never leaves half an entry
	tmp := c.Path() + ".tmp"
	if err := os.WriteFile(tmp, snappy.Encode(nil, raw), 0o644); err != nil {
		return fmt.Errorf("write cache %s: %w", c.Key, err)
	}
	return os.Rename(tmp, c.Path())
}

func (c *Cache) read() (*trend.Series, error) {
	compressed, err := os.ReadFile(c.Path())
	if err != nil {
		return nil, err
	}
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCacheCorrupt, c.Path(), err)
	}
	var payload cachedSeries
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCacheCorrupt, c.Path(), err)
	}

	records := make([]trend.Record, len(payload.Records))
	for i, cr := range payload.Records {
		rec := trend.Record{Year: cr.Year, Duration: valueOf(cr.Duration), Aux: make([]float64, len(cr.Aux))}
		for j, v := range cr.Aux {
			rec.Aux[j] = valueOf(v)
		}
		records[i] = rec
	}
	return trend.NewSeries(payload.Name, payload.AuxNames, records)
}

func present(v float64) *float64 {
	if trend.IsMissing(v) {
		return nil
	}
	return &v
}

func valueOf(p *float64) float64 {
	if p == nil {
		return trend.Missing
	}
	return *p
}
