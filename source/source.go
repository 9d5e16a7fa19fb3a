// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

// Package source supplies annual series to the trend package: CSV files, SQL
// tables, and a compressed on-disk cache in front of either.
package source

import (
	"context"
	"errors"

	"Game_Duration_Trend_Project/application/trend"
)

// Loader produces a validated annual series.
type Loader interface {
	Load(ctx context.Context) (*trend.Series, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (*trend.Series, error)

func (f LoaderFunc) Load(ctx context.Context) (*trend.Series, error) { return f(ctx) }

var (
	ErrNoData       = errors.New("no data rows")
	ErrMissingCol   = errors.New("required column not found")
	ErrBadYear      = errors.New("year is not an integer")
	ErrBadDriver    = errors.New("unsupported database driver")
	ErrCacheCorrupt = errors.New("cache entry is corrupt")
)
