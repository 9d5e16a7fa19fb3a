// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

// Command gametrend fits a linear or piecewise-linear trend to an annual
// game-duration series, checks its residuals and forecasts the next seasons.
//
// Usage:
//
//	gametrend analyze  --csv cle.csv --spec 1960,1990 --horizon 10
//	gametrend compare  --csv cle.csv --candidate linear --candidate 1975 --candidate 1960,1990
//	gametrend forecast --config run.yaml --interval prediction-variance
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "gametrend",
		Usage: "Trend fitting, residual diagnostics and forecasts for annual game duration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				EnvVars: []string{"GAMETREND_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"GAMETREND_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Human-readable log output",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := LoadConfig(c.String("config"))
			if err != nil {
				return err
			}
			if c.IsSet("log-level") || cfg.LogLevel == "" {
				cfg.LogLevel = c.String("log-level")
			}
			if c.IsSet("pretty") {
				cfg.Pretty = c.Bool("pretty")
			}
			if err := setupLogger(c.App.ErrWriter, cfg.LogLevel, cfg.Pretty); err != nil {
				return err
			}
			if c.App.Metadata == nil {
				c.App.Metadata = map[string]interface{}{}
			}
			c.App.Metadata[configKey] = cfg
			return nil
		},
		Commands: []*cli.Command{
			analyzeCommand(),
			compareCommand(),
			forecastCommand(),
		},
	}
}
