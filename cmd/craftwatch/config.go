package main

import (
	"time"

	"github.com/craftwatch/craftwatch/internal/model"
)

const (
	defaultBindHost         = "127.0.0.1"
	defaultAPIPort          = 3000
	defaultWindowHours      = model.DefaultWindowHours
	defaultHorizonHours     = model.DefaultHorizonHours
	defaultTrendEpsilon     = 0.01
	defaultZLow             = 1.5
	defaultZMedium          = 2.0
	defaultZHigh            = 3.0
	defaultCollectTimeout   = 2 * time.Minute
	defaultScheduleInterval = 5 * time.Minute
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	DataDir          string        `mapstructure:"data-dir"`
	ReportPath       string        `mapstructure:"report-path"`
	RulesPath        string        `mapstructure:"rules-path"`
	APIEnabled       bool          `mapstructure:"api-enabled"`
	APIPort          int           `mapstructure:"api-port"`
	APIAddr          string        `mapstructure:"api-addr"`
	WindowHours      int           `mapstructure:"window-hours"`
	HorizonHours     int           `mapstructure:"horizon-hours"`
	TrendEpsilon     float64       `mapstructure:"trend-epsilon"`
	ZLow             float64       `mapstructure:"z-low"`
	ZMedium          float64       `mapstructure:"z-medium"`
	ZHigh            float64       `mapstructure:"z-high"`
	CollectorCommand []string      `mapstructure:"collector-command"`
	CollectTimeout   time.Duration `mapstructure:"collect-timeout"`
	ScheduleInterval time.Duration `mapstructure:"schedule-interval"`
	ConfigPath       string        `mapstructure:"-"` // not from config file
}
