package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/craftwatch/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Craftwatch - Game Server Analytics\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := runServer(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	defaultDataDir := filepath.Join(home, ".local", "share", "craftwatch", "analytics")
	defaultReportPath := filepath.Join(defaultDataDir, "processed", "latest_report.json")

	v := viper.New()
	v.SetEnvPrefix("CRAFTWATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("data-dir", defaultDataDir)
	v.SetDefault("report-path", defaultReportPath)
	v.SetDefault("rules-path", "")
	v.SetDefault("api-enabled", true)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("window-hours", defaultWindowHours)
	v.SetDefault("horizon-hours", defaultHorizonHours)
	v.SetDefault("trend-epsilon", defaultTrendEpsilon)
	v.SetDefault("z-low", defaultZLow)
	v.SetDefault("z-medium", defaultZMedium)
	v.SetDefault("z-high", defaultZHigh)
	v.SetDefault("collector-command", []string{})
	v.SetDefault("collect-timeout", defaultCollectTimeout)
	v.SetDefault("schedule-interval", defaultScheduleInterval)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		defaultConfigPath := filepath.Join(home, ".config", "craftwatch", "config.yml")
		v.SetConfigFile(defaultConfigPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.WindowHours <= 0 {
		return cfg, fmt.Errorf("invalid window-hours: %d", cfg.WindowHours)
	}
	if cfg.HorizonHours <= 0 {
		return cfg, fmt.Errorf("invalid horizon-hours: %d", cfg.HorizonHours)
	}

	// Expand ~ in paths
	for _, path := range []*string{&cfg.DataDir, &cfg.ReportPath, &cfg.RulesPath} {
		if strings.HasPrefix(*path, "~/") {
			*path = filepath.Join(home, (*path)[2:])
		}
	}

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}
