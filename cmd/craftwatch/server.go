package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/craftwatch/craftwatch/internal/analytics"
	"github.com/craftwatch/craftwatch/internal/collector"
	"github.com/craftwatch/craftwatch/internal/httpserver"
	"github.com/craftwatch/craftwatch/internal/model"
	"github.com/craftwatch/craftwatch/internal/reportstore"
	"github.com/craftwatch/craftwatch/internal/samplestore"
	"github.com/craftwatch/craftwatch/internal/scheduler"
)

// runServer wires the sample store, analytics engine, scheduler, and HTTP API.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	store, err := samplestore.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open sample store: %w", err)
	}

	reports, err := reportstore.NewStore(cfg.ReportPath)
	if err != nil {
		return fmt.Errorf("failed to initialize report store: %w", err)
	}

	rules, err := analytics.LoadRules(cfg.RulesPath)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	engine := analytics.NewEngine(store, analytics.Config{
		TrendEpsilon: cfg.TrendEpsilon,
		ZLow:         cfg.ZLow,
		ZMedium:      cfg.ZMedium,
		ZHigh:        cfg.ZHigh,
		HorizonHours: cfg.HorizonHours,
	}, rules)

	// The collector is optional; without one the engine analyzes whatever
	// the external sampler has already written.
	var trigger model.CollectTrigger
	if len(cfg.CollectorCommand) > 0 {
		runner, err := collector.NewRunner(cfg.CollectorCommand, cfg.CollectTimeout)
		if err != nil {
			return fmt.Errorf("failed to configure collector: %w", err)
		}
		trigger = runner
	}

	// Periodic collect-and-process loop; nil when disabled.
	sched := scheduler.New(trigger, engine, reports, scheduler.Config{
		Interval:    cfg.ScheduleInterval,
		WindowHours: cfg.WindowHours,
	})
	if sched != nil {
		defer sched.Stop()
	}

	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, engine, trigger, reports)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now — not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	printStartupBanner(cfg, trigger != nil)

	// Use errgroup for goroutine lifecycle management.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
	}

	signal.Stop(sigCh)

	return nil
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "craftwatch")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "craftwatch.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, collectorConfigured bool) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔═╗╦═╗╔═╗╔═╗╔╦╗╦ ╦╔═╗╔╦╗╔═╗╦ ╦
    ║  ╠╦╝╠═╣╠╣  ║ ║║║╠═╣ ║ ║  ╠═╣
    ╚═╝╩╚═╩ ╩╚   ╩ ╚╩╝╩ ╩ ╩ ╚═╝╩ ╩`)

	ver := dim.Render("v" + version)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, logo)
	lines = append(lines, "    "+ver)
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Gateway"))
	lines = append(lines, "")

	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", dot, dim.Render("disabled")))
	}

	lines = append(lines, "")
	lines = append(lines, bold.Render("    Analytics"))
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("    %s  Samples        %s", check, dim.Render(shortenPath(cfg.DataDir))))
	lines = append(lines, fmt.Sprintf("    %s  Latest Report  %s", check, dim.Render(shortenPath(cfg.ReportPath))))

	if collectorConfigured {
		lines = append(lines, fmt.Sprintf("    %s  Collector      %s", check, dim.Render(strings.Join(cfg.CollectorCommand, " "))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Collector      %s", dot, dim.Render("external")))
	}

	if cfg.ScheduleInterval > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Scheduler      %s", check, dim.Render(cfg.ScheduleInterval.String())))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Scheduler      %s", dot, dim.Render("disabled")))
	}

	lines = append(lines, "")
	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
