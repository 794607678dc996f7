// Package collector triggers the external sample collector.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/craftwatch/craftwatch/internal/stats"
)

// DefaultTimeout bounds one collector invocation.
const DefaultTimeout = 2 * time.Minute

// Runner shells out to the configured collector command. The engine never
// parses collector output; it only reports success or failure.
type Runner struct {
	command []string
	timeout time.Duration
}

// NewRunner creates a runner for the given command line, e.g.
// ["scripts/analytics-collector.sh"].
func NewRunner(command []string, timeout time.Duration) (*Runner, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, errors.New("collector: command is empty")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{command: command, timeout: timeout}, nil
}

// Collect runs the collector once and waits for it to finish.
func (r *Runner) Collect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		stats.CollectorRuns.WithLabelValues("failure").Inc()
		trimmed := strings.TrimSpace(string(output))
		if trimmed != "" {
			log.Printf("collector: %s failed: %v: %s", r.command[0], err, trimmed)
		}
		return fmt.Errorf("collector: run %s: %w", r.command[0], err)
	}
	stats.CollectorRuns.WithLabelValues("success").Inc()
	return nil
}
