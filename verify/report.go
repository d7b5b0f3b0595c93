// Package verify turns the outcome of an oracle run into a report.
package verify

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/llqverify/config"
	"github.com/sarchlab/llqverify/oracle"
)

// RunReport represents the outcome of one verification run.
type RunReport struct {
	ID      string
	Config  *config.RunConfig
	Stats   oracle.Stats
	Err     error
	Elapsed time.Duration
}

// GenerateReport collects the outcome of a finished platform run.
func GenerateReport(
	p *config.Platform,
	c *config.RunConfig,
	err error,
	elapsed time.Duration,
) *RunReport {
	return &RunReport{
		ID:      p.Session.ID(),
		Config:  c,
		Stats:   p.Session.Stats(),
		Err:     err,
		Elapsed: elapsed,
	}
}

// Passed tells if the run found no violation.
func (r *RunReport) Passed() bool {
	return r.Err == nil
}

// Classify names the kind of failure carried by err.
func Classify(err error) string {
	switch {
	case err == nil:
		return "PASS"
	case errors.Is(err, oracle.ErrDataMismatch):
		return "DATA MISMATCH"
	case errors.Is(err, oracle.ErrQuiescence):
		return "QUIESCENCE VIOLATION"
	case errors.Is(err, oracle.ErrLostResponse):
		return "LOST RESPONSE"
	case errors.Is(err, oracle.ErrPrecondition):
		return "ORACLE BUG"
	case errors.Is(err, oracle.ErrAcceptTimeout),
		errors.Is(err, oracle.ErrBusyTimeout):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// WriteReport writes a formatted report to a writer.
func (r *RunReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "LINKED-LIST QUEUE VERIFICATION REPORT")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Run %s, seed %d\n", r.ID, r.Config.Seed)

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "CONFIGURATION")
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, r.configTable())

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "TRAFFIC")
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, r.statsTable())

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "RESULT")
	fmt.Fprintln(w, separator)

	if r.Passed() {
		fmt.Fprintf(w, "✓ PASSED in %d cycles (%s)\n", r.Stats.Cycles, r.Elapsed)
	} else {
		fmt.Fprintf(w, "⚠ %s: %v\n", Classify(r.Err), r.Err)
		fmt.Fprintf(w, "Replay with --seed %d\n", r.Config.Seed)
	}

	if r.Stats.Anomalies > 0 {
		fmt.Fprintf(w, "⚠ %d responses arrived without a pending command\n",
			r.Stats.Anomalies)
	}

	fmt.Fprintln(w)
}

func (r *RunReport) configTable() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Parameter", "Value"})

	c := r.Config
	t.AppendRows([]table.Row{
		{"Contexts", c.NumContexts},
		{"Capacity", c.Capacity},
		{"Response latency", c.ResponseLatency},
		{"Iterations", c.Iterations},
		{"Flush threshold", c.FlushThreshold},
		{"Push percent", c.PushPercent},
		{"Settle cycles", c.SettleCycles},
		{"Payload", c.Payload},
	})

	return t.Render()
}

func (r *RunReport) statsTable() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Counter", "Value"})

	s := r.Stats
	t.AppendRows([]table.Row{
		{"Iterations", s.Iterations},
		{"Pushes", s.Pushes},
		{"Pops", s.Pops},
		{"Responses", s.Responses},
		{"Matches", s.Matches},
		{"Mismatches", s.Mismatches},
		{"Anomalies", s.Anomalies},
		{"Underflow faults", s.UnderflowFaults},
		{"Flushes", s.Flushes},
		{"Max occupancy", s.MaxOccupancy},
		{"Cycles", s.Cycles},
	})

	return t.Render()
}

// SaveReportToFile saves the report to a file.
func (r *RunReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)

	return nil
}
