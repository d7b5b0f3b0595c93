package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/llqverify/config"
	"github.com/sarchlab/llqverify/trace"
	"github.com/sarchlab/llqverify/verify"
	"github.com/spf13/cobra"
)

var errRunFailed = errors.New("verification failed")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one verification.",
	Long: "`run` builds a behavioural queue, drives the random stimulus at it " +
		"and checks every response. The seed is printed so that a failing " +
		"run can be replayed with --seed.",
	RunE: runVerification,
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.String("config", "", "Load the run configuration from a JSON file.")
	f.String("env", ".env", "Load LLQ_* overrides from this file if it exists.")
	f.String("save-config", "", "Write the effective configuration to a JSON file.")
	f.Uint64("seed", 0, "Seed of the stimulus. A time-based seed is used if unset.")
	f.Int("iterations", 0, "Number of random commands.")
	f.Int("contexts", 0, "Number of contexts.")
	f.String("payload", "", "Payload pattern: random, increasing or const.")
	f.Int("latency", 0, "Response latency of the device in cycles.")
	f.Bool("monitor", false, "Start the akita monitoring server.")
	f.Bool("trace", false, "Record every transaction into a SQLite database.")
	f.String("trace-db", "", "Name of the trace database, without extension.")
	f.String("report", "", "Also write the report to this file.")
	f.Bool("dump-state", false, "Print the device state when the run fails.")
}

func loadRunConfig(cmd *cobra.Command) (*config.RunConfig, error) {
	f := cmd.Flags()
	c := config.DefaultRunConfig()

	if path, _ := f.GetString("config"); path != "" {
		loaded, err := config.LoadRunConfig(path)
		if err != nil {
			return nil, err
		}

		c = loaded
	}

	envFile, _ := f.GetString("env")
	err := c.LoadEnv(envFile)
	if err != nil {
		return nil, err
	}

	if f.Changed("seed") {
		c.Seed, _ = f.GetUint64("seed")
	} else if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}

	if f.Changed("iterations") {
		c.Iterations, _ = f.GetInt("iterations")
	}
	if f.Changed("contexts") {
		c.NumContexts, _ = f.GetInt("contexts")
	}
	if f.Changed("payload") {
		c.Payload, _ = f.GetString("payload")
	}
	if f.Changed("latency") {
		c.ResponseLatency, _ = f.GetInt("latency")
	}

	return c, nil
}

func runVerification(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()

	c, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	if path, _ := f.GetString("save-config"); path != "" {
		err = c.SaveRunConfig(path)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seed: %d\n", c.Seed)

	engine := sim.NewSerialEngine()
	builder := config.MakePlatformBuilder().
		WithEngine(engine).
		WithRunConfig(c)

	var monitor *monitoring.Monitor
	if useMonitor, _ := f.GetBool("monitor"); useMonitor {
		monitor = monitoring.NewMonitor()
		monitor.RegisterEngine(engine)
		builder = builder.WithMonitor(monitor)
	}

	var recorder *trace.SQLiteRecorder
	if useTrace, _ := f.GetBool("trace"); useTrace {
		dbName, _ := f.GetString("trace-db")
		recorder = trace.NewSQLiteRecorder(dbName)
		builder = builder.WithHook(recorder)
	}

	p, err := builder.Build("LLQVerify")
	if err != nil {
		return err
	}

	if recorder != nil {
		err = recorder.Init(p.Session.ID())
		if err != nil {
			return err
		}

		defer recorder.Close()
	}

	if monitor != nil {
		monitor.StartServer()
	}

	start := time.Now()
	runErr := p.Run()
	report := verify.GenerateReport(p, c, runErr, time.Since(start))

	report.WriteReport(cmd.OutOrStdout())

	if path, _ := f.GetString("report"); path != "" {
		err = report.SaveReportToFile(path)
		if err != nil {
			return err
		}
	}

	if recorder != nil {
		slog.Info("Trace written", "file", recorder.FileName())
	}

	if runErr != nil {
		if dump, _ := f.GetBool("dump-state"); dump {
			fmt.Fprintln(cmd.OutOrStdout(), p.Device.StateTable())
		}

		return fmt.Errorf("%w: %s", errRunFailed, verify.Classify(runErr))
	}

	if p.Session.Stats().Anomalies > 0 {
		slog.Warn("Run passed with unexpected responses",
			"count", p.Session.Stats().Anomalies)
	}

	return nil
}
