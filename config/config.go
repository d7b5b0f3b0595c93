// Package config provides the run configuration and the builder that wires a
// device, a bench and an oracle session together.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/llqverify/dut"
	"github.com/sarchlab/llqverify/llq"
	"github.com/sarchlab/llqverify/oracle"
	"github.com/sarchlab/llqverify/util"
)

// FaultConfig selects the faults injected into the behavioural device. The
// zero value is a correct device.
type FaultConfig struct {
	// CorruptEvery flips CorruptMask on every n-th popped word. 0 disables.
	CorruptEvery uint64 `json:"corrupt_every"`
	CorruptMask  uint32 `json:"corrupt_mask"`

	// DropEvery swallows every n-th response beat. 0 disables.
	DropEvery uint64 `json:"drop_every"`

	// SpuriousAt raises one response beat with SpuriousWord at or after
	// this device cycle. 0 disables.
	SpuriousAt   uint64 `json:"spurious_at"`
	SpuriousWord uint32 `json:"spurious_word"`

	StuckNotEmpty bool `json:"stuck_not_empty"`
	NeverAccept   bool `json:"never_accept"`
}

// RunConfig holds everything needed to build and run one verification.
type RunConfig struct {
	// NumContexts is the number of contexts of the device and of the
	// stimulus. Default: 16.
	NumContexts int `json:"num_contexts"`

	// Capacity is the number of entries shared by the contexts.
	// Default: 128.
	Capacity int `json:"capacity"`

	// ResponseLatency is the number of edges between committing a command
	// and its response beat. Default: 1.
	ResponseLatency int `json:"response_latency"`

	// ResetCycles is the number of edges reset is held. Default: 4.
	ResetCycles int `json:"reset_cycles"`

	// Iterations is the number of random commands. Default: 10000.
	Iterations int `json:"iterations"`

	// FlushThreshold is the aggregate occupancy that triggers a flush.
	// Default: 100.
	FlushThreshold int `json:"flush_threshold"`

	// PushPercent is the chance to push into a non-empty context.
	// Default: 50.
	PushPercent int `json:"push_percent"`

	// SettleCycles is the wait after the final drain. Default: 20.
	SettleCycles int `json:"settle_cycles"`

	// AcceptTimeout and BusyTimeout bound the handshake waits, in cycles.
	// 0 waits forever.
	AcceptTimeout int `json:"accept_timeout"`
	BusyTimeout   int `json:"busy_timeout"`

	// Seed makes the run reproducible.
	Seed uint64 `json:"seed"`

	// Payload is one of random, increasing or const. Default: random.
	Payload string `json:"payload"`

	Faults FaultConfig `json:"faults"`
}

// DefaultRunConfig returns the configuration of the reference run.
func DefaultRunConfig() *RunConfig {
	o := oracle.DefaultConfig()

	return &RunConfig{
		NumContexts:     o.NumContexts,
		Capacity:        128,
		ResponseLatency: 1,
		ResetCycles:     4,
		Iterations:      o.Iterations,
		FlushThreshold:  o.FlushThreshold,
		PushPercent:     o.PushPercent,
		SettleCycles:    o.SettleCycles,
		AcceptTimeout:   o.AcceptTimeout,
		BusyTimeout:     o.BusyTimeout,
		Seed:            o.Seed,
		Payload:         o.Payload,
	}
}

// LoadRunConfig loads a RunConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run config file: %w", err)
	}

	config := DefaultRunConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse run config: %w", err)
	}

	return config, nil
}

// SaveRunConfig writes a RunConfig to a JSON file.
func (c *RunConfig) SaveRunConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize run config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration describes a runnable setup.
func (c *RunConfig) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be > 0")
	}
	if c.ResponseLatency < 1 {
		return fmt.Errorf("response_latency must be >= 1")
	}
	if c.ResetCycles < 0 {
		return fmt.Errorf("reset_cycles must be >= 0")
	}
	if c.FlushThreshold >= c.Capacity {
		return fmt.Errorf("flush_threshold (%d) must be below capacity (%d)",
			c.FlushThreshold, c.Capacity)
	}

	switch c.Payload {
	case "", util.PatternRandom, util.PatternIncreasing, util.PatternConst:
	default:
		return fmt.Errorf("unknown payload %q", c.Payload)
	}

	return c.OracleConfig().Validate()
}

// OracleConfig returns the part of the configuration that drives the oracle.
func (c *RunConfig) OracleConfig() oracle.Config {
	return oracle.Config{
		NumContexts:    c.NumContexts,
		Iterations:     c.Iterations,
		FlushThreshold: c.FlushThreshold,
		PushPercent:    c.PushPercent,
		SettleCycles:   c.SettleCycles,
		AcceptTimeout:  c.AcceptTimeout,
		BusyTimeout:    c.BusyTimeout,
		Seed:           c.Seed,
		Payload:        c.Payload,
	}
}

// DeviceBuilder returns a builder for the configured behavioural device.
func (c *RunConfig) DeviceBuilder() dut.Builder {
	b := dut.MakeBuilder().
		WithNumContexts(c.NumContexts).
		WithCapacity(c.Capacity).
		WithResponseLatency(c.ResponseLatency)

	f := c.Faults
	if f.CorruptEvery > 0 {
		b = b.WithCorruptedPops(f.CorruptEvery, llq.Word(f.CorruptMask))
	}
	if f.DropEvery > 0 {
		b = b.WithDroppedResponses(f.DropEvery)
	}
	if f.SpuriousAt > 0 {
		b = b.WithSpuriousResponse(f.SpuriousAt, llq.Word(f.SpuriousWord))
	}
	if f.StuckNotEmpty {
		b = b.WithStuckNotEmpty()
	}
	if f.NeverAccept {
		b = b.WithNeverAccept()
	}

	return b
}
