package config

import (
	"fmt"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/llqverify/bench"
	"github.com/sarchlab/llqverify/dut"
	"github.com/sarchlab/llqverify/oracle"
)

// A Platform is a device connected to a bench and an oracle session.
type Platform struct {
	Engine  sim.Engine
	Bench   *bench.Bench
	Device  *dut.Device
	Session *oracle.Session
}

// Run simulates until the stimulus finishes or a check fails.
func (p *Platform) Run() error {
	return p.Bench.Run()
}

// PlatformBuilder can build platforms.
type PlatformBuilder struct {
	engine  sim.Engine
	freq    sim.Freq
	config  *RunConfig
	monitor *monitoring.Monitor
	hooks   []sim.Hook
}

// MakePlatformBuilder returns a builder for the default run configuration.
func MakePlatformBuilder() PlatformBuilder {
	return PlatformBuilder{
		freq:   1 * sim.GHz,
		config: DefaultRunConfig(),
	}
}

// WithEngine sets the engine that drives the simulation. A serial engine is
// created if none is given.
func (b PlatformBuilder) WithEngine(engine sim.Engine) PlatformBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency of the bench.
func (b PlatformBuilder) WithFreq(freq sim.Freq) PlatformBuilder {
	b.freq = freq
	return b
}

// WithRunConfig sets the run configuration.
func (b PlatformBuilder) WithRunConfig(c *RunConfig) PlatformBuilder {
	b.config = c
	return b
}

// WithMonitor registers the bench and a stimulus progress bar with the
// monitor.
func (b PlatformBuilder) WithMonitor(monitor *monitoring.Monitor) PlatformBuilder {
	b.monitor = monitor
	return b
}

// WithHook attaches a hook to the oracle session.
func (b PlatformBuilder) WithHook(hook sim.Hook) PlatformBuilder {
	b.hooks = append(b.hooks[:len(b.hooks):len(b.hooks)], hook)
	return b
}

// Build creates a platform.
func (b PlatformBuilder) Build(name string) (*Platform, error) {
	err := b.config.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}

	engine := b.engine
	if engine == nil {
		engine = sim.NewSerialEngine()
	}

	device := b.config.DeviceBuilder().Build(name + ".LLQ")

	tb := bench.MakeBuilder().
		WithEngine(engine).
		WithFreq(b.freq).
		WithResetCycles(b.config.ResetCycles).
		Build(name + ".Bench")
	tb.RegisterDevice(device)

	var opts []oracle.SessionOption
	if b.monitor != nil {
		b.monitor.RegisterComponent(tb)
		bar := b.monitor.CreateProgressBar(
			name+" Stimulus", uint64(b.config.Iterations))
		opts = append(opts, oracle.WithProgress(bar))
	}

	session, err := oracle.NewSession(b.config.OracleConfig(), opts...)
	if err != nil {
		return nil, err
	}

	for _, h := range b.hooks {
		session.AcceptHook(h)
	}

	err = session.Attach(tb)
	if err != nil {
		return nil, err
	}

	return &Platform{
		Engine:  engine,
		Bench:   tb,
		Device:  device,
		Session: session,
	}, nil
}
