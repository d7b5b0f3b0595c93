package oracle

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/llqverify/bench"
	"github.com/sarchlab/llqverify/llq"
	"github.com/sarchlab/llqverify/util"
)

// Config controls one run of the oracle.
type Config struct {
	// NumContexts is the number of contexts the stimulus spreads over.
	NumContexts int

	// Iterations is the number of random commands in the steady state.
	Iterations int

	// FlushThreshold is the aggregate occupancy above which every context is
	// drained before the next command.
	FlushThreshold int

	// PushPercent is the chance, in percent, to push into a context that
	// already holds words.
	PushPercent int

	// SettleCycles is the number of edges to wait after the final drain
	// before checking that the device is empty.
	SettleCycles int

	// AcceptTimeout bounds the wait for a command to be accepted, in cycles.
	// Zero waits forever.
	AcceptTimeout int

	// BusyTimeout bounds the wait for the device to leave busy, in cycles.
	// Zero waits forever.
	BusyTimeout int

	// Seed makes the stimulus reproducible.
	Seed uint64

	// Payload names the word pattern, see util.MakeGen.
	Payload string
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		NumContexts:    16,
		Iterations:     10000,
		FlushThreshold: 100,
		PushPercent:    50,
		SettleCycles:   20,
		AcceptTimeout:  1000,
		BusyTimeout:    10000,
		Payload:        util.PatternRandom,
	}
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	if c.NumContexts <= 0 {
		return fmt.Errorf("number of contexts must be > 0, got %d", c.NumContexts)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("iterations must be >= 0, got %d", c.Iterations)
	}
	if c.FlushThreshold < 0 {
		return fmt.Errorf("flush threshold must be >= 0, got %d", c.FlushThreshold)
	}
	if c.PushPercent < 0 || c.PushPercent > 100 {
		return fmt.Errorf("push percent must be in [0, 100], got %d", c.PushPercent)
	}
	if c.SettleCycles < 0 {
		return fmt.Errorf("settle cycles must be >= 0, got %d", c.SettleCycles)
	}
	if c.AcceptTimeout < 0 || c.BusyTimeout < 0 {
		return fmt.Errorf("timeouts must be >= 0")
	}

	return nil
}

// Session holds the state of one run: the model, the expectation queue, the
// random source and the components working on them. Hooks registered on the
// session see every accepted command and every checked response.
type Session struct {
	sim.HookableBase

	id  string
	cfg Config

	model        *Model
	expectations *ExpectationQueue
	rng          *Random
	stats        *Stats

	issuer  *Issuer
	checker *Checker
	driver  *Driver
}

// A SessionOption customizes a session.
type SessionOption func(s *Session)

// WithProgress reports every finished stimulus iteration to p.
func WithProgress(p Progress) SessionOption {
	return func(s *Session) {
		s.driver.progress = p
	}
}

// WithPayload replaces the payload generator named in the configuration.
func WithPayload(gen func() llq.Word) SessionOption {
	return func(s *Session) {
		s.driver.payload = gen
	}
}

// NewSession creates a session.
func NewSession(cfg Config, opts ...SessionOption) (*Session, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:           xid.New().String(),
		cfg:          cfg,
		model:        NewModel(cfg.NumContexts),
		expectations: NewExpectationQueue(),
		rng:          NewRandom(cfg.Seed),
		stats:        &Stats{},
	}

	payload, err := util.MakeGen(cfg.Payload, s.rng)
	if err != nil {
		return nil, err
	}

	s.issuer = &Issuer{
		model:         s.model,
		expectations:  s.expectations,
		stats:         s.stats,
		hooks:         s,
		acceptTimeout: cfg.AcceptTimeout,
	}

	s.checker = &Checker{
		expectations: s.expectations,
		stats:        s.stats,
		hooks:        s,
	}

	s.driver = &Driver{
		cfg:          cfg,
		model:        s.model,
		expectations: s.expectations,
		issuer:       s.issuer,
		rng:          s.rng,
		payload:      payload,
		stats:        s.stats,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Attach registers the checker on the bench and spawns the stimulus thread.
func (s *Session) Attach(b *bench.Bench) error {
	device := b.Device()
	if device == nil {
		return fmt.Errorf("bench %s has no device", b.Name())
	}

	if n := device.Params().NumContexts; n < s.cfg.NumContexts {
		return fmt.Errorf("device has %d contexts, stimulus needs %d",
			n, s.cfg.NumContexts)
	}

	b.AddSampler(bench.SamplerFunc(s.sample))
	b.Spawn("Stimulus", func(t *bench.Thread) error {
		return s.driver.Run(t)
	})

	return nil
}

func (s *Session) sample(cycle uint64, status llq.Status) error {
	s.stats.Cycles = cycle
	return s.checker.Check(cycle, status)
}

// ID returns the unique ID of the session.
func (s *Session) ID() string {
	return s.id
}

// Config returns the configuration of the session.
func (s *Session) Config() Config {
	return s.cfg
}

// Stats returns a snapshot of the run counters.
func (s *Session) Stats() Stats {
	return *s.stats
}

// Model returns the reference model.
func (s *Session) Model() *Model {
	return s.model
}

// Expectations returns the pending expectations.
func (s *Session) Expectations() *ExpectationQueue {
	return s.expectations
}

// Issuer returns the command issuer.
func (s *Session) Issuer() *Issuer {
	return s.issuer
}

// Checker returns the response checker.
func (s *Session) Checker() *Checker {
	return s.checker
}

// Driver returns the stimulus driver.
func (s *Session) Driver() *Driver {
	return s.driver
}
