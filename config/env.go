package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override the run configuration.
const (
	EnvSeed           = "LLQ_SEED"
	EnvIterations     = "LLQ_ITERATIONS"
	EnvNumContexts    = "LLQ_NUM_CONTEXTS"
	EnvCapacity       = "LLQ_CAPACITY"
	EnvFlushThreshold = "LLQ_FLUSH_THRESHOLD"
	EnvPushPercent    = "LLQ_PUSH_PERCENT"
	EnvSettleCycles   = "LLQ_SETTLE_CYCLES"
	EnvAcceptTimeout  = "LLQ_ACCEPT_TIMEOUT"
	EnvPayload        = "LLQ_PAYLOAD"
)

type intVar struct {
	name  string
	field func(c *RunConfig) *int
}

var intVars = []intVar{
	{EnvIterations, func(c *RunConfig) *int { return &c.Iterations }},
	{EnvNumContexts, func(c *RunConfig) *int { return &c.NumContexts }},
	{EnvCapacity, func(c *RunConfig) *int { return &c.Capacity }},
	{EnvFlushThreshold, func(c *RunConfig) *int { return &c.FlushThreshold }},
	{EnvPushPercent, func(c *RunConfig) *int { return &c.PushPercent }},
	{EnvSettleCycles, func(c *RunConfig) *int { return &c.SettleCycles }},
	{EnvAcceptTimeout, func(c *RunConfig) *int { return &c.AcceptTimeout }},
}

// LoadEnv loads the given .env files into the process environment and
// applies the LLQ_* variables to the configuration. Files that do not exist
// are skipped. Variables already set in the environment win over the files.
func (c *RunConfig) LoadEnv(files ...string) error {
	for _, f := range files {
		if f == "" {
			continue
		}

		_, err := os.Stat(f)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}

		err = godotenv.Load(f)
		if err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	if v, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvSeed, err)
		}

		c.Seed = seed
	}

	for _, iv := range intVars {
		v, ok := os.LookupEnv(iv.name)
		if !ok {
			continue
		}

		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", iv.name, err)
		}

		*iv.field(c) = n
	}

	if v, ok := os.LookupEnv(EnvPayload); ok {
		c.Payload = v
	}

	return nil
}
