package solver

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type AcceptorType string

const (
	HillClimbing       AcceptorType = "hill-climbing"
	SimulatedAnnealing AcceptorType = "simulated-annealing"
	LateAcceptance     AcceptorType = "late-acceptance"
)

var ErrNoTermination = errors.New("at least one of time limit, unimproved iterations or iterations must be positive")

// Config tunes a solve run. Zero limits are disabled, but at least one must be set.
type Config struct {
	TimeLimitMillis         int64        `mapstructure:"time_limit_millis" validate:"gte=0"`
	MaxUnimprovedIterations int64        `mapstructure:"max_unimproved_iterations" validate:"gte=0"`
	MaxIterations           int64        `mapstructure:"max_iterations" validate:"gte=0"`
	RandomSeed              int64        `mapstructure:"random_seed"`
	Acceptor                AcceptorType `mapstructure:"acceptor" validate:"oneof=hill-climbing simulated-annealing late-acceptance"`

	// Simulated annealing works on hard*HardWeight + soft
	InitialTemperature float64 `mapstructure:"initial_temperature" validate:"gt=0"`
	CoolingRate        float64 `mapstructure:"cooling_rate" validate:"gt=0,lt=1"`
	HardWeight         int64   `mapstructure:"hard_weight" validate:"gt=0"`

	LateAcceptanceSize int `mapstructure:"late_acceptance_size" validate:"gt=0"`
	Workers            int `mapstructure:"workers" validate:"gte=1,lte=64"`
}

func DefaultConfig() Config {
	return Config{
		TimeLimitMillis:         30_000,
		MaxUnimprovedIterations: 200_000,
		MaxIterations:           0,
		RandomSeed:              0,
		Acceptor:                SimulatedAnnealing,

		InitialTemperature: 20,
		CoolingRate:        0.9999,
		HardWeight:         1000,

		LateAcceptanceSize: 400,
		Workers:            1,
	}
}

var validate = validator.New()

func (cfg Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid solver configuration: %w", err)
	}
	if cfg.TimeLimitMillis <= 0 && cfg.MaxUnimprovedIterations <= 0 && cfg.MaxIterations <= 0 {
		return fmt.Errorf("invalid solver configuration: %w", ErrNoTermination)
	}
	return nil
}
