package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/limaJavier/lessonplanner/pkg/logger"
	"github.com/limaJavier/lessonplanner/pkg/solver"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const EnvPrefix = "TIMETABLE"

type Config struct {
	Env    string        `mapstructure:"env"`
	Log    LogConfig     `mapstructure:"log"`
	Solver solver.Config `mapstructure:"solver"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load layers defaults, the optional config file at path and TIMETABLE_* environment variables (a
// .env file in the working directory is honoured), e.g. TIMETABLE_SOLVER_TIME_LIMIT_MILLIS=5000.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := setDefaults(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("cannot decode configuration: %w", err)
	}
	if err := cfg.Solver.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) error {
	v.SetDefault("env", logger.EnvDevelopment)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Every solver key needs a default to be picked up from the environment
	var defaults map[string]any
	if err := mapstructure.Decode(solver.DefaultConfig(), &defaults); err != nil {
		return fmt.Errorf("cannot build solver defaults: %w", err)
	}
	for key, value := range defaults {
		v.SetDefault("solver."+key, value)
	}
	return nil
}
