package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/limaJavier/lessonplanner/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	//** Act
	cfg, err := Load("")

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, solver.DefaultConfig(), cfg.Solver)
}

func TestLoadFromEnvironment(t *testing.T) {
	//** Arrange
	t.Setenv("TIMETABLE_SOLVER_WORKERS", "3")
	t.Setenv("TIMETABLE_SOLVER_ACCEPTOR", "hill-climbing")
	t.Setenv("TIMETABLE_SOLVER_COOLING_RATE", "0.5")
	t.Setenv("TIMETABLE_LOG_LEVEL", "debug")

	//** Act
	cfg, err := Load("")

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Solver.Workers)
	assert.Equal(t, solver.HillClimbing, cfg.Solver.Acceptor)
	assert.Equal(t, 0.5, cfg.Solver.CoolingRate)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, solver.DefaultConfig().TimeLimitMillis, cfg.Solver.TimeLimitMillis)
}

func TestLoadFromFile(t *testing.T) {
	//** Arrange
	path := filepath.Join(t.TempDir(), "timetable.yaml")
	content := "env: production\nlog:\n  format: json\nsolver:\n  acceptor: late-acceptance\n  max_iterations: 100\n  random_seed: 7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0666))
	t.Setenv("TIMETABLE_SOLVER_RANDOM_SEED", "9")

	//** Act
	cfg, err := Load(path)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, solver.LateAcceptance, cfg.Solver.Acceptor)
	assert.Equal(t, int64(100), cfg.Solver.MaxIterations)
	assert.Equal(t, int64(9), cfg.Solver.RandomSeed) // Environment wins over the file
}

func TestLoadRejectsInvalidSolverConfig(t *testing.T) {
	t.Setenv("TIMETABLE_SOLVER_ACCEPTOR", "tabu")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
