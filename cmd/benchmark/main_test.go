package main

import (
	"math/rand/v2"
	"testing"

	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/limaJavier/lessonplanner/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("00:01:01.12"))
	assert.Equal(t, int64(60*60*1000+60*1000+1000+120), parseDuration("01:01:01.12"))
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("1:01.12"))
	assert.Equal(t, int64(120), parseDuration("0:00.12"))
	assert.Equal(t, int64(120), parseDuration("00:00:00.12"))
	assert.Equal(t, int64(5000), parseDuration("0:05.00"))
}

func TestInstancesAreValid(t *testing.T) {
	for i, instance := range getInstances() {
		t.Run(instance.Name, func(t *testing.T) {
			//** Act
			problem, err := model.NewProblem(model.RandomInput(rand.New(rand.NewPCG(uint64(i), 7)), instance.Size))

			//** Assert
			require.NoError(t, err)
			assert.NotEmpty(t, problem.Lessons)
		})
	}
}

func TestMeasure(t *testing.T) {
	//** Arrange
	instance := getInstances()[0]
	problem, err := model.NewProblem(model.RandomInput(rand.New(rand.NewPCG(0, 7)), instance.Size))
	require.NoError(t, err)

	//** Act
	result := measure(problem, instance, solver.HillClimbing, 1, 200, zap.NewNop())

	//** Assert
	assert.Equal(t, solver.HillClimbing, result.Acceptor)
	assert.Equal(t, len(problem.Lessons), result.Lessons)
	assert.GreaterOrEqual(t, result.Hard, int64(0))
	assert.Equal(t, result.Hard == 0, result.Feasible)
	assert.NotEmpty(t, result.Termination)
}
