package solver

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/limaJavier/lessonplanner/pkg/score"
	"go.uber.org/zap"
)

// Improvement records a new global best.
type Improvement struct {
	Worker    int
	Iteration int64
	Score     score.Score
	Elapsed   time.Duration
}

// bestTracker holds the best solution found by any worker. It only ever moves to strictly better
// scores.
type bestTracker struct {
	mu           sync.Mutex
	solution     *model.Solution
	score        score.Score
	improvements []Improvement
	start        time.Time
	logger       *zap.Logger
	metrics      *Metrics
}

func newBestTracker(solution *model.Solution, initial score.Score, start time.Time, logger *zap.Logger, metrics *Metrics) *bestTracker {
	return &bestTracker{
		solution:     solution.Clone(),
		score:        initial,
		improvements: make([]Improvement, 0),
		start:        start,
		logger:       logger,
		metrics:      metrics,
	}
}

func (tracker *bestTracker) offer(worker int, iteration int64, candidate score.Score, solution *model.Solution) bool {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	if !candidate.BetterThan(tracker.score) {
		return false
	}
	tracker.solution.CopyFrom(solution)
	tracker.score = candidate

	improvement := Improvement{Worker: worker, Iteration: iteration, Score: candidate, Elapsed: time.Since(tracker.start)}
	tracker.improvements = append(tracker.improvements, improvement)
	tracker.metrics.observeImprovement()
	tracker.logger.Debug("new best solution",
		zap.Int("worker", worker),
		zap.Int64("iteration", iteration),
		zap.Stringer("score", candidate),
		zap.Duration("elapsed", improvement.Elapsed),
	)
	return true
}

func (tracker *bestTracker) snapshot() (*model.Solution, score.Score, []Improvement) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.solution.Clone(), tracker.score, append([]Improvement(nil), tracker.improvements...)
}

// localSearch improves one working solution until a termination condition holds.
type localSearch struct {
	worker     int
	config     Config
	calculator *score.Calculator
	moves      *MoveGenerator
	acceptor   acceptor
	best       *bestTracker

	iterations int64
	accepted   int64
}

func (search *localSearch) run(ctx context.Context) TerminationReason {
	solution := search.calculator.Solution()
	current := search.calculator.Score()
	localBest := current
	unimproved := int64(0)

	for {
		if err := ctx.Err(); err != nil {
			return terminationOf(err)
		}
		if search.config.MaxIterations > 0 && search.iterations >= search.config.MaxIterations {
			return TerminationIterationLimit
		}
		if search.config.MaxUnimprovedIterations > 0 && unimproved >= search.config.MaxUnimprovedIterations {
			return TerminationUnimprovedLimit
		}

		move, ok := search.moves.Sample(solution)
		if !ok {
			return TerminationNoMoves
		}
		undo := move.Inverse(solution)
		candidate := search.calculator.DoMove(move)
		search.iterations++

		if search.acceptor.accept(current, candidate) {
			current = candidate
			search.accepted++
		} else {
			search.calculator.DoMove(undo)
		}
		search.acceptor.stepEnded(current)

		if current.BetterThan(localBest) {
			localBest = current
			unimproved = 0
			search.best.offer(search.worker, search.iterations, current, solution)
		} else {
			unimproved++
		}
	}
}

func terminationOf(err error) TerminationReason {
	if errors.Is(err, context.DeadlineExceeded) {
		return TerminationTimeLimit
	}
	return TerminationCancelled
}
