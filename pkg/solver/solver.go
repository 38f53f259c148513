package solver

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/limaJavier/lessonplanner/pkg/score"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errNilProblem = errors.New("problem must not be nil")

type Phase int32

const (
	Unsolved Phase = iota
	Constructing
	LocalSearch
	Terminated
)

func (phase Phase) String() string {
	switch phase {
	case Unsolved:
		return "UNSOLVED"
	case Constructing:
		return "CONSTRUCTING"
	case LocalSearch:
		return "LOCAL_SEARCH"
	case Terminated:
		return "TERMINATED"
	}
	return "UNKNOWN"
}

type TerminationReason string

const (
	TerminationTimeLimit       TerminationReason = "time-limit"
	TerminationUnimprovedLimit TerminationReason = "unimproved-limit"
	TerminationIterationLimit  TerminationReason = "iteration-limit"
	TerminationCancelled       TerminationReason = "cancelled"
	TerminationNoMoves         TerminationReason = "no-moves"
	TerminationEmpty           TerminationReason = "empty"
)

type Result struct {
	RunId             uuid.UUID
	Solution          *model.Solution
	Score             score.Score
	Explanation       score.Explanation
	Termination       TerminationReason
	Iterations        int64
	Improvements      []Improvement
	ConstructionScore score.Score
	Duration          time.Duration
}

// Feasible reports whether the best solution breaks no hard constraint.
func (result Result) Feasible() bool {
	return result.Score.Feasible()
}

// Solver runs construction followed by local search. A Solver may be reused for several problems,
// but not concurrently.
type Solver struct {
	config  Config
	logger  *zap.Logger
	metrics *Metrics
	state   atomic.Int32
}

type Option func(*Solver)

func WithLogger(logger *zap.Logger) Option {
	return func(solver *Solver) {
		if logger != nil {
			solver.logger = logger
		}
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(solver *Solver) {
		solver.metrics = metrics
	}
}

func New(cfg Config, opts ...Option) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	solver := &Solver{config: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(solver)
	}
	return solver, nil
}

func (solver *Solver) Config() Config {
	return solver.config
}

// State returns the phase of the current (or last) solve run.
func (solver *Solver) State() Phase {
	return Phase(solver.state.Load())
}

// Solve builds the best timetable it can find for the problem. Infeasibility is not an error: the
// result score carries the remaining hard violations. Cancelling the context stops the search and
// returns the best solution found so far.
func (solver *Solver) Solve(ctx context.Context, problem *model.Problem) (Result, error) {
	if problem == nil {
		return Result{}, errNilProblem
	}

	cfg := solver.config
	start := time.Now()
	runId := uuid.New()
	logger := solver.logger.With(zap.String("run", runId.String()))

	if cfg.TimeLimitMillis > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.TimeLimitMillis)*time.Millisecond)
		defer cancel()
	}

	//** Construction
	solver.state.Store(int32(Constructing))
	logger.Info("construction started",
		zap.Int("lessons", len(problem.Lessons)),
		zap.Int("timeslots", len(problem.TimeSlots)),
		zap.Int("rooms", len(problem.Rooms)),
	)
	solution := model.NewSolution(problem)
	calculator := score.NewCalculator(solution)
	construct(calculator)
	constructionScore := calculator.Score()
	logger.Info("construction finished", zap.Stringer("score", constructionScore), zap.Duration("elapsed", time.Since(start)))

	tracker := newBestTracker(solution, constructionScore, start, logger, solver.metrics)
	termination := TerminationEmpty
	var iterations int64

	//** Local search
	if len(solution.Lessons) > 0 {
		solver.state.Store(int32(LocalSearch))
		logger.Info("local search started", zap.String("acceptor", string(cfg.Acceptor)), zap.Int("workers", cfg.Workers))

		// The last worker to stop decides the termination reason
		var last atomic.Value
		counts := make([]int64, cfg.Workers)
		group, groupCtx := errgroup.WithContext(ctx)
		for worker := range cfg.Workers {
			group.Go(func() error {
				working := solution.Clone()
				rng := rand.New(rand.NewPCG(uint64(cfg.RandomSeed)+uint64(worker), 0))
				workingCalculator := score.NewCalculator(working)

				search := &localSearch{
					worker:     worker,
					config:     cfg,
					calculator: workingCalculator,
					moves:      NewMoveGenerator(problem, rng),
					acceptor:   newAcceptor(cfg, rng, workingCalculator.Score()),
					best:       tracker,
				}
				last.Store(search.run(groupCtx))
				counts[worker] = search.iterations
				solver.metrics.observeSearch(search.iterations, search.accepted)
				return nil
			})
		}
		_ = group.Wait()

		termination = last.Load().(TerminationReason)
		iterations = lo.Sum(counts)
	}

	//** Result
	best, bestScore, improvements := tracker.snapshot()
	result := Result{
		RunId:             runId,
		Solution:          best,
		Score:             bestScore,
		Explanation:       score.Explain(best),
		Termination:       termination,
		Iterations:        iterations,
		Improvements:      improvements,
		ConstructionScore: constructionScore,
		Duration:          time.Since(start),
	}
	solver.state.Store(int32(Terminated))
	solver.metrics.observeResult(result)

	logger.Info("solve finished",
		zap.Stringer("score", result.Score),
		zap.Bool("feasible", result.Feasible()),
		zap.String("termination", string(result.Termination)),
		zap.Int64("iterations", result.Iterations),
		zap.Int("improvements", len(result.Improvements)),
		zap.Duration("elapsed", result.Duration),
	)
	return result, nil
}
