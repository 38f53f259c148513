package solver

import (
	"math"
	"math/rand/v2"

	"github.com/limaJavier/lessonplanner/pkg/score"
)

// acceptor decides whether the working solution moves to a candidate score.
type acceptor interface {
	accept(current, candidate score.Score) bool
	// stepEnded is called once per iteration with the score kept after the decision
	stepEnded(current score.Score)
}

func newAcceptor(cfg Config, rng *rand.Rand, initial score.Score) acceptor {
	switch cfg.Acceptor {
	case HillClimbing:
		return hillClimbing{}
	case LateAcceptance:
		history := make([]score.Score, cfg.LateAcceptanceSize)
		for i := range history {
			history[i] = initial
		}
		return &lateAcceptance{history: history}
	default:
		return &simulatedAnnealing{
			temperature: cfg.InitialTemperature,
			coolingRate: cfg.CoolingRate,
			hardWeight:  cfg.HardWeight,
			rng:         rng,
		}
	}
}

//** Hill climbing

// hillClimbing accepts any candidate that is not worse, so it can walk across plateaus.
type hillClimbing struct{}

func (hillClimbing) accept(current, candidate score.Score) bool {
	return !current.BetterThan(candidate)
}

func (hillClimbing) stepEnded(score.Score) {}

//** Simulated annealing

type simulatedAnnealing struct {
	temperature float64
	coolingRate float64
	hardWeight  int64
	rng         *rand.Rand
}

func (sa *simulatedAnnealing) accept(current, candidate score.Score) bool {
	delta := sa.weighted(candidate) - sa.weighted(current)
	if delta <= 0 {
		return true
	}
	// Metropolis criterion
	return sa.rng.Float64() < math.Exp(-delta/sa.temperature)
}

func (sa *simulatedAnnealing) stepEnded(score.Score) {
	sa.temperature *= sa.coolingRate
}

func (sa *simulatedAnnealing) weighted(s score.Score) float64 {
	return float64(s.Hard*sa.hardWeight + s.Soft)
}

//** Late acceptance

// lateAcceptance compares candidates against the score kept a fixed number of steps ago.
type lateAcceptance struct {
	history []score.Score
	index   int
}

func (la *lateAcceptance) accept(current, candidate score.Score) bool {
	return !current.BetterThan(candidate) || !la.history[la.index].BetterThan(candidate)
}

func (la *lateAcceptance) stepEnded(current score.Score) {
	la.history[la.index] = current
	la.index = (la.index + 1) % len(la.history)
}
