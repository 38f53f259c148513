package solver

import (
	"math/rand/v2"

	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/samber/lo"
)

const sampleAttempts = 64

// MoveGenerator samples and enumerates the moves of a solution. Time slots may take any value, rooms
// are restricted to the lesson's compatible rooms and swaps only happen between assigned lessons
// whose rooms fit each other's student group.
type MoveGenerator struct {
	problem *model.Problem
	rng     *rand.Rand
	kinds   []model.MoveKind
}

func NewMoveGenerator(problem *model.Problem, rng *rand.Rand) *MoveGenerator {
	kinds := make([]model.MoveKind, 0, 3)
	if len(problem.TimeSlots) > 0 {
		kinds = append(kinds, model.ReassignTimeSlot)
	}
	if len(problem.Rooms) > 0 {
		kinds = append(kinds, model.ReassignRoom)
	}
	if len(problem.Lessons) > 1 {
		kinds = append(kinds, model.SwapAssignments)
	}
	return &MoveGenerator{problem: problem, rng: rng, kinds: kinds}
}

// Sample draws a random move that changes the solution. It returns false when no such move exists.
func (generator *MoveGenerator) Sample(solution *model.Solution) (model.Move, bool) {
	if len(solution.Lessons) == 0 || len(generator.kinds) == 0 {
		return model.Move{}, false
	}

	for range sampleAttempts {
		kind := generator.kinds[generator.rng.IntN(len(generator.kinds))]
		lesson := generator.rng.IntN(len(solution.Lessons))

		var move model.Move
		var ok bool
		switch kind {
		case model.ReassignTimeSlot:
			move, ok = generator.sampleTimeSlot(solution, lesson)
		case model.ReassignRoom:
			move, ok = generator.sampleRoom(solution, lesson)
		case model.SwapAssignments:
			move, ok = generator.sampleSwap(solution, lesson)
		}
		if ok {
			return move, true
		}
	}

	// Sparse neighbourhoods: fall back to an exhaustive draw
	moves := generator.Neighborhood(solution)
	if len(moves) == 0 {
		return model.Move{}, false
	}
	return moves[generator.rng.IntN(len(moves))], true
}

func (generator *MoveGenerator) sampleTimeSlot(solution *model.Solution, lesson int) (model.Move, bool) {
	slots := generator.problem.TimeSlots
	current := solution.Lessons[lesson].TimeSlot
	if current != nil && len(slots) < 2 {
		return model.Move{}, false
	}

	index := generator.rng.IntN(len(slots))
	if current != nil && slots[index].Id == current.Id {
		// Redistribute uniformly among the other slots
		index = (index + 1 + generator.rng.IntN(len(slots)-1)) % len(slots)
	}
	return model.NewTimeSlotMove(lesson, &slots[index]), true
}

func (generator *MoveGenerator) sampleRoom(solution *model.Solution, lesson int) (model.Move, bool) {
	rooms := generator.problem.CompatibleRooms(lesson)
	current := solution.Lessons[lesson].Room
	if len(rooms) == 0 || (current != nil && len(rooms) < 2) {
		return model.Move{}, false
	}

	index := generator.rng.IntN(len(rooms))
	if current != nil && rooms[index].Id == current.Id {
		index = (index + 1 + generator.rng.IntN(len(rooms)-1)) % len(rooms)
	}
	return model.NewRoomMove(lesson, rooms[index]), true
}

func (generator *MoveGenerator) sampleSwap(solution *model.Solution, lesson int) (model.Move, bool) {
	other := generator.rng.IntN(len(solution.Lessons) - 1)
	if other >= lesson {
		other++
	}
	if !generator.swappable(solution, lesson, other) {
		return model.Move{}, false
	}
	return model.NewSwapMove(min(lesson, other), max(lesson, other)), true
}

func (generator *MoveGenerator) swappable(solution *model.Solution, a, b int) bool {
	first, second := &solution.Lessons[a], &solution.Lessons[b]
	if !first.Assigned() || !second.Assigned() {
		return false
	}
	if first.TimeSlot.Id == second.TimeSlot.Id && first.Room.Id == second.Room.Id {
		return false
	}
	return generator.problem.Fits(first.StudentGroup, second.Room) && generator.problem.Fits(second.StudentGroup, first.Room)
}

// Neighborhood enumerates every move that changes the solution.
func (generator *MoveGenerator) Neighborhood(solution *model.Solution) []model.Move {
	moves := make([]model.Move, 0)
	problem := generator.problem

	for i, lesson := range solution.Lessons {
		for s := range problem.TimeSlots {
			if lesson.TimeSlot == nil || lesson.TimeSlot.Id != problem.TimeSlots[s].Id {
				moves = append(moves, model.NewTimeSlotMove(i, &problem.TimeSlots[s]))
			}
		}
		moves = append(moves, lo.FilterMap(problem.CompatibleRooms(i), func(room *model.Room, _ int) (model.Move, bool) {
			return model.NewRoomMove(i, room), lesson.Room == nil || lesson.Room.Id != room.Id
		})...)
	}

	for i := range solution.Lessons {
		for j := i + 1; j < len(solution.Lessons); j++ {
			if generator.swappable(solution, i, j) {
				moves = append(moves, model.NewSwapMove(i, j))
			}
		}
	}
	return moves
}
