package solver

import (
	"cmp"
	"slices"

	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/limaJavier/lessonplanner/pkg/score"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// construct assigns every lesson missing a time slot or a room, hardest lessons first, each to the
// value with the best incremental score (first one on ties). Pre-assigned values are kept.
func construct(calculator *score.Calculator) {
	solution := calculator.Solution()
	problem := solution.Problem

	//** Order pending lessons by difficulty
	teacherLoad := lo.CountValuesBy(solution.Lessons, func(lesson model.Lesson) uint64 { return lesson.Teacher })
	groupLoad := lo.CountValuesBy(solution.Lessons, func(lesson model.Lesson) uint64 { return lesson.StudentGroup })
	load := func(i int) int {
		return teacherLoad[solution.Lessons[i].Teacher] + groupLoad[solution.Lessons[i].StudentGroup]
	}

	pending := lo.Filter(lo.Range(len(solution.Lessons)), func(i int, _ int) bool {
		return !solution.Lessons[i].Assigned()
	})
	slices.SortStableFunc(pending, func(a, b int) int {
		return cmp.Or(
			cmp.Compare(len(problem.CompatibleRooms(a)), len(problem.CompatibleRooms(b))),
			cmp.Compare(load(b), load(a)),
			cmp.Compare(solution.Lessons[a].Id, solution.Lessons[b].Id),
		)
	})

	//** Place lessons
	for _, lesson := range pending {
		if solution.Lessons[lesson].TimeSlot == nil {
			placeTimeSlot(calculator, lesson)
		}
		if solution.Lessons[lesson].Room == nil {
			placeRoom(calculator, lesson)
		}
	}

	//** Repair room clashes left behind by the greedy placement
	if len(pending) > 0 {
		repairRooms(calculator)
	}
}

// placeTimeSlot evaluates each time slot together with a tentative room and keeps the best slot.
func placeTimeSlot(calculator *score.Calculator, lesson int) {
	solution := calculator.Solution()
	problem := solution.Problem

	var best *model.TimeSlot
	var bestScore score.Score
	for s := range problem.TimeSlots {
		slot := &problem.TimeSlots[s]
		moves := []model.Move{model.NewTimeSlotMove(lesson, slot)}
		if solution.Lessons[lesson].Room == nil {
			moves = append(moves, model.NewRoomMove(lesson, freeRoom(calculator, lesson, slot)))
		}

		trial := tryMoves(calculator, moves...)
		if best == nil || trial.BetterThan(bestScore) {
			best, bestScore = slot, trial
		}
	}
	calculator.DoMove(model.NewTimeSlotMove(lesson, best))
}

func placeRoom(calculator *score.Calculator, lesson int) {
	var best *model.Room
	var bestScore score.Score
	for _, room := range calculator.Solution().Problem.CompatibleRooms(lesson) {
		trial := calculator.Trial(model.NewRoomMove(lesson, room))
		if best == nil || trial.BetterThan(bestScore) {
			best, bestScore = room, trial
		}
	}
	calculator.DoMove(model.NewRoomMove(lesson, best))
}

// freeRoom returns the first compatible room nobody else occupies in the slot, or the first
// compatible room when all are taken.
func freeRoom(calculator *score.Calculator, lesson int, slot *model.TimeSlot) *model.Room {
	solution := calculator.Solution()
	rooms := solution.Problem.CompatibleRooms(lesson)

	occupied := make(map[uint64]bool)
	for _, other := range calculator.LessonsAt(slot.Id) {
		if room := solution.Lessons[other].Room; other != lesson && room != nil {
			occupied[room.Id] = true
		}
	}
	if room, ok := lo.Find(rooms, func(room *model.Room) bool { return !occupied[room.Id] }); ok {
		return room
	}
	return rooms[0]
}

// tryMoves applies the moves in order, reads the score and undoes them.
func tryMoves(calculator *score.Calculator, moves ...model.Move) score.Score {
	undo := make([]model.Move, len(moves))
	for i, move := range moves {
		undo[i] = move.Inverse(calculator.Solution())
		calculator.DoMove(move)
	}
	trial := calculator.Score()
	for i := len(undo) - 1; i >= 0; i-- {
		calculator.DoMove(undo[i])
	}
	return trial
}

// repairRooms reassigns rooms inside every time slot holding a room conflict through a maximum
// bipartite matching between its lessons and the rooms they fit in. Pre-assigned rooms stay put. A
// matching is kept only when it improves the score.
func repairRooms(calculator *score.Calculator) {
	solution := calculator.Solution()
	problem := solution.Problem

	for s := range problem.TimeSlots {
		lessons := slices.Clone(calculator.LessonsAt(problem.TimeSlots[s].Id))
		slices.Sort(lessons)
		if !roomConflict(solution, lessons) {
			continue
		}

		assignments, err := assignRooms(problem, lessons)
		if err != nil {
			continue
		}

		before := calculator.Score()
		undo := make([]model.Move, 0, len(assignments))
		for _, lesson := range lessons {
			room, ok := assignments[lesson]
			if !ok || problem.Lessons[lesson].Room != nil {
				continue
			}
			if current := solution.Lessons[lesson].Room; current != nil && current.Id == room.Id {
				continue
			}
			move := model.NewRoomMove(lesson, room)
			undo = append(undo, move.Inverse(solution))
			calculator.DoMove(move)
		}
		if !calculator.Score().BetterThan(before) {
			for i := len(undo) - 1; i >= 0; i-- {
				calculator.DoMove(undo[i])
			}
		}
	}
}

func roomConflict(solution *model.Solution, lessons []int) bool {
	rooms := lo.FilterMap(lessons, func(lesson int, _ int) (uint64, bool) {
		room := solution.Lessons[lesson].Room
		if room == nil {
			return 0, false
		}
		return room.Id, true
	})
	return len(lo.Uniq(rooms)) < len(rooms)
}

// assignRooms matches lessons sharing a time slot with pairwise distinct rooms. Lessons left out
// of the largest matching keep their current room.
func assignRooms(problem *model.Problem, lessons []int) (map[int]*model.Room, error) {
	rooms := lo.Map(problem.Rooms, func(_ model.Room, i int) *model.Room { return &problem.Rooms[i] })

	neighbors := func(lessonAny any, roomAny any) (bool, error) {
		lesson := lessonAny.(int)
		room := roomAny.(*model.Room)

		if fixed := problem.Lessons[lesson].Room; fixed != nil {
			return fixed.Id == room.Id, nil
		}
		return slices.Contains(problem.CompatibleRooms(lesson), room), nil
	}

	// Transform lessons and rooms to slices of any
	lessonsAny, roomsAny := lo.Map(lessons, func(lesson int, _ int) any { return lesson }), lo.Map(rooms, func(room *model.Room, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(lessonsAny, roomsAny, neighbors)
	if err != nil {
		return nil, err
	}

	assignments := make(map[int]*model.Room, len(lessons))
	for _, edge := range graph.LargestMatching() {
		lessonIndex, roomIndex := edge.Node1, edge.Node2-len(lessons)
		assignments[lessons[lessonIndex]] = rooms[roomIndex]
	}
	return assignments, nil
}
