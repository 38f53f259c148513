package score

import (
	"slices"

	"github.com/limaJavier/lessonplanner/pkg/model"
)

// FullScore evaluates every unordered pair of lessons from scratch.
func FullScore(solution *model.Solution) Score {
	total := Zero
	lessons := solution.Lessons
	for i := range lessons {
		for j := i + 1; j < len(lessons); j++ {
			total = total.Add(pairScore(&lessons[i], &lessons[j]))
		}
	}
	return total
}

// Calculator keeps the score of a solution up to date while moves are applied to it. Every pair with
// a non-zero score shares a teacher, a student group or a time slot, so the lessons indexed under
// those three keys are the only partners whose pairs a move can change.
type Calculator struct {
	solution *model.Solution

	byTeacher map[uint64][]int // Static
	byGroup   map[uint64][]int // Static
	bySlot    map[uint64][]int // Follows every move

	seen  []uint64
	epoch uint64
	score Score
}

func NewCalculator(solution *model.Solution) *Calculator {
	calculator := &Calculator{
		solution:  solution,
		byTeacher: make(map[uint64][]int),
		byGroup:   make(map[uint64][]int),
		bySlot:    make(map[uint64][]int),
		seen:      make([]uint64, len(solution.Lessons)),
	}
	for i, lesson := range solution.Lessons {
		calculator.byTeacher[lesson.Teacher] = append(calculator.byTeacher[lesson.Teacher], i)
		calculator.byGroup[lesson.StudentGroup] = append(calculator.byGroup[lesson.StudentGroup], i)
	}
	for i := range solution.Lessons {
		calculator.index([]int{i})
	}
	calculator.score = FullScore(solution)
	return calculator
}

func (calculator *Calculator) Score() Score {
	return calculator.score
}

func (calculator *Calculator) Solution() *model.Solution {
	return calculator.solution
}

// LessonsAt returns the indices of the lessons currently placed in the time slot. The slice must not
// be modified.
func (calculator *Calculator) LessonsAt(timeSlot uint64) []int {
	return calculator.bySlot[timeSlot]
}

// DoMove applies the move to the solution and returns the updated score.
func (calculator *Calculator) DoMove(move model.Move) Score {
	affected := move.Lessons()

	before := calculator.contribution(affected)
	calculator.unindex(affected)
	move.Apply(calculator.solution)
	calculator.index(affected)
	after := calculator.contribution(affected)

	calculator.score = calculator.score.Add(after.Sub(before))
	return calculator.score
}

// Trial returns the score the move would lead to, leaving the solution untouched.
func (calculator *Calculator) Trial(move model.Move) Score {
	undo := move.Inverse(calculator.solution)
	trial := calculator.DoMove(move)
	calculator.DoMove(undo)
	return trial
}

// contribution sums the pairs involving at least one affected lesson; pairs between two affected
// lessons are counted once.
func (calculator *Calculator) contribution(affected []int) Score {
	total := Zero
	lessons := calculator.solution.Lessons

	for k, index := range affected {
		calculator.epoch++
		for _, done := range affected[:k+1] {
			calculator.seen[done] = calculator.epoch
		}

		lesson := &lessons[index]
		partners := [3][]int{
			calculator.byTeacher[lesson.Teacher],
			calculator.byGroup[lesson.StudentGroup],
		}
		if lesson.TimeSlot != nil {
			partners[2] = calculator.bySlot[lesson.TimeSlot.Id]
		}

		for _, list := range partners {
			for _, partner := range list {
				if calculator.seen[partner] == calculator.epoch {
					continue
				}
				calculator.seen[partner] = calculator.epoch
				total = total.Add(pairScore(lesson, &lessons[partner]))
			}
		}
	}
	return total
}

func (calculator *Calculator) index(affected []int) {
	for _, index := range affected {
		if slot := calculator.solution.Lessons[index].TimeSlot; slot != nil {
			calculator.bySlot[slot.Id] = append(calculator.bySlot[slot.Id], index)
		}
	}
}

func (calculator *Calculator) unindex(affected []int) {
	for _, index := range affected {
		slot := calculator.solution.Lessons[index].TimeSlot
		if slot == nil {
			continue
		}
		lessons := calculator.bySlot[slot.Id]
		if position := slices.Index(lessons, index); position >= 0 {
			lessons[position] = lessons[len(lessons)-1]
			calculator.bySlot[slot.Id] = lessons[:len(lessons)-1]
		}
	}
}
