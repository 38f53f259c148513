package model

import (
	"slices"

	"github.com/samber/lo"
)

// Solution is a working assignment of a problem's lessons. Lessons are positionally aligned with
// Problem.Lessons, so lesson indices are shared by every solution of the same problem.
type Solution struct {
	Problem *Problem
	Lessons []Lesson
}

func NewSolution(problem *Problem) *Solution {
	return &Solution{
		Problem: problem,
		Lessons: slices.Clone(problem.Lessons),
	}
}

func (solution *Solution) Clone() *Solution {
	return &Solution{
		Problem: solution.Problem,
		Lessons: slices.Clone(solution.Lessons),
	}
}

// CopyFrom overwrites the assignment with the one of another solution of the same problem.
func (solution *Solution) CopyFrom(other *Solution) {
	solution.Lessons = append(solution.Lessons[:0], other.Lessons...)
}

// Unassigned counts lessons missing a time slot or a room.
func (solution *Solution) Unassigned() int {
	return lo.CountBy(solution.Lessons, func(lesson Lesson) bool {
		return !lesson.Assigned()
	})
}

func (solution *Solution) Complete() bool {
	return solution.Unassigned() == 0
}

func (solution *Solution) LessonIndex(id uint64) (int, bool) {
	return solution.Problem.LessonIndex(id)
}
