package score

import (
	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/samber/lo"
)

// Match is one pair of lessons triggering a constraint.
type Match struct {
	LessonA uint64 `json:"lesson_a"`
	LessonB uint64 `json:"lesson_b"`
	Impact  Score  `json:"impact"`
}

type ConstraintTotal struct {
	Constraint Constraint `json:"-"`
	Name       string     `json:"name"`
	Level      string     `json:"level"`
	Score      Score      `json:"score"`
	Matches    []Match    `json:"matches"`
}

// Explanation breaks a score down per constraint. Constraints appear in evaluation order, including
// those without matches.
type Explanation struct {
	Score       Score             `json:"score"`
	Constraints []ConstraintTotal `json:"constraints"`
}

func Explain(solution *model.Solution) Explanation {
	totals := lo.Map(Constraints, func(constraint Constraint, _ int) ConstraintTotal {
		return ConstraintTotal{
			Constraint: constraint,
			Name:       constraint.Name(),
			Level:      constraint.Level().String(),
			Matches:    make([]Match, 0),
		}
	})

	lessons := solution.Lessons
	for i := range lessons {
		for j := i + 1; j < len(lessons); j++ {
			for k, constraint := range Constraints {
				if !constraint.Matches(&lessons[i], &lessons[j]) {
					continue
				}
				impact := constraint.Impact()
				totals[k].Score = totals[k].Score.Add(impact)
				totals[k].Matches = append(totals[k].Matches, Match{LessonA: lessons[i].Id, LessonB: lessons[j].Id, Impact: impact})
			}
		}
	}

	return Explanation{
		Score: lo.Reduce(totals, func(total Score, constraint ConstraintTotal, _ int) Score {
			return total.Add(constraint.Score)
		}, Zero),
		Constraints: totals,
	}
}

// Total returns the breakdown entry of the constraint.
func (explanation Explanation) Total(constraint Constraint) ConstraintTotal {
	total, _ := lo.Find(explanation.Constraints, func(total ConstraintTotal) bool {
		return total.Constraint == constraint
	})
	return total
}
