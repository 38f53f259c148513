package score

import (
	"fmt"

	"github.com/limaJavier/lessonplanner/pkg/model"
)

type Level int

const (
	Hard Level = iota
	Soft
)

func (level Level) String() string {
	if level == Hard {
		return "HARD"
	}
	return "SOFT"
}

// Constraint is one rule of the fixed constraint set. Each constraint scores unordered pairs of
// distinct lessons.
type Constraint int

const (
	RoomConflict Constraint = iota
	TeacherConflict
	StudentGroupConflict
	SubjectDistribution
	DailyLessonLimit
	SubjectSpread
	ConsecutiveSameSubject
	TeacherRoomStability
	TeacherTimeEfficiency
)

// Constraints lists the constraint set in evaluation order.
var Constraints = []Constraint{
	RoomConflict,
	TeacherConflict,
	StudentGroupConflict,
	SubjectDistribution,
	DailyLessonLimit,
	SubjectSpread,
	ConsecutiveSameSubject,
	TeacherRoomStability,
	TeacherTimeEfficiency,
}

var definitions = [...]struct {
	name   string
	level  Level
	weight int64
}{
	RoomConflict:           {"Room conflict", Hard, 1},
	TeacherConflict:        {"Teacher conflict", Hard, 1},
	StudentGroupConflict:   {"Student group conflict", Hard, 1},
	SubjectDistribution:    {"Subject distribution across days", Soft, 10},
	DailyLessonLimit:       {"Daily lesson limit", Soft, 5},
	SubjectSpread:          {"Encourage subject spread", Soft, -8},
	ConsecutiveSameSubject: {"Avoid consecutive same subject", Soft, 3},
	TeacherRoomStability:   {"Teacher room stability", Soft, 1},
	TeacherTimeEfficiency:  {"Teacher time efficiency", Soft, 1},
}

func (constraint Constraint) Name() string {
	if constraint >= 0 && int(constraint) < len(definitions) {
		return definitions[constraint].name
	}
	return fmt.Sprintf("Constraint(%d)", int(constraint))
}

func (constraint Constraint) String() string {
	return constraint.Name()
}

func (constraint Constraint) Level() Level {
	return definitions[constraint].level
}

// Weight is the penalty per matching pair; negative weights are rewards.
func (constraint Constraint) Weight() int64 {
	return definitions[constraint].weight
}

// Impact is the score contribution of one matching pair.
func (constraint Constraint) Impact() Score {
	if constraint.Level() == Hard {
		return Score{Hard: constraint.Weight()}
	}
	return Score{Soft: constraint.Weight()}
}

// Matches reports whether the pair of lessons triggers the constraint. It is symmetric, false for a
// lesson paired with itself and false whenever either lesson has no time slot.
func (constraint Constraint) Matches(a, b *model.Lesson) bool {
	if a.Id == b.Id || a.TimeSlot == nil || b.TimeSlot == nil {
		return false
	}
	sameSlot := a.TimeSlot.Id == b.TimeSlot.Id
	sameDay := a.TimeSlot.DayOfWeek == b.TimeSlot.DayOfWeek
	sameCourse := a.Subject == b.Subject && a.StudentGroup == b.StudentGroup
	bothRooms := a.Room != nil && b.Room != nil

	switch constraint {
	case RoomConflict:
		return sameSlot && bothRooms && a.Room.Id == b.Room.Id
	case TeacherConflict:
		return sameSlot && a.Teacher == b.Teacher
	case StudentGroupConflict:
		return sameSlot && a.StudentGroup == b.StudentGroup
	case SubjectDistribution:
		return sameCourse && sameDay
	case DailyLessonLimit:
		return a.StudentGroup == b.StudentGroup && sameDay
	case SubjectSpread:
		return sameCourse && !sameDay
	case ConsecutiveSameSubject:
		return sameCourse && sameDay && gap(a.TimeSlot, b.TimeSlot) == 1
	case TeacherRoomStability:
		return a.Teacher == b.Teacher && bothRooms && a.Room.Id != b.Room.Id
	case TeacherTimeEfficiency:
		return a.Teacher == b.Teacher && sameDay && gap(a.TimeSlot, b.TimeSlot) > 1
	}
	return false
}

func gap(a, b *model.TimeSlot) int64 {
	diff := int64(a.Id) - int64(b.Id)
	if diff < 0 {
		return -diff
	}
	return diff
}

// pairScore sums the impacts of every constraint matched by the pair.
func pairScore(a, b *model.Lesson) Score {
	total := Zero
	for _, constraint := range Constraints {
		if constraint.Matches(a, b) {
			total = total.Add(constraint.Impact())
		}
	}
	return total
}
