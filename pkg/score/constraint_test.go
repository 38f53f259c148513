package score

import (
	"math/rand/v2"
	"testing"

	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

var (
	monday1  = &model.TimeSlot{Id: 1, DayOfWeek: "MONDAY", StartTime: "08:00", EndTime: "08:45"}
	monday2  = &model.TimeSlot{Id: 2, DayOfWeek: "MONDAY", StartTime: "08:50", EndTime: "09:35"}
	monday3  = &model.TimeSlot{Id: 3, DayOfWeek: "MONDAY", StartTime: "09:40", EndTime: "10:25"}
	tuesday1 = &model.TimeSlot{Id: 4, DayOfWeek: "TUESDAY", StartTime: "08:00", EndTime: "08:45"}
	roomA    = &model.Room{Id: 1, Name: "Room A"}
	roomB    = &model.Room{Id: 2, Name: "Room B"}
)

func lesson(id, subject, teacher, group uint64, slot *model.TimeSlot, room *model.Room) *model.Lesson {
	return &model.Lesson{Id: id, Subject: subject, Teacher: teacher, StudentGroup: group, TimeSlot: slot, Room: room}
}

func matched(a, b *model.Lesson) []Constraint {
	return lo.Filter(Constraints, func(constraint Constraint, _ int) bool {
		return constraint.Matches(a, b)
	})
}

func TestConstraintMatches(t *testing.T) {
	cases := []struct {
		name     string
		a, b     *model.Lesson
		expected []Constraint
		score    Score
	}{
		{
			name:     "room conflict only",
			a:        lesson(1, 1, 1, 1, monday1, roomA),
			b:        lesson(2, 2, 2, 2, monday1, roomA),
			expected: []Constraint{RoomConflict},
			score:    Of(1, 0),
		},
		{
			name:     "teacher conflict in different rooms",
			a:        lesson(1, 1, 1, 1, monday1, roomA),
			b:        lesson(2, 1, 1, 2, monday1, roomB),
			expected: []Constraint{TeacherConflict, TeacherRoomStability},
			score:    Of(1, 1),
		},
		{
			name:     "same course same slot",
			a:        lesson(1, 1, 1, 1, monday1, roomA),
			b:        lesson(2, 1, 1, 1, monday1, roomA),
			expected: []Constraint{RoomConflict, TeacherConflict, StudentGroupConflict, SubjectDistribution, DailyLessonLimit},
			score:    Of(3, 15),
		},
		{
			name:     "same course consecutive periods",
			a:        lesson(1, 1, 1, 1, monday1, roomA),
			b:        lesson(2, 1, 1, 1, monday2, roomA),
			expected: []Constraint{SubjectDistribution, DailyLessonLimit, ConsecutiveSameSubject},
			score:    Of(0, 18),
		},
		{
			name:     "same course with a gap",
			a:        lesson(1, 1, 1, 1, monday1, roomA),
			b:        lesson(2, 1, 1, 1, monday3, roomB),
			expected: []Constraint{SubjectDistribution, DailyLessonLimit, TeacherRoomStability, TeacherTimeEfficiency},
			score:    Of(0, 17),
		},
		{
			name:     "same course different days",
			a:        lesson(1, 1, 1, 1, monday1, roomA),
			b:        lesson(2, 1, 1, 1, tuesday1, roomA),
			expected: []Constraint{SubjectSpread},
			score:    Of(0, -8),
		},
		{
			name:     "same group different subjects",
			a:        lesson(1, 1, 1, 1, monday1, roomA),
			b:        lesson(2, 2, 2, 1, monday2, roomB),
			expected: []Constraint{DailyLessonLimit},
			score:    Of(0, 5),
		},
		{
			name:     "room rules need both rooms",
			a:        lesson(1, 1, 1, 1, monday1, roomA),
			b:        lesson(2, 2, 1, 2, monday2, nil),
			expected: []Constraint{},
			score:    Zero,
		},
		{
			name:     "unassigned time slot",
			a:        lesson(1, 1, 1, 1, nil, roomA),
			b:        lesson(2, 1, 1, 1, monday1, roomA),
			expected: []Constraint{},
			score:    Zero,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.ElementsMatch(t, c.expected, matched(c.a, c.b))
			assert.ElementsMatch(t, c.expected, matched(c.b, c.a))
			assert.Equal(t, c.score, pairScore(c.a, c.b))
		})
	}
}

func TestConstraintsNeverMatchSelf(t *testing.T) {
	a := lesson(1, 1, 1, 1, monday1, roomA)
	assert.Empty(t, matched(a, a))
	copied := *a
	assert.Empty(t, matched(a, &copied))
}

func TestConstraintsAreSymmetric(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	slots := []*model.TimeSlot{nil, monday1, monday2, monday3, tuesday1}
	rooms := []*model.Room{nil, roomA, roomB}
	random := func(id uint64) *model.Lesson {
		return lesson(id, uint64(rng.IntN(2)), uint64(rng.IntN(2)), uint64(rng.IntN(2)), slots[rng.IntN(len(slots))], rooms[rng.IntN(len(rooms))])
	}

	for range 500 {
		a, b := random(1), random(2)
		for _, constraint := range Constraints {
			assert.Equal(t, constraint.Matches(a, b), constraint.Matches(b, a), constraint.Name())
		}
	}
}
