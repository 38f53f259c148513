package model

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput(t *testing.T) Input {
	t.Helper()
	slots, err := WeeklyTimeSlots(Weekdays[:2], 3, "08:00", 45, 5)
	require.NoError(t, err)

	return Input{
		Subjects: []RawSubject{
			{Id: 1, Name: "Math", WeeklyHours: 3},
			{Id: 2, Name: "History", WeeklyHours: 2},
		},
		Teachers: []RawTeacher{
			{Id: 1, Name: "Turing", Subjects: []uint64{1}},
			{Id: 2, Name: "Herodotus", Subjects: []uint64{1, 2}},
		},
		TimeSlots: slots,
		Rooms: []RawRoom{
			{Id: 1, Name: "Room A", Capacity: 30},
			{Id: 2, Name: "Room B"},
		},
		StudentGroups: []RawStudentGroup{
			{Id: 1, Name: "9th grade", Size: 25},
			{Id: 2, Name: "10th grade"},
		},
	}
}

func TestInputFromBytes(t *testing.T) {
	//** Arrange
	raw := []byte(`{
		"subjects": [{"id": 1, "name": "Math", "weekly_hours": 2}],
		"teachers": [{"id": 7, "name": "Turing", "subjects": [1]}],
		"timeslots": [{"id": 1, "day_of_week": "MONDAY", "start_time": "08:30", "end_time": "09:30"}],
		"rooms": [{"id": 3, "name": "Room A", "capacity": 30}],
		"student_groups": [{"id": 4, "name": "9th grade", "size": 20}],
		"lessons": [{"id": 9, "subject": 1, "teacher": 7, "student_group": 4, "timeslot": 1}]
	}`)

	//** Act
	input, err := InputFromBytes(raw)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, []RawSubject{{Id: 1, Name: "Math", WeeklyHours: 2}}, input.Subjects)
	assert.Equal(t, []uint64{1}, input.Teachers[0].Subjects)
	assert.Equal(t, "08:30", input.TimeSlots[0].StartTime)
	assert.Equal(t, int64(30), input.Rooms[0].Capacity)
	assert.Equal(t, int64(20), input.StudentGroups[0].Size)
	require.Len(t, input.Lessons, 1)
	require.NotNil(t, input.Lessons[0].TimeSlot)
	assert.Equal(t, uint64(1), *input.Lessons[0].TimeSlot)
	assert.Nil(t, input.Lessons[0].Room)
}

func TestInputFromBytesRejectsMalformedJson(t *testing.T) {
	_, err := InputFromBytes([]byte(`{"subjects": [`))
	assert.Error(t, err)
}

func TestNewProblemGeneratesLessons(t *testing.T) {
	//** Arrange
	input := sampleInput(t)

	//** Act
	problem, err := NewProblem(input)

	//** Assert
	require.NoError(t, err)
	assert.Len(t, problem.Lessons, 2*(3+2))
	assert.Equal(t, lo.RangeFrom(uint64(1), 10), lo.Map(problem.Lessons, func(lesson Lesson, _ int) uint64 { return lesson.Id }))
	for _, lesson := range problem.Lessons {
		assert.False(t, lesson.Assigned())
		// First teacher in input order able to teach the subject
		if lesson.Subject == 1 {
			assert.Equal(t, uint64(1), lesson.Teacher)
		} else {
			assert.Equal(t, uint64(2), lesson.Teacher)
		}
	}
}

func TestNewProblemSkipsSubjectsWithoutWeeklyHours(t *testing.T) {
	//** Arrange
	input := sampleInput(t)
	input.Subjects[1].WeeklyHours = 0

	//** Act
	problem, err := NewProblem(input)

	//** Assert
	require.NoError(t, err)
	assert.Len(t, problem.Lessons, 2*3)
	assert.True(t, lo.EveryBy(problem.Lessons, func(lesson Lesson) bool { return lesson.Subject == 1 }))
}

func TestNewProblemCompatibleRooms(t *testing.T) {
	//** Arrange
	input := sampleInput(t)
	input.StudentGroups[0].Size = 35

	//** Act
	problem, err := NewProblem(input)

	//** Assert
	require.NoError(t, err)
	for i, lesson := range problem.Lessons {
		rooms := lo.Map(problem.CompatibleRooms(i), func(room *Room, _ int) uint64 { return room.Id })
		if lesson.StudentGroup == 1 {
			assert.Equal(t, []uint64{2}, rooms)
		} else {
			assert.Equal(t, []uint64{1, 2}, rooms)
		}
	}
}

func TestNewProblemKeepsPreAssignments(t *testing.T) {
	//** Arrange
	input := sampleInput(t)
	input.Lessons = []RawLesson{
		{Id: 10, Subject: 2, Teacher: 2, StudentGroup: 1, TimeSlot: lo.ToPtr(uint64(4)), Room: lo.ToPtr(uint64(2))},
		{Id: 11, Subject: 2, Teacher: 2, StudentGroup: 1},
	}

	//** Act
	problem, err := NewProblem(input)

	//** Assert
	require.NoError(t, err)
	require.Len(t, problem.Lessons, 2)
	assert.Equal(t, uint64(4), problem.Lessons[0].TimeSlot.Id)
	assert.Equal(t, "TUESDAY", problem.Lessons[0].TimeSlot.DayOfWeek)
	assert.Equal(t, uint64(2), problem.Lessons[0].Room.Id)
	assert.Nil(t, problem.Lessons[1].TimeSlot)
	index, ok := problem.LessonIndex(11)
	assert.True(t, ok)
	assert.Equal(t, 1, index)
}

func TestNewProblemValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(input *Input)
	}{
		{"missing subject name", func(input *Input) { input.Subjects[0].Name = "" }},
		{"malformed start time", func(input *Input) { input.TimeSlots[0].StartTime = "8h" }},
		{"negative capacity", func(input *Input) { input.Rooms[0].Capacity = -1 }},
		{"negative weekly hours", func(input *Input) { input.Subjects[0].WeeklyHours = -2 }},
		{"duplicate subject", func(input *Input) { input.Subjects[1].Id = 1 }},
		{"duplicate room", func(input *Input) { input.Rooms[1].Id = 1 }},
		{"dangling teachable subject", func(input *Input) { input.Teachers[0].Subjects = []uint64{42} }},
		{"end before start", func(input *Input) { input.TimeSlots[0].EndTime = "07:00" }},
		{"non contiguous slot ids", func(input *Input) { input.TimeSlots[1].Id = 40 }},
		{"no teacher for subject", func(input *Input) { input.Teachers[1].Subjects = []uint64{1} }},
		{"no fitting room", func(input *Input) {
			input.Rooms = []RawRoom{{Id: 1, Name: "Closet", Capacity: 5}}
		}},
		{"lessons without time slots", func(input *Input) { input.TimeSlots = nil }},
		{"dangling lesson subject", func(input *Input) {
			input.Lessons = []RawLesson{{Id: 1, Subject: 9, Teacher: 1, StudentGroup: 1}}
		}},
		{"dangling lesson teacher", func(input *Input) {
			input.Lessons = []RawLesson{{Id: 1, Subject: 1, Teacher: 9, StudentGroup: 1}}
		}},
		{"dangling lesson group", func(input *Input) {
			input.Lessons = []RawLesson{{Id: 1, Subject: 1, Teacher: 1, StudentGroup: 9}}
		}},
		{"teacher cannot teach", func(input *Input) {
			input.Subjects[1].WeeklyHours = 1
			input.Lessons = []RawLesson{{Id: 1, Subject: 2, Teacher: 1, StudentGroup: 1}}
		}},
		{"dangling pre-assigned time slot", func(input *Input) {
			input.Subjects[1].WeeklyHours = 1
			input.Lessons = []RawLesson{{Id: 1, Subject: 2, Teacher: 2, StudentGroup: 1, TimeSlot: lo.ToPtr(uint64(99))}}
		}},
		{"dangling pre-assigned room", func(input *Input) {
			input.Subjects[1].WeeklyHours = 1
			input.Lessons = []RawLesson{{Id: 1, Subject: 2, Teacher: 2, StudentGroup: 1, Room: lo.ToPtr(uint64(99))}}
		}},
		{"pre-assigned room too small", func(input *Input) {
			input.Subjects[1].WeeklyHours = 1
			input.StudentGroups[0].Size = 35
			input.Lessons = []RawLesson{{Id: 1, Subject: 2, Teacher: 2, StudentGroup: 1, Room: lo.ToPtr(uint64(1))}}
		}},
		{"duplicate lesson", func(input *Input) {
			input.Lessons = []RawLesson{
				{Id: 1, Subject: 2, Teacher: 2, StudentGroup: 1},
				{Id: 1, Subject: 2, Teacher: 2, StudentGroup: 1},
			}
		}},
		{"lesson count mismatch", func(input *Input) {
			input.Lessons = []RawLesson{{Id: 1, Subject: 2, Teacher: 2, StudentGroup: 1}}
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			//** Arrange
			input := sampleInput(t)
			c.mutate(&input)

			//** Act
			problem, err := NewProblem(input)

			//** Assert
			assert.Nil(t, problem)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var validationErr ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestRandomInputIsValid(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 0))
	for range 10 {
		//** Arrange
		size := Size{Days: 5, Periods: 6, Rooms: 3, Subjects: 6, Teachers: 4, Groups: 3, MaxWeeklyHours: 4}
		input := RandomInput(rng, size)

		//** Act
		problem, err := NewProblem(input)

		//** Assert
		require.NoError(t, err)
		assert.Len(t, problem.TimeSlots, 30)
		assert.Len(t, problem.Rooms, 3)
		assert.NotEmpty(t, problem.Lessons)
	}
}

func TestWeeklyTimeSlots(t *testing.T) {
	//** Act
	slots, err := WeeklyTimeSlots([]string{"MONDAY", "TUESDAY"}, 2, "08:00", 45, 15)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, []RawTimeSlot{
		{Id: 1, DayOfWeek: "MONDAY", StartTime: "08:00", EndTime: "08:45"},
		{Id: 2, DayOfWeek: "MONDAY", StartTime: "09:00", EndTime: "09:45"},
		{Id: 3, DayOfWeek: "TUESDAY", StartTime: "08:00", EndTime: "08:45"},
		{Id: 4, DayOfWeek: "TUESDAY", StartTime: "09:00", EndTime: "09:45"},
	}, slots)

	_, err = WeeklyTimeSlots([]string{"MONDAY"}, 3, "23:00", 45, 0)
	assert.Error(t, err)
	_, err = WeeklyTimeSlots([]string{"MONDAY"}, 3, "noon", 45, 0)
	assert.Error(t, err)
}
