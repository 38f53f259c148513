package model

import (
	"fmt"
	"math/rand/v2"
	"time"
)

var Weekdays = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}

// WeeklyTimeSlots lays out periods back-to-back slots per day, separated by breakMinutes, starting at
// start ("HH:MM"). Ids are numbered from 1, day by day, so adjacent periods have consecutive ids.
func WeeklyTimeSlots(days []string, periods int, start string, lessonMinutes, breakMinutes int) ([]RawTimeSlot, error) {
	if periods < 0 || lessonMinutes <= 0 || breakMinutes < 0 {
		return nil, fmt.Errorf("invalid time slot layout: periods=%d lesson=%dm break=%dm", periods, lessonMinutes, breakMinutes)
	}
	first, err := time.Parse(clockLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", start, err)
	}

	slots := make([]RawTimeSlot, 0, len(days)*periods)
	id := uint64(1)
	for _, day := range days {
		begin := first
		for range periods {
			end := begin.Add(time.Duration(lessonMinutes) * time.Minute)
			if end.Day() != first.Day() {
				return nil, fmt.Errorf("period starting at %v on %v overflows the day", begin.Format(clockLayout), day)
			}
			slots = append(slots, RawTimeSlot{
				Id:        id,
				DayOfWeek: day,
				StartTime: begin.Format(clockLayout),
				EndTime:   end.Format(clockLayout),
			})
			id++
			begin = end.Add(time.Duration(breakMinutes) * time.Minute)
		}
	}
	return slots, nil
}

// Size describes the dimensions of a synthetic instance.
type Size struct {
	Days           int
	Periods        int
	Rooms          int
	Subjects       int
	Teachers       int
	Groups         int
	MaxWeeklyHours int
}

// RandomInput builds a synthetic instance of the given size. Every subject has at least one teacher
// and every group fits in the first room, so the result always passes NewProblem. Lessons are left
// out to be generated from the weekly hours.
func RandomInput(rng *rand.Rand, size Size) Input {
	input := Input{}

	days := Weekdays
	if size.Days < len(days) {
		days = days[:size.Days]
	}
	input.TimeSlots, _ = WeeklyTimeSlots(days, size.Periods, "08:00", 45, 5)

	for s := range size.Subjects {
		input.Subjects = append(input.Subjects, RawSubject{
			Id:          uint64(s + 1),
			Name:        fmt.Sprintf("Subject %d", s+1),
			WeeklyHours: int64(1 + rng.IntN(max(size.MaxWeeklyHours, 1))),
		})
	}

	for t := range size.Teachers {
		subjects := make([]uint64, 0)
		for s := range size.Subjects {
			if s%size.Teachers == t || rng.IntN(4) == 0 {
				subjects = append(subjects, uint64(s+1))
			}
		}
		input.Teachers = append(input.Teachers, RawTeacher{
			Id:       uint64(t + 1),
			Name:     fmt.Sprintf("Teacher %d", t+1),
			Subjects: subjects,
		})
	}

	for r := range size.Rooms {
		capacity := int64(40)
		if r > 0 {
			capacity = int64(25 + rng.IntN(16))
		}
		input.Rooms = append(input.Rooms, RawRoom{
			Id:       uint64(r + 1),
			Name:     fmt.Sprintf("Room %d", r+1),
			Capacity: capacity,
		})
	}

	for g := range size.Groups {
		input.StudentGroups = append(input.StudentGroups, RawStudentGroup{
			Id:   uint64(g + 1),
			Name: fmt.Sprintf("Group %d", g+1),
			Size: int64(20 + rng.IntN(16)),
		})
	}

	return input
}
