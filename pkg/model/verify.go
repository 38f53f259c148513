package model

// Verify independently checks that a solution satisfies every hard rule: each lesson is fully
// assigned to a fitting room, its teacher can teach it, no teacher, student group or room is used
// twice in the same time slot, and every subject is taught its weekly hours to each group.
func Verify(solution *Solution) bool {
	problem := solution.Problem

	teacherAssistance := make(map[[2]uint64]bool) // (teacher, time slot)
	groupAssistance := make(map[[2]uint64]bool)   // (student group, time slot)
	roomAssistance := make(map[[2]uint64]bool)    // (room, time slot)
	lessonsTaught := make(map[[2]uint64]int64)    // (subject, student group)

	for _, lesson := range solution.Lessons {
		if !lesson.Assigned() {
			return false
		}
		slot := lesson.TimeSlot.Id
		teacherKey := [2]uint64{lesson.Teacher, slot}
		groupKey := [2]uint64{lesson.StudentGroup, slot}
		roomKey := [2]uint64{lesson.Room.Id, slot}

		// Check that:
		// - Teacher is able to teach the subject
		// - Group fits in the room
		// - Teacher, group and room are not already busy in the time slot
		if !problem.CanTeach(lesson.Teacher, lesson.Subject) ||
			!problem.Fits(lesson.StudentGroup, lesson.Room) ||
			teacherAssistance[teacherKey] ||
			groupAssistance[groupKey] ||
			roomAssistance[roomKey] {
			return false
		}

		teacherAssistance[teacherKey] = true
		groupAssistance[groupKey] = true
		roomAssistance[roomKey] = true
		lessonsTaught[[2]uint64{lesson.Subject, lesson.StudentGroup}]++
	}

	// Check whether the number of lessons taught for each subject and group matches its weekly hours
	for key, count := range lessonsTaught {
		subject, ok := problem.Subject(key[0])
		if !ok || subject.WeeklyHours != count {
			return false
		}
	}
	return true
}
