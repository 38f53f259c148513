package model

import (
	"slices"

	"github.com/samber/lo"
)

// generateLessons creates weekly-hours lessons for every student group and subject, taught by the
// first teacher able to teach the subject. Subjects with zero weekly hours produce no lessons.
func generateLessons(subjects []Subject, teachers []Teacher, groups []StudentGroup) ([]Lesson, error) {
	lessons := make([]Lesson, 0)
	id := uint64(1)

	for _, group := range groups {
		for _, subject := range subjects {
			if subject.WeeklyHours == 0 {
				continue
			}

			teacher, ok := lo.Find(teachers, func(teacher Teacher) bool {
				return slices.Contains(teacher.Subjects, subject.Id)
			})
			if !ok {
				return nil, invalid("subject", subject.Id, "no teacher can teach %q", subject.Name)
			}

			for range subject.WeeklyHours {
				lessons = append(lessons, Lesson{
					Id:           id,
					Subject:      subject.Id,
					Teacher:      teacher.Id,
					StudentGroup: group.Id,
				})
				id++
			}
		}
	}

	return lessons, nil
}
