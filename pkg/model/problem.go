package model

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

const clockLayout = "15:04"

type Subject struct {
	Id          uint64
	Name        string
	WeeklyHours int64
}

type Teacher struct {
	Id       uint64
	Name     string
	Subjects []uint64 // Teachable subjects
}

// TimeSlot ids are contiguous within a day in start-time order, so two slots of the same day are
// adjacent if and only if their ids differ by one.
type TimeSlot struct {
	Id        uint64
	DayOfWeek string
	StartTime string
	EndTime   string
}

type Room struct {
	Id       uint64
	Name     string
	Capacity int64 // 0 means unlimited
}

type StudentGroup struct {
	Id   uint64
	Name string
	Size int64 // 0 means unknown
}

// Lesson is the planning entity. Subject, Teacher and StudentGroup are fixed ids; TimeSlot and Room
// are the planning variables and point into the owning Problem's facts.
type Lesson struct {
	Id           uint64
	Subject      uint64
	Teacher      uint64
	StudentGroup uint64

	TimeSlot *TimeSlot
	Room     *Room
}

func (lesson *Lesson) Assigned() bool {
	return lesson.TimeSlot != nil && lesson.Room != nil
}

// Problem is a validated, immutable problem instance. Lessons holds the initial state of the
// planning entities; search works on Solution copies.
type Problem struct {
	Subjects      []Subject
	Teachers      []Teacher
	TimeSlots     []TimeSlot
	Rooms         []Room
	StudentGroups []StudentGroup
	Lessons       []Lesson

	subjects        map[uint64]int
	teachers        map[uint64]int
	timeSlots       map[uint64]int
	rooms           map[uint64]int
	groups          map[uint64]int
	lessons         map[uint64]int
	compatibleRooms [][]*Room // Per lesson index
}

var validate = validator.New()

// NewProblem validates the input and builds the problem facts and lessons. It never returns a
// partially built problem: any inconsistency yields a ValidationError.
func NewProblem(input Input) (*Problem, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	problem := &Problem{
		subjects:  make(map[uint64]int),
		teachers:  make(map[uint64]int),
		timeSlots: make(map[uint64]int),
		rooms:     make(map[uint64]int),
		groups:    make(map[uint64]int),
		lessons:   make(map[uint64]int),
	}

	//** Manage subjects
	for i, raw := range input.Subjects {
		if _, ok := problem.subjects[raw.Id]; ok {
			return nil, invalid("subject", raw.Id, "duplicate id")
		}
		if raw.WeeklyHours < 0 {
			return nil, invalid("subject", raw.Id, "weekly hours must not be negative: %d", raw.WeeklyHours)
		}
		problem.subjects[raw.Id] = i
		problem.Subjects = append(problem.Subjects, Subject{Id: raw.Id, Name: raw.Name, WeeklyHours: raw.WeeklyHours})
	}

	//** Manage teachers
	for i, raw := range input.Teachers {
		if _, ok := problem.teachers[raw.Id]; ok {
			return nil, invalid("teacher", raw.Id, "duplicate id")
		}
		if subject, ok := lo.Find(raw.Subjects, func(subject uint64) bool {
			_, exists := problem.subjects[subject]
			return !exists
		}); ok {
			return nil, invalid("teacher", raw.Id, "teachable subject %d does not exist", subject)
		}
		problem.teachers[raw.Id] = i
		problem.Teachers = append(problem.Teachers, Teacher{Id: raw.Id, Name: raw.Name, Subjects: slices.Clone(raw.Subjects)})
	}

	//** Manage time slots
	if err := problem.buildTimeSlots(input.TimeSlots); err != nil {
		return nil, err
	}

	//** Manage rooms and student groups
	for i, raw := range input.Rooms {
		if _, ok := problem.rooms[raw.Id]; ok {
			return nil, invalid("room", raw.Id, "duplicate id")
		}
		problem.rooms[raw.Id] = i
		problem.Rooms = append(problem.Rooms, Room{Id: raw.Id, Name: raw.Name, Capacity: raw.Capacity})
	}
	for i, raw := range input.StudentGroups {
		if _, ok := problem.groups[raw.Id]; ok {
			return nil, invalid("student group", raw.Id, "duplicate id")
		}
		problem.groups[raw.Id] = i
		problem.StudentGroups = append(problem.StudentGroups, StudentGroup{Id: raw.Id, Name: raw.Name, Size: raw.Size})
	}

	//** Manage lessons
	var err error
	if len(input.Lessons) == 0 {
		problem.Lessons, err = generateLessons(problem.Subjects, problem.Teachers, problem.StudentGroups)
	} else {
		problem.Lessons, err = problem.buildLessons(input.Lessons)
	}
	if err != nil {
		return nil, err
	}
	if len(problem.Lessons) > 0 && len(problem.TimeSlots) == 0 {
		return nil, ValidationError{Reason: "lessons exist but no time slot is available"}
	}

	//** Manage room compatibility
	problem.compatibleRooms = make([][]*Room, len(problem.Lessons))
	for i, lesson := range problem.Lessons {
		problem.lessons[lesson.Id] = i
		for j := range problem.Rooms {
			if problem.Fits(lesson.StudentGroup, &problem.Rooms[j]) {
				problem.compatibleRooms[i] = append(problem.compatibleRooms[i], &problem.Rooms[j])
			}
		}
		if len(problem.compatibleRooms[i]) == 0 {
			return nil, invalid("lesson", lesson.Id, "no room fits student group %d", lesson.StudentGroup)
		}
		if lesson.Room != nil && !problem.Fits(lesson.StudentGroup, lesson.Room) {
			return nil, invalid("lesson", lesson.Id, "pre-assigned room %d does not fit student group %d", lesson.Room.Id, lesson.StudentGroup)
		}
	}

	return problem, nil
}

func validateStruct(input Input) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fieldError := fieldErrors[0]
		return ValidationError{Reason: fmt.Sprintf("field %v fails %q with value %v", fieldError.Namespace(), fieldError.Tag(), fieldError.Value())}
	}
	return ValidationError{Reason: err.Error()}
}

func (problem *Problem) buildTimeSlots(rawSlots []RawTimeSlot) error {
	starts := make(map[uint64]time.Time, len(rawSlots))
	for i, raw := range rawSlots {
		if _, ok := problem.timeSlots[raw.Id]; ok {
			return invalid("time slot", raw.Id, "duplicate id")
		}
		start, err := time.Parse(clockLayout, raw.StartTime)
		if err != nil {
			return invalid("time slot", raw.Id, "invalid start time %q", raw.StartTime)
		}
		end, err := time.Parse(clockLayout, raw.EndTime)
		if err != nil {
			return invalid("time slot", raw.Id, "invalid end time %q", raw.EndTime)
		}
		if !end.After(start) {
			return invalid("time slot", raw.Id, "end time %v is not after start time %v", raw.EndTime, raw.StartTime)
		}
		starts[raw.Id] = start
		problem.timeSlots[raw.Id] = i
		problem.TimeSlots = append(problem.TimeSlots, TimeSlot{
			Id:        raw.Id,
			DayOfWeek: raw.DayOfWeek,
			StartTime: start.Format(clockLayout),
			EndTime:   end.Format(clockLayout),
		})
	}

	// Adjacency checks rely on ids being contiguous per day in start-time order
	for day, slots := range lo.GroupBy(problem.TimeSlots, func(slot TimeSlot) string { return slot.DayOfWeek }) {
		slices.SortFunc(slots, func(a, b TimeSlot) int {
			return starts[a.Id].Compare(starts[b.Id])
		})
		for k := 1; k < len(slots); k++ {
			if slots[k].Id != slots[k-1].Id+1 {
				return invalid("time slot", slots[k].Id, "ids of %v are not contiguous in start-time order (follows %d)", day, slots[k-1].Id)
			}
		}
	}
	return nil
}

func (problem *Problem) buildLessons(rawLessons []RawLesson) ([]Lesson, error) {
	lessons := make([]Lesson, 0, len(rawLessons))
	seen := make(map[uint64]bool, len(rawLessons))
	occurrences := make(map[[2]uint64]int64)

	for _, raw := range rawLessons {
		if seen[raw.Id] {
			return nil, invalid("lesson", raw.Id, "duplicate id")
		}
		seen[raw.Id] = true

		subject, ok := problem.Subject(raw.Subject)
		if !ok {
			return nil, invalid("lesson", raw.Id, "subject %d does not exist", raw.Subject)
		}
		if _, ok := problem.Teacher(raw.Teacher); !ok {
			return nil, invalid("lesson", raw.Id, "teacher %d does not exist", raw.Teacher)
		}
		if _, ok := problem.StudentGroup(raw.StudentGroup); !ok {
			return nil, invalid("lesson", raw.Id, "student group %d does not exist", raw.StudentGroup)
		}
		if !problem.CanTeach(raw.Teacher, raw.Subject) {
			return nil, invalid("lesson", raw.Id, "teacher %d cannot teach %q", raw.Teacher, subject.Name)
		}

		lesson := Lesson{
			Id:           raw.Id,
			Subject:      raw.Subject,
			Teacher:      raw.Teacher,
			StudentGroup: raw.StudentGroup,
		}
		if raw.TimeSlot != nil {
			if lesson.TimeSlot, ok = problem.TimeSlot(*raw.TimeSlot); !ok {
				return nil, invalid("lesson", raw.Id, "time slot %d does not exist", *raw.TimeSlot)
			}
		}
		if raw.Room != nil {
			if lesson.Room, ok = problem.Room(*raw.Room); !ok {
				return nil, invalid("lesson", raw.Id, "room %d does not exist", *raw.Room)
			}
		}

		occurrences[[2]uint64{raw.Subject, raw.StudentGroup}]++
		lessons = append(lessons, lesson)
	}

	// Exactly weekly-hours lessons per subject and group
	for key, count := range occurrences {
		subject, _ := problem.Subject(key[0])
		if count != subject.WeeklyHours {
			return nil, invalid("subject", subject.Id, "student group %d has %d lessons but weekly hours are %d", key[1], count, subject.WeeklyHours)
		}
	}

	return lessons, nil
}

func (problem *Problem) Subject(id uint64) (*Subject, bool) {
	index, ok := problem.subjects[id]
	if !ok {
		return nil, false
	}
	return &problem.Subjects[index], true
}

func (problem *Problem) Teacher(id uint64) (*Teacher, bool) {
	index, ok := problem.teachers[id]
	if !ok {
		return nil, false
	}
	return &problem.Teachers[index], true
}

func (problem *Problem) TimeSlot(id uint64) (*TimeSlot, bool) {
	index, ok := problem.timeSlots[id]
	if !ok {
		return nil, false
	}
	return &problem.TimeSlots[index], true
}

func (problem *Problem) Room(id uint64) (*Room, bool) {
	index, ok := problem.rooms[id]
	if !ok {
		return nil, false
	}
	return &problem.Rooms[index], true
}

func (problem *Problem) StudentGroup(id uint64) (*StudentGroup, bool) {
	index, ok := problem.groups[id]
	if !ok {
		return nil, false
	}
	return &problem.StudentGroups[index], true
}

// Checks whether the teacher is able to teach the subject
func (problem *Problem) CanTeach(teacher, subject uint64) bool {
	found, ok := problem.Teacher(teacher)
	return ok && slices.Contains(found.Subjects, subject)
}

// Checks whether the group's size is smaller than or equal to the room's capacity (i.e. the group fits in the room)
func (problem *Problem) Fits(group uint64, room *Room) bool {
	found, ok := problem.StudentGroup(group)
	if !ok || room == nil {
		return false
	}
	return room.Capacity == 0 || found.Size == 0 || room.Capacity >= found.Size
}

// CompatibleRooms returns the rooms the lesson at the given index may be placed in.
func (problem *Problem) CompatibleRooms(lesson int) []*Room {
	return problem.compatibleRooms[lesson]
}

// LessonIndex maps a lesson id to its position in Lessons (and in every Solution of the problem).
func (problem *Problem) LessonIndex(id uint64) (int, bool) {
	index, ok := problem.lessons[id]
	return index, ok
}
