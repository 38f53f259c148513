package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
)

type RawSubject struct {
	Id          uint64 `mapstructure:"id"`
	Name        string `mapstructure:"name" validate:"required"`
	WeeklyHours int64  `mapstructure:"weekly_hours"`
}

type RawTeacher struct {
	Id       uint64   `mapstructure:"id"`
	Name     string   `mapstructure:"name" validate:"required"`
	Subjects []uint64 `mapstructure:"subjects"`
}

type RawTimeSlot struct {
	Id        uint64 `mapstructure:"id"`
	DayOfWeek string `mapstructure:"day_of_week" validate:"required"`
	StartTime string `mapstructure:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `mapstructure:"end_time" validate:"required,datetime=15:04"`
}

type RawRoom struct {
	Id       uint64 `mapstructure:"id"`
	Name     string `mapstructure:"name" validate:"required"`
	Capacity int64  `mapstructure:"capacity" validate:"gte=0"`
}

type RawStudentGroup struct {
	Id   uint64 `mapstructure:"id"`
	Name string `mapstructure:"name" validate:"required"`
	Size int64  `mapstructure:"size" validate:"gte=0"`
}

// RawLesson is an explicitly listed lesson. TimeSlot and Room are optional pre-assignments.
type RawLesson struct {
	Id           uint64  `mapstructure:"id"`
	Subject      uint64  `mapstructure:"subject"`
	Teacher      uint64  `mapstructure:"teacher"`
	StudentGroup uint64  `mapstructure:"student_group"`
	TimeSlot     *uint64 `mapstructure:"timeslot"`
	Room         *uint64 `mapstructure:"room"`
}

// Input is the unvalidated problem description handed over by the CRUD layer. When Lessons is
// empty they are generated from the subjects' weekly hours.
type Input struct {
	Subjects      []RawSubject      `mapstructure:"subjects" validate:"dive"`
	Teachers      []RawTeacher      `mapstructure:"teachers" validate:"dive"`
	TimeSlots     []RawTimeSlot     `mapstructure:"timeslots" validate:"dive"`
	Rooms         []RawRoom         `mapstructure:"rooms" validate:"dive"`
	StudentGroups []RawStudentGroup `mapstructure:"student_groups" validate:"dive"`
	Lessons       []RawLesson       `mapstructure:"lessons"`
}

func InputFromJson(file string) (Input, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Input{}, fmt.Errorf("cannot read input file: %w", err)
	}
	return InputFromBytes(bytes)
}

func InputFromBytes(bytes []byte) (Input, error) {
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Input{}, err
	}

	var input Input
	if err := mapstructure.Decode(inputJson, &input); err != nil {
		return Input{}, fmt.Errorf("cannot decode input: %w", err)
	}
	return input, nil
}
