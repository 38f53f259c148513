package model

import "fmt"

type MoveKind int

const (
	ReassignTimeSlot MoveKind = iota
	ReassignRoom
	SwapAssignments
)

func (kind MoveKind) String() string {
	switch kind {
	case ReassignTimeSlot:
		return "reassign-timeslot"
	case ReassignRoom:
		return "reassign-room"
	case SwapAssignments:
		return "swap"
	}
	return fmt.Sprintf("MoveKind(%d)", int(kind))
}

// Move is an atomic change of one or two lessons' planning variables. Lesson and Other are indices
// into Solution.Lessons. A reassign move may carry a nil value, which unassigns the variable (used
// to undo moves applied to unassigned lessons).
type Move struct {
	Kind     MoveKind
	Lesson   int
	Other    int
	TimeSlot *TimeSlot
	Room     *Room
}

func NewTimeSlotMove(lesson int, timeSlot *TimeSlot) Move {
	return Move{Kind: ReassignTimeSlot, Lesson: lesson, TimeSlot: timeSlot}
}

func NewRoomMove(lesson int, room *Room) Move {
	return Move{Kind: ReassignRoom, Lesson: lesson, Room: room}
}

func NewSwapMove(lesson, other int) Move {
	return Move{Kind: SwapAssignments, Lesson: lesson, Other: other}
}

// Lessons returns the distinct indices of the lessons the move changes.
func (move Move) Lessons() []int {
	if move.Kind == SwapAssignments && move.Lesson != move.Other {
		return []int{move.Lesson, move.Other}
	}
	return []int{move.Lesson}
}

func (move Move) Apply(solution *Solution) {
	lesson := &solution.Lessons[move.Lesson]
	switch move.Kind {
	case ReassignTimeSlot:
		lesson.TimeSlot = move.TimeSlot
	case ReassignRoom:
		lesson.Room = move.Room
	case SwapAssignments:
		other := &solution.Lessons[move.Other]
		lesson.TimeSlot, other.TimeSlot = other.TimeSlot, lesson.TimeSlot
		lesson.Room, other.Room = other.Room, lesson.Room
	}
}

// Inverse returns the move undoing this one. It must be computed before the move is applied.
func (move Move) Inverse(solution *Solution) Move {
	lesson := solution.Lessons[move.Lesson]
	switch move.Kind {
	case ReassignTimeSlot:
		return NewTimeSlotMove(move.Lesson, lesson.TimeSlot)
	case ReassignRoom:
		return NewRoomMove(move.Lesson, lesson.Room)
	}
	return move
}

func (move Move) String() string {
	switch move.Kind {
	case ReassignTimeSlot:
		return fmt.Sprintf("%v(lesson #%d -> %v)", move.Kind, move.Lesson, timeSlotName(move.TimeSlot))
	case ReassignRoom:
		return fmt.Sprintf("%v(lesson #%d -> %v)", move.Kind, move.Lesson, roomName(move.Room))
	}
	return fmt.Sprintf("%v(lesson #%d <-> lesson #%d)", move.Kind, move.Lesson, move.Other)
}

func timeSlotName(slot *TimeSlot) string {
	if slot == nil {
		return "none"
	}
	return fmt.Sprintf("%v %v-%v", slot.DayOfWeek, slot.StartTime, slot.EndTime)
}

func roomName(room *Room) string {
	if room == nil {
		return "none"
	}
	return room.Name
}
