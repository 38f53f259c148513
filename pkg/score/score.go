package score

import "fmt"

// Score of a solution. Hard counts hard-constraint violations and is never negative; Soft is the
// weighted soft penalty, where rewards lower it. Lower is better, hard level first.
type Score struct {
	Hard int64 `json:"hard"`
	Soft int64 `json:"soft"`
}

var Zero = Score{}

func Of(hard, soft int64) Score {
	return Score{Hard: hard, Soft: soft}
}

func (s Score) Add(other Score) Score {
	return Score{Hard: s.Hard + other.Hard, Soft: s.Soft + other.Soft}
}

func (s Score) Sub(other Score) Score {
	return Score{Hard: s.Hard - other.Hard, Soft: s.Soft - other.Soft}
}

// Compare returns a negative number when s is better than other, zero when both are equal and a
// positive number otherwise.
func (s Score) Compare(other Score) int {
	switch {
	case s.Hard < other.Hard:
		return -1
	case s.Hard > other.Hard:
		return 1
	case s.Soft < other.Soft:
		return -1
	case s.Soft > other.Soft:
		return 1
	}
	return 0
}

func (s Score) BetterThan(other Score) bool {
	return s.Compare(other) < 0
}

// Feasible reports whether no hard constraint is violated.
func (s Score) Feasible() bool {
	return s.Hard == 0
}

// String renders the score as a pair of rewards, e.g. "-1hard/-25soft".
func (s Score) String() string {
	return fmt.Sprintf("%dhard/%dsoft", -s.Hard, -s.Soft)
}
