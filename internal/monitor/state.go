package monitor

import "time"

// State is the outcome of one tick.
type State int

const (
	Idle State = iota
	Blocked
	WaitingForDetail
	Recognized
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Blocked:
		return "blocked"
	case WaitingForDetail:
		return "waiting_for_detail"
	case Recognized:
		return "recognized"
	default:
		return "unknown"
	}
}

// Status is published after every tick.
type Status struct {
	Tick     uint64
	State    State
	At       time.Time
	Message  string
	Player   string
	Generals []string
	Hash     string
	// Created is set when the tick wrote a new record.
	Created bool
	Err     error
}
