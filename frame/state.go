package frame

import "github.com/pkg/errors"

// State is the scheduler lifecycle position.
type State int

const (
	Uninitialized State = iota
	Starting
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var (
	ErrNotRunning     = errors.New("frame: scheduler is not running")
	ErrAlreadyStarted = errors.New("frame: scheduler already started")
	ErrInvalidWindow  = errors.New("frame: window dimensions must be positive")
)

// Window is the set of window properties scripts may change.
type Window struct {
	Width  int
	Height int
	Title  string
}

// Stats is a snapshot of the last completed frame.
type Stats struct {
	Frame    uint64
	Delta    float64
	Queued   int
	Skipped  int
	Textures int
	Entities int
}
