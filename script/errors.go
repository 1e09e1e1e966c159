package script

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotLoaded    = errors.New("script: no script loaded")
	ErrNestedCall   = errors.New("script: callback invoked while another callback is running")
	ErrNotCallable  = errors.New("script: value is not callable")
	ErrTooManyArgs  = errors.New("script: too many callback arguments")
	ErrDestroyed    = errors.New("script: game object destroyed")
	ErrNegativeWait = errors.New("script: wait duration is negative")
)

// Error is a failure raised while compiling or running script code. Phase
// names the pipeline step ("compile", "load", "start", "update", "draw",
// "component").
type Error struct {
	Phase string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Phase, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(phase string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Phase: phase, Err: err}
}
