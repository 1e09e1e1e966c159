package ecs

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNodeNotAlive   = errors.New("ecs: transform node not alive")
	ErrEntityNotAlive = errors.New("ecs: entity not alive")
	ErrNilBehavior    = errors.New("ecs: behavior is nil")
)

// CycleError is returned when a parent assignment would make a node its own
// ancestor.
type CycleError struct {
	Node   NodeID
	Parent NodeID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("ecs: parenting node %s under %s would create a cycle", e.Node, e.Parent)
}
