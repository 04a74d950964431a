package game

import (
	"errors"
	"fmt"
)

// ErrInsufficientPool is matched by every *InsufficientPoolError.
var ErrInsufficientPool = errors.New("insufficient card pool")

// InsufficientPoolError reports that no leader survived filtering.
type InsufficientPoolError struct {
	Color  string // color filter in effect
	Leader string // requested leader name, if any
}

func (e *InsufficientPoolError) Error() string {
	if e.Leader != "" {
		return fmt.Sprintf("insufficient card pool: no leader named %q and none for color %q", e.Leader, e.Color)
	}
	return fmt.Sprintf("insufficient card pool: no leader for color %q", e.Color)
}

func (e *InsufficientPoolError) Is(target error) bool {
	return target == ErrInsufficientPool
}
