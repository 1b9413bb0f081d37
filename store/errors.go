package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no block exists at the requested height.
type ErrNotFound struct {
	Height uint64
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("block at height %d not found", e.Height)
}

// IsNotFound reports whether err is an ErrNotFound.
func IsNotFound(err error) bool {
	var notFound ErrNotFound
	return errors.As(err, &notFound)
}
