package cli

import (
	"errors"
	"fmt"
)

// Error kinds. Every one of them ends the run with exit status 1.
var (
	ErrUsage      = errors.New("wrong number of arguments")
	ErrConfig     = errors.New("configuration error")
	ErrCollection = errors.New("collection error")
	ErrPublish    = errors.New("publish error")
)

func wrap(kind error, err error) error {
	return fmt.Errorf("%w: %w", kind, err)
}
