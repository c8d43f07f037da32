package main

import (
	"context"
	"errors"

	"github.com/koeppern/gtd-system-sub000/internal/core"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK          = 0
	exitConfig      = 2
	exitUsage       = 3
	exitStore       = 4
	exitSource      = 5
	exitSafetyNet   = 6
	exitInterrupted = 130
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}

// classifyRunErr attaches an exit code to an error returned by an import
// run. Anything not recognized failed talking to the store.
func classifyRunErr(err error) error {
	if err == nil {
		return nil
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return err
	}

	switch {
	case errors.Is(err, core.ErrSourceNotFound), errors.Is(err, core.ErrEmptySource):
		return withCode(exitSource, err)
	case errors.Is(err, core.ErrTruncateDeclined), errors.Is(err, core.ErrRunInProgress):
		return withCode(exitSafetyNet, err)
	case errors.Is(err, core.ErrUnknownEntity), errors.Is(err, core.ErrInvalidOption):
		return withCode(exitUsage, err)
	case errors.Is(err, context.Canceled):
		return withCode(exitInterrupted, err)
	default:
		return withCode(exitStore, err)
	}
}
