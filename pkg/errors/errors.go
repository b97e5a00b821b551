package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidScheme   = errors.New("invalid weighting scheme")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrCorpusLoad      = errors.New("corpus failed to load")
	ErrMalformedCorpus = errors.New("malformed corpus")
	ErrUndefinedMAP    = errors.New("mean average precision undefined: no query has relevant documents")
	ErrSinkUnavailable = errors.New("report sink unavailable")
)

// Exit codes returned by the sweep CLI for each error class.
const (
	ExitFailure    = 1
	ExitConfig     = 2
	ExitCorpus     = 3
	ExitEvaluation = 4
)

type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidScheme), errors.Is(err, ErrInvalidConfig):
		return ExitConfig
	case errors.Is(err, ErrCorpusLoad), errors.Is(err, ErrMalformedCorpus):
		return ExitCorpus
	case errors.Is(err, ErrUndefinedMAP):
		return ExitEvaluation
	default:
		return ExitFailure
	}
}
