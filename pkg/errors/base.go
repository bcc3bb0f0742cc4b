package errors

import (
	"fmt"
	"strings"
)

// Error aggregates any mix of errors and loose messages into one error
// value.
type Error struct {
	Errs []error
	Msgs []any
}

// NewError folds its arguments into an Error, sorting errors from plain
// messages as it goes.
func NewError(errs ...any) error {
	err := &Error{}

	for _, msg := range errs {
		switch v := msg.(type) {
		case error:
			err.Errs = append(err.Errs, v)
		case string:
			err.Msgs = append(err.Msgs, v)
		}
	}

	return err
}

func (err *Error) Error() string {
	builder := &strings.Builder{}

	for _, err := range err.Errs {
		builder.WriteString(err.Error())
		builder.WriteString("\n")
	}

	for _, msg := range err.Msgs {
		builder.WriteString(fmt.Sprintf("%v\n", msg))
	}

	return builder.String()
}

// Unwrap exposes the wrapped errors so errors.Is and errors.As see through
// the aggregate.
func (err *Error) Unwrap() []error {
	return err.Errs
}
