package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindConservation      ErrorKind = "conservation"
	KindConstraint        ErrorKind = "constraint"
	KindNotFound          ErrorKind = "not_found"
)

// Error is a domain rule failure. Infrastructure failures stay plain
// wrapped errors; only rule failures get a kind, and only insufficient
// stock carries the available quantity computed at check time.
type Error struct {
	Kind      ErrorKind
	Message   string
	Available *decimal.Decimal
}

func (e *Error) Error() string {
	return e.Message
}

func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func KindOf(err error) ErrorKind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return ""
}

func validationErr(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundErr(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func constraintErr(format string, args ...any) *Error {
	return &Error{Kind: KindConstraint, Message: fmt.Sprintf(format, args...)}
}

func conservationErr(format string, args ...any) *Error {
	return &Error{Kind: KindConservation, Message: fmt.Sprintf(format, args...)}
}

func insufficientErr(available decimal.Decimal, format string, args ...any) *Error {
	a := available
	return &Error{Kind: KindInsufficientStock, Message: fmt.Sprintf(format, args...), Available: &a}
}
