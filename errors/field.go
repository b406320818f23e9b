package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches a model or message attribute name to err. It returns nil for
// a nil err so that validation results can be passed in unchecked.
//
// Names follow the Go field name of the validated structure, for example
// Price or Seller. Nested attributes are joined with a dot (Fee.Ticker).
func Field(name string, err error, desc string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		desc = fmt.Sprintf(desc, args...)
	}
	return &fieldError{name: name, desc: desc, cause: err}
}

// AppendField adds the field error, if any, to the errs collection.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

// FieldErrors walks the error tree and collects all errors created for the
// given attribute name. A matching error is returned as a whole, its causes
// are not inspected further.
func FieldErrors(err error, name string) []error {
	var found []error
	for !isNilErr(err) {
		if f, ok := err.(*fieldError); ok && f.name == name {
			return append(found, err)
		}
		switch e := err.(type) {
		case unpacker:
			for _, child := range e.Unpack() {
				found = append(found, FieldErrors(child, name)...)
			}
			return found
		case causer:
			err = e.Cause()
		default:
			return found
		}
	}
	return found
}

type fieldError struct {
	name  string
	desc  string
	cause error
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.name, e.cause)
	}
	return fmt.Sprintf("field %q: %s: %s", e.name, e.desc, e.cause)
}

func (e *fieldError) Cause() error {
	return e.cause
}
