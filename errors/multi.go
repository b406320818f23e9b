package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no errors are provided or all errors are nil, this function returns nil.
// If only one not nil error is provided, it is returned as it is.
// Multiple errors are combined into a single error that reports the code of
// the first one.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		// Flatten collections so that a single level of errors is
		// kept.
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
			continue
		}
		res = append(res, e)
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

type multiErr []error

func (errs multiErr) Error() string {
	points := make([]string, len(errs))
	for i, err := range errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(errs), strings.Join(points, "\n\t"))
}

// ABCICode returns the code of the first error.
func (errs multiErr) ABCICode() uint32 {
	return abciCode(errs[0])
}

// Cause returns the first error.
func (errs multiErr) Cause() error {
	return errs[0]
}

// Unpack returns all errors that this collection consists of.
func (errs multiErr) Unpack() []error {
	return []error(errs)
}
