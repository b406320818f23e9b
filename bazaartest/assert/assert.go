// Package assert provides the small set of test assertions used across the
// ledger packages. Every assertion stops the test on failure.
package assert

import (
	"reflect"
	"testing"

	"github.com/iov-one/bazaar/errors"
)

// Nil fails unless value is nil. Typed nil pointers, maps and slices stored
// in an interface are considered nil as well.
func Nil(t testing.TB, value interface{}) {
	t.Helper()
	if value == nil {
		return
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		if v.IsNil() {
			return
		}
	}
	// %+v prints the stack trace of errors created by the errors package.
	t.Fatalf("want nil, got %+v", value)
}

// Equal fails unless both values are deeply equal.
func Equal(t testing.TB, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails unless fn panics.
func Panics(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("want panic")
		}
	}()
	fn()
}

// IsErr fails unless got matches want. A nil want only matches a nil got.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if w, ok := want.(interface{ Is(error) bool }); ok && w.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}

// FieldError fails unless err carries exactly one error for the given field
// that matches want. Use a nil want to require that the field is valid.
func FieldError(t testing.TB, err error, field string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, field)
	if want == nil {
		if len(errs) != 0 {
			t.Fatalf("want %s to be valid, got %q", field, errs)
		}
		return
	}
	switch len(errs) {
	case 0:
		t.Fatalf("want %s %q error, got none", field, want)
	case 1:
		if !want.Is(errs[0]) {
			t.Fatalf("want %s %q error, got %q", field, want, errs[0])
		}
	default:
		t.Fatalf("want a single %s error, got %q", field, errs)
	}
}
