package lookup

import (
	"fmt"

	"github.com/pkg/errors"
)

type FailureKind string

const (
	KindNotFound      FailureKind = "not_found"
	KindEmailMismatch FailureKind = "email_mismatch"
	KindZipMismatch   FailureKind = "zip_mismatch"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrEmailMismatch = errors.New("email does not match")
	ErrZipMismatch   = errors.New("zip does not match")
)

// Failure is a verification outcome the customer can act on, as opposed to an infrastructure error.
type Failure struct {
	Kind    FailureKind
	OrderID string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Unwrap().Error(), f.OrderID)
}

func (f *Failure) Unwrap() error {
	switch f.Kind {
	case KindNotFound:
		return ErrNotFound
	case KindEmailMismatch:
		return ErrEmailMismatch
	default:
		return ErrZipMismatch
	}
}

// Message is the customer-facing text for the failure.
func (f *Failure) Message() string {
	switch f.Kind {
	case KindNotFound:
		return "Sorry, I could not find that order ID. Please check the format 'AB-123456'."
	case KindEmailMismatch:
		return "The email does not match what we have on file."
	default:
		return "The ZIP code does not match what we have on file."
	}
}

// AsFailure unwraps err into a *Failure when it is one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
