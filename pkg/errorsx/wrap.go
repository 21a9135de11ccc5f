package errorsx

import "errors"

// ReasonedError pairs a failure with a stable reason code. Callers branch
// on the code; the wrapped error keeps the detail and the message.
type ReasonedError struct {
	Reason ReasonCode
	Err    error
}

func (e *ReasonedError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return e.Err.Error()
}

func (e *ReasonedError) Unwrap() error { return e.Err }

// Wrap tags err with a reason code. The first code sticks: wrapping an
// already-reasoned error returns it unchanged, so the deepest layer wins.
func Wrap(err error, reason ReasonCode) error {
	if err == nil {
		return nil
	}
	var re *ReasonedError
	if errors.As(err, &re) {
		return err
	}
	return &ReasonedError{Reason: reason, Err: err}
}

// Reason reports the code carried by err, or ReasonUnknown.
func Reason(err error) ReasonCode {
	var re *ReasonedError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ReasonUnknown
}

// HasReason reports whether err carries the given code.
func HasReason(err error, reason ReasonCode) bool {
	return Reason(err) == reason
}
