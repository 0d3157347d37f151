package deobfuscate

import "errors"

// ErrUnpacking is matched by every UnpackingError.
var ErrUnpacking = errors.New("unpacking failed")

// UnpackingError reports a packer call that could not be decoded.
type UnpackingError struct {
	Reason string
	Err    error
}

func newUnpackingError(reason string) *UnpackingError {
	return &UnpackingError{Reason: reason}
}

func wrapUnpackingError(reason string, err error) *UnpackingError {
	return &UnpackingError{Reason: reason, Err: err}
}

func (e *UnpackingError) Error() string {
	if e.Err != nil {
		return "unpack: " + e.Reason + ": " + e.Err.Error()
	}
	return "unpack: " + e.Reason
}

func (e *UnpackingError) Unwrap() error {
	return e.Err
}

func (e *UnpackingError) Is(target error) bool {
	return target == ErrUnpacking
}
