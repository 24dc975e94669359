// SPDX-License-Identifier: GPL-3.0-or-later

package swos

import (
	"errors"
	"fmt"
)

// TransportError is a failed switch API request: network error, non-2xx status or
// rejected digest credentials.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request '%s': %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is a switch response that could not be turned into typed values.
type DecodeError struct {
	Field string
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Field != "" && e.Value != "":
		return fmt.Sprintf("decode '%s' value '%s': %v", e.Field, e.Value, e.Err)
	case e.Field != "":
		return fmt.Sprintf("decode '%s': %v", e.Field, e.Err)
	case e.Value != "":
		return fmt.Sprintf("decode value '%s': %v", e.Value, e.Err)
	default:
		return fmt.Sprintf("decode: %v", e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

var (
	errEmptyHex      = errors.New("empty hex number")
	errWidthMismatch = errors.New("low and high words have different digit widths")
	errOddLength     = errors.New("odd number of hex digits")
	errMissingKey    = errors.New("key not found")
	errNotList       = errors.New("per-port list expected")
	errNotScalar     = errors.New("scalar value expected")
	errShortList     = errors.New("list is shorter than the number of ports")
)

// withField attaches the RawTable key to a codec error.
func withField(field string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return &DecodeError{Field: field, Value: de.Value, Err: de.Err}
	}
	return &DecodeError{Field: field, Err: err}
}
