package backends

import "github.com/pkg/errors"

// ErrUnsupported indicates an operation (or a group of operations) is not supported by the
// given backend or code generator. Backends wrap this error so callers can use errors.Is to
// distinguish "not supported" from genuine bugs, and fall back to interpreting the
// instructions one at a time.
var ErrUnsupported = errors.New("not supported")
