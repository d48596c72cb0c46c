// Package errs defines the error taxonomy shared by the npx packages.
//
// Every error returned by the orchestration layer wraps exactly one of the
// sentinels below, so callers classify failures with errors.Is.
package errs

import (
	"github.com/pkg/errors"
)

// Error categories.
var (
	// ErrNotImplemented reports an unsupported keyword or value combination.
	ErrNotImplemented = errors.New("not implemented")

	// ErrType reports a disallowed dtype, an incompatible output dtype or casting rule.
	ErrType = errors.New("type error")

	// ErrValue reports shape or dimension mismatches and invalid argument values.
	ErrValue = errors.New("value error")

	// ErrPlacement reports operands or outputs allocated on incompatible queues.
	ErrPlacement = errors.New("execution placement error")
)

// NotImplemented returns an ErrNotImplemented with a formatted message.
func NotImplemented(format string, args ...any) error {
	return errors.Wrapf(ErrNotImplemented, format, args...)
}

// Type returns an ErrType with a formatted message.
func Type(format string, args ...any) error {
	return errors.Wrapf(ErrType, format, args...)
}

// Value returns an ErrValue with a formatted message.
func Value(format string, args ...any) error {
	return errors.Wrapf(ErrValue, format, args...)
}

// Placement returns an ErrPlacement with a formatted message.
func Placement(format string, args ...any) error {
	return errors.Wrapf(ErrPlacement, format, args...)
}

// Wrap annotates err with the name of the operation that failed.
// It returns nil when err is nil.
func Wrap(err error, op string) error {
	return errors.WithMessage(err, op)
}
