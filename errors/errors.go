package errors

import (
	"errors"
	"fmt"
)

// ErrorClass tells a caller how to react to an error.
type ErrorClass int

const (
	// ErrorTransient means the operation had no effect and may be attempted again.
	ErrorTransient ErrorClass = iota
	// ErrorInvalid means the input or configuration is wrong; repeating it will fail again.
	ErrorInvalid
	// ErrorFatal means a hard limit was hit or state is no longer trustworthy.
	ErrorFatal
)

// String returns the lower-case name of the class.
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Container errors
var (
	ErrInvalidCapacity  = errors.New("invalid capacity")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrCopyFailed       = errors.New("element copy failed")
)

// Data errors
var (
	ErrInvalidData   = errors.New("invalid data format")
	ErrDataCorrupted = errors.New("data corrupted")
	ErrParsingFailed = errors.New("parsing failed")
)

// Configuration errors
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrMissingConfig  = errors.New("missing required configuration")
	ErrConfigNotFound = errors.New("configuration not found")
)

// Lifecycle errors
var (
	ErrAlreadyStarted = errors.New("already started")
	ErrNotStarted     = errors.New("not started")
)

// sentinelClasses is consulted when an error carries no ClassifiedError.
// Order matters: the first sentinel found in the chain decides.
var sentinelClasses = []struct {
	err   error
	class ErrorClass
}{
	{ErrInvalidCapacity, ErrorInvalid},
	{ErrInvalidConfig, ErrorInvalid},
	{ErrInvalidData, ErrorInvalid},
	{ErrParsingFailed, ErrorInvalid},
	{ErrConfigNotFound, ErrorInvalid},
	{ErrCapacityExceeded, ErrorFatal},
	{ErrDataCorrupted, ErrorFatal},
	{ErrMissingConfig, ErrorFatal},
	{ErrCopyFailed, ErrorTransient},
}

// ClassifiedError attaches a class and the failing component/operation to an error.
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// classOf reports the class of err and whether it could be determined.
// The outermost ClassifiedError wins over any sentinel deeper in the chain.
func classOf(err error) (ErrorClass, bool) {
	if err == nil {
		return ErrorTransient, false
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class, true
	}
	for _, sc := range sentinelClasses {
		if errors.Is(err, sc.err) {
			return sc.class, true
		}
	}
	return ErrorTransient, false
}

// IsTransient reports whether err is known to be transient.
// Unclassified errors are not reported as transient.
func IsTransient(err error) bool {
	class, ok := classOf(err)
	return ok && class == ErrorTransient
}

// IsFatal reports whether err should stop processing.
func IsFatal(err error) bool {
	class, ok := classOf(err)
	return ok && class == ErrorFatal
}

// IsInvalid reports whether err stems from invalid input or configuration.
func IsInvalid(err error) bool {
	class, ok := classOf(err)
	return ok && class == ErrorInvalid
}

// Classify returns the class of err. Unknown errors, and nil, are transient.
func Classify(err error) ErrorClass {
	class, _ := classOf(err)
	return class
}

// Wrap adds context in the form "component.method: action failed: %w" and
// keeps whatever classification err already has.
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

func wrapAs(class ErrorClass, err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return &ClassifiedError{
		Class:     class,
		Err:       wrapped,
		Message:   wrapped.Error(),
		Component: component,
		Operation: method,
	}
}

// WrapTransient wraps err with context and marks it transient.
func WrapTransient(err error, component, method, action string) error {
	return wrapAs(ErrorTransient, err, component, method, action)
}

// WrapFatal wraps err with context and marks it fatal.
func WrapFatal(err error, component, method, action string) error {
	return wrapAs(ErrorFatal, err, component, method, action)
}

// WrapInvalid wraps err with context and marks it invalid.
func WrapInvalid(err error, component, method, action string) error {
	return wrapAs(ErrorInvalid, err, component, method, action)
}

// Is reports whether any error in err's chain matches target.
// It mirrors the standard library so callers need a single errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
