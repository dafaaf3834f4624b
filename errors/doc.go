// Package errors provides standardized error handling for the circular-buffer module.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (a later attempt may succeed), Invalid (bad input or configuration,
// do not retry) and Fatal (unrecoverable, such as exhausted capacity).
//
// Container operations never retry on their own. Classification lets callers such
// as the ringbench CLI decide whether to stop a workload or keep going.
//
// # Error Classification
//
//   - Transient: element copy failures reported by a user supplied copier
//   - Invalid: non-positive capacities, malformed configuration or workload files
//   - Fatal: growth beyond the configured maximum capacity
//
// An explicit ClassifiedError anywhere in the chain decides the class; the
// outermost one wins. Otherwise the first known sentinel found with errors.Is
// decides. Anything else is reported by Classify as transient but by none of
// the Is* predicates.
//
// # Error Wrapping Pattern
//
// All error wrapping follows the format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Component", "Method", "action")
//	errors.WrapInvalid(err, "Component", "Method", "action")
//	errors.WrapFatal(err, "Component", "Method", "action")
//
// The generic Wrap() function adds context and leaves classification to the
// wrapped error:
//
//	errors.Wrap(err, "Buffer", "PushBack", "grow storage")
//
// # Standard Error Variables
//
// Container:
//   - ErrInvalidCapacity, ErrCapacityExceeded, ErrCopyFailed
//
// Data:
//   - ErrInvalidData, ErrDataCorrupted, ErrParsingFailed
//
// Configuration:
//   - ErrInvalidConfig, ErrMissingConfig, ErrConfigNotFound
//
// Lifecycle (unclassified until wrapped):
//   - ErrAlreadyStarted, ErrNotStarted
//
// # Usage
//
//	if err := buf.PushBack(v); err != nil {
//	    switch {
//	    case errors.Is(err, errors.ErrCopyFailed):
//	        // buffer unchanged, the element was not added
//	    case errors.IsFatal(err):
//	        return err
//	    }
//	}
package errors
