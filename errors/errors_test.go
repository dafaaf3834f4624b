package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassString(t *testing.T) {
	assert.Equal(t, "transient", ErrorTransient.String())
	assert.Equal(t, "invalid", ErrorInvalid.String())
	assert.Equal(t, "fatal", ErrorFatal.String())
	assert.Equal(t, "unknown", ErrorClass(999).String())
}

func TestClassification(t *testing.T) {
	copyErr := fmt.Errorf("%w: %w", ErrCopyFailed, fmt.Errorf("boom"))

	tests := []struct {
		name      string
		err       error
		class     ErrorClass
		transient bool
		invalid   bool
		fatal     bool
	}{
		{"nil", nil, ErrorTransient, false, false, false},
		{"unknown", fmt.Errorf("operation timeout occurred"), ErrorTransient, false, false, false},
		{"copy failed", ErrCopyFailed, ErrorTransient, true, false, false},
		{"copier error joined", copyErr, ErrorTransient, true, false, false},
		{"copy failure wrapped with context", Wrap(copyErr, "Buffer", "PushBack", "copy element"), ErrorTransient, true, false, false},
		{"invalid capacity", ErrInvalidCapacity, ErrorInvalid, false, true, false},
		{"invalid config", ErrInvalidConfig, ErrorInvalid, false, true, false},
		{"invalid data", ErrInvalidData, ErrorInvalid, false, true, false},
		{"parsing failed", ErrParsingFailed, ErrorInvalid, false, true, false},
		{"config not found", ErrConfigNotFound, ErrorInvalid, false, true, false},
		{"capacity exceeded", ErrCapacityExceeded, ErrorFatal, false, false, true},
		{"data corrupted", ErrDataCorrupted, ErrorFatal, false, false, true},
		{"missing config", ErrMissingConfig, ErrorFatal, false, false, true},
		{"lifecycle sentinel is unclassified", ErrNotStarted, ErrorTransient, false, false, false},
		{"explicit class", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, ErrorFatal, false, false, true},
		{"explicit class beats sentinel", &ClassifiedError{Class: ErrorInvalid, Err: ErrCapacityExceeded}, ErrorInvalid, false, true, false},
		{"outermost class wins", WrapTransient(WrapFatal(ErrCapacityExceeded, "a", "b", "c"), "d", "e", "f"), ErrorTransient, true, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.class, Classify(tc.err))
			assert.Equal(t, tc.transient, IsTransient(tc.err), "IsTransient")
			assert.Equal(t, tc.invalid, IsInvalid(tc.err), "IsInvalid")
			assert.Equal(t, tc.fatal, IsFatal(tc.err), "IsFatal")
		})
	}
}

func TestClassifiedError(t *testing.T) {
	base := fmt.Errorf("base error")

	ce := &ClassifiedError{Class: ErrorTransient, Err: base, Message: "custom message"}
	assert.Equal(t, "custom message", ce.Error())
	assert.True(t, errors.Is(ce, base))

	ce.Message = ""
	assert.Equal(t, "base error", ce.Error())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "Buffer", "PushBack", "grow storage"))

	base := fmt.Errorf("original error")
	err := Wrap(base, "Buffer", "PushBack", "grow storage")
	require.Error(t, err)
	assert.Equal(t, "Buffer.PushBack: grow storage failed: original error", err.Error())
	assert.True(t, Is(err, base))

	var ce *ClassifiedError
	assert.False(t, As(err, &ce), "Wrap does not classify")
}

func TestWrapClassified(t *testing.T) {
	base := fmt.Errorf("original error")

	tests := []struct {
		name  string
		wrap  func(error, string, string, string) error
		class ErrorClass
	}{
		{"WrapTransient", WrapTransient, ErrorTransient},
		{"WrapFatal", WrapFatal, ErrorFatal},
		{"WrapInvalid", WrapInvalid, ErrorInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Nil(t, tc.wrap(nil, "Buffer", "grow", "allocate"))

			err := tc.wrap(base, "Buffer", "grow", "allocate")

			var ce *ClassifiedError
			require.True(t, As(err, &ce))
			assert.Equal(t, tc.class, ce.Class)
			assert.Equal(t, "Buffer", ce.Component)
			assert.Equal(t, "grow", ce.Operation)
			assert.Equal(t, "Buffer.grow: allocate failed: original error", ce.Error())
			assert.True(t, Is(err, base))
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Nil(t, Join())

	err := Join(ErrDataCorrupted, ErrCopyFailed)
	assert.True(t, Is(err, ErrDataCorrupted))
	assert.True(t, Is(err, ErrCopyFailed))
	assert.True(t, IsFatal(err), "data corruption is checked before copy failure")
}

func BenchmarkClassify(b *testing.B) {
	err := Wrap(fmt.Errorf("%w: boom", ErrCopyFailed), "Buffer", "PushBack", "copy element")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Classify(err)
	}
}

func BenchmarkWrap(b *testing.B) {
	err := fmt.Errorf("base error")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Wrap(err, "Buffer", "PushBack", "grow storage")
	}
}
