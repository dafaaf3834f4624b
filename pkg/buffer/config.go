package buffer

import (
	"fmt"

	"github.com/c360/circular-buffer/errors"
)

// Config contains configuration for buffer creation.
type Config struct {
	// Capacity is the initial number of slots.
	Capacity int `json:"capacity" yaml:"capacity"`

	// MaxCapacity bounds growth; zero means MaxCapacity.
	MaxCapacity int `json:"max_capacity,omitempty" yaml:"max_capacity,omitempty"`
}

// DefaultConfig returns a default buffer configuration.
func DefaultConfig() Config {
	return Config{
		Capacity:    DefaultCapacity,
		MaxCapacity: MaxCapacity,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "buffer", "Validate",
			fmt.Sprintf("capacity must be positive, got %d", c.Capacity))
	}
	if c.MaxCapacity < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "buffer", "Validate",
			fmt.Sprintf("max_capacity must not be negative, got %d", c.MaxCapacity))
	}
	if c.MaxCapacity > 0 && c.MaxCapacity < c.Capacity {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "buffer", "Validate",
			fmt.Sprintf("max_capacity %d below capacity %d", c.MaxCapacity, c.Capacity))
	}
	return nil
}

// NewFromConfig creates a buffer based on the provided configuration.
// Additional functional options can be passed to configure metrics, callbacks, etc.
// Options are applied after the configuration, so they take precedence.
func NewFromConfig[T any](config Config, options ...Option[T]) (*Buffer[T], error) {
	if err := config.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "buffer", "NewFromConfig", "config validation failed")
	}

	opts := append([]Option[T]{WithMaxCapacity[T](config.MaxCapacity)}, options...)
	return NewWithCapacity[T](config.Capacity, opts...)
}
