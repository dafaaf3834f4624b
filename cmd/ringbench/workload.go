package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360/circular-buffer/errors"
	"github.com/c360/circular-buffer/pkg/buffer"
)

const defaultSteps = 10000

// Operation names accepted in workload mixes and scripts.
const (
	opPushBack  = "push_back"
	opPushFront = "push_front"
	opPopBack   = "pop_back"
	opPopFront  = "pop_front"
	opInsert    = "insert"
	opErase     = "erase"
	opClear     = "clear"
	opClone     = "clone"
	opSwap      = "swap"
)

// knownOps fixes the order in which mix weights are laid out, so a seed
// always produces the same operation sequence.
var knownOps = []string{
	opPushBack, opPushFront, opPopBack, opPopFront,
	opInsert, opErase, opClear, opClone, opSwap,
}

// Step is one scripted operation. Value is the pushed or inserted element;
// Index is the logical position for insert and erase.
type Step struct {
	Op    string `json:"op" yaml:"op"`
	Value int    `json:"value,omitempty" yaml:"value,omitempty"`
	Index int    `json:"index,omitempty" yaml:"index,omitempty"`
}

// Workload describes one verification run.
type Workload struct {
	Buffer buffer.Config `json:"buffer" yaml:"buffer"`

	Seed  int64 `json:"seed" yaml:"seed"`
	Steps int   `json:"steps" yaml:"steps"`

	// Mix weights random operations by name. Missing names get weight 0.
	Mix map[string]int `json:"mix,omitempty" yaml:"mix,omitempty"`

	// FailEvery makes every Nth element copy fail; 0 disables injection.
	FailEvery int `json:"fail_every,omitempty" yaml:"fail_every,omitempty"`

	// Script runs before the random steps.
	Script []Step `json:"script,omitempty" yaml:"script,omitempty"`
}

// DefaultWorkload returns a push-heavy mix that keeps the buffer growing.
func DefaultWorkload() Workload {
	return Workload{
		Buffer: buffer.Config{Capacity: buffer.DefaultCapacity},
		Seed:   1,
		Steps:  defaultSteps,
		Mix: map[string]int{
			opPushBack:  30,
			opPushFront: 30,
			opPopBack:   12,
			opPopFront:  12,
			opInsert:    6,
			opErase:     6,
			opClear:     1,
			opClone:     2,
			opSwap:      1,
		},
	}
}

// Validate checks if the workload is runnable.
func (w Workload) Validate() error {
	if err := w.Buffer.Validate(); err != nil {
		return errors.WrapInvalid(err, "Workload", "Validate", "buffer config")
	}
	if w.Steps < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Workload", "Validate",
			fmt.Sprintf("steps must not be negative, got %d", w.Steps))
	}
	if w.FailEvery < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Workload", "Validate",
			fmt.Sprintf("fail_every must not be negative, got %d", w.FailEvery))
	}

	total := 0
	for name, weight := range w.Mix {
		if !contains(knownOps, name) {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Workload", "Validate",
				fmt.Sprintf("unknown operation %q in mix", name))
		}
		if weight < 0 {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Workload", "Validate",
				fmt.Sprintf("negative weight for %s", name))
		}
		total += weight
	}
	if w.Steps > 0 && total == 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Workload", "Validate",
			"random steps need at least one weighted operation")
	}

	for i, step := range w.Script {
		if !contains(knownOps, step.Op) {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Workload", "Validate",
				fmt.Sprintf("unknown operation %q at script step %d", step.Op, i))
		}
	}
	return nil
}

// LoadWorkload reads a workload from a .json, .yaml or .yml file. Fields the
// file omits keep their DefaultWorkload values.
func LoadWorkload(path string) (Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Workload{}, errors.WrapInvalid(errors.ErrConfigNotFound, "Workload", "LoadWorkload", path)
		}
		return Workload{}, errors.Wrap(err, "Workload", "LoadWorkload", "read file")
	}
	return ParseWorkload(data, filepath.Ext(path))
}

// ParseWorkload decodes a workload in the format named by ext.
func ParseWorkload(data []byte, ext string) (Workload, error) {
	w := DefaultWorkload()
	// a file that names a mix replaces the default one
	w.Mix = nil

	var err error
	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(data, &w)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &w)
	default:
		return Workload{}, errors.WrapInvalid(errors.ErrParsingFailed, "Workload", "ParseWorkload",
			fmt.Sprintf("unsupported extension %q", ext))
	}
	if err != nil {
		return Workload{}, errors.WrapInvalid(fmt.Errorf("%w: %w", errors.ErrParsingFailed, err),
			"Workload", "ParseWorkload", "decode")
	}

	if w.Mix == nil {
		w.Mix = DefaultWorkload().Mix
	}
	return w, nil
}

// applyFlags overrides workload fields with flags set on the command line.
func (w *Workload) applyFlags(cfg *CLIConfig) {
	if cfg.explicit["steps"] {
		w.Steps = cfg.Steps
	}
	if cfg.explicit["seed"] {
		w.Seed = cfg.Seed
	}
	if cfg.explicit["capacity"] && cfg.Capacity > 0 {
		w.Buffer.Capacity = cfg.Capacity
	}
	if cfg.explicit["max-capacity"] {
		w.Buffer.MaxCapacity = cfg.MaxCapacity
	}
	if cfg.explicit["fail-every"] {
		w.FailEvery = cfg.FailEvery
	}
}
