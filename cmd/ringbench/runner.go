package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gammazero/deque"

	"github.com/c360/circular-buffer/errors"
	"github.com/c360/circular-buffer/metric"
	"github.com/c360/circular-buffer/pkg/buffer"
)

var errInjected = fmt.Errorf("injected copy failure")

// Report summarizes a finished or interrupted run.
type Report struct {
	RunID       string              `json:"run_id"`
	Seed        int64               `json:"seed"`
	Steps       int                 `json:"steps"`
	Completed   int                 `json:"completed"`
	Skipped     int                 `json:"skipped"`
	Injected    int                 `json:"injected_failures"`
	Refused     int                 `json:"refused_growths"`
	Interrupted bool                `json:"interrupted,omitempty"`
	Duration    string              `json:"duration"`
	Stats       buffer.StatsSummary `json:"stats"`
}

// Runner applies a workload to a buffer and to a reference deque and checks
// after every step that both hold the same sequence.
type Runner struct {
	workload Workload
	logger   *slog.Logger

	buf *buffer.Buffer[int]
	ref deque.Deque[int]
	rng *rand.Rand

	ops        []string
	cumulative []int

	// copies counts copier calls; live counts element copies not yet released
	// across the buffer and any clone or scratch buffer.
	copies int
	live   int

	report Report
}

// NewRunner creates a runner for w. Buffer metrics are labelled with id;
// a nil registry disables them.
func NewRunner(id string, w Workload, logger *slog.Logger, registry *metric.MetricsRegistry) (*Runner, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Runner{
		workload: w,
		logger:   logger,
		rng:      rand.New(rand.NewSource(w.Seed)),
		report:   Report{RunID: id, Seed: w.Seed, Steps: len(w.Script) + w.Steps},
	}

	total := 0
	for _, op := range knownOps {
		if weight := w.Mix[op]; weight > 0 {
			total += weight
			r.ops = append(r.ops, op)
			r.cumulative = append(r.cumulative, total)
		}
	}

	options := append(r.lifecycle(), buffer.WithLogger[int](logger))
	if registry != nil {
		options = append(options, buffer.WithMetrics[int](registry, id))
	}
	buf, err := buffer.NewFromConfig[int](w.Buffer, options...)
	if err != nil {
		return nil, errors.Wrap(err, "Runner", "NewRunner", "create buffer")
	}
	r.buf = buf
	return r, nil
}

// Close unregisters the runner's buffer metrics. Batch runs call it after
// each run so finished runs stop being exported.
func (r *Runner) Close() {
	r.buf.Close()
}

// lifecycle returns copier and releaser options that track live copies and
// inject copy failures.
func (r *Runner) lifecycle() []buffer.Option[int] {
	copier := func(v int) (int, error) {
		r.copies++
		if r.workload.FailEvery > 0 && r.copies%r.workload.FailEvery == 0 {
			return 0, errInjected
		}
		r.live++
		return v, nil
	}
	releaser := func(int) {
		r.live--
	}
	return []buffer.Option[int]{
		buffer.WithCopier[int](copier),
		buffer.WithReleaser[int](releaser),
	}
}

// Run executes the script and then the random steps. Cancelling ctx stops
// the run between steps and returns the partial report without error.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	err := r.run(ctx)
	r.report.Duration = time.Since(start).String()
	r.report.Stats = r.buf.Stats().Summary()
	return r.report, err
}

func (r *Runner) run(ctx context.Context) error {
	r.logger.Info("Run started",
		"seed", r.workload.Seed,
		"steps", r.report.Steps,
		"capacity", r.buf.Cap(),
		"fail_every", r.workload.FailEvery)

	for i, step := range r.workload.Script {
		if ctx.Err() != nil {
			r.report.Interrupted = true
			return nil
		}
		if err := r.execute(step); err != nil {
			return errors.Wrap(err, "Runner", "Run", fmt.Sprintf("script step %d (%s)", i, step.Op))
		}
	}

	progressEvery := r.workload.Steps / 10
	for i := 0; i < r.workload.Steps; i++ {
		if ctx.Err() != nil {
			r.report.Interrupted = true
			r.logger.Warn("Run interrupted", "completed", r.report.Completed)
			return nil
		}
		step := r.randomStep()
		if err := r.execute(step); err != nil {
			return errors.Wrap(err, "Runner", "Run", fmt.Sprintf("random step %d (%s)", i, step.Op))
		}
		if progressEvery > 0 && (i+1)%progressEvery == 0 {
			r.logger.Debug("Run progress",
				"completed", r.report.Completed, "size", r.buf.Len(), "capacity", r.buf.Cap())
		}
	}

	r.logger.Info("Run finished",
		"completed", r.report.Completed,
		"injected_failures", r.report.Injected,
		"refused_growths", r.report.Refused,
		"size", r.buf.Len(),
		"capacity", r.buf.Cap())
	return nil
}

func (r *Runner) pick() string {
	n := r.rng.Intn(r.cumulative[len(r.cumulative)-1])
	for i, bound := range r.cumulative {
		if n < bound {
			return r.ops[i]
		}
	}
	return r.ops[len(r.ops)-1]
}

func (r *Runner) randomStep() Step {
	step := Step{Op: r.pick(), Value: r.rng.Intn(1 << 20)}
	switch step.Op {
	case opInsert:
		step.Index = r.rng.Intn(r.ref.Len() + 1)
	case opErase:
		if r.ref.Len() > 0 {
			step.Index = r.rng.Intn(r.ref.Len())
		}
	}
	return step
}

// execute applies step to both containers and verifies them.
func (r *Runner) execute(step Step) error {
	if err := r.apply(step); err != nil {
		return err
	}
	r.report.Completed++
	return r.verify(r.buf)
}

func (r *Runner) apply(step Step) error {
	switch step.Op {
	case opPushBack:
		return r.mutation(r.buf.PushBack(step.Value), func() { r.ref.PushBack(step.Value) })

	case opPushFront:
		return r.mutation(r.buf.PushFront(step.Value), func() { r.ref.PushFront(step.Value) })

	case opPopBack, opPopFront:
		if r.ref.Len() == 0 {
			r.report.Skipped++
			return nil
		}
		if step.Op == opPopBack {
			r.buf.PopBack()
			r.ref.PopBack()
		} else {
			r.buf.PopFront()
			r.ref.PopFront()
		}
		return nil

	case opInsert:
		if step.Index < 0 || step.Index > r.ref.Len() {
			return errors.WrapInvalid(errors.ErrInvalidData, "Runner", "apply",
				fmt.Sprintf("insert index %d outside [0, %d]", step.Index, r.ref.Len()))
		}
		it, err := r.buf.Insert(r.buf.Begin().Add(step.Index), step.Value)
		if err == nil && it.Get() != step.Value {
			return errors.WrapFatal(errors.ErrDataCorrupted, "Runner", "apply",
				fmt.Sprintf("insert returned iterator to %d, want %d", it.Get(), step.Value))
		}
		return r.mutation(err, func() { r.ref.Insert(step.Index, step.Value) })

	case opErase:
		if r.ref.Len() == 0 {
			r.report.Skipped++
			return nil
		}
		if step.Index < 0 || step.Index >= r.ref.Len() {
			return errors.WrapInvalid(errors.ErrInvalidData, "Runner", "apply",
				fmt.Sprintf("erase index %d outside [0, %d)", step.Index, r.ref.Len()))
		}
		next := r.buf.Erase(r.buf.Begin().Add(step.Index))
		if next.Diff(r.buf.Begin()) != step.Index {
			return errors.WrapFatal(errors.ErrDataCorrupted, "Runner", "apply",
				fmt.Sprintf("erase returned position %d, want %d", next.Diff(r.buf.Begin()), step.Index))
		}
		r.ref.Remove(step.Index)
		return nil

	case opClear:
		r.buf.Clear()
		r.ref.Clear()
		return nil

	case opClone:
		return r.cloneRoundTrip()

	case opSwap:
		return r.swapRoundTrip()
	}

	return errors.WrapInvalid(errors.ErrInvalidData, "Runner", "apply", fmt.Sprintf("unknown operation %q", step.Op))
}

// mutation applies the reference change when the buffer succeeded. A failed
// copy or a refused growth leaves both sides unchanged, which verify checks.
func (r *Runner) mutation(err error, applyRef func()) error {
	switch {
	case err == nil:
		applyRef()
		return nil
	case errors.Is(err, errInjected):
		r.report.Injected++
		r.logger.Debug("Injected copy failure", "copies", r.copies, "error", err)
		return nil
	case errors.Is(err, errors.ErrCapacityExceeded):
		r.report.Refused++
		r.logger.Debug("Growth refused", "capacity", r.buf.Cap(), "error", err)
		return nil
	default:
		return err
	}
}

// cloneRoundTrip clones the buffer, compares the clone and assigns it back.
func (r *Runner) cloneRoundTrip() error {
	clone, err := r.buf.Clone()
	if err != nil {
		return r.mutation(err, func() {})
	}
	defer clone.Clear()

	if !buffer.Equal(r.buf, clone) {
		return errors.WrapFatal(errors.ErrDataCorrupted, "Runner", "cloneRoundTrip", "clone differs from source")
	}
	return r.mutation(r.buf.Assign(clone), func() {})
}

// swapRoundTrip moves the content into a scratch buffer and back.
func (r *Runner) swapRoundTrip() error {
	scratch, err := buffer.New[int](r.lifecycle()...)
	if err != nil {
		return errors.Wrap(err, "Runner", "swapRoundTrip", "create scratch buffer")
	}
	copies := r.copies

	buffer.Swap(r.buf, scratch)
	if !r.buf.Empty() {
		return errors.WrapFatal(errors.ErrDataCorrupted, "Runner", "swapRoundTrip", "swapped-in buffer not empty")
	}
	if err := r.verify(scratch); err != nil {
		return err
	}
	r.buf.Swap(scratch)

	if r.copies != copies {
		return errors.WrapFatal(errors.ErrDataCorrupted, "Runner", "swapRoundTrip",
			fmt.Sprintf("swap copied %d elements", r.copies-copies))
	}
	return nil
}

// verify checks that buf holds the reference sequence and owns exactly one
// live copy per element.
func (r *Runner) verify(buf *buffer.Buffer[int]) error {
	if buf.Len() != r.ref.Len() {
		return r.corrupted("length %d, reference %d", buf.Len(), r.ref.Len())
	}
	if d := buf.End().Diff(buf.Begin()); d != buf.Len() {
		return r.corrupted("iterator distance %d, length %d", d, buf.Len())
	}
	if buf.Len() > 0 && buf.Len() >= buf.Cap() {
		return r.corrupted("length %d not below capacity %d", buf.Len(), buf.Cap())
	}
	for i := 0; i < r.ref.Len(); i++ {
		if got, want := buf.At(i), r.ref.At(i); got != want {
			return r.corrupted("element %d is %d, reference %d", i, got, want)
		}
	}
	if r.live != r.ref.Len() {
		return r.corrupted("%d live copies for %d elements", r.live, r.ref.Len())
	}
	return nil
}

func (r *Runner) corrupted(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	r.logger.Error("Verification failed", "completed", r.report.Completed, "detail", msg)
	return errors.WrapFatal(errors.ErrDataCorrupted, "Runner", "verify", msg)
}
