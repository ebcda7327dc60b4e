package bulk

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/chapterhq/ams/pkg/audit"
	"github.com/chapterhq/ams/pkg/org"
)

// Executor runs bulk mutations against the chapter directory
type Executor struct {
	dir       org.Directory
	audit     audit.Logger
	recorder  Recorder
	batchSize int
	yield     func()
}

// Recorder receives aggregate operation outcomes, for metrics export
type Recorder interface {
	ObserveBulkOperation(operation, status string, elapsed time.Duration)
	ObserveBulkItems(operation string, succeeded, failed int)
}

// ExecutorOption configures an Executor
type ExecutorOption func(*Executor)

// WithAuditLogger records aggregate operation outcomes. Best effort:
// audit failures never fail the operation.
func WithAuditLogger(l audit.Logger) ExecutorOption {
	return func(x *Executor) { x.audit = l }
}

// WithRecorder reports operation outcomes to the given recorder
func WithRecorder(r Recorder) ExecutorOption {
	return func(x *Executor) { x.recorder = r }
}

// WithBatchSize overrides the batch size, for tests
func WithBatchSize(n int) ExecutorOption {
	return func(x *Executor) {
		if n > 0 {
			x.batchSize = n
		}
	}
}

// WithYield overrides the between-batch yield, for tests
func WithYield(fn func()) ExecutorOption {
	return func(x *Executor) { x.yield = fn }
}

// NewExecutor creates a bulk executor over the given directory
func NewExecutor(dir org.Directory, opts ...ExecutorOption) *Executor {
	x := &Executor{
		dir:       dir,
		batchSize: BatchSize,
		yield:     runtime.Gosched,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// atBatchBoundary yields between batches and reports whether the
// context was cancelled. Cancellation stops cleanly at a boundary;
// already-applied mutations stay applied and the partial result is
// valid.
func (x *Executor) atBatchBoundary(ctx context.Context, index int) bool {
	if index == 0 || index%x.batchSize != 0 {
		return false
	}
	if ctx.Err() != nil {
		return true
	}
	x.yield()
	return false
}

// Edit applies the field changes to every target chapter. Per-item
// failures are collected and do not abort siblings. With ValidateFirst
// a bad field value aborts before any mutation, returning ErrValidation
// alongside a result whose Errors list the failing fields.
func (x *Executor) Edit(ctx context.Context, actorID string, targetIDs []string, changes map[string]string, opts EditOptions, onProgress ProgressFunc) (*Result, error) {
	start := time.Now()
	result := &Result{TotalCount: len(targetIDs)}

	if !opts.Strategy.Valid() {
		result.Errors = append(result.Errors, ItemError{ID: "strategy", Err: fmt.Sprintf("unknown strategy %q", opts.Strategy)})
		result.Message = "validation failed"
		x.observe("bulk_edit", "validation_failed", start, result)
		return result, ErrValidation
	}
	if len(changes) == 0 {
		result.Errors = append(result.Errors, ItemError{ID: "fields", Err: "no field changes given"})
		result.Message = "validation failed"
		x.observe("bulk_edit", "validation_failed", start, result)
		return result, ErrValidation
	}
	if opts.ValidateFirst {
		if errs := validateChanges(changes, opts.Strategy); len(errs) > 0 {
			result.Errors = errs
			result.FailureCount = len(errs)
			result.Message = "validation failed"
			x.observe("bulk_edit", "validation_failed", start, result)
			return result, ErrValidation
		}
	}

	cancelled := false
	for i, id := range targetIDs {
		if x.atBatchBoundary(ctx, i) {
			cancelled = true
			break
		}

		if err := x.editOne(ctx, id, changes, opts.Strategy); err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, ItemError{ID: id, Err: err.Error()})
		} else {
			result.SuccessCount++
		}
		if onProgress != nil {
			onProgress(i+1, len(targetIDs))
		}
	}

	result.Message = fmt.Sprintf("updated %d of %d chapters", result.SuccessCount, result.TotalCount)
	status := "completed"
	if cancelled {
		result.Message += " (cancelled)"
		status = "cancelled"
	}
	x.observe("bulk_edit", status, start, result)
	x.record(ctx, actorID, "bulk_edit", changes, result)
	return result, nil
}

func (x *Executor) editOne(ctx context.Context, id string, changes map[string]string, strategy Strategy) error {
	chapter, err := x.dir.Chapter(ctx, id)
	if err != nil {
		return fmt.Errorf("chapter not found")
	}
	for field, value := range changes {
		if err := applyChange(chapter, field, value, strategy); err != nil {
			return err
		}
	}
	return x.dir.UpdateChapter(ctx, chapter)
}

// Delete removes the target chapters. A target with children fails as
// an item unless Cascade is set, in which case descendants are removed
// transitively and counted toward SuccessCount. The confirmation
// phrase is checked before anything is touched.
func (x *Executor) Delete(ctx context.Context, actorID string, targetIDs []string, opts DeleteOptions, onProgress ProgressFunc) (*Result, error) {
	start := time.Now()
	result := &Result{TotalCount: len(targetIDs)}

	if opts.ConfirmationText != ConfirmationPhrase {
		result.Errors = append(result.Errors, ItemError{ID: "confirmation", Err: fmt.Sprintf("confirmation text must be %q", ConfirmationPhrase)})
		result.Message = "validation failed"
		x.observe("bulk_delete", "validation_failed", start, result)
		return result, ErrValidation
	}

	all, err := x.dir.Chapters(ctx)
	if err != nil {
		return nil, fmt.Errorf("bulk: list chapters: %w", err)
	}
	children := org.ChildrenOf(all, targetIDs)

	deleted := make(map[string]bool)
	cancelled := false
	for i, id := range targetIDs {
		if x.atBatchBoundary(ctx, i) {
			cancelled = true
			break
		}

		switch {
		case deleted[id]:
			// Already removed by an earlier target's cascade.
			result.SuccessCount++

		case hasLiveChildren(children[id], deleted) && !opts.Cascade:
			result.FailureCount++
			result.Errors = append(result.Errors, ItemError{ID: id, Err: "has child chapters, enable cascade"})

		default:
			n, err := x.deleteOne(ctx, id, opts.Cascade, all, deleted)
			if err != nil {
				result.FailureCount++
				result.Errors = append(result.Errors, ItemError{ID: id, Err: err.Error()})
			} else {
				result.SuccessCount += n
			}
		}

		if onProgress != nil {
			onProgress(i+1, len(targetIDs))
		}
	}

	result.Message = fmt.Sprintf("deleted %d chapters", result.SuccessCount)
	if result.FailureCount > 0 {
		result.Message = fmt.Sprintf("deleted %d chapters, %d failed", result.SuccessCount, result.FailureCount)
	}
	status := "completed"
	if cancelled {
		result.Message += " (cancelled)"
		status = "cancelled"
	}
	x.observe("bulk_delete", status, start, result)
	x.record(ctx, actorID, "bulk_delete", map[string]interface{}{"cascade": opts.Cascade, "targets": targetIDs}, result)
	return result, nil
}

// hasLiveChildren reports whether any child survives to block a
// non-cascade delete. Children removed earlier in the same operation,
// as targets or by another target's cascade, no longer block their
// parent.
func hasLiveChildren(children []*org.Chapter, deleted map[string]bool) bool {
	for _, c := range children {
		if !deleted[c.ID] {
			return true
		}
	}
	return false
}

// deleteOne removes a chapter and, when cascading, its descendants
// deepest-first. Returns the number of chapters removed.
func (x *Executor) deleteOne(ctx context.Context, id string, cascade bool, all []*org.Chapter, deleted map[string]bool) (int, error) {
	count := 0
	if cascade {
		descendants := org.Descendants(all, []string{id})
		for i := len(descendants) - 1; i >= 0; i-- {
			d := descendants[i]
			if deleted[d.ID] {
				continue
			}
			if err := x.dir.DeleteChapter(ctx, d.ID); err != nil {
				return count, fmt.Errorf("delete child %s: %v", d.ID, err)
			}
			deleted[d.ID] = true
			count++
		}
	}

	if err := x.dir.DeleteChapter(ctx, id); err != nil {
		if count > 0 {
			return count, fmt.Errorf("children removed but chapter failed: %v", err)
		}
		return count, fmt.Errorf("chapter not found")
	}
	deleted[id] = true
	return count + 1, nil
}

// observe reports the operation outcome to the recorder, if any
func (x *Executor) observe(operation, status string, start time.Time, result *Result) {
	if x.recorder == nil {
		return
	}
	x.recorder.ObserveBulkOperation(operation, status, time.Since(start))
	x.recorder.ObserveBulkItems(operation, result.SuccessCount, result.FailureCount)
}

// record appends the aggregate outcome to the audit log, best effort
func (x *Executor) record(ctx context.Context, actorID, action string, request interface{}, result *Result) {
	if x.audit == nil {
		return
	}
	entry := &audit.Entry{
		ActorID:  actorID,
		Action:   action,
		Resource: "chapter",
		Before:   request,
		After:    result,
		Success:  result.FailureCount == 0,
		Reason:   result.Message,
	}
	if err := x.audit.Append(ctx, entry); err != nil {
		log.Printf("bulk: audit append failed: %v", err)
	}
}
