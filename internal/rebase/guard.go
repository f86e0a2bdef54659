package rebase

import (
	"context"
	"errors"
)

const (
	guardRepositoryMissingMessageConstant = "working state repository not configured"
)

// ErrGuardRepositoryNotConfigured indicates the guard was acquired without a repository.
var ErrGuardRepositoryNotConfigured = errors.New(guardRepositoryMissingMessageConstant)

// GuardRepository exposes the repository operations working-state preservation needs.
type GuardRepository interface {
	StashPush(executionContext context.Context) error
	StashPop(executionContext context.Context) error
	CurrentRef(executionContext context.Context) (string, error)
	CheckoutRef(executionContext context.Context, reference string) error
}

// WorkingStateGuard preserves the operator's working state across a batch of
// mutating git operations. Acquisition stashes local changes (when requested)
// and records the checked-out ref; release restores both in reverse order.
// Release runs at most once; a disarmed guard skips restoration entirely so
// an operator can inspect a conflicted tree.
type WorkingStateGuard struct {
	repository     GuardRepository
	stashedChanges bool
	originalRef    string
	released       bool
	disarmed       bool
}

// AcquireWorkingState saves the operator's working state. The stash resource
// is acquired before the ref resource; Release restores in reverse order.
func AcquireWorkingState(executionContext context.Context, repository GuardRepository, stashChanges bool) (*WorkingStateGuard, error) {
	if repository == nil {
		return nil, ErrGuardRepositoryNotConfigured
	}

	guard := &WorkingStateGuard{repository: repository}

	if stashChanges {
		if stashError := repository.StashPush(executionContext); stashError != nil {
			return nil, stashError
		}
		guard.stashedChanges = true
	}

	originalRef, refError := repository.CurrentRef(executionContext)
	if refError != nil {
		// The ref resource failed to acquire after the stash succeeded;
		// put the stash back before reporting the failure.
		if guard.stashedChanges {
			restoreError := repository.StashPop(context.WithoutCancel(executionContext))
			return nil, errors.Join(refError, restoreError)
		}
		return nil, refError
	}
	guard.originalRef = originalRef

	return guard, nil
}

// StashedChanges reports whether acquisition created a stash entry.
func (guard *WorkingStateGuard) StashedChanges() bool {
	return guard.stashedChanges
}

// OriginalRef reports the ref that was checked out at acquisition time.
func (guard *WorkingStateGuard) OriginalRef() string {
	return guard.originalRef
}

// Disarm marks the guard so Release performs no restoration. Used by the
// interactive early-exit path, which deliberately leaves the conflicted
// state in place for inspection.
func (guard *WorkingStateGuard) Disarm() {
	guard.disarmed = true
}

// Release restores the preserved state exactly once: the original ref is
// checked out first, then the stash entry is popped. Both restorations are
// attempted even if the first fails, and both still run after the provided
// context has been canceled, so an interrupt cannot strand the operator on
// the wrong ref with their changes stashed.
func (guard *WorkingStateGuard) Release(executionContext context.Context) error {
	if guard.released || guard.disarmed {
		return nil
	}
	guard.released = true

	restorationContext := context.WithoutCancel(executionContext)

	checkoutError := guard.repository.CheckoutRef(restorationContext, guard.originalRef)

	var stashError error
	if guard.stashedChanges {
		stashError = guard.repository.StashPop(restorationContext)
	}

	return errors.Join(checkoutError, stashError)
}
