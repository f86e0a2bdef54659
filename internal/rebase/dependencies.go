package rebase

import (
	"context"
)

// Repository exposes the repository-level git operations the rebase service requires.
type Repository interface {
	ResolveRef(executionContext context.Context, reference string) error
	CurrentRef(executionContext context.Context) (string, error)
	ListBranchesWithoutRef(executionContext context.Context, reference string) ([]string, string, error)
	HasUncommittedChanges(executionContext context.Context) (bool, error)
	StashPush(executionContext context.Context) error
	StashPop(executionContext context.Context) error
	CheckoutRef(executionContext context.Context, reference string) error
	Rebase(executionContext context.Context, baseReference string, branchName string) error
	AbortRebase(executionContext context.Context) error
	WorktreeStatus(executionContext context.Context) (string, error)
}
