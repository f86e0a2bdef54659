package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmarkov/rebase-branches/internal/execshell"
)

const (
	executorNotConfiguredMessageConstant    = "git executor not configured"
	refResolutionFallbackTemplateConstant   = "unable to resolve ref %q"
	gitLogSubcommandConstant                = "log"
	gitLogSingleCommitFlagConstant          = "-n1"
	gitPathspecSeparatorConstant            = "--"
	gitBranchSubcommandConstant             = "branch"
	gitBranchShowCurrentFlagConstant        = "--show-current"
	gitBranchNoContainsFlagConstant         = "--no-contains"
	gitBranchShortNameFormatFlagConstant    = "--format=%(refname:short)"
	gitRevParseSubcommandConstant           = "rev-parse"
	gitHeadReferenceConstant                = "HEAD"
	gitStatusSubcommandConstant             = "status"
	gitStatusPorcelainFlagConstant          = "--porcelain"
	gitStatusUntrackedFilesFlagConstant     = "--untracked-files"
	gitStashSubcommandConstant              = "stash"
	gitStashPushSubcommandConstant          = "push"
	gitStashIncludeUntrackedFlagConstant    = "--include-untracked"
	gitStashPopSubcommandConstant           = "pop"
	gitCheckoutSubcommandConstant           = "checkout"
	gitConfigOptionFlagConstant             = "-c"
	gitDetachedHeadAdviceOffConstant        = "advice.detachedHead=false"
	gitRebaseSubcommandConstant             = "rebase"
	gitRebaseAbortFlagConstant              = "--abort"
	gitTerminalPromptEnvironmentName        = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableFlag = "0"
)

// ErrExecutorNotConfigured indicates the repository manager was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RefResolutionError indicates a token did not resolve to a commit. It carries
// git's own diagnostic output so the operator sees the underlying reason.
type RefResolutionError struct {
	Reference  string
	Diagnostic string
}

// Error reports git's diagnostic when available.
func (resolutionError RefResolutionError) Error() string {
	trimmedDiagnostic := strings.TrimSpace(resolutionError.Diagnostic)
	if len(trimmedDiagnostic) > 0 {
		return trimmedDiagnostic
	}
	return fmt.Sprintf(refResolutionFallbackTemplateConstant, resolutionError.Reference)
}

// RepositoryManager issues typed git operations against the working tree the
// process runs in. All mutations go through the shared executor so they are
// echoed and logged consistently.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager from the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// ResolveRef confirms the supplied token resolves to an existing commit.
// The check is read-only; failures carry git's diagnostic output.
func (manager *RepositoryManager) ResolveRef(executionContext context.Context, reference string) error {
	_, executionError := manager.executeGit(executionContext, gitLogSubcommandConstant, gitLogSingleCommitFlagConstant, reference, gitPathspecSeparatorConstant)
	if executionError == nil {
		return nil
	}

	commandFailure := execshell.CommandFailedError{}
	if errors.As(executionError, &commandFailure) {
		return RefResolutionError{Reference: reference, Diagnostic: commandFailure.Result.StandardError}
	}
	return executionError
}

// CurrentRef reports the checked-out branch name, or the commit hash when the
// repository is in a detached state.
func (manager *RepositoryManager) CurrentRef(executionContext context.Context) (string, error) {
	branchResult, branchError := manager.executeGit(executionContext, gitBranchSubcommandConstant, gitBranchShowCurrentFlagConstant)
	if branchError != nil {
		return "", branchError
	}

	currentBranch := strings.TrimSpace(branchResult.StandardOutput)
	if len(currentBranch) > 0 {
		return currentBranch, nil
	}

	revisionResult, revisionError := manager.executeGit(executionContext, gitRevParseSubcommandConstant, gitHeadReferenceConstant)
	if revisionError != nil {
		return "", revisionError
	}
	return strings.TrimSpace(revisionResult.StandardOutput), nil
}

// ListBranchesWithoutRef returns the local branches whose history does not
// include the supplied ref, together with git's raw listing output.
func (manager *RepositoryManager) ListBranchesWithoutRef(executionContext context.Context, reference string) ([]string, string, error) {
	listingResult, listingError := manager.executeGit(
		executionContext,
		gitBranchSubcommandConstant,
		gitBranchNoContainsFlagConstant,
		reference,
		gitBranchShortNameFormatFlagConstant,
	)
	if listingError != nil {
		return nil, "", listingError
	}

	branchNames := make([]string, 0)
	for _, listedLine := range strings.Split(listingResult.StandardOutput, "\n") {
		trimmedLine := strings.TrimSpace(listedLine)
		if len(trimmedLine) == 0 {
			continue
		}
		branchNames = append(branchNames, trimmedLine)
	}
	return branchNames, listingResult.StandardOutput, nil
}

// HasUncommittedChanges reports whether the working tree holds any uncommitted
// change, including untracked files.
func (manager *RepositoryManager) HasUncommittedChanges(executionContext context.Context) (bool, error) {
	statusResult, statusError := manager.executeGit(executionContext, gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant, gitStatusUntrackedFilesFlagConstant)
	if statusError != nil {
		return false, statusError
	}
	return len(strings.TrimSpace(statusResult.StandardOutput)) > 0, nil
}

// StashPush saves the working tree, including untracked files, to the stash.
func (manager *RepositoryManager) StashPush(executionContext context.Context) error {
	_, executionError := manager.executeGit(executionContext, gitStashSubcommandConstant, gitStashPushSubcommandConstant, gitStashIncludeUntrackedFlagConstant)
	return executionError
}

// StashPop restores the most recent stash entry into the working tree.
func (manager *RepositoryManager) StashPop(executionContext context.Context) error {
	_, executionError := manager.executeGit(executionContext, gitStashSubcommandConstant, gitStashPopSubcommandConstant)
	return executionError
}

// CheckoutRef checks out the supplied ref, suppressing the detached-head advisory.
func (manager *RepositoryManager) CheckoutRef(executionContext context.Context, reference string) error {
	_, executionError := manager.executeGit(executionContext, gitConfigOptionFlagConstant, gitDetachedHeadAdviceOffConstant, gitCheckoutSubcommandConstant, reference)
	return executionError
}

// Rebase reapplies the supplied branch onto the base reference.
func (manager *RepositoryManager) Rebase(executionContext context.Context, baseReference string, branchName string) error {
	_, executionError := manager.executeGit(executionContext, gitRebaseSubcommandConstant, baseReference, branchName)
	return executionError
}

// AbortRebase abandons an in-progress rebase, returning the tree to a clean state.
func (manager *RepositoryManager) AbortRebase(executionContext context.Context) error {
	_, executionError := manager.executeGit(executionContext, gitRebaseSubcommandConstant, gitRebaseAbortFlagConstant)
	return executionError
}

// WorktreeStatus returns git's human-readable status output.
func (manager *RepositoryManager) WorktreeStatus(executionContext context.Context) (string, error) {
	statusResult, statusError := manager.executeGit(executionContext, gitStatusSubcommandConstant)
	if statusError != nil {
		return "", statusError
	}
	return statusResult.StandardOutput, nil
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, arguments ...string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentName: gitTerminalPromptEnvironmentDisableFlag},
	})
}
