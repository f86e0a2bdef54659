package rebase

import "fmt"

const (
	branchStatusPendingStringConstant      = "pending"
	branchStatusSucceededStringConstant    = "succeeded"
	branchStatusFailedStringConstant       = "failed"
	branchStatusNotAttemptedStringConstant = "not attempted"
	rebaseFailuresSingularTemplateConstant = "%d branch failed to rebase"
	rebaseFailuresPluralTemplateConstant   = "%d branches failed to rebase"
)

// BranchStatus enumerates the per-branch outcomes of a batch rebase.
type BranchStatus string

// Branch status values. A branch moves from pending to exactly one terminal
// status; branches never reached during an early exit stay not attempted.
const (
	StatusPending      BranchStatus = BranchStatus(branchStatusPendingStringConstant)
	StatusSucceeded    BranchStatus = BranchStatus(branchStatusSucceededStringConstant)
	StatusFailed       BranchStatus = BranchStatus(branchStatusFailedStringConstant)
	StatusNotAttempted BranchStatus = BranchStatus(branchStatusNotAttemptedStringConstant)
)

// BranchOutcome pairs a branch name with its final status.
type BranchOutcome struct {
	Branch string
	Status BranchStatus
}

// RunReport captures the observable outcome of one batch rebase invocation.
// Outcomes preserve the order branches were processed in.
type RunReport struct {
	Outcomes     []BranchOutcome
	FailureCount int
	EarlyExit    bool
}

// RebaseFailuresError reports that one or more branches failed to rebase.
// The failure tally doubles as the process exit code.
type RebaseFailuresError struct {
	FailureCount int
}

// Error describes the failure tally.
func (failuresError RebaseFailuresError) Error() string {
	if failuresError.FailureCount == 1 {
		return fmt.Sprintf(rebaseFailuresSingularTemplateConstant, failuresError.FailureCount)
	}
	return fmt.Sprintf(rebaseFailuresPluralTemplateConstant, failuresError.FailureCount)
}

// ExitCode reports the process exit status for this failure.
func (failuresError RebaseFailuresError) ExitCode() int {
	return failuresError.FailureCount
}
