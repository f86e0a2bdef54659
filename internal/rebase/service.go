package rebase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const (
	repositoryNotConfiguredMessageConstant   = "rebase repository not configured"
	outputWriterNotConfiguredMessageConstant = "rebase output writer not configured"
	prompterNotConfiguredMessageConstant     = "rebase confirmation prompter not configured"
	runCanceledMessageConstant               = "run canceled before any changes were made"
	stashPromptConstant                      = "Working tree has uncommitted changes. Stash them and continue? [y/N] "
	abortPromptTemplateConstant              = "Rebase of %s onto %s failed. Abort it and continue with the remaining branches? [y/N] "
	rebaseFailedLogMessageConstant           = "rebase failed"
	statusUnavailableLogMessageConstant      = "unable to report worktree status"
	branchLogFieldNameConstant               = "branch"
	baseLogFieldNameConstant                 = "base"
)

// ErrRepositoryNotConfigured indicates the service was constructed without a repository.
var ErrRepositoryNotConfigured = errors.New(repositoryNotConfiguredMessageConstant)

// ErrOutputWriterNotConfigured indicates the service was constructed without an output writer.
var ErrOutputWriterNotConfigured = errors.New(outputWriterNotConfiguredMessageConstant)

// ErrPrompterNotConfigured indicates the service was constructed without a confirmation prompter.
var ErrPrompterNotConfigured = errors.New(prompterNotConfiguredMessageConstant)

// ErrRunCanceled indicates the operator declined to proceed before any mutation occurred.
var ErrRunCanceled = errors.New(runCanceledMessageConstant)

// ServiceDependencies carries the collaborators required by the rebase service.
type ServiceDependencies struct {
	Repository Repository
	Prompter   ConfirmationPrompter
	Output     io.Writer
	Logger     *zap.Logger
}

// CommandOptions captures the per-run parameters of the rebase service.
type CommandOptions struct {
	BaseRef     string
	Branches    []string
	Interactive bool
}

// Service rebases a set of branches onto a base ref while preserving the
// operator's working state around the run.
type Service struct {
	repository   Repository
	prompter     ConfirmationPrompter
	outputWriter io.Writer
	logger       *zap.Logger
}

// NewService constructs a Service after validating the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Repository == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if dependencies.Output == nil {
		return nil, ErrOutputWriterNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}

	serviceLogger := dependencies.Logger
	if serviceLogger == nil {
		serviceLogger = zap.NewNop()
	}

	return &Service{
		repository:   dependencies.Repository,
		prompter:     dependencies.Prompter,
		outputWriter: dependencies.Output,
		logger:       serviceLogger,
	}, nil
}

// Run rebases the requested branches onto the base ref and reports per-branch
// outcomes. When no explicit branches are provided, the branches lacking the
// base ref in their history are rebased. The returned error carries the
// failure count when any branch fails.
func (service *Service) Run(executionContext context.Context, options CommandOptions) (RunReport, error) {
	targetBranches := options.Branches
	if len(targetBranches) == 0 {
		listedBranches, rawListing, listingError := service.repository.ListBranchesWithoutRef(executionContext, options.BaseRef)
		if listingError != nil {
			return RunReport{}, listingError
		}
		fmt.Fprint(service.outputWriter, rawListing)
		targetBranches = listedBranches
	}

	if len(targetBranches) == 0 {
		return RunReport{}, nil
	}

	stashRequired, statusError := service.repository.HasUncommittedChanges(executionContext)
	if statusError != nil {
		return RunReport{}, statusError
	}

	if stashRequired && options.Interactive {
		stashConfirmed, promptError := service.confirm(executionContext, stashPromptConstant)
		if promptError != nil {
			return RunReport{}, promptError
		}
		if !stashConfirmed {
			return RunReport{}, ErrRunCanceled
		}
	}

	workingStateGuard, guardError := AcquireWorkingState(executionContext, service.repository, stashRequired)
	if guardError != nil {
		return RunReport{}, guardError
	}

	report := RunReport{Outcomes: make([]BranchOutcome, 0, len(targetBranches))}
	for branchIndex, branchName := range targetBranches {
		rebaseError := service.repository.Rebase(executionContext, options.BaseRef, branchName)
		if rebaseError == nil {
			report.Outcomes = append(report.Outcomes, BranchOutcome{Branch: branchName, Status: StatusSucceeded})
			continue
		}

		report.FailureCount++
		report.Outcomes = append(report.Outcomes, BranchOutcome{Branch: branchName, Status: StatusFailed})
		service.logger.Warn(
			rebaseFailedLogMessageConstant,
			zap.String(branchLogFieldNameConstant, branchName),
			zap.String(baseLogFieldNameConstant, options.BaseRef),
			zap.Error(rebaseError),
		)

		if options.Interactive {
			abortConfirmed, promptError := service.confirm(executionContext, fmt.Sprintf(abortPromptTemplateConstant, branchName, options.BaseRef))
			if promptError != nil || !abortConfirmed {
				return service.exitEarly(executionContext, workingStateGuard, report, targetBranches[branchIndex+1:])
			}
		}

		// The abort is cleanup for the failed attempt; it still runs when
		// the failure was an interrupt canceling the run's context.
		if abortError := service.repository.AbortRebase(context.WithoutCancel(executionContext)); abortError != nil {
			releaseError := workingStateGuard.Release(executionContext)
			for _, remainingBranch := range targetBranches[branchIndex+1:] {
				report.Outcomes = append(report.Outcomes, BranchOutcome{Branch: remainingBranch, Status: StatusNotAttempted})
			}
			if writeError := WriteReport(service.outputWriter, report); writeError != nil {
				return report, errors.Join(abortError, releaseError, writeError)
			}
			return report, errors.Join(abortError, releaseError)
		}
	}

	releaseError := workingStateGuard.Release(executionContext)
	if writeError := WriteReport(service.outputWriter, report); writeError != nil {
		return report, errors.Join(releaseError, writeError)
	}

	if report.FailureCount > 0 {
		failuresError := RebaseFailuresError{FailureCount: report.FailureCount}
		if releaseError != nil {
			return report, errors.Join(failuresError, releaseError)
		}
		return report, failuresError
	}
	return report, releaseError
}

// exitEarly abandons the run without restoring the working state so the
// operator can inspect the in-progress rebase. Remaining branches are
// recorded as not attempted.
func (service *Service) exitEarly(executionContext context.Context, workingStateGuard *WorkingStateGuard, report RunReport, remainingBranches []string) (RunReport, error) {
	workingStateGuard.Disarm()
	report.EarlyExit = true
	for _, remainingBranch := range remainingBranches {
		report.Outcomes = append(report.Outcomes, BranchOutcome{Branch: remainingBranch, Status: StatusNotAttempted})
	}

	if writeError := WriteReport(service.outputWriter, report); writeError != nil {
		return report, writeError
	}

	statusOutput, statusError := service.repository.WorktreeStatus(context.WithoutCancel(executionContext))
	if statusError != nil {
		service.logger.Warn(statusUnavailableLogMessageConstant, zap.Error(statusError))
	} else {
		fmt.Fprint(service.outputWriter, statusOutput)
	}

	return report, RebaseFailuresError{FailureCount: report.FailureCount}
}

// confirm runs the prompter while honoring context cancellation so an
// interrupt delivered mid-prompt does not leave the process hanging on input.
func (service *Service) confirm(executionContext context.Context, prompt string) (bool, error) {
	type confirmationOutcome struct {
		confirmed   bool
		promptError error
	}

	outcomeChannel := make(chan confirmationOutcome, 1)
	go func() {
		confirmed, promptError := service.prompter.Confirm(prompt)
		outcomeChannel <- confirmationOutcome{confirmed: confirmed, promptError: promptError}
	}()

	select {
	case <-executionContext.Done():
		return false, executionContext.Err()
	case outcome := <-outcomeChannel:
		return outcome.confirmed, outcome.promptError
	}
}
