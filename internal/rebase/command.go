package rebase

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tmarkov/rebase-branches/internal/execshell"
	"github.com/tmarkov/rebase-branches/internal/gitrepo"
	"github.com/tmarkov/rebase-branches/internal/ui"
	"github.com/tmarkov/rebase-branches/internal/utils"
	flagutils "github.com/tmarkov/rebase-branches/internal/utils/flags"
)

const (
	commandUseConstant              = "rebase-branches <base-ref>"
	commandShortDescriptionConstant = "Rebase a set of branches onto a base ref"
	commandLongDescriptionConstant  = "Rebase every branch that does not already contain the base ref, or an explicitly supplied set of branches, onto that ref. Uncommitted changes are stashed for the duration of the run and the original checkout is restored afterwards."
	flagBranchesNameConstant        = "branches"
	flagBranchesDescriptionConstant = "Branches to rebase instead of the computed default set"
	flagInteractiveNameConstant     = "interactive"
	flagInteractiveShorthand        = "i"
	flagInteractiveDescription      = "Pause for confirmation before stashing and before abandoning a failed rebase"
	missingBaseRefMessageConstant   = "base ref must not be empty"
	configurationFileLogMessage     = "using configuration file"
	configurationFileLogField       = "path"
)

// ErrMissingBaseRef indicates the positional base ref argument was empty.
var ErrMissingBaseRef = errors.New(missingBaseRefMessageConstant)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the persisted rebase configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the rebase cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Repository            Repository
	Prompter              ConfirmationPrompter
	CommandEventsObserver execshell.CommandEventObserver
}

// Build constructs the cobra command for batch branch rebasing.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	configuration := builder.resolveConfiguration()
	interactiveSetting := configuration.Interactive

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, arguments, interactiveSetting)
		},
	}

	command.Flags().StringSlice(flagBranchesNameConstant, nil, flagBranchesDescriptionConstant)
	flagutils.AddToggleFlag(command.Flags(), &interactiveSetting, flagInteractiveNameConstant, flagInteractiveShorthand, configuration.Interactive, flagInteractiveDescription)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string, interactiveSetting bool) error {
	baseReference := strings.TrimSpace(arguments[0])
	if len(baseReference) == 0 {
		return ErrMissingBaseRef
	}

	branchFlagValues, branchFlagError := command.Flags().GetStringSlice(flagBranchesNameConstant)
	if branchFlagError != nil {
		return branchFlagError
	}
	requestedBranches := make([]string, 0, len(branchFlagValues))
	for _, branchFlagValue := range branchFlagValues {
		trimmedBranch := strings.TrimSpace(branchFlagValue)
		if len(trimmedBranch) == 0 {
			continue
		}
		requestedBranches = append(requestedBranches, trimmedBranch)
	}

	// Configuration loads after Build, so the persisted default is read here
	// unless the flag was supplied explicitly.
	interactiveEnabled := interactiveSetting
	if !command.Flags().Changed(flagInteractiveNameConstant) {
		interactiveEnabled = builder.resolveConfiguration().Interactive
	}

	logger := builder.resolveLogger()
	if configurationFilePath, configurationFilePathAvailable := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context()); configurationFilePathAvailable {
		logger.Debug(configurationFileLogMessage, zap.String(configurationFileLogField, configurationFilePath))
	}
	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())

	repository, repositoryError := builder.resolveRepository(logger, outputWriter)
	if repositoryError != nil {
		return repositoryError
	}

	if resolveError := repository.ResolveRef(command.Context(), baseReference); resolveError != nil {
		return resolveError
	}
	for _, requestedBranch := range requestedBranches {
		if resolveError := repository.ResolveRef(command.Context(), requestedBranch); resolveError != nil {
			return resolveError
		}
	}

	service, serviceError := NewService(ServiceDependencies{
		Repository: repository,
		Prompter:   builder.resolvePrompter(command),
		Output:     outputWriter,
		Logger:     logger,
	})
	if serviceError != nil {
		return serviceError
	}

	_, runError := service.Run(command.Context(), CommandOptions{
		BaseRef:     baseReference,
		Branches:    requestedBranches,
		Interactive: interactiveEnabled,
	})
	return runError
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveRepository(logger *zap.Logger, echoWriter io.Writer) (Repository, error) {
	if builder.Repository != nil {
		return builder.Repository, nil
	}

	executor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if executorError != nil {
		return nil, executorError
	}

	observer := builder.CommandEventsObserver
	if observer == nil {
		observer = ui.NewCommandEchoPrinter(echoWriter)
	}
	executor.SetEventObserver(observer)

	return gitrepo.NewRepositoryManager(executor)
}

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command) ConfirmationPrompter {
	if builder.Prompter != nil {
		return builder.Prompter
	}
	return NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())
}
