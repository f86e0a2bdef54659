package rebase_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tmarkov/rebase-branches/internal/rebase"
	"github.com/tmarkov/rebase-branches/internal/utils"
)

func buildTestCommand(testInstance *testing.T, repository rebase.Repository, prompter rebase.ConfirmationPrompter) (*bytes.Buffer, func(arguments ...string) error) {
	builder := &rebase.CommandBuilder{
		Repository: repository,
		Prompter:   prompter,
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)

	return outputBuffer, func(arguments ...string) error {
		command.SetArgs(arguments)
		return command.ExecuteContext(context.Background())
	}
}

func TestCommandBuilderRegistersFlags(testInstance *testing.T) {
	builder := &rebase.CommandBuilder{}
	command, buildError := builder.Build()

	require.NoError(testInstance, buildError)
	require.Equal(testInstance, "rebase-branches <base-ref>", command.Use)
	require.NotNil(testInstance, command.Flags().Lookup("branches"))
	interactiveFlag := command.Flags().Lookup("interactive")
	require.NotNil(testInstance, interactiveFlag)
	require.Equal(testInstance, "i", interactiveFlag.Shorthand)
	require.Equal(testInstance, "true", interactiveFlag.NoOptDefVal)
}

func TestCommandRebasesExplicitBranchesAfterValidation(testInstance *testing.T) {
	repository := &scriptedRepository{currentRefValue: "main"}
	_, execute := buildTestCommand(testInstance, repository, &scriptedPrompter{})

	require.NoError(testInstance, execute("--branches", "topic", "main"))
	require.Equal(testInstance, []string{
		"resolve main",
		"resolve topic",
		"status-check",
		"current-ref",
		"rebase main topic",
		"checkout main",
	}, repository.calls)
}

func TestCommandFailsFastWhenBaseRefDoesNotResolve(testInstance *testing.T) {
	resolutionError := errors.New("fatal: bad revision 'missing'")
	repository := &scriptedRepository{
		resolveErrors: map[string]error{"missing": resolutionError},
	}
	_, execute := buildTestCommand(testInstance, repository, &scriptedPrompter{})

	require.ErrorIs(testInstance, execute("missing"), resolutionError)
	require.Equal(testInstance, []string{"resolve missing"}, repository.calls)
}

func TestCommandFailsFastWhenRequestedBranchDoesNotResolve(testInstance *testing.T) {
	resolutionError := errors.New("fatal: bad revision 'ghost'")
	repository := &scriptedRepository{
		resolveErrors: map[string]error{"ghost": resolutionError},
	}
	_, execute := buildTestCommand(testInstance, repository, &scriptedPrompter{})

	require.ErrorIs(testInstance, execute("--branches", "ghost", "main"), resolutionError)
	require.NotContains(testInstance, repository.calls, "rebase main ghost")
}

func TestCommandInteractiveShorthandEnablesPrompts(testInstance *testing.T) {
	repository := &scriptedRepository{
		currentRefValue:    "main",
		uncommittedChanges: true,
	}
	prompter := &scriptedPrompter{responses: []bool{false}}
	_, execute := buildTestCommand(testInstance, repository, prompter)

	require.ErrorIs(testInstance, execute("-i", "--branches", "topic", "main"), rebase.ErrRunCanceled)
	require.Len(testInstance, prompter.prompts, 1)
}

func TestCommandUsesConfiguredInteractiveDefault(testInstance *testing.T) {
	repository := &scriptedRepository{
		currentRefValue:    "main",
		uncommittedChanges: true,
	}
	prompter := &scriptedPrompter{responses: []bool{false}}
	builder := &rebase.CommandBuilder{
		Repository:            repository,
		Prompter:              prompter,
		ConfigurationProvider: func() rebase.CommandConfiguration { return rebase.CommandConfiguration{Interactive: true} },
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"--branches", "topic", "main"})

	require.ErrorIs(testInstance, command.ExecuteContext(context.Background()), rebase.ErrRunCanceled)
	require.Len(testInstance, prompter.prompts, 1)
}

func TestCommandRejectsBlankBaseRef(testInstance *testing.T) {
	repository := &scriptedRepository{}
	_, execute := buildTestCommand(testInstance, repository, &scriptedPrompter{})

	require.ErrorIs(testInstance, execute("   "), rebase.ErrMissingBaseRef)
	require.Empty(testInstance, repository.calls)
}

func TestCommandLogsConfigurationFilePathFromContext(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zap.DebugLevel)
	repository := &scriptedRepository{currentRefValue: "main"}
	builder := &rebase.CommandBuilder{
		Repository:     repository,
		Prompter:       &scriptedPrompter{},
		LoggerProvider: func() *zap.Logger { return zap.New(observerCore) },
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"--branches", "topic", "main"})

	executionContext := utils.NewCommandContextAccessor().WithConfigurationFilePath(context.Background(), "/workspace/config.yaml")
	require.NoError(testInstance, command.ExecuteContext(executionContext))

	configurationEntries := observedLogs.FilterMessage("using configuration file").All()
	require.Len(testInstance, configurationEntries, 1)
	require.Equal(testInstance, "/workspace/config.yaml", configurationEntries[0].ContextMap()["path"])
}

func TestCommandEchoesDefaultBranchListing(testInstance *testing.T) {
	repository := &scriptedRepository{
		currentRefValue: "main",
		listedBranches:  []string{"feature"},
		rawListing:      "feature\n",
	}
	outputBuffer, execute := buildTestCommand(testInstance, repository, &scriptedPrompter{})

	require.NoError(testInstance, execute("main"))
	require.Contains(testInstance, outputBuffer.String(), "feature\n")
	require.Contains(testInstance, outputBuffer.String(), "- feature (succeeded)")
}
