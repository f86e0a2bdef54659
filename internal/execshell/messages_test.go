package execshell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tmarkov/rebase-branches/internal/execshell"
)

func gitCommand(arguments ...string) execshell.ShellCommand {
	return execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: arguments}}
}

func TestFormatCommandLine(testInstance *testing.T) {
	testCases := []struct {
		name         string
		command      execshell.ShellCommand
		expectedLine string
	}{
		{
			name:         "plain_arguments",
			command:      gitCommand("rebase", "main", "feature/login"),
			expectedLine: "git rebase main feature/login",
		},
		{
			name:         "argument_with_spaces",
			command:      gitCommand("stash", "push", "-m", "work in progress"),
			expectedLine: "git stash push -m 'work in progress'",
		},
		{
			name:         "config_option",
			command:      gitCommand("-c", "advice.detachedHead=false", "checkout", "main"),
			expectedLine: "git -c advice.detachedHead=false checkout main",
		},
	}

	formatter := execshell.CommandMessageFormatter{}
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedLine, formatter.FormatCommandLine(testCase.command))
		})
	}
}

func TestBuildFailureMessageDescribesGitVerbs(testInstance *testing.T) {
	testCases := []struct {
		name            string
		command         execshell.ShellCommand
		result          execshell.ExecutionResult
		expectedMessage string
	}{
		{
			name:            "revision_resolution",
			command:         gitCommand("log", "-n1", "missing-ref", "--"),
			result:          execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: bad revision 'missing-ref'"},
			expectedMessage: "unable to resolve missing-ref (exit code 128: fatal: bad revision 'missing-ref')",
		},
		{
			name:            "rebase_conflict",
			command:         gitCommand("rebase", "main", "feature"),
			result:          execshell.ExecutionResult{ExitCode: 1},
			expectedMessage: "rebase of feature onto main failed (exit code 1)",
		},
		{
			name:            "rebase_abort",
			command:         gitCommand("rebase", "--abort"),
			result:          execshell.ExecutionResult{ExitCode: 1},
			expectedMessage: "unable to abort in-progress rebase (exit code 1)",
		},
		{
			name:            "checkout_with_config_option",
			command:         gitCommand("-c", "advice.detachedHead=false", "checkout", "main"),
			result:          execshell.ExecutionResult{ExitCode: 1},
			expectedMessage: "unable to check out main (exit code 1)",
		},
		{
			name:            "stash_pop",
			command:         gitCommand("stash", "pop"),
			result:          execshell.ExecutionResult{ExitCode: 1},
			expectedMessage: "unable to restore stashed changes (exit code 1)",
		},
	}

	formatter := execshell.CommandMessageFormatter{}
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedMessage, formatter.BuildFailureMessage(testCase.command, testCase.result))
		})
	}
}

func TestBuildExecutionFailureMessage(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}
	message := formatter.BuildExecutionFailureMessage(gitCommand("status"), errors.New("executable not found"))
	require.Equal(testInstance, "git status failed: executable not found", message)
}
