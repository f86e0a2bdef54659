package tests

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	configurationInitializedLogConstant = "\"msg\":\"configuration initialized\""
	logLevelEnvironmentKeyConstant      = "REBASE_BRANCHES_COMMON_LOG_LEVEL"
)

func runRebaseBranchesWithEnvironment(testInstance *testing.T, repositoryDirectory string, extraEnvironment []string, arguments ...string) (string, int) {
	testInstance.Helper()

	executionContext, cancelFunction := context.WithTimeout(context.Background(), integrationCommandTimeout)
	defer cancelFunction()

	command := exec.CommandContext(executionContext, rebaseBranchesBinary(testInstance), arguments...)
	command.Dir = repositoryDirectory
	command.Env = append(os.Environ(), extraEnvironment...)

	outputBytes, runError := command.CombinedOutput()
	outputText := string(outputBytes)
	if runError == nil {
		return outputText, 0
	}

	exitError, isExitError := runError.(*exec.ExitError)
	if !isExitError {
		testInstance.Fatalf("unable to run rebase-branches: %v\n%s", runError, outputText)
	}
	return outputText, exitError.ExitCode()
}

func TestConfigurationControlsDiagnosticVerbosity(testInstance *testing.T) {
	repositoryDirectory := createRepositoryFixture(testInstance)
	commitRepositoryFile(testInstance, repositoryDirectory, "notes.txt", "first\n", "initial commit")

	testCases := []struct {
		name                      string
		extraEnvironment          []string
		arguments                 []string
		expectedDiagnosticVisible bool
	}{
		{
			name:      "default_info_level",
			arguments: []string{"main"},
		},
		{
			name:                      "debug_flag",
			arguments:                 []string{"--log-level=debug", "main"},
			expectedDiagnosticVisible: true,
		},
		{
			name:                      "debug_environment",
			extraEnvironment:          []string{logLevelEnvironmentKeyConstant + "=debug"},
			arguments:                 []string{"main"},
			expectedDiagnosticVisible: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			outputText, exitCode := runRebaseBranchesWithEnvironment(subtest, repositoryDirectory, testCase.extraEnvironment, testCase.arguments...)

			require.Zero(subtest, exitCode, outputText)
			if testCase.expectedDiagnosticVisible {
				require.Contains(subtest, outputText, configurationInitializedLogConstant)
			} else {
				require.NotContains(subtest, outputText, configurationInitializedLogConstant)
			}
		})
	}
}
