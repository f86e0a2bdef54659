package tests

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	integrationCommandTimeout      = 60 * time.Second
	integrationAuthorNameConstant  = "Integration Test"
	integrationAuthorEmailConstant = "integration@example.com"
)

func runGitCommand(testInstance *testing.T, repositoryDirectory string, arguments ...string) string {
	testInstance.Helper()

	command := exec.Command("git", arguments...)
	command.Dir = repositoryDirectory
	command.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME="+integrationAuthorNameConstant,
		"GIT_AUTHOR_EMAIL="+integrationAuthorEmailConstant,
		"GIT_COMMITTER_NAME="+integrationAuthorNameConstant,
		"GIT_COMMITTER_EMAIL="+integrationAuthorEmailConstant,
	)

	outputBytes, runError := command.CombinedOutput()
	if runError != nil {
		testInstance.Fatalf("git %s failed: %v\n%s", strings.Join(arguments, " "), runError, string(outputBytes))
	}
	return strings.TrimSpace(string(outputBytes))
}

func writeRepositoryFile(testInstance *testing.T, repositoryDirectory string, fileName string, content string) {
	testInstance.Helper()

	filePath := filepath.Join(repositoryDirectory, fileName)
	if writeError := os.WriteFile(filePath, []byte(content), 0o600); writeError != nil {
		testInstance.Fatalf("unable to write %s: %v", filePath, writeError)
	}
}

func commitRepositoryFile(testInstance *testing.T, repositoryDirectory string, fileName string, content string, message string) {
	testInstance.Helper()

	writeRepositoryFile(testInstance, repositoryDirectory, fileName, content)
	runGitCommand(testInstance, repositoryDirectory, "add", fileName)
	runGitCommand(testInstance, repositoryDirectory, "commit", "-m", message)
}

func createRepositoryFixture(testInstance *testing.T) string {
	testInstance.Helper()

	repositoryDirectory := testInstance.TempDir()
	runGitCommand(testInstance, repositoryDirectory, "init", "--initial-branch=main")
	runGitCommand(testInstance, repositoryDirectory, "config", "user.name", integrationAuthorNameConstant)
	runGitCommand(testInstance, repositoryDirectory, "config", "user.email", integrationAuthorEmailConstant)
	return repositoryDirectory
}

func moduleRootDirectory(testInstance *testing.T) string {
	testInstance.Helper()

	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		testInstance.Fatalf("unable to determine working directory: %v", workingDirectoryError)
	}
	return filepath.Dir(workingDirectory)
}

var (
	rebaseBranchesBinaryOnce  sync.Once
	rebaseBranchesBinaryPath  string
	rebaseBranchesBinaryError error
)

func rebaseBranchesBinary(testInstance *testing.T) string {
	testInstance.Helper()

	moduleRoot := moduleRootDirectory(testInstance)
	rebaseBranchesBinaryOnce.Do(func() {
		binaryDirectory, tempDirectoryError := os.MkdirTemp("", "rebase-branches-binary")
		if tempDirectoryError != nil {
			rebaseBranchesBinaryError = tempDirectoryError
			return
		}
		rebaseBranchesBinaryPath = filepath.Join(binaryDirectory, "rebase-branches")
		buildCommand := exec.Command("go", "build", "-o", rebaseBranchesBinaryPath, ".")
		buildCommand.Dir = moduleRoot
		if outputBytes, buildError := buildCommand.CombinedOutput(); buildError != nil {
			rebaseBranchesBinaryError = fmt.Errorf("%v\n%s", buildError, string(outputBytes))
		}
	})
	if rebaseBranchesBinaryError != nil {
		testInstance.Fatalf("unable to build rebase-branches: %v", rebaseBranchesBinaryError)
	}
	return rebaseBranchesBinaryPath
}

func runRebaseBranches(testInstance *testing.T, repositoryDirectory string, arguments ...string) (string, int) {
	testInstance.Helper()

	executionContext, cancelFunction := context.WithTimeout(context.Background(), integrationCommandTimeout)
	defer cancelFunction()

	command := exec.CommandContext(executionContext, rebaseBranchesBinary(testInstance), arguments...)
	command.Dir = repositoryDirectory
	command.Env = os.Environ()

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
