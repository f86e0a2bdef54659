package execshell

import (
	"fmt"
	"strings"
)

const (
	commandLineJoinSeparatorConstant       = " "
	quotedArgumentTemplateConstant         = "'%s'"
	singleQuoteConstant                    = "'"
	escapedSingleQuoteConstant             = `'\''`
	plainArgumentSafeCharactersConstant    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_=/.,:@%+{}"
	emptyStringConstant                    = ""
	flagPrefixConstant                     = "-"
	genericFailureTemplateConstant         = "%s failed with exit code %d%s"
	genericExecutionFailureTemplate        = "%s failed: %s"
	standardErrorSuffixTemplateConstant    = ": %s"
	unknownFailureMessageConstant          = "unknown error"
	workingDirectorySuffixTemplateConstant = " (in %s)"
)

const (
	gitLogSubcommandNameConstant      = "log"
	gitRevParseSubcommandNameConstant = "rev-parse"
	gitBranchSubcommandNameConstant   = "branch"
	gitStatusSubcommandNameConstant   = "status"
	gitStashSubcommandNameConstant    = "stash"
	gitCheckoutSubcommandNameConstant = "checkout"
	gitRebaseSubcommandNameConstant   = "rebase"
	gitConfigOptionFlagConstant       = "-c"
	gitStashPushSubcommandConstant    = "push"
	gitStashPopSubcommandConstant     = "pop"
	gitRebaseAbortFlagConstant        = "--abort"
)

const (
	gitRevisionFailureTemplateConstant      = "unable to resolve %s (exit code %d%s)"
	gitBranchListingFailureTemplateConstant = "unable to list branches (exit code %d%s)"
	gitStatusFailureTemplateConstant        = "unable to review working tree status (exit code %d%s)"
	gitStashPushFailureTemplateConstant     = "unable to stash local changes (exit code %d%s)"
	gitStashPopFailureTemplateConstant      = "unable to restore stashed changes (exit code %d%s)"
	gitCheckoutFailureTemplateConstant      = "unable to check out %s (exit code %d%s)"
	gitRebaseFailureTemplateConstant        = "rebase of %s onto %s failed (exit code %d%s)"
	gitRebaseAbortFailureTemplateConstant   = "unable to abort in-progress rebase (exit code %d%s)"
	fallbackUnknownValueLabelConstant       = "unknown"
)

// CommandMessageFormatter builds human-readable descriptions of shell commands
// and their outcomes, recognizing the git verbs this tool issues.
type CommandMessageFormatter struct{}

// FormatCommandLine renders the command the way an operator would type it,
// quoting arguments that would require quoting in a shell.
func (formatter CommandMessageFormatter) FormatCommandLine(command ShellCommand) string {
	commandTokens := make([]string, 0, len(command.Details.Arguments)+1)
	commandTokens = append(commandTokens, formatter.quoteArgument(string(command.Name)))
	for _, argument := range command.Details.Arguments {
		commandTokens = append(commandTokens, formatter.quoteArgument(argument))
	}
	return strings.Join(commandTokens, commandLineJoinSeparatorConstant)
}

// BuildFailureMessage describes a command completing with a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	if command.Name == CommandGit {
		if gitMessage := formatter.describeGitFailure(command, result); len(gitMessage) > 0 {
			return gitMessage
		}
	}
	return fmt.Sprintf(
		genericFailureTemplateConstant,
		formatter.FormatCommandLine(command),
		result.ExitCode,
		formatter.formatStandardErrorSuffix(result.StandardError),
	) + formatter.formatWorkingDirectorySuffix(command)
}

// BuildExecutionFailureMessage describes a command that never produced a result.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(genericExecutionFailureTemplate, formatter.FormatCommandLine(command), failureMessage)
}

func (formatter CommandMessageFormatter) describeGitFailure(command ShellCommand, result ExecutionResult) string {
	arguments := formatter.argumentsWithoutConfigOptions(command.Details.Arguments)
	if len(arguments) == 0 {
		return emptyStringConstant
	}

	exitCode := result.ExitCode
	standardErrorSuffix := formatter.formatStandardErrorSuffix(result.StandardError)

	switch arguments[0] {
	case gitLogSubcommandNameConstant, gitRevParseSubcommandNameConstant:
		return fmt.Sprintf(gitRevisionFailureTemplateConstant, formatter.extractFirstNonFlagArgument(arguments[1:]), exitCode, standardErrorSuffix)
	case gitBranchSubcommandNameConstant:
		return fmt.Sprintf(gitBranchListingFailureTemplateConstant, exitCode, standardErrorSuffix)
	case gitStatusSubcommandNameConstant:
		return fmt.Sprintf(gitStatusFailureTemplateConstant, exitCode, standardErrorSuffix)
	case gitStashSubcommandNameConstant:
		return formatter.describeGitStashFailure(arguments, exitCode, standardErrorSuffix)
	case gitCheckoutSubcommandNameConstant:
		return fmt.Sprintf(gitCheckoutFailureTemplateConstant, formatter.extractFirstNonFlagArgument(arguments[1:]), exitCode, standardErrorSuffix)
	case gitRebaseSubcommandNameConstant:
		return formatter.describeGitRebaseFailure(arguments, exitCode, standardErrorSuffix)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeGitStashFailure(arguments []string, exitCode int, standardErrorSuffix string) string {
	if len(arguments) < 2 {
		return emptyStringConstant
	}
	switch arguments[1] {
	case gitStashPushSubcommandConstant:
		return fmt.Sprintf(gitStashPushFailureTemplateConstant, exitCode, standardErrorSuffix)
	case gitStashPopSubcommandConstant:
		return fmt.Sprintf(gitStashPopFailureTemplateConstant, exitCode, standardErrorSuffix)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeGitRebaseFailure(arguments []string, exitCode int, standardErrorSuffix string) string {
	if containsArgument(arguments, gitRebaseAbortFlagConstant) {
		return fmt.Sprintf(gitRebaseAbortFailureTemplateConstant, exitCode, standardErrorSuffix)
	}

	positionalArguments := formatter.nonFlagArguments(arguments[1:])
	baseReference := fallbackUnknownValueLabelConstant
	rebasedReference := fallbackUnknownValueLabelConstant
	if len(positionalArguments) > 0 {
		baseReference = positionalArguments[0]
	}
	if len(positionalArguments) > 1 {
		rebasedReference = positionalArguments[1]
	}
	return fmt.Sprintf(gitRebaseFailureTemplateConstant, rebasedReference, baseReference, exitCode, standardErrorSuffix)
}

// argumentsWithoutConfigOptions strips leading "-c key=value" pairs so that
// subcommand detection works for invocations such as
// "git -c advice.detachedHead=false checkout main".
func (formatter CommandMessageFormatter) argumentsWithoutConfigOptions(arguments []string) []string {
	remaining := arguments
	for len(remaining) >= 2 && remaining[0] == gitConfigOptionFlagConstant {
		remaining = remaining[2:]
	}
	return remaining
}

func (formatter CommandMessageFormatter) nonFlagArguments(arguments []string) []string {
	positionalArguments := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		if strings.HasPrefix(argument, flagPrefixConstant) {
			continue
		}
		positionalArguments = append(positionalArguments, argument)
	}
	return positionalArguments
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	positionalArguments := formatter.nonFlagArguments(arguments)
	if len(positionalArguments) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return positionalArguments[0]
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) quoteArgument(argument string) string {
	if len(argument) == 0 {
		return fmt.Sprintf(quotedArgumentTemplateConstant, emptyStringConstant)
	}
	if formatter.argumentIsPlain(argument) {
		return argument
	}
	escapedArgument := strings.ReplaceAll(argument, singleQuoteConstant, escapedSingleQuoteConstant)
	return fmt.Sprintf(quotedArgumentTemplateConstant, escapedArgument)
}

func (formatter CommandMessageFormatter) argumentIsPlain(argument string) bool {
	for _, character := range argument {
		if !strings.ContainsRune(plainArgumentSafeCharactersConstant, character) {
			return false
		}
	}
	return true
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if argument == value {
			return true
		}
	}
	return false
}
