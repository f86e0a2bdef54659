package ui

import (
	"fmt"
	"io"

	"github.com/tmarkov/rebase-branches/internal/execshell"
)

const (
	commandEchoTemplateConstant = "$ %s\n"
)

// CommandEchoPrinter echoes every shell command to the operator before it
// runs, rendered as the literal command line that would be typed.
type CommandEchoPrinter struct {
	writer    io.Writer
	formatter execshell.CommandMessageFormatter
}

// NewCommandEchoPrinter constructs an echo printer writing to the provided writer.
func NewCommandEchoPrinter(writer io.Writer) *CommandEchoPrinter {
	return &CommandEchoPrinter{writer: writer, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver by printing the command line.
func (printer *CommandEchoPrinter) CommandStarted(command execshell.ShellCommand) {
	if printer == nil || printer.writer == nil {
		return
	}
	fmt.Fprintf(printer.writer, commandEchoTemplateConstant, printer.formatter.FormatCommandLine(command))
}

// CommandCompleted implements execshell.CommandEventObserver; completion output
// is surfaced by the callers that requested it.
func (printer *CommandEchoPrinter) CommandCompleted(execshell.ShellCommand, execshell.ExecutionResult) {
}

// CommandExecutionFailed implements execshell.CommandEventObserver; execution
// failures propagate as errors through the executor.
func (printer *CommandEchoPrinter) CommandExecutionFailed(execshell.ShellCommand, error) {}
