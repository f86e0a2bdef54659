// Package execshell provides structured helpers for invoking git.
//
// It wraps os/exec with logging and command echoing via ShellExecutor,
// exposes OSCommandRunner for default process execution, and defines the
// abstractions rebase-branches uses to run git in a testable manner.
package execshell
