// Package gitrepo exposes typed repository-level git operations built on the
// shared shell executor: ref resolution, branch listing, stash management,
// checkout, and rebase control for the working tree the process runs in.
package gitrepo
