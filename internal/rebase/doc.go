// Package rebase implements the batch branch rebasing workflow: it computes or
// accepts a set of branches, rebases each onto a base ref, and restores the
// operator's stashed changes and original checkout when the run ends.
//
// It exposes CommandBuilder for wiring the Cobra command, Service for driving
// the workflow programmatically, and WorkingStateGuard for the stash and
// checkout restoration semantics.
package rebase
