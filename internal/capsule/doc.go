// Package capsule holds the value types shared by the time-capsule creation
// flow: the step-1 form, its attachments and their upload results.
//
// FormData is mutable and owned by whoever is editing it (the wizard's INFO
// step). Snapshot is the frozen copy handed to later steps; it never exposes
// its internals by reference.
package capsule
