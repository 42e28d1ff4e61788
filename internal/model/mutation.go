// Package model defines the data structures shared by the mutation runner.
package model

// BaselineID selects no mutation inside the instrumented binary.
const BaselineID uint = 0

// Mutation is the structured form of one catalog entry generated by the
// instrumentation plugin. ID 0 is reserved for "no mutation active" and is
// never listed in a catalog.
type Mutation struct {
	ID          uint
	Description string
	Span        string // source span of the original expression
}
