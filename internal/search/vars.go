package search

// Tunable search constants (spec.md §4.6.3, §4.6.8; SPEC_FULL.md §3
// "Tunable-parameter UCI options"). These are package-level vars rather
// than compile-time constants so internal/protocol's option table
// (modeled on the original engine's tunable.h) can rewrite them live via
// `setoption`, mirroring the teacher's chainable Limits.SetX pattern
// applied to package state instead of a struct.
var (
	CpuctDefault    = 1.5
	CpuctRoot       = 2.0
	CpuctVisitScale = 8192.0

	GiniBase   = 1.5
	GiniScalar = 0.05
	GiniMin    = 0.5
	GiniMax    = 1.5

	PolicyTemp     = 1.1
	RootPolicyTemp = 1.2

	MoveOverheadMs = 30

	UciReportingFrequencyMs = 100
)
