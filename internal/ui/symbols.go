package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // step completed
	SymbolFail     = "✗" // step failed
	SymbolPending  = "○" // not yet started
	SymbolComplete = "●" // done (alternative to success)
	SymbolSkipped  = "⊘" // skipped
	SymbolWarning  = "⚠" // degraded or partial result
)
