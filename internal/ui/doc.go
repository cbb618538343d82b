// Package ui provides terminal UI components for pmx's CLI output.
//
// The package includes the spinner, simple table rendering, and styled text
// output using the Lip Gloss library for consistent terminal styling across
// all commands.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess (green)  - Successful operations
//	ColorError   (red)    - Failures and errors
//	ColorWarning (yellow) - Warnings and degraded results
//	ColorInfo    (cyan)   - Informational notes
//	ColorMuted   (gray)   - Secondary text, timing info
//
// Use DisableColors() to switch to monochrome output (for --no-color flag).
//
// # Symbols
//
// Unicode symbols provide visual status indicators:
//
//	SymbolSuccess  (checkmark) - Completed successfully
//	SymbolFail     (X)         - Failed
//	SymbolPending  (circle)    - Not yet started
//	SymbolComplete (filled)    - Done (alternative)
//	SymbolSkipped  (slashed)   - Skipped
//
// # Spinner Usage
//
// The Spinner type provides an animated indicator for operations:
//
//	s := ui.NewSpinner("Connecting")
//	s.Start()
//	// ... do work ...
//	s.Success() // or s.Fail()
//
// The spinner handles terminal output, clearing lines, and timing display.
//
// # Tables
//
// RenderSimpleTable produces non-interactive tables for plain command
// output, and RenderDoctorTable formats diagnostic results grouped by
// category. The interactive dashboard builds its own Bubble Tea table and
// lives in the monitor package.
package ui
