// Package ui renders the one-shot output of pakrecharge commands.
//
// Commands such as `pakrecharge check` print a header describing what was
// checked followed by a result box. Unlike the interactive form in
// internal/tui, nothing here waits for input: components render to a string
// and a Printer writes them out.
//
// # Components
//
//   - Header: command banner with the parameters being checked
//   - Result: success, failure or warning box with ordered details and an
//     optional list of field problems
//
// # Usage Example
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader(ui.HeaderConfig{
//	    Title:   "Top-up check",
//	    Command: "pakrecharge check",
//	    Params:  []ui.Detail{{Key: "Network", Value: "jazz"}},
//	})
//	p.PrintResult(ui.NewSuccessResult("Top-up is valid", nil))
//
// # Logging Integration
//
// Logging is silent unless PAKRECHARGE_LOG_LEVEL or --log-level is set, so
// the styled output is not interleaved with log lines.
package ui
