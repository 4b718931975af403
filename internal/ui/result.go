package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Problem is a message attached to a named field
type Problem struct {
	Field   string
	Message string
}

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type     ResultType // Success, failure, or warning
	Title    string     // e.g., "Top-up completed"
	Details  []Detail   // Ordered key-value details
	Problems []Problem  // Field problems (validation failures)
	Error    error      // Error (for failure results)
	Width    int        // Terminal width
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details []Detail) *Result {
	return &Result{
		Type:    ResultSuccess,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error) *Result {
	return &Result{
		Type:  ResultFailure,
		Title: title,
		Error: err,
		Width: GetTerminalWidth(),
	}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, details []Detail) *Result {
	return &Result{
		Type:    ResultWarning,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail key-value pair
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Detail{Key: key, Value: value})
	return r
}

// AddProblem appends a field problem
func (r *Result) AddProblem(field, message string) *Result {
	r.Problems = append(r.Problems, Problem{Field: field, Message: message})
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := r.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var title string
	var color lipgloss.Color
	switch r.Type {
	case ResultFailure:
		title = ErrorTitleStyle.Render(fmt.Sprintf("   %s  FAILED  ─  %s", FailureMarker, r.Title))
		color = ErrorColor
	case ResultWarning:
		title = WarningTitleStyle.Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, r.Title))
		color = WarningColor
	default:
		title = SuccessTitleStyle.Render(fmt.Sprintf("   %s  SUCCESS  ─  %s", SuccessMarker, r.Title))
		color = SuccessColor
	}

	lines := []string{"", title, ""}

	if r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Error.Error()), "")
	}

	for _, p := range r.Problems {
		lines = append(lines, fmt.Sprintf("   %s %s%s",
			BulletMarker, ProblemFieldStyle.Render(p.Field), ErrorMessageStyle.Render(p.Message)))
	}
	if len(r.Problems) > 0 {
		lines = append(lines, "")
	}

	for _, d := range r.Details {
		lines = append(lines, ResultKeyStyle.Render("   "+d.Key+":")+" "+ResultValueStyle.Render(d.Value))
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}

	return boxStyle(width, color).Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
