package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Detail is one labelled value. Order is preserved when rendering.
type Detail struct {
	Key   string
	Value string
}

// Header represents a command header with title, command, and parameters.
type Header struct {
	Title   string   // e.g., "TOP-UP CHECK"
	Command string   // e.g., "pakrecharge check"
	Params  []Detail // e.g., Network, Phone, Amount
	Width   int      // Terminal width for responsive rendering
}

// HeaderConfig is a convenience type for creating headers
type HeaderConfig struct {
	Title   string
	Command string
	Params  []Detail
}

// NewHeader creates a new header with the given values
func NewHeader(config HeaderConfig) *Header {
	return &Header{
		Title:   config.Title,
		Command: config.Command,
		Params:  config.Params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	top := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderCommandStyle.Render(h.Command),
	)

	content := top
	if len(h.Params) > 0 {
		lines := make([]string, 0, len(h.Params))
		for _, p := range h.Params {
			value := p.Value
			if value == "" {
				value = "-"
			}
			lines = append(lines, HeaderParamKeyStyle.Render(p.Key+":")+HeaderParamValueStyle.Render(value))
		}
		divider := RenderHorizontalDivider(width-6, "─")
		content = lipgloss.JoinVertical(lipgloss.Left, top, divider, strings.Join(lines, "\n"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
