package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pakrecharge/topup/internal/form"
	"github.com/pakrecharge/topup/internal/topup"
)

var rowLabels = [rowCount]string{
	RowNetwork:      "Network",
	RowDropdown:     "Network list",
	RowPhone:        "Phone number",
	RowAmount:       "Amount",
	RowCustomAmount: "Custom amount",
	RowPayment:      "Payment method",
	RowSubmit:       "",
	RowBundles:      "Bundles",
}

// rowField is the error slot rendered under each row
var rowField = map[Row]topup.Field{
	RowNetwork:      topup.FieldNetwork,
	RowPhone:        topup.FieldPhone,
	RowAmount:       topup.FieldAmount,
	RowCustomAmount: topup.FieldCustomAmount,
	RowPayment:      topup.FieldPaymentMethod,
	RowSubmit:       topup.FieldSubmit,
}

// View renders the form inside the application container
func (m FormModel) View() string {
	width, height := m.Width, m.Height
	if width == 0 {
		width = MinTerminalWidth
	}
	if height == 0 {
		height = MinTerminalHeight
	}

	m.Help.Width = width - 6
	return RenderApplicationContainer(m.buildContent(), m.Help.View(m.Keys), width, height)
}

func (m FormModel) buildContent() string {
	var b strings.Builder

	if n := m.Form.Notification(); n.Visible {
		b.WriteString(NotificationStyle.Render(n.Message))
		b.WriteString("\n\n")
	}
	if m.LastError != "" {
		b.WriteString(ErrorBannerStyle.Render("✗ " + m.LastError))
		b.WriteString("\n\n")
	}

	for row := Row(0); row < rowCount; row++ {
		b.WriteString(m.renderRow(row))
		b.WriteString("\n")

		if field, ok := rowField[row]; ok {
			if msg := m.Form.FieldError(field); msg != "" {
				b.WriteString(FieldErrorStyle.Render(msg))
				b.WriteString("\n")
			}
		}

		switch row {
		case RowDropdown:
			if m.DropdownOpen {
				b.WriteString(m.renderDropdown())
				b.WriteString("\n")
			}
		case RowSubmit:
			if m.Form.Success().Visible {
				b.WriteString(m.renderSuccessPanel())
				b.WriteString("\n")
			}
		case RowBundles:
			if hint := m.bundleHint(); hint != "" {
				b.WriteString(HintStyle.Render(hint))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func (m FormModel) renderRow(row Row) string {
	focused := m.Cursor == row

	arrow := "  "
	label := LabelStyle.Render(rowLabels[row])
	if focused {
		arrow = "→ "
		label = FocusedLabelStyle.Render(rowLabels[row])
	}

	var body string
	switch row {
	case RowNetwork:
		body = m.renderOptions(row, form.GroupNetwork)
	case RowAmount:
		body = m.renderOptions(row, form.GroupAmount)
	case RowPayment:
		body = m.renderOptions(row, form.GroupPayment)
	case RowBundles:
		body = m.renderOptions(row, "")
	case RowDropdown:
		body = m.networkLabel(m.Form.Network()) + " ▼"
	case RowPhone:
		body = m.PhoneInput.View()
	case RowCustomAmount:
		body = m.CustomInput.View()
	case RowSubmit:
		body = m.renderSubmit(focused)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, arrow, label, body)
}

// renderOptions draws a row of options. Selected options are filled; the
// horizontal cursor is underlined on the focused row.
func (m FormModel) renderOptions(row Row, group form.Group) string {
	opts := m.rowOptions(row)
	parts := make([]string, 0, len(opts))

	for i, opt := range opts {
		label := opt.Label
		if row == RowBundles {
			label = fmt.Sprintf("%s (%s)", opt.Label, opt.Value)
		}

		selected := group != "" && m.Form.IsSelected(group, opt.ID)
		atCursor := m.Cursor == row && m.OptionCursor[row] == i

		style := OptionStyle
		switch {
		case selected && atCursor:
			style = SelectedOptionStyle
			label = "›" + label
		case selected:
			style = SelectedOptionStyle
		case atCursor:
			style = CursorOptionStyle
		}
		parts = append(parts, style.Render(label))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m FormModel) renderSubmit(focused bool) string {
	switch m.Form.Submit() {
	case form.SubmitLoading:
		return m.Spinner.View() + " Processing payment..."
	case form.SubmitDisabled:
		return DisabledButtonStyle.Render("[ Top Up Now ]")
	}
	if focused {
		return FocusedButtonStyle.Render("[ Top Up Now ]")
	}
	return ButtonStyle.Render("[ Top Up Now ]")
}

func (m FormModel) renderDropdown() string {
	lines := []string{m.dropdownLine(0, "Select network")}
	for i, opt := range m.Form.Options(form.GroupNetwork) {
		lines = append(lines, m.dropdownLine(i+1, opt.Label))
	}
	return DropdownStyle.Render(strings.Join(lines, "\n"))
}

func (m FormModel) dropdownLine(index int, label string) string {
	if index == m.DropdownCursor {
		return SelectedOptionStyle.Render("→ " + label)
	}
	return OptionStyle.Render("  " + label)
}

func (m FormModel) renderSuccessPanel() string {
	panel := m.Form.Success()
	lines := []string{
		SuccessTitleStyle.Render("✓ Top-up Successful!"),
		"",
		"Phone:  " + panel.Phone,
		"Amount: " + panel.Amount,
		"",
		HintStyle.UnsetPaddingLeft().Render("Press esc to start a new top-up"),
	}
	return SuccessPanelStyle.Render(strings.Join(lines, "\n"))
}

// bundleHint describes the bundle under the cursor while the row is focused
func (m FormModel) bundleHint() string {
	if m.Cursor != RowBundles {
		return ""
	}
	bundles := m.App.Catalog.Bundles
	if len(bundles) == 0 {
		return ""
	}
	return bundles[m.OptionCursor[RowBundles]].Details
}

// networkLabel returns the display name for a network value
func (m FormModel) networkLabel(value string) string {
	if value == "" {
		return "Select network"
	}
	for _, opt := range m.Form.Options(form.GroupNetwork) {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}
