package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/pakrecharge/topup/internal/form"
	"github.com/pakrecharge/topup/internal/logging"
	"github.com/pakrecharge/topup/internal/topup"
)

// Row is one line of the form that can take focus
type Row int

const (
	RowNetwork Row = iota
	RowDropdown
	RowPhone
	RowAmount
	RowCustomAmount
	RowPayment
	RowSubmit
	RowBundles
	rowCount
)

// loopMsg carries a continuation posted to the session's event loop
// (payment results, timer callbacks).
type loopMsg struct {
	fn func()
}

// FormModel is the interactive top-up form
type FormModel struct {
	App        *form.App
	Form       *form.MemoryView
	Dispatcher *form.Dispatcher
	Loop       *form.EventLoop // Optional; nil when the executor is inline

	ctx context.Context

	Cursor         Row
	OptionCursor   [rowCount]int // Horizontal position within each option row
	DropdownOpen   bool
	DropdownCursor int

	PhoneInput  textinput.Model
	CustomInput textinput.Model
	Spinner     spinner.Model

	// LastError holds a dispatch error that has no field slot of its own
	LastError string

	Width  int
	Height int

	Help help.Model
	Keys formKeyMap
}

// NewFormModel creates a form bound to app. The app's view must be doc.
func NewFormModel(ctx context.Context, app *form.App, doc *form.MemoryView, loop *form.EventLoop) FormModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	phone := textinput.New()
	phone.Placeholder = "03XX-XXXXXXX"
	phone.CharLimit = topup.PhoneDigits + 1
	phone.Width = 20

	custom := textinput.New()
	custom.Placeholder = "Rs. 10 - 10,000"
	custom.CharLimit = 8
	custom.Width = 20

	return FormModel{
		App:         app,
		Form:        doc,
		Dispatcher:  form.DefaultDispatcher(),
		Loop:        loop,
		ctx:         ctx,
		Cursor:      RowNetwork,
		PhoneInput:  phone,
		CustomInput: custom,
		Spinner:     s,
		Help:        help.New(),
		Keys:        newFormKeyMap(),
	}
}

// Init starts listening to the event loop
func (m FormModel) Init() tea.Cmd {
	return m.waitForLoop()
}

// waitForLoop delivers the next queued continuation as a loopMsg
func (m FormModel) waitForLoop() tea.Cmd {
	if m.Loop == nil {
		return nil
	}
	loop := m.Loop
	return func() tea.Msg {
		select {
		case fn := <-loop.Calls():
			return loopMsg{fn: fn}
		case <-loop.Done():
			return nil
		}
	}
}

// Update handles messages and updates the model
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case loopMsg:
		msg.fn()
		m.afterChange()
		updated, cmd := m.applyReveal()
		return updated, tea.Batch(cmd, updated.(FormModel).waitForLoop())

	case spinner.TickMsg:
		if m.Form.Submit() != form.SubmitLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m FormModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.DropdownOpen {
		return m.updateDropdown(msg)
	}

	switch {
	case key.Matches(msg, m.Keys.Up):
		return m.moveCursor(-1)
	case key.Matches(msg, m.Keys.Down):
		return m.moveCursor(1)
	case key.Matches(msg, m.Keys.Dismiss):
		if m.Form.Success().Visible {
			m.dispatch(form.Event{Name: form.EventDismissSuccess})
		}
		m.LastError = ""
		return m, nil
	}

	if m.isTextRow() {
		if msg.String() == "enter" {
			return m.moveCursor(1)
		}
		return m.updateTextRow(msg)
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Left):
		m.moveOption(-1)
	case key.Matches(msg, m.Keys.Right):
		m.moveOption(1)
	case key.Matches(msg, m.Keys.Select):
		return m.activate()
	}

	return m, nil
}

// moveCursor changes the focused row, firing blur for the custom amount
func (m FormModel) moveCursor(delta int) (tea.Model, tea.Cmd) {
	if m.Cursor == RowCustomAmount {
		m.dispatch(form.Event{Name: form.EventCustomAmountBlur})
	}

	next := (int(m.Cursor) + delta + int(rowCount)) % int(rowCount)
	return m.focusRow(Row(next))
}

func (m FormModel) focusRow(row Row) (tea.Model, tea.Cmd) {
	m.Cursor = row
	m.PhoneInput.Blur()
	m.CustomInput.Blur()

	switch row {
	case RowPhone:
		return m, m.PhoneInput.Focus()
	case RowCustomAmount:
		return m, m.CustomInput.Focus()
	}
	return m, nil
}

func (m FormModel) isTextRow() bool {
	return m.Cursor == RowPhone || m.Cursor == RowCustomAmount
}

// updateTextRow forwards keys to the focused input and reports changes
func (m FormModel) updateTextRow(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.Cursor {
	case RowPhone:
		before := m.PhoneInput.Value()
		m.PhoneInput, cmd = m.PhoneInput.Update(msg)
		if value := m.PhoneInput.Value(); value != before {
			m.dispatch(form.Event{Name: form.EventPhoneInput, Value: value})
		}

	case RowCustomAmount:
		before := m.CustomInput.Value()
		m.CustomInput, cmd = m.CustomInput.Update(msg)
		if value := m.CustomInput.Value(); value != before {
			m.dispatch(form.Event{Name: form.EventCustomAmountInput, Value: value})
		}
	}

	return m, cmd
}

// rowOptions returns the options shown horizontally on a row
func (m FormModel) rowOptions(row Row) []form.Option {
	switch row {
	case RowNetwork:
		return m.Form.Options(form.GroupNetwork)
	case RowAmount:
		return m.Form.Options(form.GroupAmount)
	case RowPayment:
		return m.Form.Options(form.GroupPayment)
	case RowBundles:
		bundles := m.App.Catalog.Bundles
		opts := make([]form.Option, len(bundles))
		for i, b := range bundles {
			opts[i] = form.Option{ID: b.Name, Value: b.Price, Label: b.Name}
		}
		return opts
	}
	return nil
}

func (m *FormModel) moveOption(delta int) {
	n := len(m.rowOptions(m.Cursor))
	if n == 0 {
		return
	}
	m.OptionCursor[m.Cursor] = (m.OptionCursor[m.Cursor] + delta + n) % n
}

// activate handles enter/space on a non-text row
func (m FormModel) activate() (tea.Model, tea.Cmd) {
	switch m.Cursor {
	case RowDropdown:
		m.DropdownOpen = true
		m.DropdownCursor = 0
		for i, opt := range m.Form.Options(form.GroupNetwork) {
			if opt.Value == m.Form.Network() {
				m.DropdownCursor = i + 1
			}
		}
		return m, nil

	case RowSubmit:
		if m.Form.Submit() != form.SubmitReady {
			return m, nil
		}
		m.dispatch(form.Event{Name: form.EventSubmit})
		if m.Form.Submit() == form.SubmitLoading {
			return m, m.Spinner.Tick
		}
		return m.applyReveal()
	}

	opts := m.rowOptions(m.Cursor)
	if len(opts) == 0 {
		return m, nil
	}
	opt := opts[m.OptionCursor[m.Cursor]]

	switch m.Cursor {
	case RowNetwork:
		m.dispatch(form.Event{Name: form.EventNetworkLogoClicked, Target: opt.ID})
	case RowAmount:
		m.dispatch(form.Event{Name: form.EventAmountTileClicked, Target: opt.ID})
	case RowPayment:
		m.dispatch(form.Event{Name: form.EventPaymentOptionClicked, Target: opt.ID})
	case RowBundles:
		m.dispatch(form.Event{Name: form.EventBundleChosen, Target: opt.ID, Price: opt.Value})
	}

	return m.applyReveal()
}

// updateDropdown handles keys while the network list is open. Entry 0 is
// the empty placeholder.
func (m FormModel) updateDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.Form.Options(form.GroupNetwork)) + 1

	switch msg.String() {
	case "up", "k":
		m.DropdownCursor = (m.DropdownCursor - 1 + n) % n
	case "down", "j":
		m.DropdownCursor = (m.DropdownCursor + 1) % n
	case "esc", "q":
		m.DropdownOpen = false
	case "enter", " ":
		value := ""
		if m.DropdownCursor > 0 {
			value = m.Form.Options(form.GroupNetwork)[m.DropdownCursor-1].Value
		}
		m.DropdownOpen = false
		m.dispatch(form.Event{Name: form.EventNetworkDropdownChanged, Value: value})
	}

	return m, nil
}

// dispatch sends an event to the form and refreshes local widgets
func (m *FormModel) dispatch(ev form.Event) {
	m.LastError = ""
	err := m.Dispatcher.Dispatch(m.ctx, m.App, ev)
	if err != nil && !topup.IsValidationError(err) {
		// Validation errors already sit under their fields
		m.LastError = topup.ShortMessage(err)
		logging.Debug("Form event rejected", zap.String("event", ev.Name), zap.Error(err))
	}
	m.afterChange()
}

// afterChange copies view state that the inputs mirror
func (m *FormModel) afterChange() {
	if v := m.Form.PhoneText(); m.PhoneInput.Value() != v {
		m.PhoneInput.SetValue(v)
		m.PhoneInput.CursorEnd()
	}
	if v := m.Form.CustomAmount(); m.CustomInput.Value() != v {
		m.CustomInput.SetValue(v)
		m.CustomInput.CursorEnd()
	}
}

// applyReveal moves focus to whatever the form asked to bring into view
func (m FormModel) applyReveal() (tea.Model, tea.Cmd) {
	switch m.Form.TakeReveal() {
	case form.RevealForm:
		return m.focusRow(RowNetwork)
	case form.RevealSuccess:
		return m.focusRow(RowSubmit)
	}
	return m, nil
}
