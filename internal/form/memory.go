package form

import "github.com/pakrecharge/topup/internal/topup"

// SuccessPanel is the confirmation shown after a completed payment
type SuccessPanel struct {
	Visible bool   `json:"visible"`
	Phone   string `json:"phone"`
	Amount  string `json:"amount"`
}

// Notification is the transient banner shown after choosing a bundle
type Notification struct {
	Visible bool   `json:"visible"`
	Message string `json:"message"`
}

// Snapshot is a serialisable copy of a MemoryView
type Snapshot struct {
	Network       string                 `json:"network"`
	Phone         string                 `json:"phone"`
	Amount        string                 `json:"amount"`
	CustomAmount  string                 `json:"customAmount"`
	PaymentMethod string                 `json:"paymentMethod"`
	Selected      map[Group][]string     `json:"selected"`
	Errors        map[topup.Field]string `json:"errors"`
	Submit        SubmitState            `json:"submit"`
	Success       SuccessPanel           `json:"success"`
	Notification  Notification           `json:"notification"`
	Reveal        Target                 `json:"reveal,omitempty"`
	Phase         string                 `json:"phase,omitempty"`
}

// SelectedID returns the single selected option of a group, or "".
func (s Snapshot) SelectedID(group Group) string {
	if ids := s.Selected[group]; len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// MemoryView is an in-memory FormView. It is not safe for concurrent use;
// a session touches it from its own event loop only.
type MemoryView struct {
	catalog Catalog

	network       string
	phone         string
	amount        string
	customAmount  string
	paymentMethod string

	selected     map[Group]map[string]bool
	errors       map[topup.Field]string
	submit       SubmitState
	success      SuccessPanel
	notification Notification
	reveal       Target
}

// NewMemoryView creates an empty form offering the catalog's options
func NewMemoryView(catalog Catalog) *MemoryView {
	v := &MemoryView{
		catalog:  catalog,
		selected: make(map[Group]map[string]bool),
		errors:   make(map[topup.Field]string),
		submit:   SubmitReady,
	}
	for _, g := range Groups {
		v.selected[g] = make(map[string]bool)
	}
	return v
}

func (v *MemoryView) Network() string              { return v.network }
func (v *MemoryView) SetNetwork(value string)      { v.network = value }
func (v *MemoryView) PhoneText() string            { return v.phone }
func (v *MemoryView) SetPhoneText(text string)     { v.phone = text }
func (v *MemoryView) Amount() string               { return v.amount }
func (v *MemoryView) SetAmount(value string)       { v.amount = value }
func (v *MemoryView) CustomAmount() string         { return v.customAmount }
func (v *MemoryView) SetCustomAmount(value string) { v.customAmount = value }
func (v *MemoryView) PaymentMethod() string        { return v.paymentMethod }

func (v *MemoryView) SetPaymentMethod(value string) { v.paymentMethod = value }

// Catalog returns the catalog the view was built from
func (v *MemoryView) Catalog() Catalog {
	return v.catalog
}

// Options implements FormView
func (v *MemoryView) Options(group Group) []Option {
	return v.catalog.Options(group)
}

// IsSelected implements FormView
func (v *MemoryView) IsSelected(group Group, id string) bool {
	return v.selected[group][id]
}

// SetSelected implements FormView
func (v *MemoryView) SetSelected(group Group, id string, selected bool) {
	set, ok := v.selected[group]
	if !ok {
		set = make(map[string]bool)
		v.selected[group] = set
	}
	if selected {
		set[id] = true
	} else {
		delete(set, id)
	}
}

// SelectedIDs returns the selected option ids of a group in catalog order
func (v *MemoryView) SelectedIDs(group Group) []string {
	var ids []string
	for _, opt := range v.catalog.Options(group) {
		if v.selected[group][opt.ID] {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// FieldError implements FormView
func (v *MemoryView) FieldError(field topup.Field) string {
	return v.errors[field]
}

// ShowFieldError implements FormView
func (v *MemoryView) ShowFieldError(field topup.Field, message string) {
	v.errors[field] = message
}

// ClearFieldError implements FormView
func (v *MemoryView) ClearFieldError(field topup.Field) {
	delete(v.errors, field)
}

// ClearAllErrors implements FormView
func (v *MemoryView) ClearAllErrors() {
	for field := range v.errors {
		delete(v.errors, field)
	}
}

// Submit returns the state of the submit control
func (v *MemoryView) Submit() SubmitState {
	return v.submit
}

// SetSubmitState implements FormView
func (v *MemoryView) SetSubmitState(state SubmitState) {
	v.submit = state
}

// Success returns the success panel
func (v *MemoryView) Success() SuccessPanel {
	return v.success
}

// SetSuccessDetails implements FormView
func (v *MemoryView) SetSuccessDetails(phone, amount string) {
	v.success.Phone = phone
	v.success.Amount = amount
}

// ShowSuccess implements FormView
func (v *MemoryView) ShowSuccess() {
	v.success.Visible = true
}

// HideSuccess implements FormView
func (v *MemoryView) HideSuccess() {
	v.success.Visible = false
}

// Notification returns the notification banner
func (v *MemoryView) Notification() Notification {
	return v.notification
}

// ShowNotification implements FormView
func (v *MemoryView) ShowNotification(message string) {
	v.notification = Notification{Visible: true, Message: message}
}

// HideNotification implements FormView
func (v *MemoryView) HideNotification() {
	v.notification.Visible = false
}

// Reveal implements FormView
func (v *MemoryView) Reveal(target Target) {
	v.reveal = target
}

// TakeReveal returns the pending reveal target and clears it
func (v *MemoryView) TakeReveal() Target {
	t := v.reveal
	v.reveal = RevealNone
	return t
}

// ResetFields implements FormView
func (v *MemoryView) ResetFields() {
	v.network = ""
	v.phone = ""
	v.amount = ""
	v.customAmount = ""
	v.paymentMethod = ""
}

// Snapshot copies the document
func (v *MemoryView) Snapshot() Snapshot {
	snap := Snapshot{
		Network:       v.network,
		Phone:         v.phone,
		Amount:        v.amount,
		CustomAmount:  v.customAmount,
		PaymentMethod: v.paymentMethod,
		Selected:      make(map[Group][]string, len(Groups)),
		Errors:        make(map[topup.Field]string, len(v.errors)),
		Submit:        v.submit,
		Success:       v.success,
		Notification:  v.notification,
		Reveal:        v.reveal,
	}
	for _, g := range Groups {
		snap.Selected[g] = v.SelectedIDs(g)
	}
	for field, msg := range v.errors {
		snap.Errors[field] = msg
	}
	return snap
}
