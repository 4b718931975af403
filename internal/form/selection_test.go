package form

import (
	"testing"

	"github.com/pakrecharge/topup/internal/topup"
)

func TestSelectAmount_Exclusive(t *testing.T) {
	s := newTestSession(t, true)

	sequence := []string{"tile-100", "tile-500", "tile-50", "tile-500", "tile-1000"}
	for _, id := range sequence {
		if err := s.app.Selection.SelectAmount(id); err != nil {
			t.Fatalf("SelectAmount(%q) error = %v", id, err)
		}

		selected := s.view.SelectedIDs(GroupAmount)
		if len(selected) != 1 || selected[0] != id {
			t.Fatalf("after SelectAmount(%q) selected = %v, want [%s]", id, selected, id)
		}

		opt, _ := DefaultCatalog().Lookup(GroupAmount, id)
		if s.view.Amount() != opt.Value {
			t.Errorf("Amount = %q, want %q", s.view.Amount(), opt.Value)
		}
	}
}

func TestSelectAmount_ClearsCustom(t *testing.T) {
	s := newTestSession(t, true)

	s.app.Selection.OnCustomAmountInput("750")
	if err := s.app.Selection.SelectAmount("tile-200"); err != nil {
		t.Fatalf("SelectAmount() error = %v", err)
	}

	if s.view.CustomAmount() != "" {
		t.Errorf("CustomAmount = %q, want empty", s.view.CustomAmount())
	}
	if s.view.Amount() != "200" {
		t.Errorf("Amount = %q, want 200", s.view.Amount())
	}
}

func TestCustomAmountInput(t *testing.T) {
	s := newTestSession(t, true)

	if err := s.app.Selection.SelectAmount("tile-100"); err != nil {
		t.Fatal(err)
	}

	s.app.Selection.OnCustomAmountInput("750")
	if got := s.view.SelectedIDs(GroupAmount); len(got) != 0 {
		t.Errorf("tiles still selected after custom input: %v", got)
	}
	if s.view.Amount() != "750" {
		t.Errorf("Amount = %q, want 750", s.view.Amount())
	}

	// Clearing the input leaves the last amount alone
	s.app.Selection.OnCustomAmountInput("")
	if s.view.Amount() != "750" {
		t.Errorf("Amount = %q after clearing input, want 750", s.view.Amount())
	}
}

func TestSelectNetwork_SyncsDropdown(t *testing.T) {
	s := newTestSession(t, true)

	if err := s.app.Selection.SelectNetwork("logo-zong"); err != nil {
		t.Fatal(err)
	}
	if s.view.Network() != "zong" {
		t.Errorf("Network = %q, want zong", s.view.Network())
	}

	s.app.Selection.OnNetworkDropdownChange("ufone")
	if got := s.view.SelectedIDs(GroupNetwork); len(got) != 1 || got[0] != "logo-ufone" {
		t.Errorf("selected logos = %v, want [logo-ufone]", got)
	}

	s.app.Selection.OnNetworkDropdownChange("")
	if got := s.view.SelectedIDs(GroupNetwork); len(got) != 0 {
		t.Errorf("selected logos = %v after empty dropdown, want none", got)
	}
	if s.view.Network() != "" {
		t.Errorf("Network = %q, want empty", s.view.Network())
	}
}

func TestSelectPaymentMethod(t *testing.T) {
	s := newTestSession(t, true)

	for _, id := range []string{"pay-card", "pay-bank"} {
		if err := s.app.Selection.SelectPaymentMethod(id); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.view.SelectedIDs(GroupPayment); len(got) != 1 || got[0] != "pay-bank" {
		t.Errorf("selected payment = %v, want [pay-bank]", got)
	}
	if s.view.PaymentMethod() != "bank" {
		t.Errorf("PaymentMethod = %q, want bank", s.view.PaymentMethod())
	}
}

func TestSelect_UnknownOption(t *testing.T) {
	s := newTestSession(t, true)

	if err := s.app.Selection.SelectAmount("tile-500"); err != nil {
		t.Fatal(err)
	}

	err := s.app.Selection.SelectAmount("tile-999")
	if !topup.IsUnknownOption(err) {
		t.Fatalf("SelectAmount(unknown) error = %v, want unknown option", err)
	}
	if got := s.view.SelectedIDs(GroupAmount); len(got) != 1 || got[0] != "tile-500" {
		t.Errorf("selection changed after unknown option: %v", got)
	}
	if s.view.Amount() != "500" {
		t.Errorf("Amount = %q, want 500", s.view.Amount())
	}

	if err := s.app.Selection.SelectNetwork("logo-nope"); !topup.IsUnknownOption(err) {
		t.Errorf("SelectNetwork(unknown) error = %v, want unknown option", err)
	}
	if err := s.app.Selection.SelectPaymentMethod("pay-nope"); !topup.IsUnknownOption(err) {
		t.Errorf("SelectPaymentMethod(unknown) error = %v, want unknown option", err)
	}
}

func TestFormatPhoneInput(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"0300", "0300"},
		{"03001", "0300-1"},
		{"03001234567", "0300-1234567"},
		{"0300-1234567", "0300-1234567"},
		{"0300-12345678", "0300-1234567"},
		{"(0300) 123 4567", "0300-1234567"},
	}

	s := newTestSession(t, true)
	for _, tt := range tests {
		got := s.app.Selection.FormatPhoneInput(tt.raw)
		if got != tt.want {
			t.Errorf("FormatPhoneInput(%q) = %q, want %q", tt.raw, got, tt.want)
		}
		if s.view.PhoneText() != tt.want {
			t.Errorf("PhoneText = %q, want %q", s.view.PhoneText(), tt.want)
		}
		// Feeding the output back must not change it
		if again := s.app.Selection.FormatPhoneInput(got); again != got {
			t.Errorf("FormatPhoneInput not idempotent: %q -> %q", got, again)
		}
	}
}

func TestRefreshPreview(t *testing.T) {
	s := newTestSession(t, true)

	s.app.Selection.FormatPhoneInput("03001234567")
	if s.view.Success().Phone != "" {
		t.Error("preview filled before an amount was chosen")
	}

	if err := s.app.Selection.SelectAmount("tile-100"); err != nil {
		t.Fatal(err)
	}
	panel := s.view.Success()
	if panel.Phone != "0300-1234567" || panel.Amount != "Rs. 100" {
		t.Errorf("preview = %+v, want phone 0300-1234567 amount Rs. 100", panel)
	}
	if panel.Visible {
		t.Error("preview made the success panel visible")
	}
}
