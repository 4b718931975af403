package config

import (
	"fmt"

	"github.com/pakrecharge/topup/internal/form"
	"github.com/pakrecharge/topup/internal/payment"
)

// CurrentVersion is the settings file format version
const CurrentVersion = 1

// Settings represents the entire settings file.
type Settings struct {
	Version int           `yaml:"version"`
	Catalog form.Catalog  `yaml:"catalog"`
	Timing  form.Timing   `yaml:"timing"`
	Payment *PaymentPrefs `yaml:"payment,omitempty"`
	Server  *ServerPrefs  `yaml:"server,omitempty"`
}

// PaymentPrefs configures the payment simulator.
type PaymentPrefs struct {
	SuccessRate float64 `yaml:"success_rate"` // Share of payments that succeed (0-1)
}

// ServerPrefs configures `pakrecharge serve`.
type ServerPrefs struct {
	Listen      string `yaml:"listen"`       // Address to listen on, e.g. ":8080"
	Advertise   bool   `yaml:"advertise"`    // Announce the server over mDNS
	ServiceName string `yaml:"service_name"` // mDNS instance name
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: CurrentVersion,
		Catalog: form.DefaultCatalog(),
		Timing:  form.DefaultTiming(),
		Payment: defaultPaymentPrefs(),
		Server:  defaultServerPrefs(),
	}
}

func defaultPaymentPrefs() *PaymentPrefs {
	return &PaymentPrefs{SuccessRate: payment.DefaultSuccessRate}
}

func defaultServerPrefs() *ServerPrefs {
	return &ServerPrefs{
		Listen:      ":8080",
		Advertise:   true,
		ServiceName: "PakRecharge",
	}
}

// fillDefaults replaces missing sections with their defaults.
func (s *Settings) fillDefaults() {
	if len(s.Catalog.Networks) == 0 && len(s.Catalog.Amounts) == 0 && len(s.Catalog.PaymentMethods) == 0 {
		bundles := s.Catalog.Bundles
		s.Catalog = form.DefaultCatalog()
		if bundles != nil {
			s.Catalog.Bundles = bundles
		}
	}
	if s.Timing == (form.Timing{}) {
		s.Timing = form.DefaultTiming()
	}
	if s.Payment == nil {
		s.Payment = defaultPaymentPrefs()
	}
	if s.Server == nil {
		s.Server = defaultServerPrefs()
	}
}

// Validate checks the settings for problems.
// Returns a list of errors; an empty list means the settings are usable.
func (s *Settings) Validate() []error {
	var errs []error

	if s.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("unsupported config version: %d (expected %d)", s.Version, CurrentVersion))
	}

	errs = append(errs, s.Catalog.Validate()...)

	if s.Timing.Payment < 0 || s.Timing.Reset < 0 || s.Timing.Notification < 0 {
		errs = append(errs, fmt.Errorf("timing values must not be negative"))
	}

	if s.Payment != nil && (s.Payment.SuccessRate < 0 || s.Payment.SuccessRate > 1) {
		errs = append(errs, fmt.Errorf("payment success rate %.2f must be between 0 and 1", s.Payment.SuccessRate))
	}

	if s.Server != nil && s.Server.Listen == "" {
		errs = append(errs, fmt.Errorf("server listen address is empty"))
	}

	return errs
}

// Gateway builds the payment simulator described by the settings.
func (s *Settings) Gateway() *payment.Simulator {
	rate := payment.DefaultSuccessRate
	if s.Payment != nil {
		rate = s.Payment.SuccessRate
	}
	return payment.NewSimulator(s.Timing.Payment, payment.NewRandomOutcome(rate))
}
