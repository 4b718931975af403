package form

import (
	"fmt"

	"github.com/pakrecharge/topup/internal/topup"
)

// Group identifies a set of mutually exclusive options
type Group string

const (
	GroupAmount  Group = "amount"
	GroupNetwork Group = "network"
	GroupPayment Group = "payment"
)

// Groups lists every selection group
var Groups = []Group{GroupNetwork, GroupAmount, GroupPayment}

// Option is one member of a selection group. ID identifies the control,
// Value is what is written into the canonical field.
type Option struct {
	ID    string `json:"id" yaml:"id"`
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Catalog holds everything a form can offer
type Catalog struct {
	Networks       []Option       `json:"networks" yaml:"networks"`
	Amounts        []Option       `json:"amounts" yaml:"amounts"`
	PaymentMethods []Option       `json:"paymentMethods" yaml:"payment_methods"`
	Bundles        []topup.Bundle `json:"bundles" yaml:"bundles"`
}

// Options returns the members of a group
func (c Catalog) Options(group Group) []Option {
	switch group {
	case GroupNetwork:
		return c.Networks
	case GroupAmount:
		return c.Amounts
	case GroupPayment:
		return c.PaymentMethods
	default:
		return nil
	}
}

// Lookup finds an option by id
func (c Catalog) Lookup(group Group, id string) (Option, bool) {
	for _, opt := range c.Options(group) {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// Bundle finds a bundle by name
func (c Catalog) Bundle(name string) (topup.Bundle, bool) {
	for _, b := range c.Bundles {
		if b.Name == name {
			return b, true
		}
	}
	return topup.Bundle{}, false
}

// Validate checks the catalog for structural problems.
// Returns a list of errors; an empty list means the catalog is usable.
func (c Catalog) Validate() []error {
	var errs []error

	for _, group := range Groups {
		opts := c.Options(group)
		if len(opts) == 0 {
			errs = append(errs, fmt.Errorf("%s group has no options", group))
			continue
		}

		seen := make(map[string]bool, len(opts))
		for i, opt := range opts {
			if opt.ID == "" {
				errs = append(errs, fmt.Errorf("%s option %d has no id", group, i))
				continue
			}
			if seen[opt.ID] {
				errs = append(errs, fmt.Errorf("%s option id %q is duplicated", group, opt.ID))
			}
			seen[opt.ID] = true

			if opt.Value == "" {
				errs = append(errs, fmt.Errorf("%s option %q has no value", group, opt.ID))
			}
		}
	}

	for _, amount := range c.Amounts {
		if amount.Value == "" {
			continue
		}
		if err := topup.ValidateAmount(amount.Value); err != nil {
			errs = append(errs, fmt.Errorf("amount tile %q: %s", amount.ID, err.Message))
		}
	}

	for i, b := range c.Bundles {
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("bundle %d has no name", i))
		}
		if _, ok := topup.ParseAmount(b.Amount()); !ok {
			errs = append(errs, fmt.Errorf("bundle %q has unreadable price %q", b.Name, b.Price))
		}
	}

	return errs
}

// DefaultCatalog returns the built-in networks, tiles, payment methods and bundles
func DefaultCatalog() Catalog {
	return Catalog{
		Networks: []Option{
			{ID: "logo-jazz", Value: "jazz", Label: "Jazz"},
			{ID: "logo-telenor", Value: "telenor", Label: "Telenor"},
			{ID: "logo-zong", Value: "zong", Label: "Zong"},
			{ID: "logo-ufone", Value: "ufone", Label: "Ufone"},
		},
		Amounts: []Option{
			{ID: "tile-50", Value: "50", Label: "Rs. 50"},
			{ID: "tile-100", Value: "100", Label: "Rs. 100"},
			{ID: "tile-200", Value: "200", Label: "Rs. 200"},
			{ID: "tile-500", Value: "500", Label: "Rs. 500"},
			{ID: "tile-1000", Value: "1000", Label: "Rs. 1,000"},
		},
		PaymentMethods: []Option{
			{ID: "pay-easypaisa", Value: "easypaisa", Label: "Easypaisa"},
			{ID: "pay-jazzcash", Value: "jazzcash", Label: "JazzCash"},
			{ID: "pay-card", Value: "card", Label: "Debit/Credit Card"},
			{ID: "pay-bank", Value: "bank", Label: "Bank Transfer"},
		},
		Bundles: []topup.Bundle{
			{Name: "Daily Social", Price: "Rs. 25", Details: "1 GB social data, 24 hours"},
			{Name: "Weekly Super", Price: "Rs. 200", Details: "5 GB data, 500 on-net minutes, 7 days"},
			{Name: "Monthly Mega", Price: "Rs. 1,200", Details: "30 GB data, 3000 minutes, 30 days"},
		},
	}
}
