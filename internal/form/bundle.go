package form

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pakrecharge/topup/internal/logging"
	"github.com/pakrecharge/topup/internal/schedule"
	"github.com/pakrecharge/topup/internal/topup"
)

// BundleBridge pre-fills the form from a bundle
type BundleBridge struct {
	view   FormView
	sched  schedule.Scheduler
	timing Timing
}

// NewBundleBridge creates a bridge for view
func NewBundleBridge(view FormView, sched schedule.Scheduler, timing Timing) *BundleBridge {
	return &BundleBridge{view: view, sched: sched, timing: timing}
}

// OnBundleChosen writes the bundle price into the amount fields, announces
// the choice and brings the form into view. The amount is not validated
// here; submission catches anything out of range.
func (b *BundleBridge) OnBundleChosen(name, price string) {
	amount := topup.StripCurrency(price)

	b.view.SetAmount(amount)
	b.view.SetCustomAmount(amount)
	for _, opt := range b.view.Options(GroupAmount) {
		b.view.SetSelected(GroupAmount, opt.ID, false)
	}

	b.view.ShowNotification(fmt.Sprintf(topup.MsgBundleNotification, name))
	b.sched.Schedule(KeyNotification, b.timing.Notification, b.view.HideNotification)
	b.view.Reveal(RevealForm)

	logging.Debug("Bundle chosen", zap.String("bundle", name), zap.String("amount", amount))
}
