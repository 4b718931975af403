// Package tui implements the interactive terminal top-up form.
//
// The form is a single Bubble Tea screen rendered inside the application
// container (header, content, help footer). Each line of the form is a row
// that takes focus:
//
//   - Network: logo options, one selectable at a time
//   - Network list: dropdown sharing the network field with the logos
//   - Phone number: bubbles/textinput, reformatted as 03XX-XXXXXXX while typing
//   - Amount: preset tiles
//   - Custom amount: bubbles/textinput; typing clears the tile selection
//   - Payment method: payment options
//   - Submit: button, replaced by a spinner while the payment runs
//   - Bundles: choosing one pre-fills the amount and shows a banner
//
// # State
//
// The model does not keep form state of its own. Key presses become form
// events dispatched to a form.App whose view is a form.MemoryView; rendering
// reads that view. Payment results and timer callbacks (form reset, banner
// dismissal) arrive through a form.EventLoop and are applied in Update, so
// the view is only ever touched from the Bubble Tea goroutine.
//
// # Key Bindings
//
//   - ↑/↓ or tab/shift+tab: move between rows
//   - ←/→: move within an option row
//   - enter/space: select the option, open the network list or submit
//   - esc: dismiss the success panel or close the network list
//   - q: quit (outside text rows), ctrl+c: quit anywhere
//
// # Usage Example
//
//	err := tui.Run(ctx, tui.RunOptions{
//	    Catalog: settings.Catalog,
//	    Timing:  settings.Timing,
//	    Gateway: settings.Gateway(),
//	})
package tui
