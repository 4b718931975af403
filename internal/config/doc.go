// Package config manages the PakRecharge settings file.
//
// Settings are stored as YAML and hold the catalog offered by the form
// (networks, amount tiles, payment methods, bundles), the session timing,
// the simulated payment success rate and server preferences. When no file
// exists the built-in defaults are used, so the file is optional.
//
// # Configuration File Location
//
// The settings file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/pakrecharge/config.yaml or $HOME/.config/pakrecharge/config.yaml
//   - macOS: $HOME/.config/pakrecharge/config.yaml
//   - Windows: %LOCALAPPDATA%\pakrecharge\config.yaml
//
// The --config flag replaces the location through SetPath.
//
// # Usage Example
//
//	settings, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app := form.NewApp(form.Options{
//	    Catalog: settings.Catalog,
//	    Timing:  settings.Timing,
//	})
//
//	settings.Payment.SuccessRate = 1
//	if err := settings.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global settings use sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
