package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pakrecharge/topup/internal/client"
	"github.com/pakrecharge/topup/internal/config"
	"github.com/pakrecharge/topup/internal/discovery"
	"github.com/pakrecharge/topup/internal/form"
	"github.com/pakrecharge/topup/internal/payment"
	"github.com/pakrecharge/topup/internal/server"
	"github.com/pakrecharge/topup/internal/topup"
	"github.com/pakrecharge/topup/internal/tui"
	"github.com/pakrecharge/topup/internal/ui"
	"github.com/pakrecharge/topup/internal/version"
)

// Command flags
var (
	listenAddr  string
	noAdvertise bool
	scanTimeout int

	checkNetwork string
	checkPhone   string
	checkAmount  string
	checkMethod  string
	checkPay     bool
	checkServer  string
	outputFormat string
)

func init() {
	rootCmd.AddCommand(formCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(discoverCmd)
}

// loadSettings reads the settings file, falling back to defaults
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// formCmd opens the terminal form
var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Open the terminal top-up form",
	Long: `Open the interactive top-up form in the terminal.

Use the arrow keys to move between rows and options, enter to select,
type into the phone and custom amount rows, and choose a bundle to
prefill the amount.`,
	Example: `  # Open the form (also the default with no command)
  pakrecharge form

  # Keep logs out of the way of the form
  pakrecharge form --log-level debug --log-file /tmp/pakrecharge.log`,
	RunE: runForm,
}

func runForm(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal(os.Stdout.Fd()) {
		return errors.New("the form needs an interactive terminal; use 'pakrecharge check' or 'pakrecharge serve' instead")
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return tui.Run(ctx, tui.RunOptions{
		Catalog: settings.Catalog,
		Timing:  settings.Timing,
		Gateway: settings.Gateway(),
	})
}

// serveCmd starts the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the top-up API and browser form sessions",
	Long: `Start the HTTP server.

The server answers the JSON API under /api, runs browser form sessions
over /ws, serves the offline worker at /sw.js and exposes Prometheus
metrics at /metrics. Unless disabled, it announces itself on the local
network over mDNS.`,
	Example: `  # Listen on the configured address (default :8080)
  pakrecharge serve

  # Custom port without mDNS
  pakrecharge serve --listen :9090 --no-advertise

  # Verbose request logging
  pakrecharge serve --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Address to listen on (default from settings, :8080)")
	serveCmd.Flags().BoolVar(&noAdvertise, "no-advertise", false, "Do not announce the server over mDNS")
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	prefs := settings.Server
	listen := prefs.Listen
	if listenAddr != "" {
		listen = listenAddr
	}

	srv, err := server.New(&server.Config{
		Listen:      listen,
		Advertise:   prefs.Advertise && !noAdvertise,
		ServiceName: prefs.ServiceName,
		Version:     version.Version,
		Catalog:     settings.Catalog,
		Timing:      settings.Timing,
		Gateway:     settings.Gateway(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	fmt.Printf("PakRecharge listening on %s (Ctrl+C to stop)\n", listen)
	return srv.Start()
}

// checkCmd validates a single top-up and optionally pays for it
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a top-up without the form",
	Long: `Validate a top-up the same way the form does and print the result.

Networks, amounts and payment methods accept an option id, a value or a
label (case-insensitive). An amount that matches no tile is treated as a
custom amount. With --pay the simulated payment runs as well.

With --server the check runs against a PakRecharge server instead of the
local settings, using that server's catalog.`,
	Example: `  # Validate only
  pakrecharge check --network jazz --phone 03001234567 --amount 100 --method easypaisa

  # Custom amount, paid, JSON output for scripting
  pakrecharge check --network Zong --phone 0312-7654321 --amount 750 --method card --pay --format json

  # Pay through a server found with 'pakrecharge discover'
  pakrecharge check --server http://192.168.1.20:8080 --network ufone --phone 03331234567 --amount tile-200 --method bank --pay`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkNetwork, "network", "", "Mobile network (jazz, telenor, zong, ufone)")
	checkCmd.Flags().StringVar(&checkPhone, "phone", "", "Phone number, e.g. 03001234567")
	checkCmd.Flags().StringVar(&checkAmount, "amount", "", "Amount in rupees or an amount tile id")
	checkCmd.Flags().StringVar(&checkMethod, "method", "", "Payment method (easypaisa, jazzcash, card, bank)")
	checkCmd.Flags().BoolVar(&checkPay, "pay", false, "Run the simulated payment after validation")
	checkCmd.Flags().StringVar(&checkServer, "server", "", "Check against a running server (e.g. http://192.168.1.20:8080)")
	checkCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")
}

// CheckReport is the JSON form of a check
type CheckReport struct {
	Valid   bool                     `json:"valid"`
	State   topup.FormState          `json:"state"`
	Errors  []*topup.ValidationError `json:"errors,omitempty"`
	Paid    bool                     `json:"paid"`
	Receipt *payment.Receipt         `json:"receipt,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

var errCheckFailed = errors.New("top-up check failed")

func runCheck(cmd *cobra.Command, args []string) error {
	if outputFormat != "detailed" && outputFormat != "json" {
		return fmt.Errorf("unknown format %q (expected detailed or json)", outputFormat)
	}

	var report *CheckReport
	if checkServer != "" {
		c := client.New(checkServer)
		catalog, err := c.Catalog(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch catalog from %s: %w", checkServer, err)
		}
		state, err := buildState(catalog, checkNetwork, checkPhone, checkAmount, checkMethod)
		if err != nil {
			return err
		}
		if report, err = remoteCheck(cmd.Context(), c, state, checkPay); err != nil {
			return err
		}
	} else {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		state, err := buildState(settings.Catalog, checkNetwork, checkPhone, checkAmount, checkMethod)
		if err != nil {
			return err
		}
		report = performCheck(cmd.Context(), settings, state, checkPay)
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	if outputFormat == "json" {
		if err := printer.PrintJSON(report); err != nil {
			return err
		}
	} else {
		printCheck(printer, report)
	}

	if !report.Valid || (checkPay && !report.Paid) {
		return errCheckFailed
	}
	return nil
}

// performCheck runs the submission path with an inline executor
func performCheck(ctx context.Context, settings *config.Settings, state topup.FormState, pay bool) *CheckReport {
	app := form.NewApp(form.Options{
		Catalog: settings.Catalog,
		Timing:  settings.Timing,
		Gateway: settings.Gateway(),
	})

	report := &CheckReport{State: state.Normalized()}
	if !pay {
		errs := app.Submission.Validate(state)
		report.Valid = len(errs) == 0
		report.Errors = errs
		return report
	}

	out, err := app.Submission.Submit(ctx, state)
	if err != nil {
		var errs topup.ValidationErrors
		if errors.As(err, &errs) {
			report.Errors = errs
		} else {
			report.Error = topup.ShortMessage(err)
		}
		return report
	}

	report.Valid = true
	if out.Succeeded() {
		report.Paid = true
		report.Receipt = out.Receipt
	} else {
		report.Error = topup.MsgPaymentFailed
	}
	return report
}

// remoteCheck runs the check through a server's API. Transport failures
// are returned; rejections end up in the report.
func remoteCheck(ctx context.Context, c *client.Client, state topup.FormState, pay bool) (*CheckReport, error) {
	report := &CheckReport{State: state.Normalized()}

	if !pay {
		errs, err := c.Validate(ctx, state)
		if err != nil {
			return nil, err
		}
		report.Valid = len(errs) == 0
		report.Errors = errs
		return report, nil
	}

	receipt, err := c.TopUp(ctx, state)
	var errs topup.ValidationErrors
	switch {
	case err == nil:
		report.Valid = true
		report.Paid = true
		report.Receipt = receipt
	case errors.As(err, &errs):
		report.Errors = errs
	case topup.IsPaymentError(err):
		report.Valid = true
		report.Error = topup.MsgPaymentFailed
	default:
		return nil, err
	}
	return report, nil
}

func printCheck(p *ui.Printer, report *CheckReport) {
	state := report.State
	p.PrintHeader(ui.HeaderConfig{
		Title:   "PakRecharge",
		Command: "check",
		Params: []ui.Detail{
			{Key: "Network", Value: state.Network},
			{Key: "Phone", Value: state.Phone},
			{Key: "Amount", Value: state.Amount},
			{Key: "Method", Value: state.PaymentMethod},
		},
	})

	if !report.Valid {
		result := ui.NewFailureResult("Top-up rejected", nil)
		for _, e := range report.Errors {
			result.AddProblem(string(e.Field), e.Message)
		}
		if report.Error != "" {
			result.Error = errors.New(report.Error)
		}
		p.PrintResult(result)
		return
	}

	details := []ui.Detail{
		{Key: "Network", Value: state.Network},
		{Key: "Phone", Value: topup.FormatPhone(state.Phone)},
		{Key: "Amount", Value: topup.DisplayAmount(state.Amount)},
		{Key: "Method", Value: state.PaymentMethod},
	}

	switch {
	case report.Paid:
		details = append(details,
			ui.Detail{Key: "Reference", Value: report.Receipt.Reference},
			ui.Detail{Key: "Processed", Value: report.Receipt.ProcessedAt.Format(time.RFC3339)},
		)
		p.PrintResult(ui.NewSuccessResult("Top-up Successful", details))
	case report.Error != "":
		result := ui.NewFailureResult("Payment failed", errors.New(report.Error))
		result.Details = details
		p.PrintResult(result)
	default:
		p.PrintResult(ui.NewSuccessResult("Top-up is valid", details))
	}
}

// buildState resolves flag input against the catalog
func buildState(catalog form.Catalog, network, phone, amount, method string) (topup.FormState, error) {
	var state topup.FormState
	var err error

	if state.Network, err = resolveOption(catalog, form.GroupNetwork, network); err != nil {
		return state, err
	}
	if state.PaymentMethod, err = resolveOption(catalog, form.GroupPayment, method); err != nil {
		return state, err
	}

	state.Phone = phone
	state.Amount = strings.TrimSpace(amount)
	if state.Amount != "" {
		if value, err := resolveOption(catalog, form.GroupAmount, state.Amount); err == nil {
			state.Amount = value
		} else {
			state.CustomAmount = state.Amount
		}
	}
	return state, nil
}

// resolveOption maps an id, value or label to the option's value.
// Empty input stays empty so validation can report it.
func resolveOption(catalog form.Catalog, group form.Group, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	for _, opt := range catalog.Options(group) {
		if strings.EqualFold(opt.ID, input) || strings.EqualFold(opt.Value, input) || strings.EqualFold(opt.Label, input) {
			return opt.Value, nil
		}
	}
	return "", topup.NewUnknownOptionError(string(group), input)
}

// discoverCmd lists PakRecharge servers on the local network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find PakRecharge servers on the local network",
	Long: `Browse mDNS for PakRecharge servers started with 'pakrecharge serve'.`,
	Example: `  # Browse for 5 seconds (default)
  pakrecharge discover

  # Quick scan
  pakrecharge discover --timeout 2`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	fmt.Printf("Browsing for PakRecharge servers (timeout: %ds)...\n\n", scanTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second

	instances, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(instances) == 0 {
		fmt.Println("No servers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Check the server was started without --no-advertise")
		fmt.Println("  - Make sure both machines are on the same network segment")
		fmt.Println("  - Try increasing --timeout")
		return nil
	}

	fmt.Printf("Found %d server(s):\n\n", len(instances))
	for i, inst := range instances {
		fmt.Printf("%d. %s\n", i+1, inst.Name)
		fmt.Printf("   Host:    %s\n", inst.Hostname)
		fmt.Printf("   Page:    %s\n", inst.PageURL())
		fmt.Printf("   Worker:  %s\n", inst.WorkerURL())
		if v := inst.Version(); v != "" {
			fmt.Printf("   Version: %s\n", v)
		}
		fmt.Println()
	}
	return nil
}
