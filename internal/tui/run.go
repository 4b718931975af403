package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pakrecharge/topup/internal/form"
	"github.com/pakrecharge/topup/internal/payment"
	"github.com/pakrecharge/topup/internal/schedule"
)

// RunOptions configures an interactive session
type RunOptions struct {
	Catalog form.Catalog
	Timing  form.Timing
	Gateway payment.Gateway
}

// Run shows the form until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	if len(opts.Catalog.Networks) == 0 {
		opts.Catalog = form.DefaultCatalog()
	}

	loop := form.NewEventLoop(16)
	defer loop.Close()

	timer := schedule.NewTimer(loop.Post)
	defer timer.Stop()

	view := form.NewMemoryView(opts.Catalog)
	app := form.NewApp(form.Options{
		Catalog:   opts.Catalog,
		Timing:    opts.Timing,
		Gateway:   opts.Gateway,
		Scheduler: timer,
		Executor:  loop,
		View:      view,
	})

	model := NewFormModel(ctx, app, view, loop)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("form exited with error: %w", err)
	}
	return nil
}
