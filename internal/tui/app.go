package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitaminmoo/thingy-tool/internal/api"
	"github.com/vitaminmoo/thingy-tool/internal/ble"
	"github.com/vitaminmoo/thingy-tool/internal/config"
	"github.com/vitaminmoo/thingy-tool/internal/store"
)

// debugLogFile receives log output while the TUI owns the terminal.
const debugLogFile = "thingy-debug.log"

// Run starts the TUI application. It scans for a device matching opts and
// keeps presets in s.
func Run(ctx context.Context, opts ble.ConnectOptions, s *store.Store) error {
	if config.Verbose {
		f, err := os.Create(debugLogFile)
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer f.Close()
		config.SetOutput(f)
	} else {
		config.SetOutput(io.Discard)
	}
	defer config.SetOutput(os.Stderr)

	dial := func() (*api.Client, string, error) {
		c, err := api.Dial(ctx, opts)
		if err != nil {
			return nil, "", err
		}
		name, err := c.Name(ctx)
		if err != nil {
			c.Disconnect()
			return nil, "", err
		}
		return c, name, nil
	}

	m := NewModel(dial, s)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if fm, ok := final.(Model); ok && fm.client != nil {
		fm.client.Disconnect()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}
	return nil
}
