package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vitaminmoo/thingy-tool/internal/api"
	"github.com/vitaminmoo/thingy-tool/internal/store"
)

// PresetSave stores a preset.
func PresetSave(w io.Writer, s *store.Store, p store.Preset) error {
	isNew, err := s.Save(p)
	if err != nil {
		return err
	}
	if isNew {
		fmt.Fprintf(w, "Saved preset %s: %s\n", p.Name, p.Summary())
	} else {
		fmt.Fprintf(w, "Updated preset %s: %s\n", p.Name, p.Summary())
	}
	return nil
}

// PresetList prints all stored presets.
func PresetList(w io.Writer, s *store.Store) error {
	entries, err := s.List()
	if err != nil {
		return fmt.Errorf("failed to list presets: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No presets in store.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCOMMAND\tUPDATED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Summary, e.UpdatedAt.Format("2006-01-02 15:04"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d preset(s) in %s\n", len(entries), s.Path())
	return nil
}

// PresetShow prints one preset as JSON.
func PresetShow(w io.Writer, s *store.Store, name string) error {
	p, err := s.Get(name)
	if err != nil {
		return err
	}
	return PrintJSON(w, p)
}

// PresetPlay loads a preset and sends it to the speaker.
func PresetPlay(ctx context.Context, w io.Writer, c *api.Client, s *store.Store, name string) error {
	p, err := s.Get(name)
	if err != nil {
		return err
	}
	if err := c.Play(ctx, p.Command); err != nil {
		return err
	}
	fmt.Fprintf(w, "Playing preset %s: %s\n", p.Name, p.Summary())
	return nil
}

// PresetDelete removes a preset.
func PresetDelete(w io.Writer, s *store.Store, name string) error {
	if err := s.Delete(name); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted preset %s\n", name)
	return nil
}
