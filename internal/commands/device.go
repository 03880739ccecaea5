package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/vitaminmoo/thingy-tool/internal/api"
	"github.com/vitaminmoo/thingy-tool/internal/thingy"
)

// NameGet prints the advertised device name.
func NameGet(ctx context.Context, w io.Writer, c *api.Client) error {
	name, err := c.Name(ctx)
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}
	fmt.Fprintln(w, name)
	return nil
}

// NameSet changes the advertised device name.
func NameSet(ctx context.Context, w io.Writer, c *api.Client, name string) error {
	if err := c.SetName(ctx, name); err != nil {
		return fmt.Errorf("failed to set name: %w", err)
	}
	fmt.Fprintf(w, "Name set to %q\n", name)
	return nil
}

// SoundGet prints the current sound configuration.
func SoundGet(ctx context.Context, w io.Writer, c *api.Client, asJSON bool) error {
	cfg, err := c.SoundConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sound configuration: %w", err)
	}
	if asJSON {
		return PrintJSON(w, cfg)
	}
	printSoundConfig(w, cfg)
	return nil
}

// SoundSet updates the speaker and/or microphone mode. Unset modes keep the
// device's current value.
func SoundSet(ctx context.Context, w io.Writer, c *api.Client, speaker, microphone string) error {
	sm, err := ParseSpeakerMode(speaker)
	if err != nil {
		return err
	}
	mm, err := ParseMicrophoneMode(microphone)
	if err != nil {
		return err
	}

	if err := c.SetSoundConfig(ctx, thingy.SoundConfiguration{SpeakerMode: sm, MicrophoneMode: mm}); err != nil {
		return fmt.Errorf("failed to set sound configuration: %w", err)
	}

	cfg, err := c.SoundConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to read back sound configuration: %w", err)
	}
	printSoundConfig(w, cfg)
	return nil
}

func printSoundConfig(w io.Writer, cfg thingy.SoundConfiguration) {
	fmt.Fprintf(w, "Speaker mode:    %s (%d)\n", cfg.SpeakerMode, cfg.SpeakerMode)
	fmt.Fprintf(w, "Microphone mode: %s (%d)\n", cfg.MicrophoneMode, cfg.MicrophoneMode)
}

// Tone plays a tone.
func Tone(ctx context.Context, w io.Writer, c *api.Client, frequency, duration, volume int) error {
	if err := c.PlayTone(ctx, frequency, duration, volume); err != nil {
		return err
	}
	fmt.Fprintf(w, "Playing %d Hz for %d ms at %d%%\n", frequency, duration, volume)
	return nil
}

// Sample plays a built-in sample.
func Sample(ctx context.Context, w io.Writer, c *api.Client, sample int) error {
	if err := c.PlaySample(ctx, sample); err != nil {
		return err
	}
	fmt.Fprintf(w, "Playing sample %d\n", sample)
	return nil
}
