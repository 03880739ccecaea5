package cli

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/vitaminmoo/thingy-tool/internal/api"
	"github.com/vitaminmoo/thingy-tool/internal/ble"
	"github.com/vitaminmoo/thingy-tool/internal/commands"
	"github.com/vitaminmoo/thingy-tool/internal/config"
	"github.com/vitaminmoo/thingy-tool/internal/store"
	"github.com/vitaminmoo/thingy-tool/internal/thingy"
	"github.com/vitaminmoo/thingy-tool/internal/tui"
)

// CLI is the root command structure for thingy.
type CLI struct {
	Verbose     bool          `short:"v" help:"Enable verbose debug output"`
	Device      string        `short:"d" env:"THINGY_DEVICE" help:"Device name (substring match) or address; defaults to any device named Thingy"`
	ScanTimeout time.Duration `env:"THINGY_SCAN_TIMEOUT" default:"15s" help:"How long to scan for the device"`
	Timeout     time.Duration `env:"THINGY_TIMEOUT" default:"10s" help:"Timeout for each device request (0 disables)"`
	Presets     string        `type:"path" env:"THINGY_PRESETS" help:"Preset store directory (default ~/.thingy/presets)"`

	// Default command - TUI
	Tui TuiCmd `cmd:"" default:"withargs" help:"Launch interactive TUI (default)"`

	Name    NameCmd    `cmd:"" help:"Read or change the advertised device name"`
	Speaker SpeakerCmd `cmd:"" help:"Play tones and samples"`
	Sound   SoundCmd   `cmd:"" help:"Speaker and microphone mode"`
	Preset  PresetCmd  `cmd:"" help:"Saved speaker presets"`
	Debug   DebugCmd   `cmd:"" help:"Debug and development tools"`
}

var addressPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)

func (c *CLI) apply() {
	config.Verbose = c.Verbose
}

// ConnectOptions maps the global flags to scan options. A --device value that
// looks like a MAC address selects by address, anything else by name.
func (c *CLI) ConnectOptions() ble.ConnectOptions {
	opts := ble.ConnectOptions{ScanTimeout: c.ScanTimeout}
	if addressPattern.MatchString(c.Device) {
		opts.Address = c.Device
	} else {
		opts.Name = c.Device
	}
	return opts
}

func (c *CLI) dial(ctx context.Context) (*api.Client, error) {
	c.apply()
	client, err := api.Dial(ctx, c.ConnectOptions())
	if err != nil {
		return nil, err
	}
	client.SetTimeout(c.Timeout)
	return client, nil
}

func (c *CLI) openStore() (*store.Store, error) {
	c.apply()
	if c.Presets != "" {
		return store.Open(c.Presets)
	}
	return store.OpenDefault()
}

// withClient connects, runs fn, and disconnects.
func (c *CLI) withClient(ctx context.Context, fn func(*api.Client) error) error {
	client, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(); err != nil {
			config.Warnf("failed to disconnect: %v", err)
		}
	}()
	return fn(client)
}

// --- TUI Command ---

type TuiCmd struct{}

func (t *TuiCmd) Run(ctx context.Context, globals *CLI) error {
	globals.apply()
	s, err := globals.openStore()
	if err != nil {
		return err
	}
	return tui.Run(ctx, globals.ConnectOptions(), s)
}

// --- Name Commands ---

type NameCmd struct {
	Get NameGetCmd `cmd:"" help:"Print the device name"`
	Set NameSetCmd `cmd:"" help:"Change the device name (max 10 characters)"`
}

type NameGetCmd struct{}

func (n *NameGetCmd) Run(ctx context.Context, globals *CLI) error {
	return globals.withClient(ctx, func(c *api.Client) error {
		return commands.NameGet(ctx, os.Stdout, c)
	})
}

type NameSetCmd struct {
	Name string `arg:"" help:"New device name"`
}

func (n *NameSetCmd) Run(ctx context.Context, globals *CLI) error {
	return globals.withClient(ctx, func(c *api.Client) error {
		return commands.NameSet(ctx, os.Stdout, c, n.Name)
	})
}

// --- Speaker Commands ---

type SpeakerCmd struct {
	Tone   SpeakerToneCmd   `cmd:"" help:"Play a tone"`
	Sample SpeakerSampleCmd `cmd:"" help:"Play a built-in sample"`
	Play   SpeakerPlayCmd   `cmd:"" help:"Send a raw speaker command or a saved preset"`
}

type SpeakerToneCmd struct {
	Frequency int `arg:"" help:"Frequency in Hz"`
	Duration  int `short:"t" default:"500" help:"Duration in milliseconds"`
	Volume    int `short:"V" default:"50" help:"Volume in percent (0-100)"`
}

func (s *SpeakerToneCmd) Run(ctx context.Context, globals *CLI) error {
	return globals.withClient(ctx, func(c *api.Client) error {
		return commands.Tone(ctx, os.Stdout, c, s.Frequency, s.Duration, s.Volume)
	})
}

type SpeakerSampleCmd struct {
	Sample int `arg:"" help:"Sample number"`
}

func (s *SpeakerSampleCmd) Run(ctx context.Context, globals *CLI) error {
	return globals.withClient(ctx, func(c *api.Client) error {
		return commands.Sample(ctx, os.Stdout, c, s.Sample)
	})
}

// CommandFlags describes a speaker command on the command line.
type CommandFlags struct {
	Mode      string `short:"m" default:"frequency" help:"Speaker mode: frequency, pcm or sample"`
	Frequency int    `short:"f" help:"Frequency in Hz (frequency mode)"`
	Duration  int    `short:"t" default:"500" help:"Duration in milliseconds (frequency mode)"`
	Volume    int    `short:"V" default:"50" help:"Volume in percent (frequency mode)"`
	Sample    int    `short:"s" help:"Sample number (sample mode)"`
}

func (f CommandFlags) command() (thingy.SpeakerCommand, error) {
	mode, err := commands.ParseSpeakerMode(f.Mode)
	if err != nil {
		return thingy.SpeakerCommand{}, err
	}
	cmd := thingy.SpeakerCommand{Mode: mode}
	switch mode {
	case thingy.SpeakerModeFrequency:
		cmd.Frequency, cmd.Duration, cmd.Volume = f.Frequency, f.Duration, f.Volume
	case thingy.SpeakerModeSample:
		cmd.Sample = f.Sample
	}
	return cmd, nil
}

type SpeakerPlayCmd struct {
	Preset  string       `short:"p" help:"Play a saved preset instead of the flags"`
	Command CommandFlags `embed:""`
}

func (s *SpeakerPlayCmd) Run(ctx context.Context, globals *CLI) error {
	if s.Preset != "" {
		st, err := globals.openStore()
		if err != nil {
			return err
		}
		return globals.withClient(ctx, func(c *api.Client) error {
			return commands.PresetPlay(ctx, os.Stdout, c, st, s.Preset)
		})
	}

	cmd, err := s.Command.command()
	if err != nil {
		return err
	}
	return globals.withClient(ctx, func(c *api.Client) error {
		if err := c.Play(ctx, cmd); err != nil {
			return err
		}
		fmt.Printf("Sent %s\n", store.Describe(cmd))
		return nil
	})
}

// --- Sound Commands ---

type SoundCmd struct {
	Get SoundGetCmd `cmd:"" help:"Print the speaker and microphone mode"`
	Set SoundSetCmd `cmd:"" help:"Change the speaker and/or microphone mode"`
}

type SoundGetCmd struct {
	JSON bool `help:"Output as JSON"`
}

func (s *SoundGetCmd) Run(ctx context.Context, globals *CLI) error {
	return globals.withClient(ctx, func(c *api.Client) error {
		return commands.SoundGet(ctx, os.Stdout, c, s.JSON)
	})
}

type SoundSetCmd struct {
	Speaker    string `short:"s" help:"Speaker mode: frequency, pcm or sample (unset keeps current)"`
	Microphone string `short:"m" help:"Microphone mode: adpcm or spl (unset keeps current)"`
}

func (s *SoundSetCmd) Run(ctx context.Context, globals *CLI) error {
	return globals.withClient(ctx, func(c *api.Client) error {
		return commands.SoundSet(ctx, os.Stdout, c, s.Speaker, s.Microphone)
	})
}

// --- Preset Commands ---

type PresetCmd struct {
	Save   PresetSaveCmd   `cmd:"" help:"Save a speaker command as a preset"`
	List   PresetListCmd   `cmd:"" help:"List all saved presets"`
	Show   PresetShowCmd   `cmd:"" help:"Show a saved preset"`
	Play   PresetPlayCmd   `cmd:"" help:"Play a saved preset"`
	Delete PresetDeleteCmd `cmd:"" help:"Delete a saved preset"`
}

type PresetSaveCmd struct {
	Name    string       `arg:"" help:"Preset name"`
	Note    string       `help:"Free-form note stored with the preset"`
	Command CommandFlags `embed:""`
}

func (p *PresetSaveCmd) Run(globals *CLI) error {
	cmd, err := p.Command.command()
	if err != nil {
		return err
	}
	s, err := globals.openStore()
	if err != nil {
		return err
	}
	return commands.PresetSave(os.Stdout, s, store.Preset{Name: p.Name, Command: cmd, Note: p.Note})
}

type PresetListCmd struct{}

func (p *PresetListCmd) Run(globals *CLI) error {
	s, err := globals.openStore()
	if err != nil {
		return err
	}
	return commands.PresetList(os.Stdout, s)
}

type PresetShowCmd struct {
	Name string `arg:"" help:"Preset name"`
}

func (p *PresetShowCmd) Run(globals *CLI) error {
	s, err := globals.openStore()
	if err != nil {
		return err
	}
	return commands.PresetShow(os.Stdout, s, p.Name)
}

type PresetPlayCmd struct {
	Name string `arg:"" help:"Preset name"`
}

func (p *PresetPlayCmd) Run(ctx context.Context, globals *CLI) error {
	s, err := globals.openStore()
	if err != nil {
		return err
	}
	// Look the preset up before scanning so a typo fails fast.
	if _, err := s.Get(p.Name); err != nil {
		return err
	}
	return globals.withClient(ctx, func(c *api.Client) error {
		return commands.PresetPlay(ctx, os.Stdout, c, s, p.Name)
	})
}

type PresetDeleteCmd struct {
	Name string `arg:"" help:"Preset name"`
	Yes  bool   `short:"y" help:"Don't ask for confirmation"`
}

func (p *PresetDeleteCmd) Run(globals *CLI) error {
	s, err := globals.openStore()
	if err != nil {
		return err
	}
	if !p.Yes && !commands.ConfirmAction(os.Stdin, os.Stdout, fmt.Sprintf("Delete preset %s? Type 'yes' to confirm: ", p.Name)) {
		fmt.Println("Aborted.")
		return nil
	}
	return commands.PresetDelete(os.Stdout, s, p.Name)
}

// --- Debug Commands ---

type DebugCmd struct {
	Explore DebugExploreCmd `cmd:"" help:"List all BLE services and characteristics (read-only)"`
	Encode  DebugEncodeCmd  `cmd:"" help:"Show the writes a speaker command produces, without a device"`
}

type DebugExploreCmd struct{}

func (d *DebugExploreCmd) Run(ctx context.Context, globals *CLI) error {
	globals.apply()
	device, err := ble.Connect(ctx, globals.ConnectOptions())
	if err != nil {
		return err
	}
	client := api.NewBLE(device)
	defer func() {
		if err := client.Disconnect(); err != nil {
			config.Warnf("failed to disconnect: %v", err)
		}
	}()
	return commands.Explore(os.Stdout, device, client.Features())
}

type DebugEncodeCmd struct {
	Command           CommandFlags `embed:""`
	InitialSpeaker    string       `default:"frequency" help:"Speaker mode the simulated device starts in"`
	InitialMicrophone string       `default:"adpcm" help:"Microphone mode the simulated device starts in"`
}

func (d *DebugEncodeCmd) Run(ctx context.Context, globals *CLI) error {
	globals.apply()
	cmd, err := d.Command.command()
	if err != nil {
		return err
	}
	sm, err := commands.ParseSpeakerMode(d.InitialSpeaker)
	if err != nil {
		return err
	}
	mm, err := commands.ParseMicrophoneMode(d.InitialMicrophone)
	if err != nil {
		return err
	}
	return commands.Encode(ctx, os.Stdout, cmd, thingy.SoundConfiguration{SpeakerMode: sm, MicrophoneMode: mm})
}
