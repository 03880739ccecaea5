package api

import (
	"context"
	"fmt"
	"time"

	"github.com/vitaminmoo/thingy-tool/internal/ble"
	"github.com/vitaminmoo/thingy-tool/internal/config"
	"github.com/vitaminmoo/thingy-tool/internal/feature"
	"github.com/vitaminmoo/thingy-tool/internal/thingy"

	"tinygo.org/x/bluetooth"
)

// Client provides a high-level API for communicating with a Thingy.
// It wraps the transport and exposes typed methods for each feature.
type Client struct {
	transport feature.Transport
	timeout   time.Duration

	name    *thingy.NameService
	speaker *thingy.SpeakerDataService
	sound   *thingy.SoundConfigurationService

	disconnect func() error
}

// New creates a client over any transport.
func New(t feature.Transport) *Client {
	return &Client{
		transport: t,
		timeout:   config.DefaultRequestTimeout,
		name:      thingy.NewNameService(t),
		speaker:   thingy.NewSpeakerDataService(t),
		sound:     thingy.NewSoundConfigurationService(t),
	}
}

// NewBLE creates a client for an already-connected BLE device.
func NewBLE(device bluetooth.Device) *Client {
	g := ble.NewGATT(device)
	c := New(g)
	c.disconnect = g.Disconnect
	return c
}

// Dial scans for a Thingy, connects, and returns a client for it.
func Dial(ctx context.Context, opts ble.ConnectOptions) (*Client, error) {
	device, err := ble.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return NewBLE(device), nil
}

// Disconnect closes the connection if the client owns one.
func (c *Client) Disconnect() error {
	if c.disconnect == nil {
		return nil
	}
	return c.disconnect()
}

// SetTimeout sets the default request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

// Features returns the descriptor tables of every feature the client drives.
func (c *Client) Features() []*feature.Operations {
	return []*feature.Operations{
		c.name.Operations(),
		c.speaker.Operations(),
		c.sound.Operations(),
	}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Name returns the advertised device name.
func (c *Client) Name(ctx context.Context) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	n, err := c.name.Get(ctx)
	if err != nil {
		return "", err
	}
	return n.Name, nil
}

// SetName changes the advertised device name.
func (c *Client) SetName(ctx context.Context, name string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.name.Set(ctx, name)
}

// SoundConfig returns the current speaker and microphone modes.
func (c *Client) SoundConfig(ctx context.Context) (thingy.SoundConfiguration, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.sound.Get(ctx)
}

// SetSoundConfig updates the speaker and/or microphone mode.
func (c *Client) SetSoundConfig(ctx context.Context, cfg thingy.SoundConfiguration) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.sound.Set(ctx, cfg)
}

// Play sends a speaker command.
func (c *Client) Play(ctx context.Context, cmd thingy.SpeakerCommand) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if err := c.speaker.Play(ctx, cmd); err != nil {
		return fmt.Errorf("failed to play %s command: %w", cmd.Mode, err)
	}
	return nil
}

// PlayTone plays a tone of frequency Hz for duration ms at volume percent.
func (c *Client) PlayTone(ctx context.Context, frequency, duration, volume int) error {
	return c.Play(ctx, thingy.SpeakerCommand{
		Mode:      thingy.SpeakerModeFrequency,
		Frequency: frequency,
		Duration:  duration,
		Volume:    volume,
	})
}

// PlaySample plays one of the device's built-in samples.
func (c *Client) PlaySample(ctx context.Context, sample int) error {
	return c.Play(ctx, thingy.SpeakerCommand{Mode: thingy.SpeakerModeSample, Sample: sample})
}
