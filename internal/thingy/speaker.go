package thingy

import (
	"context"
	"fmt"

	"github.com/vitaminmoo/thingy-tool/internal/config"
	"github.com/vitaminmoo/thingy-tool/internal/feature"
)

// SpeakerCommand is a single speaker data write. Which fields are used
// depends on Mode: Frequency, Duration and Volume for SpeakerModeFrequency,
// Sample for SpeakerModeSample.
type SpeakerCommand struct {
	Mode      SpeakerMode `json:"mode"`
	Frequency int         `json:"frequency,omitempty"` // Hz
	Duration  int         `json:"duration,omitempty"`  // ms
	Volume    int         `json:"volume,omitempty"`    // 0-100
	Sample    int         `json:"sample,omitempty"`
}

// SpeakerDataService drives the speaker. It owns the write-only speaker data
// characteristic and the sound config characteristic, which it switches to
// the command's mode before every data write.
type SpeakerDataService struct {
	ops   *feature.Operations
	sound *soundConfigCodec
}

// NewSpeakerDataService creates the speaker feature on top of transport t.
func NewSpeakerDataService(t feature.Transport) *SpeakerDataService {
	s := &SpeakerDataService{}
	s.sound = &soundConfigCodec{key: "config"}
	s.ops = feature.NewOperations("speakerdata", t, feature.Service{UUID: TSSUUID}, map[string]feature.Characteristic{
		"default": {
			UUID:   TSSSpeakerDataUUID,
			Encode: feature.Encoder(s.EncodeSpeakerData),
		},
		"config": s.sound.characteristic(),
	})
	s.sound.access = s.ops
	return s
}

// Operations exposes the descriptor table for registration and exploration.
func (s *SpeakerDataService) Operations() *feature.Operations {
	return s.ops
}

// EncodeSpeakerData switches the device to cmd.Mode, then returns the
// speaker data payload for that mode:
//
//	frequency: [freq_lo, freq_hi, dur_lo, dur_hi, volume]
//	sample:    [sample]
//
// The mode switch is a remote write that happens before the payload is
// returned, even if the caller never sends it.
func (s *SpeakerDataService) EncodeSpeakerData(ctx context.Context, cmd SpeakerCommand) ([]byte, error) {
	if cmd.Mode == SpeakerModePCM {
		config.Debugf("speakerdata: PCM streaming requested, not implemented")
		return nil, fmt.Errorf("%w: speaker mode %d (%s) is not implemented", feature.ErrUnsupportedMode, cmd.Mode, cmd.Mode)
	}

	if err := s.ops.Write(ctx, SoundConfiguration{SpeakerMode: cmd.Mode}, "config"); err != nil {
		return nil, fmt.Errorf("failed to set speaker mode: %w", err)
	}

	switch cmd.Mode {
	case SpeakerModeFrequency:
		return []byte{
			byte(cmd.Frequency & 0xff),
			byte((cmd.Frequency >> 8) & 0xff),
			byte(cmd.Duration & 0xff),
			byte((cmd.Duration >> 8) & 0xff),
			byte(cmd.Volume & 0xff),
		}, nil
	case SpeakerModeSample:
		return []byte{byte(cmd.Sample & 0xff)}, nil
	}

	// The config encoder rejects anything else, so this is unreachable
	// unless SpeakerMode grows a value.
	return nil, fmt.Errorf("%w: speaker mode %d", feature.ErrUnsupportedMode, cmd.Mode)
}

// DecodeSoundConfigurationData reads byte 0 as the speaker mode and byte 1 as
// the microphone mode.
func (s *SpeakerDataService) DecodeSoundConfigurationData(data []byte) (SoundConfiguration, error) {
	return s.sound.decode(data)
}

// EncodeSoundConfigurationData validates cfg and packs it into two bytes,
// reading the device for any field left at zero.
func (s *SpeakerDataService) EncodeSoundConfigurationData(ctx context.Context, cfg SoundConfiguration) ([]byte, error) {
	return s.sound.encode(ctx, cfg)
}

// Play encodes cmd and writes it to the speaker data characteristic.
func (s *SpeakerDataService) Play(ctx context.Context, cmd SpeakerCommand) error {
	return s.ops.Write(ctx, cmd, "default")
}

// PlayTone plays a tone of frequency Hz for duration ms at volume percent.
func (s *SpeakerDataService) PlayTone(ctx context.Context, frequency, duration, volume int) error {
	return s.Play(ctx, SpeakerCommand{
		Mode:      SpeakerModeFrequency,
		Frequency: frequency,
		Duration:  duration,
		Volume:    volume,
	})
}

// PlaySample plays one of the device's built-in samples.
func (s *SpeakerDataService) PlaySample(ctx context.Context, sample int) error {
	return s.Play(ctx, SpeakerCommand{Mode: SpeakerModeSample, Sample: sample})
}

// Configuration reads the current sound configuration.
func (s *SpeakerDataService) Configuration(ctx context.Context) (SoundConfiguration, error) {
	return feature.ReadAs[SoundConfiguration](ctx, s.ops, "config")
}

// Configure writes cfg to the sound config characteristic.
func (s *SpeakerDataService) Configure(ctx context.Context, cfg SoundConfiguration) error {
	return s.ops.Write(ctx, cfg, "config")
}
