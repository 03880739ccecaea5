package store

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/vitaminmoo/thingy-tool/internal/thingy"
)

var (
	ErrInvalidName    = errors.New("invalid preset name")
	ErrInvalidPreset  = errors.New("invalid preset")
	ErrPresetNotFound = errors.New("preset not found")
)

// Names double as file names, so keep them to a portable subset.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// indexName is reserved for the index file.
const indexName = "index"

// Preset is a saved speaker command.
type Preset struct {
	Name      string                `json:"name"`
	Command   thingy.SpeakerCommand `json:"command"`
	Note      string                `json:"note,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// ValidateName reports whether name can be used as a preset name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if name == indexName {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q (use letters, digits, '.', '_' or '-', up to 64 characters)", ErrInvalidName, name)
	}
	return nil
}

// Validate checks the name and that the command is one the speaker can play.
func (p *Preset) Validate() error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	switch p.Command.Mode {
	case thingy.SpeakerModeFrequency:
		if p.Command.Frequency <= 0 || p.Command.Duration <= 0 {
			return fmt.Errorf("%w: tone needs a positive frequency and duration", ErrInvalidPreset)
		}
		if p.Command.Volume < 0 || p.Command.Volume > 100 {
			return fmt.Errorf("%w: volume must be 0-100, got %d", ErrInvalidPreset, p.Command.Volume)
		}
	case thingy.SpeakerModeSample:
		if p.Command.Sample < 0 || p.Command.Sample > 0xff {
			return fmt.Errorf("%w: sample must be 0-255, got %d", ErrInvalidPreset, p.Command.Sample)
		}
	default:
		return fmt.Errorf("%w: speaker mode %s cannot be stored", ErrInvalidPreset, p.Command.Mode)
	}
	return nil
}

// Summary is a one-line description of the command.
func (p *Preset) Summary() string {
	return Describe(p.Command)
}

// Describe formats a speaker command for listings.
func Describe(cmd thingy.SpeakerCommand) string {
	switch cmd.Mode {
	case thingy.SpeakerModeFrequency:
		return fmt.Sprintf("tone %d Hz, %d ms, volume %d%%", cmd.Frequency, cmd.Duration, cmd.Volume)
	case thingy.SpeakerModeSample:
		return fmt.Sprintf("sample %d", cmd.Sample)
	}
	return cmd.Mode.String()
}
