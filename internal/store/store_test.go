package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vitaminmoo/thingy-tool/internal/thingy"
)

func tone(name string, freq int) Preset {
	return Preset{
		Name: name,
		Command: thingy.SpeakerCommand{
			Mode:      thingy.SpeakerModeFrequency,
			Frequency: freq,
			Duration:  500,
			Volume:    80,
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	isNew, err := s.Save(tone("beep", 440))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !isNew {
		t.Error("first save should report a new preset")
	}
	if _, err := s.Save(Preset{Name: "chime", Command: thingy.SpeakerCommand{Mode: thingy.SpeakerModeSample, Sample: 3}}); err != nil {
		t.Fatalf("Save sample: %v", err)
	}

	p, err := s.Get("beep")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Command.Frequency != 440 || p.Command.Mode != thingy.SpeakerModeFrequency {
		t.Errorf("Get = %+v", p.Command)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "beep" || entries[1].Name != "chime" {
		t.Fatalf("List = %+v", entries)
	}
	if entries[1].Summary != "sample 3" {
		t.Errorf("summary = %q", entries[1].Summary)
	}

	if err := s.Delete("beep"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("beep"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("Get after delete: expected ErrPresetNotFound, got %v", err)
	}
	if n, err := s.Count(); err != nil || n != 1 {
		t.Errorf("Count = %d, %v", n, err)
	}
}

func TestStoreReplaceKeepsCreatedAt(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(tone("beep", 440)); err != nil {
		t.Fatal(err)
	}
	first, err := s.Get("beep")
	if err != nil {
		t.Fatal(err)
	}

	isNew, err := s.Save(tone("beep", 880))
	if err != nil {
		t.Fatal(err)
	}
	if isNew {
		t.Error("replace should not report a new preset")
	}
	second, err := s.Get("beep")
	if err != nil {
		t.Fatal(err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if second.Command.Frequency != 880 {
		t.Errorf("Frequency = %d", second.Command.Frequency)
	}
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(tone("beep", 440)); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, "beep.json")); err != nil {
		t.Errorf("preset file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "index.json")); err != nil {
		t.Errorf("index missing: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := reopened.List()
	if err != nil || len(entries) != 1 {
		t.Fatalf("List after reopen = %+v, %v", entries, err)
	}
}

func TestStoreDeleteMissing(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("nothing"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"beep", true},
		{"alarm-2.long_one", true},
		{"", false},
		{"index", false},
		{"../escape", false},
		{"has space", false},
		{".hidden", false},
		{"a/b", false},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if tt.ok && err != nil {
			t.Errorf("ValidateName(%q) = %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateName(%q): expected ErrInvalidName, got %v", tt.name, err)
		}
	}
}

func TestPresetValidate(t *testing.T) {
	tests := []struct {
		desc string
		cmd  thingy.SpeakerCommand
		ok   bool
	}{
		{"tone", thingy.SpeakerCommand{Mode: thingy.SpeakerModeFrequency, Frequency: 440, Duration: 100, Volume: 50}, true},
		{"sample", thingy.SpeakerCommand{Mode: thingy.SpeakerModeSample, Sample: 0}, true},
		{"pcm", thingy.SpeakerCommand{Mode: thingy.SpeakerModePCM}, false},
		{"zero frequency", thingy.SpeakerCommand{Mode: thingy.SpeakerModeFrequency, Duration: 100}, false},
		{"loud", thingy.SpeakerCommand{Mode: thingy.SpeakerModeFrequency, Frequency: 440, Duration: 100, Volume: 101}, false},
		{"sample range", thingy.SpeakerCommand{Mode: thingy.SpeakerModeSample, Sample: 300}, false},
	}
	for _, tt := range tests {
		p := Preset{Name: "x", Command: tt.cmd}
		err := p.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: %v", tt.desc, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidPreset) {
			t.Errorf("%s: expected ErrInvalidPreset, got %v", tt.desc, err)
		}
	}
}
