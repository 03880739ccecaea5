package thingy

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/vitaminmoo/thingy-tool/internal/feature"
)

func TestEncodeSpeakerDataTone(t *testing.T) {
	tests := []struct {
		name                        string
		frequency, duration, volume int
		want                        []byte
	}{
		{"a4", 440, 1000, 50, []byte{0xb8, 0x01, 0xe8, 0x03, 0x32}},
		{"zero", 0, 0, 0, []byte{0, 0, 0, 0, 0}},
		{"max", 0xffff, 0xffff, 100, []byte{0xff, 0xff, 0xff, 0xff, 0x64}},
		{"volume low byte", 1, 2, 0x1ff, []byte{0x01, 0x00, 0x02, 0x00, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := newFakeTransport()
			ft.set(TSSConfigUUID, 3, 2)
			s := NewSpeakerDataService(ft)

			got, err := s.EncodeSpeakerData(context.Background(), SpeakerCommand{
				Mode:      SpeakerModeFrequency,
				Frequency: tt.frequency,
				Duration:  tt.duration,
				Volume:    tt.volume,
			})
			if err != nil {
				t.Fatalf("EncodeSpeakerData: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got % x, want % x", got, tt.want)
			}
		})
	}
}

func TestEncodeSpeakerDataSample(t *testing.T) {
	for _, sample := range []int{0, 1, 8, 0xff, 0x1234} {
		ft := newFakeTransport()
		ft.set(TSSConfigUUID, 1, 1)
		s := NewSpeakerDataService(ft)

		got, err := s.EncodeSpeakerData(context.Background(), SpeakerCommand{Mode: SpeakerModeSample, Sample: sample})
		if err != nil {
			t.Fatalf("sample %d: %v", sample, err)
		}
		if len(got) != 1 || got[0] != byte(sample&0xff) {
			t.Errorf("sample %d: got % x", sample, got)
		}
	}
}

func TestEncodeSpeakerDataSwitchesModeFirst(t *testing.T) {
	ft := newFakeTransport()
	ft.set(TSSConfigUUID, 1, 2)
	s := NewSpeakerDataService(ft)

	if _, err := s.EncodeSpeakerData(context.Background(), SpeakerCommand{Mode: SpeakerModeSample, Sample: 4}); err != nil {
		t.Fatal(err)
	}

	writes := ft.writesTo(TSSConfigUUID)
	if len(writes) != 1 {
		t.Fatalf("expected 1 config write, got %d", len(writes))
	}
	// Speaker mode switched to sample, microphone mode kept from the device.
	if want := []byte{3, 2}; !bytes.Equal(writes[0], want) {
		t.Errorf("config write = % x, want % x", writes[0], want)
	}
	if n := len(ft.writesTo(TSSSpeakerDataUUID)); n != 0 {
		t.Errorf("encode alone should not write speaker data, got %d writes", n)
	}
}

func TestEncodeSpeakerDataPCMUnsupported(t *testing.T) {
	ft := newFakeTransport()
	ft.set(TSSConfigUUID, 1, 1)
	s := NewSpeakerDataService(ft)

	_, err := s.EncodeSpeakerData(context.Background(), SpeakerCommand{Mode: SpeakerModePCM})
	if !errors.Is(err, feature.ErrUnsupportedMode) {
		t.Fatalf("expected ErrUnsupportedMode, got %v", err)
	}
	if len(ft.writes) != 0 {
		t.Errorf("unsupported mode caused %d writes", len(ft.writes))
	}
}

func TestEncodeSpeakerDataInvalidMode(t *testing.T) {
	ft := newFakeTransport()
	ft.set(TSSConfigUUID, 1, 1)
	s := NewSpeakerDataService(ft)
	ctx := context.Background()

	if _, err := s.EncodeSpeakerData(ctx, SpeakerCommand{Mode: 4}); !errors.Is(err, feature.ErrOutOfRange) {
		t.Errorf("mode 4: expected ErrOutOfRange, got %v", err)
	}
	if _, err := s.EncodeSpeakerData(ctx, SpeakerCommand{}); !errors.Is(err, feature.ErrInvalidArgument) {
		t.Errorf("mode 0: expected ErrInvalidArgument, got %v", err)
	}
	if len(ft.writes) != 0 {
		t.Errorf("invalid modes caused %d writes", len(ft.writes))
	}
}

func TestEncodeSpeakerDataConfigWriteFails(t *testing.T) {
	ft := newFakeTransport()
	ft.set(TSSConfigUUID, 1, 1)
	ft.writeErr = errors.New("link lost")
	s := NewSpeakerDataService(ft)

	_, err := s.EncodeSpeakerData(context.Background(), SpeakerCommand{Mode: SpeakerModeSample, Sample: 1})
	if err == nil || !errors.Is(err, ft.writeErr) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
}

func TestPlayWritesSpeakerData(t *testing.T) {
	ft := newFakeTransport()
	ft.set(TSSConfigUUID, 3, 1)
	s := NewSpeakerDataService(ft)
	ctx := context.Background()

	if err := s.PlayTone(ctx, 440, 500, 80); err != nil {
		t.Fatalf("PlayTone: %v", err)
	}
	if err := s.PlaySample(ctx, 2); err != nil {
		t.Fatalf("PlaySample: %v", err)
	}

	data := ft.writesTo(TSSSpeakerDataUUID)
	if len(data) != 2 {
		t.Fatalf("expected 2 speaker data writes, got %d", len(data))
	}
	if want := []byte{0xb8, 0x01, 0xf4, 0x01, 0x50}; !bytes.Equal(data[0], want) {
		t.Errorf("tone payload = % x, want % x", data[0], want)
	}
	if want := []byte{0x02}; !bytes.Equal(data[1], want) {
		t.Errorf("sample payload = % x, want % x", data[1], want)
	}

	// Config must be written before each data payload.
	var order []string
	for _, w := range ft.writes {
		switch w.char {
		case TSSConfigUUID:
			order = append(order, "config")
		case TSSSpeakerDataUUID:
			order = append(order, "data")
		}
	}
	want := []string{"config", "data", "config", "data"}
	if len(order) != len(want) {
		t.Fatalf("write order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("write order = %v, want %v", order, want)
		}
	}
}

func TestSpeakerDescriptor(t *testing.T) {
	s := NewSpeakerDataService(newFakeTransport())
	ops := s.Operations()

	if got := ops.Keys(); len(got) != 2 || got[0] != "config" || got[1] != "default" {
		t.Fatalf("Keys() = %v", got)
	}
	data, _ := ops.Characteristic("default")
	if data.UUID != TSSSpeakerDataUUID || data.Readable() || !data.Writable() {
		t.Errorf("speaker data descriptor wrong: readable=%v writable=%v", data.Readable(), data.Writable())
	}
	cfg, _ := ops.Characteristic("config")
	if cfg.UUID != TSSConfigUUID || !cfg.Readable() || !cfg.Writable() {
		t.Errorf("config descriptor wrong: readable=%v writable=%v", cfg.Readable(), cfg.Writable())
	}

	if _, err := ops.Read(context.Background(), "default"); !errors.Is(err, feature.ErrNotReadable) {
		t.Errorf("expected ErrNotReadable, got %v", err)
	}
}
