package thingy

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/vitaminmoo/thingy-tool/internal/feature"
)

func TestDecodeSoundConfigurationData(t *testing.T) {
	s := NewSpeakerDataService(newFakeTransport())

	for _, in := range [][]byte{{1, 1}, {3, 2}, {2, 1}, {0xff, 0x00}, {1, 2, 9}} {
		got, err := s.DecodeSoundConfigurationData(in)
		if err != nil {
			t.Fatalf("decode % x: %v", in, err)
		}
		if byte(got.SpeakerMode) != in[0] || byte(got.MicrophoneMode) != in[1] {
			t.Errorf("decode % x = %+v", in, got)
		}
	}

	if _, err := s.DecodeSoundConfigurationData([]byte{1}); !errors.Is(err, feature.ErrOutOfRange) {
		t.Errorf("short payload: expected ErrOutOfRange, got %v", err)
	}
}

func TestEncodeSoundConfigurationValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  SoundConfiguration
		want error
	}{
		{"empty", SoundConfiguration{}, feature.ErrInvalidArgument},
		{"speaker 4", SoundConfiguration{SpeakerMode: 4, MicrophoneMode: 1}, feature.ErrOutOfRange},
		{"speaker 4 alone", SoundConfiguration{SpeakerMode: 4}, feature.ErrOutOfRange},
		{"microphone 3", SoundConfiguration{SpeakerMode: 1, MicrophoneMode: 3}, feature.ErrOutOfRange},
		{"microphone 3 alone", SoundConfiguration{MicrophoneMode: 3}, feature.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := newFakeTransport()
			ft.set(TSSConfigUUID, 1, 1)
			s := NewSpeakerDataService(ft)

			_, err := s.EncodeSoundConfigurationData(context.Background(), tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if n := ft.readCount(TSSConfigUUID); n != 0 {
				t.Errorf("invalid input triggered %d reads", n)
			}
		})
	}
}

func TestEncodeSoundConfigurationMerge(t *testing.T) {
	tests := []struct {
		name   string
		device []byte
		cfg    SoundConfiguration
		want   []byte
		reads  int
	}{
		{"speaker only keeps microphone", []byte{1, 2}, SoundConfiguration{SpeakerMode: 2}, []byte{2, 2}, 1},
		{"microphone only keeps speaker", []byte{3, 1}, SoundConfiguration{MicrophoneMode: 2}, []byte{3, 2}, 1},
		{"both set skips read", []byte{1, 1}, SoundConfiguration{SpeakerMode: 3, MicrophoneMode: 2}, []byte{3, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := newFakeTransport()
			ft.set(TSSConfigUUID, tt.device...)
			s := NewSpeakerDataService(ft)

			got, err := s.EncodeSoundConfigurationData(context.Background(), tt.cfg)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got % x, want % x", got, tt.want)
			}
			if n := ft.readCount(TSSConfigUUID); n != tt.reads {
				t.Errorf("reads = %d, want %d", n, tt.reads)
			}
		})
	}
}

func TestEncodeSoundConfigurationReadFails(t *testing.T) {
	ft := newFakeTransport()
	ft.readErr = errors.New("gatt busy")
	s := NewSpeakerDataService(ft)

	_, err := s.EncodeSoundConfigurationData(context.Background(), SoundConfiguration{SpeakerMode: 1})
	if !errors.Is(err, ft.readErr) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}

func TestEncodeSoundConfigurationShortRead(t *testing.T) {
	ft := newFakeTransport()
	ft.set(TSSConfigUUID, 1)
	s := NewSpeakerDataService(ft)

	_, err := s.EncodeSoundConfigurationData(context.Background(), SoundConfiguration{SpeakerMode: 1})
	if !errors.Is(err, feature.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestSoundConfigurationService(t *testing.T) {
	ft := newFakeTransport()
	ft.set(TSSConfigUUID, 1, 1)
	s := NewSoundConfigurationService(ft)
	ctx := context.Background()

	cfg, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg.SpeakerMode != SpeakerModeFrequency || cfg.MicrophoneMode != MicrophoneModeADPCM {
		t.Errorf("Get = %+v", cfg)
	}

	if err := s.Set(ctx, SoundConfiguration{MicrophoneMode: MicrophoneModeSPL}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	cfg, err = s.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SpeakerMode != SpeakerModeFrequency || cfg.MicrophoneMode != MicrophoneModeSPL {
		t.Errorf("after Set, Get = %+v", cfg)
	}
}

func TestSoundConfigurationWrongType(t *testing.T) {
	s := NewSoundConfigurationService(newFakeTransport())

	err := s.Operations().Write(context.Background(), "speaker=1", "default")
	if !errors.Is(err, feature.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestModeStrings(t *testing.T) {
	if SpeakerModeSample.String() != "sample" || SpeakerMode(9).String() != "unknown(9)" {
		t.Errorf("speaker mode strings wrong")
	}
	if MicrophoneModeSPL.String() != "spl" || !MicrophoneModeADPCM.Valid() || MicrophoneMode(0).Valid() {
		t.Errorf("microphone mode helpers wrong")
	}
}
