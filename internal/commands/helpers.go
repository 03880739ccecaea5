package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vitaminmoo/thingy-tool/internal/thingy"
)

// PrintJSON pretty-prints v as JSON.
func PrintJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// ConfirmAction prompts the user to type 'yes' to continue.
// Returns true if confirmed, false otherwise.
func ConfirmAction(in io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprint(w, prompt)

	reader := bufio.NewReader(in)
	confirm, _ := reader.ReadString('\n')
	confirm = strings.TrimSpace(confirm)

	return confirm == "yes"
}

// ParseSpeakerMode accepts a mode name or its number. Empty means unset.
func ParseSpeakerMode(s string) (thingy.SpeakerMode, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "frequency", "tone":
		return thingy.SpeakerModeFrequency, nil
	case "pcm":
		return thingy.SpeakerModePCM, nil
	case "sample":
		return thingy.SpeakerModeSample, nil
	}
	// 0 is reserved for "unset" and is never a valid mode.
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("unknown speaker mode %q (want frequency, pcm, sample or 1-3)", s)
	}
	return thingy.SpeakerMode(n), nil
}

// ParseMicrophoneMode accepts a mode name or its number. Empty means unset.
func ParseMicrophoneMode(s string) (thingy.MicrophoneMode, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "adpcm":
		return thingy.MicrophoneModeADPCM, nil
	case "spl":
		return thingy.MicrophoneModeSPL, nil
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("unknown microphone mode %q (want adpcm, spl or 1-2)", s)
	}
	return thingy.MicrophoneMode(n), nil
}
