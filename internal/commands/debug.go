package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vitaminmoo/thingy-tool/internal/api"
	"github.com/vitaminmoo/thingy-tool/internal/ble"
	"github.com/vitaminmoo/thingy-tool/internal/feature"
	"github.com/vitaminmoo/thingy-tool/internal/thingy"
	"github.com/vitaminmoo/thingy-tool/internal/util"

	"tinygo.org/x/bluetooth"
)

// PrintExplore prints discovered services and characteristics. Known Thingy
// UUIDs are labelled, and characteristics driven by one of features are
// marked with the feature key and its access.
func PrintExplore(w io.Writer, services []ble.ServiceInfo, features []*feature.Operations) {
	known := featureIndex(features)
	fmt.Fprintf(w, "Found %d services:\n\n", len(services))

	for i, svc := range services {
		fmt.Fprintf(w, "Service #%d: %s\n", i+1, label(svc.UUID))
		if svc.Err != nil {
			fmt.Fprintf(w, "  Error: %v\n\n", svc.Err)
			continue
		}

		for j, char := range svc.Characteristics {
			fmt.Fprintf(w, "  [%d] %s\n", j+1, label(char.UUID))
			for _, f := range known[char.UUID] {
				fmt.Fprintf(w, "      Feature: %s\n", f)
			}
			switch {
			case char.ReadErr != nil:
				fmt.Fprintf(w, "      (not readable: %v)\n", char.ReadErr)
			case len(char.Value) == 0:
			case util.IsTextData(char.Value):
				fmt.Fprintf(w, "      Value: %s\n", string(char.Value))
			default:
				fmt.Fprintf(w, "      Value: %s\n", util.FormatBytes(char.Value))
			}
		}
		fmt.Fprintln(w)
	}
}

// featureIndex maps each characteristic UUID to "feature/key (access)" lines.
func featureIndex(features []*feature.Operations) map[bluetooth.UUID][]string {
	index := make(map[bluetooth.UUID][]string)
	for _, ops := range features {
		for _, key := range ops.Keys() {
			c, _ := ops.Characteristic(key)
			var access []string
			if c.Readable() {
				access = append(access, "read")
			}
			if c.Writable() {
				access = append(access, "write")
			}
			if len(access) == 0 {
				access = append(access, "raw")
			}
			index[c.UUID] = append(index[c.UUID], fmt.Sprintf("%s/%s (%s)", ops.Name(), key, strings.Join(access, ", ")))
		}
	}
	return index
}

func label(uuid bluetooth.UUID) string {
	if name := thingy.DescribeUUID(uuid); name != "" {
		return fmt.Sprintf("%s (%s)", uuid.String(), name)
	}
	return uuid.String()
}

// Explore lists all services and characteristics of a connected device and
// reads each one. This is safe and doesn't write anything.
func Explore(w io.Writer, device bluetooth.Device, features []*feature.Operations) error {
	fmt.Fprintln(w, "Discovering services...")
	services, err := ble.Explore(device)
	if err != nil {
		return err
	}
	PrintExplore(w, services, features)
	return nil
}

// recorder is an in-memory device used to show what a command would write.
type recorder struct {
	mu     sync.Mutex
	values map[bluetooth.UUID][]byte
	writes []recordedWrite
}

type recordedWrite struct {
	char bluetooth.UUID
	data []byte
}

func newRecorder(cfg thingy.SoundConfiguration) *recorder {
	return &recorder{values: map[bluetooth.UUID][]byte{
		thingy.TSSConfigUUID: {byte(cfg.SpeakerMode), byte(cfg.MicrophoneMode)},
	}}
}

func (r *recorder) ReadCharacteristic(ctx context.Context, service, char bluetooth.UUID) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[char]
	if !ok {
		return nil, fmt.Errorf("no value for %s", char.String())
	}
	return append([]byte(nil), v...), nil
}

func (r *recorder) WriteCharacteristic(ctx context.Context, service, char bluetooth.UUID, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := append([]byte(nil), data...)
	r.values[char] = cp
	r.writes = append(r.writes, recordedWrite{char: char, data: cp})
	return nil
}

// Encode runs cmd against an in-memory device whose sound configuration
// starts at initial, then prints every write it produced.
func Encode(ctx context.Context, w io.Writer, cmd thingy.SpeakerCommand, initial thingy.SoundConfiguration) error {
	rec := newRecorder(initial)
	c := api.New(rec)

	if err := c.Play(ctx, cmd); err != nil {
		return err
	}

	fmt.Fprintf(w, "Encoded %s command as %d write(s):\n\n", cmd.Mode, len(rec.writes))
	for i, wr := range rec.writes {
		fmt.Fprintf(w, "#%d %s (%d bytes)\n", i+1, label(wr.char), len(wr.data))
		fmt.Fprint(w, util.HexDump(wr.data))
		fmt.Fprintln(w)
	}
	return nil
}
