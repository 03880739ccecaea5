package thingy

import (
	"context"
	"fmt"
	"sync"

	"tinygo.org/x/bluetooth"
)

type writeRecord struct {
	service bluetooth.UUID
	char    bluetooth.UUID
	data    []byte
}

// fakeTransport serves characteristic values from memory and records every
// write. Writes also update the stored value so later reads see them.
type fakeTransport struct {
	mu       sync.Mutex
	values   map[bluetooth.UUID][]byte
	writes   []writeRecord
	reads    []bluetooth.UUID
	readErr  error
	writeErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{values: make(map[bluetooth.UUID][]byte)}
}

func (f *fakeTransport) set(char bluetooth.UUID, data ...byte) {
	f.mu.Lock()
	f.values[char] = data
	f.mu.Unlock()
}

func (f *fakeTransport) ReadCharacteristic(ctx context.Context, service, char bluetooth.UUID) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, char)
	if f.readErr != nil {
		return nil, f.readErr
	}
	v, ok := f.values[char]
	if !ok {
		return nil, fmt.Errorf("no value for %s", char.String())
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (f *fakeTransport) WriteCharacteristic(ctx context.Context, service, char bluetooth.UUID, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.writes = append(f.writes, writeRecord{service: service, char: char, data: cp})
	f.values[char] = cp
	return nil
}

func (f *fakeTransport) writesTo(char bluetooth.UUID) [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]byte
	for _, w := range f.writes {
		if w.char == char {
			out = append(out, w.data)
		}
	}
	return out
}

func (f *fakeTransport) readCount(char bluetooth.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.reads {
		if r == char {
			n++
		}
	}
	return n
}
