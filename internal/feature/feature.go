// Package feature holds the plumbing shared by every Thingy service adapter:
// characteristic descriptors, the transport capability they talk through,
// and Operations, which routes typed values through a characteristic's codec.
package feature

import (
	"context"
	"fmt"
	"sort"

	"github.com/vitaminmoo/thingy-tool/internal/config"
	"github.com/vitaminmoo/thingy-tool/internal/util"

	"tinygo.org/x/bluetooth"
)

// Transport moves raw payloads to and from a remote characteristic.
type Transport interface {
	ReadCharacteristic(ctx context.Context, service, char bluetooth.UUID) ([]byte, error)
	WriteCharacteristic(ctx context.Context, service, char bluetooth.UUID, data []byte) error
}

// Access is the capability a codec adapter needs to reach its own
// characteristics: encode-and-write a value, or fetch raw bytes.
type Access interface {
	Write(ctx context.Context, value any, key string) error
	ReadRaw(ctx context.Context, key string) ([]byte, error)
}

// EncodeFunc turns a value into a characteristic payload. It may perform
// remote I/O of its own, hence the context.
type EncodeFunc func(ctx context.Context, value any) ([]byte, error)

// DecodeFunc turns a characteristic payload into a value.
type DecodeFunc func(data []byte) (any, error)

// Service describes the GATT service a feature lives in.
type Service struct {
	UUID bluetooth.UUID
}

// Characteristic describes one characteristic and its codec.
// A nil Decode means reads cannot be decoded, a nil Encode means the
// characteristic cannot be written through Operations.
type Characteristic struct {
	UUID   bluetooth.UUID
	Decode DecodeFunc
	Encode EncodeFunc
}

// Readable reports whether the characteristic has a decoder.
func (c Characteristic) Readable() bool { return c.Decode != nil }

// Writable reports whether the characteristic has an encoder.
func (c Characteristic) Writable() bool { return c.Encode != nil }

// Operations performs reads and writes on the characteristics of one feature.
// The characteristic table is fixed at construction.
type Operations struct {
	name            string
	transport       Transport
	service         Service
	characteristics map[string]Characteristic
}

// NewOperations creates Operations for a feature. The characteristics map is
// copied.
func NewOperations(name string, transport Transport, service Service, characteristics map[string]Characteristic) *Operations {
	chars := make(map[string]Characteristic, len(characteristics))
	for k, v := range characteristics {
		chars[k] = v
	}
	return &Operations{
		name:            name,
		transport:       transport,
		service:         service,
		characteristics: chars,
	}
}

// Name returns the feature name (e.g. "name", "speakerdata").
func (o *Operations) Name() string {
	return o.name
}

// Service returns the service descriptor.
func (o *Operations) Service() Service {
	return o.service
}

// Characteristic returns the descriptor registered under key.
func (o *Operations) Characteristic(key string) (Characteristic, bool) {
	c, ok := o.characteristics[key]
	return c, ok
}

// Keys returns the registered characteristic keys in sorted order.
func (o *Operations) Keys() []string {
	keys := make([]string, 0, len(o.characteristics))
	for k := range o.characteristics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (o *Operations) lookup(key string) (Characteristic, error) {
	c, ok := o.characteristics[key]
	if !ok {
		return Characteristic{}, fmt.Errorf("%s: %w: %q", o.name, ErrUnknownCharacteristic, key)
	}
	return c, nil
}

// Write encodes value with the encoder of characteristic key and writes the
// result to the device.
func (o *Operations) Write(ctx context.Context, value any, key string) error {
	c, err := o.lookup(key)
	if err != nil {
		return err
	}
	if c.Encode == nil {
		return fmt.Errorf("%s/%s: %w", o.name, key, ErrNotWritable)
	}

	data, err := c.Encode(ctx, value)
	if err != nil {
		return err
	}

	config.Debugf("%s/%s: writing %d bytes to %s\n%s", o.name, key, len(data), c.UUID.String(), util.HexDump(data))

	if err := o.transport.WriteCharacteristic(ctx, o.service.UUID, c.UUID, data); err != nil {
		return fmt.Errorf("%s/%s: write failed: %w", o.name, key, err)
	}
	return nil
}

// ReadRaw reads the current bytes of characteristic key.
func (o *Operations) ReadRaw(ctx context.Context, key string) ([]byte, error) {
	c, err := o.lookup(key)
	if err != nil {
		return nil, err
	}

	data, err := o.transport.ReadCharacteristic(ctx, o.service.UUID, c.UUID)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: read failed: %w", o.name, key, err)
	}

	config.Debugf("%s/%s: read %d bytes from %s\n%s", o.name, key, len(data), c.UUID.String(), util.HexDump(data))
	return data, nil
}

// Read reads characteristic key and decodes it.
func (o *Operations) Read(ctx context.Context, key string) (any, error) {
	c, err := o.lookup(key)
	if err != nil {
		return nil, err
	}
	if c.Decode == nil {
		return nil, fmt.Errorf("%s/%s: %w", o.name, key, ErrNotReadable)
	}

	data, err := o.ReadRaw(ctx, key)
	if err != nil {
		return nil, err
	}
	return c.Decode(data)
}
