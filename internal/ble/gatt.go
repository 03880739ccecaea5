package ble

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vitaminmoo/thingy-tool/internal/config"

	"tinygo.org/x/bluetooth"
)

// maxReadSize covers the longest attribute value BLE allows.
const maxReadSize = 512

var (
	ErrServiceNotFound        = errors.New("service not found")
	ErrCharacteristicNotFound = errors.New("characteristic not found")
)

// GATT implements feature.Transport over a connected device. Services and
// characteristics are discovered on first use and cached.
type GATT struct {
	device bluetooth.Device

	mu       sync.Mutex
	services map[bluetooth.UUID]*bluetooth.DeviceService
	chars    map[bluetooth.UUID]*bluetooth.DeviceCharacteristic
	// ioMu serializes characteristic I/O; BlueZ rejects overlapping
	// operations on one connection with "In progress".
	ioMu sync.Mutex
}

// NewGATT wraps a connected device.
func NewGATT(device bluetooth.Device) *GATT {
	return &GATT{
		device:   device,
		services: make(map[bluetooth.UUID]*bluetooth.DeviceService),
		chars:    make(map[bluetooth.UUID]*bluetooth.DeviceCharacteristic),
	}
}

// Device returns the wrapped device.
func (g *GATT) Device() bluetooth.Device {
	return g.device
}

// Disconnect closes the underlying connection.
func (g *GATT) Disconnect() error {
	return g.device.Disconnect()
}

// characteristic resolves a cached characteristic, discovering it on first
// use. Callers hold ioMu so discovery never overlaps other I/O.
func (g *GATT) characteristic(service, char bluetooth.UUID) (*bluetooth.DeviceCharacteristic, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.chars[char]; ok {
		return c, nil
	}

	svc, ok := g.services[service]
	if !ok {
		config.Debugf("Discovering service %s...", service.String())
		found, err := g.device.DiscoverServices([]bluetooth.UUID{service})
		if err != nil {
			return nil, fmt.Errorf("failed to discover service %s: %w", service.String(), err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, service.String())
		}
		svc = &found[0]
		g.services[service] = svc
	}

	config.Debugf("Discovering characteristics of %s...", service.String())
	chars, err := svc.DiscoverCharacteristics(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to discover characteristics: %w", err)
	}
	for i := range chars {
		config.Debugf("Found characteristic: %s", chars[i].UUID().String())
		g.chars[chars[i].UUID()] = &chars[i]
	}

	c, ok := g.chars[char]
	if !ok {
		return nil, fmt.Errorf("%w: %s in service %s", ErrCharacteristicNotFound, char.String(), service.String())
	}
	return c, nil
}

// run performs fn under the I/O lock, returning early if ctx ends. tinygo
// calls do not take a context, so a call already started when ctx ends
// finishes in the background; one still waiting for the lock never starts.
func (g *GATT) run(ctx context.Context, fn func() error) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.DefaultRequestTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		g.ioMu.Lock()
		defer g.ioMu.Unlock()
		if err := ctx.Err(); err != nil {
			done <- err
			return
		}
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("gatt operation abandoned: %w", ctx.Err())
	}
}

// ReadCharacteristic reads the current value of a characteristic.
func (g *GATT) ReadCharacteristic(ctx context.Context, service, char bluetooth.UUID) ([]byte, error) {
	var data []byte
	err := g.run(ctx, func() error {
		c, err := g.characteristic(service, char)
		if err != nil {
			return err
		}
		buf := make([]byte, maxReadSize)
		n, err := c.Read(buf)
		if err != nil {
			return err
		}
		data = buf[:n]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// WriteCharacteristic writes data to a characteristic.
// NOTE: tinygo bluetooth on Linux doesn't support Write with Response (only
// WriteWithoutResponse). Thingy characteristics accept both.
func (g *GATT) WriteCharacteristic(ctx context.Context, service, char bluetooth.UUID, data []byte) error {
	return g.run(ctx, func() error {
		c, err := g.characteristic(service, char)
		if err != nil {
			return err
		}
		n, err := c.WriteWithoutResponse(data)
		if err != nil {
			return err
		}
		if n != len(data) {
			return fmt.Errorf("short write: %d of %d bytes", n, len(data))
		}
		return nil
	})
}
