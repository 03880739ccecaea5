package ble

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vitaminmoo/thingy-tool/internal/config"

	"tinygo.org/x/bluetooth"
)

// ErrDeviceNotFound is returned when a scan ends without a matching device.
var ErrDeviceNotFound = errors.New("thingy device not found")

// ConnectOptions controls how Connect finds the device.
type ConnectOptions struct {
	// Name is matched case-insensitively as a substring of the advertised
	// local name. Empty means config.DefaultDeviceName.
	Name string
	// Address, if set, selects a device by address instead of by name.
	Address string
	// ScanTimeout bounds the scan. Zero means config.DefaultScanTimeout.
	ScanTimeout time.Duration
}

func (o ConnectOptions) matches(localName, address string) bool {
	if o.Address != "" {
		return strings.EqualFold(address, o.Address)
	}
	if localName == "" {
		return false
	}
	name := o.Name
	if name == "" {
		name = config.DefaultDeviceName
	}
	return strings.Contains(strings.ToLower(localName), strings.ToLower(name))
}

// Scan enables the default adapter and scans until a device matching opts is
// seen, the scan times out, or ctx is done.
func Scan(ctx context.Context, opts ConnectOptions) (bluetooth.ScanResult, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return bluetooth.ScanResult{}, fmt.Errorf("failed to enable bluetooth: %w", err)
	}

	timeout := opts.ScanTimeout
	if timeout == 0 {
		timeout = config.DefaultScanTimeout
	}
	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Scan blocks until StopScan, so stop it when the deadline passes.
	go func() {
		<-scanCtx.Done()
		adapter.StopScan()
	}()

	var deviceResult bluetooth.ScanResult
	var found bool

	err := adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		if found {
			return
		}
		name := result.LocalName()
		address := result.Address.String()
		if config.Verbose && name != "" {
			config.Debugf("Found: '%s' (%s) rssi=%d", name, address, result.RSSI)
		}
		if opts.matches(name, address) {
			deviceResult = result
			found = true
			adapter.StopScan()
		}
	})
	if err != nil {
		return bluetooth.ScanResult{}, fmt.Errorf("scan error: %w", err)
	}

	if !found {
		if ctx.Err() != nil {
			return bluetooth.ScanResult{}, ctx.Err()
		}
		return bluetooth.ScanResult{}, ErrDeviceNotFound
	}
	return deviceResult, nil
}

// Connect scans for and connects to a Thingy.
func Connect(ctx context.Context, opts ConnectOptions) (bluetooth.Device, error) {
	result, err := Scan(ctx, opts)
	if err != nil {
		return bluetooth.Device{}, err
	}

	config.Debugf("Connecting to %s (%s)...", result.LocalName(), result.Address.String())

	device, err := bluetooth.DefaultAdapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return bluetooth.Device{}, fmt.Errorf("failed to connect: %w", err)
	}

	config.Debugf("Connected to %s", result.Address.String())
	return device, nil
}
