package ble

import (
	"fmt"

	"tinygo.org/x/bluetooth"
)

// ServiceInfo is one discovered service and its characteristics.
type ServiceInfo struct {
	UUID            bluetooth.UUID
	Characteristics []CharacteristicInfo
	Err             error // characteristic discovery error, if any
}

// CharacteristicInfo is one discovered characteristic with its value, if the
// read succeeded.
type CharacteristicInfo struct {
	UUID    bluetooth.UUID
	Value   []byte
	ReadErr error
}

// Explore lists all services and characteristics and tries to read each one.
// This is safe and doesn't write anything.
func Explore(device bluetooth.Device) ([]ServiceInfo, error) {
	allServices, err := device.DiscoverServices(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to discover services: %w", err)
	}

	infos := make([]ServiceInfo, 0, len(allServices))
	for i := range allServices {
		svc := &allServices[i]
		info := ServiceInfo{UUID: svc.UUID()}

		chars, err := svc.DiscoverCharacteristics(nil)
		if err != nil {
			info.Err = err
			infos = append(infos, info)
			continue
		}

		for j := range chars {
			ci := CharacteristicInfo{UUID: chars[j].UUID()}
			buf := make([]byte, maxReadSize)
			n, err := chars[j].Read(buf)
			if err != nil {
				ci.ReadErr = err
			} else {
				ci.Value = buf[:n]
			}
			info.Characteristics = append(info.Characteristics, ci)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
