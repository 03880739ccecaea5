package ble

import "testing"

func TestConnectOptionsMatches(t *testing.T) {
	tests := []struct {
		opts    ConnectOptions
		name    string
		address string
		want    bool
	}{
		{ConnectOptions{}, "Thingy", "", true},
		{ConnectOptions{}, "thingy-kitchen", "", true},
		{ConnectOptions{}, "Other", "", false},
		{ConnectOptions{}, "", "", false},
		{ConnectOptions{Name: "Kitchen"}, "KITCHEN", "", true},
		{ConnectOptions{Name: "Kitchen"}, "Thingy", "", false},
		{ConnectOptions{Address: "C1:2B:3C:4D:5E:6F"}, "", "c1:2b:3c:4d:5e:6f", true},
		{ConnectOptions{Address: "C1:2B:3C:4D:5E:6F"}, "Thingy", "00:11:22:33:44:55", false},
	}
	for _, tt := range tests {
		if got := tt.opts.matches(tt.name, tt.address); got != tt.want {
			t.Errorf("matches(%+v, %q, %q) = %v, want %v", tt.opts, tt.name, tt.address, got, tt.want)
		}
	}
}
