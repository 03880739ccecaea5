package thingy

import (
	"strings"
	"testing"
)

func TestThingyUUIDs(t *testing.T) {
	tests := map[string]string{
		TCSUUID.String():            "ef680100-9b35-4933-9b10-52ffa9740042",
		TCSNameUUID.String():        "ef680101-9b35-4933-9b10-52ffa9740042",
		TSSUUID.String():            "ef680500-9b35-4933-9b10-52ffa9740042",
		TSSConfigUUID.String():      "ef680501-9b35-4933-9b10-52ffa9740042",
		TSSSpeakerDataUUID.String(): "ef680502-9b35-4933-9b10-52ffa9740042",
	}
	for got, want := range tests {
		if !strings.EqualFold(got, want) {
			t.Errorf("expected UUID %s but got %s", want, got)
		}
	}
}

func TestDescribeUUID(t *testing.T) {
	if got := DescribeUUID(TCSNameUUID); got != "Device Name" {
		t.Errorf("DescribeUUID(name) = %q", got)
	}
	if got := DescribeUUID(TSSSpeakerDataUUID); got != "Speaker Data" {
		t.Errorf("DescribeUUID(speaker data) = %q", got)
	}
}
