package config

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestDebugfFollowsVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer func(v bool) { Verbose = v }(Verbose)

	Verbose = false
	Debugf("quiet %d", 1)
	if buf.Len() != 0 {
		t.Errorf("debug output with Verbose=false: %q", buf.String())
	}

	Verbose = true
	Debugf("loud %d", 2)
	if !strings.Contains(buf.String(), "loud 2") {
		t.Errorf("missing debug output: %q", buf.String())
	}
}

func TestWarnfAlwaysLogs(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer func(v bool) { Verbose = v }(Verbose)

	Verbose = false
	Warnf("careful %s", "now")
	if !strings.Contains(buf.String(), "careful now") {
		t.Errorf("missing warning: %q", buf.String())
	}
}
