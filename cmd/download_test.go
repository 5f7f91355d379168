package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, c := range cases {
		var out bytes.Buffer
		if got := confirm(strings.NewReader(c.in), &out, "Proceed?"); got != c.want {
			t.Errorf("input %q Expected/Got %v/%v", c.in, c.want, got)
		}
		if !strings.HasPrefix(out.String(), "Proceed? [y/N]") {
			t.Errorf("unexpected prompt %q", out.String())
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"download", "hdmaps", "forecast", "trajectories", "drivable", "classify"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Errorf("Expected command %s, got %v (%v)", name, c, err)
		}
	}
	c, _, err := rootCmd.Find([]string{"download", "sensor"})
	if err != nil || c != downloadSensorCmd {
		t.Errorf("Expected download sensor, got %v (%v)", c, err)
	}
}
