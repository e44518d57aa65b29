package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchPort(t *testing.T) {
	ports := []string{"/dev/ttyACM10", "/dev/ttyACM1", "COM20", "COM2", "/dev/cu.usbmodemUSB35"}

	testCases := []struct {
		name   string
		expect string
	}{
		{"/dev/ttyACM1", "/dev/ttyACM1"},
		{"COM2", "COM2"},
		{"ttyACM", "/dev/ttyACM10"},
		{"usbmodem", "/dev/cu.usbmodemUSB35"},
		{"COM3", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, matchPort(ports, tc.name))
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	require.Equal(t, 115200, opts.BaudRate)
	require.Equal(t, 8, opts.DataBits)
	require.True(t, opts.DTR)
	require.True(t, opts.RTS)
}
