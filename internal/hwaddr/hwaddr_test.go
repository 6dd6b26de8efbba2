package hwaddr

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tcs := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"empty", []byte{}, ""},
		{"nil", nil, ""},
		{"mixed", []byte{0xAA, 0x01, 0x02, 0x03, 0x04, 0x05}, "aa:01:02:03:04:05"},
		{"all ff", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, "ff:ff:ff:ff:ff:ff"},
		{"single octet", []byte{0x0f}, "0f"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Format(tc.input))
		})
	}
}

func TestFormat_MatchesStdlib(t *testing.T) {
	addr := net.HardwareAddr{0x3c, 0x22, 0xfb, 0x9a, 0x00, 0x7e}
	assert.Equal(t, addr.String(), Format(addr))
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		{0xAA, 0x01, 0x02, 0x03, 0x04, 0x05},
		{0xde, 0xad, 0xbe, 0xef, 0x10, 0xff},
	}

	for _, in := range inputs {
		t.Run(Format(in), func(t *testing.T) {
			out, err := Parse(Format(in))
			require.NoError(t, err)
			assert.Equal(t, net.HardwareAddr(in), out)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tcs := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"garbage", "not-a-mac"},
		{"eui64", "00:00:00:00:fe:80:00:00:00:00:00:00:02:00:5e:10"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			assert.Error(t, err)
		})
	}
}

func TestDecrementLast(t *testing.T) {
	tcs := []struct {
		name     string
		input    []byte
		expected []byte
	}{
		{
			name:     "plain",
			input:    []byte{0xaa, 0x01, 0x02, 0x03, 0x04, 0x05},
			expected: []byte{0xaa, 0x01, 0x02, 0x03, 0x04, 0x04},
		},
		{
			name:     "wraps",
			input:    []byte{0xaa, 0x01, 0x02, 0x03, 0x04, 0x00},
			expected: []byte{0xaa, 0x01, 0x02, 0x03, 0x04, 0xff},
		},
		{
			name:     "earlier octets untouched on wrap",
			input:    []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			expected: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0xff},
		},
		{
			name:     "empty",
			input:    []byte{},
			expected: []byte{},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			DecrementLast(tc.input)
			assert.Equal(t, tc.expected, tc.input)
		})
	}
}

func TestDecrementLast_FullCycle(t *testing.T) {
	start := []byte{0x02, 0x11, 0x22, 0x33, 0x44, 0x55}
	addr := Clone(start)

	for i := 1; i < 256; i++ {
		DecrementLast(addr)
		assert.NotEqual(t, net.HardwareAddr(start), addr, "step %d", i)
	}

	DecrementLast(addr)
	assert.Equal(t, net.HardwareAddr(start), addr)
}

func TestClone(t *testing.T) {
	orig := net.HardwareAddr{1, 2, 3, 4, 5, 6}
	c := Clone(orig)
	c[5] = 0

	assert.Equal(t, byte(6), orig[5])
	assert.Nil(t, Clone(nil))
}
