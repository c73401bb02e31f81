package kvstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompressor(t *testing.T) *ZstdCompressor {
	t.Helper()
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestZstdCompressor_Roundtrip(t *testing.T) {
	c := newCompressor(t)

	preset := `{"id":"1","name":"Track Day","settings":{"exposure":0.3,"contrast":12}},`
	for name, payload := range map[string]string{
		"empty":    "",
		"single":   `{"version":1,"presets":[` + strings.TrimSuffix(preset, ",") + `]}`,
		"catalog":  `{"version":1,"presets":[` + strings.Repeat(preset, 5000) + `{}]}`,
		"non json": "\x00\x01\x02 raw bytes",
	} {
		t.Run(name, func(t *testing.T) {
			packed, err := c.Compress([]byte(payload))
			require.NoError(t, err)

			out, err := c.Decompress(packed)
			require.NoError(t, err)
			assert.Equal(t, payload, string(out))
		})
	}
}

func TestZstdCompressor_ShrinksRepetitiveSnapshot(t *testing.T) {
	c := newCompressor(t)

	snapshot := []byte(strings.Repeat(`{"id":"x","name":"Golden Hour","isShared":false},`, 20000))
	packed, err := c.Compress(snapshot)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(snapshot)/10)
}

func TestZstdCompressor_RejectsGarbage(t *testing.T) {
	c := newCompressor(t)

	for _, in := range [][]byte{
		[]byte(`{"version":1,"presets":[]}`),
		{0xff, 0xfe, 0xfd, 0xfc, 0x00, 0x01},
	} {
		_, err := c.Decompress(in)
		assert.Error(t, err)
	}
}
