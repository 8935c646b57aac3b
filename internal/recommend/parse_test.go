package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMemoryGB(t *testing.T) {
	tests := map[string]float64{
		"16 GB":  16,
		"8gb":    8,
		"1.5 GB": 1.5,
		"512 MB": 0.5,
		"126 MB": 126.0 / 1024,
		"":       0,
		"lots":   0,
		"16":     16,
		"4 GiB":  4,
		"40":     40,
	}
	for in, want := range tests {
		assert.InDelta(t, want, ParseMemoryGB(in), 1e-9, in)
	}
}

func TestParseLatencyMs(t *testing.T) {
	assert.Equal(t, 45, ParseLatencyMs("~45ms/token"))
	assert.Equal(t, 2, ParseLatencyMs("~2ms"))
	assert.Equal(t, 50, ParseLatencyMs("varies"))
	assert.Equal(t, 50, ParseLatencyMs(""))
}

func TestParseParameterCount(t *testing.T) {
	assert.Equal(t, 7e9, ParseParameterCount("7B"))
	assert.InDelta(t, 3.8e9, ParseParameterCount("3.8B"), 1)
	assert.Equal(t, 335e6, ParseParameterCount("335M"))
	assert.Equal(t, 50e3, ParseParameterCount("50K"))
	assert.Zero(t, ParseParameterCount("unknown"))
}

func TestIsPermissive(t *testing.T) {
	assert.True(t, IsPermissive("MIT"))
	assert.True(t, IsPermissive("Apache 2.0"))
	assert.True(t, IsPermissive("apache-2.0"))
	assert.False(t, IsPermissive("Llama 3.1 Community"))
	assert.False(t, IsPermissive("BigCode OpenRAIL-M"))
	assert.False(t, IsPermissive(""))
}
