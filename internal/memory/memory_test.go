package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryConversions(t *testing.T) {
	size := 3 * Gigabyte

	assert.Equal(t, int64(3*1024*1024*1024), size.Bytes())
	assert.Equal(t, int64(3*1024*1024), size.Kilobytes())
	assert.Equal(t, int64(3*1024), size.Megabytes())
	assert.Equal(t, int64(3), size.Gigabytes())
}

func TestMemoryString(t *testing.T) {
	tests := []struct {
		name string
		size Memory
		want string
	}{{
		name: "should render whole megabytes",
		size: 10 * Megabyte,
		want: "10MB",
	}, {
		name: "should render whole gigabytes",
		size: 2 * Gigabyte,
		want: "2GB",
	}, {
		name: "should render kilobytes when megabytes are not whole",
		size: 1536 * Kilobyte,
		want: "1536KB",
	}, {
		name: "should fall back to bytes",
		size: 1000 * Byte,
		want: "1000B",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.size.String())
		})
	}
}
