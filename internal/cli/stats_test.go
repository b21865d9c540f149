package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0 B", formatBytes(0))
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.00 KB", formatBytes(1024))
	assert.Equal(t, "1.50 MB", formatBytes(1536*1024))
	assert.Equal(t, "2.00 GB", formatBytes(2*1024*1024*1024))
}
