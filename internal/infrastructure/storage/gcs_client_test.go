package storage

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	name := ObjectName("products/user-1", "image/png", now)

	pattern := regexp.MustCompile(`^public/products/user-1/[0-9a-f-]{36}-20240501103000\.png$`)
	assert.Regexp(t, pattern, name)
	assert.Regexp(t, `\.bin$`, ObjectName("public/x", "application/octet-stream", now))
}

func TestObjectFromURL(t *testing.T) {
	name, ok := ObjectFromURL("bucket", "https://storage.googleapis.com/bucket/public/products/a.png")
	assert.True(t, ok)
	assert.Equal(t, "public/products/a.png", name)

	_, ok = ObjectFromURL("bucket", "https://storage.googleapis.com/other/public/a.png")
	assert.False(t, ok)

	_, ok = ObjectFromURL("bucket", "https://yt3.ggpht.com/logo.jpg")
	assert.False(t, ok)
}
