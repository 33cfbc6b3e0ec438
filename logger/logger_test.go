package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"api_key", "abc",
		"user_id", "42",
		"anon_user_id", "anon_0123456789abcdef",
		"occasion", "gym",
		"dangling",
	})

	assert.Equal(t, "[REDACTED]", out[1])
	assert.Contains(t, out[3], "hash:")
	assert.Equal(t, "anon_0123456789abcdef", out[5])
	assert.Equal(t, "gym", out[7])
	assert.Equal(t, "dangling", out[8])
}

func TestNopLogger(t *testing.T) {
	l := Nop().With("request_id", "r1")
	assert.NotPanics(t, func() {
		l.Info("hello", "k", "v")
		l.Warn("hello")
	})
}
