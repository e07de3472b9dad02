package deliverysvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryBackoff(t *testing.T) {
	// Backoff nhân 4 mỗi lần: 30s, 2m, 8m
	assert.Equal(t, 30*time.Second, retryBackoff(1))
	assert.Equal(t, 2*time.Minute, retryBackoff(2))
	assert.Equal(t, 8*time.Minute, retryBackoff(3))
}
