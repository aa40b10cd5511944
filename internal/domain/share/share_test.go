package share

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileShare_UsableAt(t *testing.T) {
	now := time.Now()
	soon := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name   string
		share  FileShare
		usable bool
	}{
		{"active without expiry", FileShare{Status: StatusActive}, true},
		{"active before expiry", FileShare{Status: StatusActive, ExpiresOn: &soon}, true},
		{"active past expiry", FileShare{Status: StatusActive, ExpiresOn: &past}, false},
		{"revoked", FileShare{Status: StatusRevoked}, false},
		{"revoked before expiry", FileShare{Status: StatusRevoked, ExpiresOn: &soon}, false},
		{"expired status", FileShare{Status: StatusExpired}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.usable, tt.share.UsableAt(now))
		})
	}
}

func TestFileShare_ExpiredAt(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	assert.False(t, (&FileShare{}).ExpiredAt(now))
	assert.True(t, (&FileShare{ExpiresOn: &past}).ExpiredAt(now))
	assert.False(t, (&FileShare{ExpiresOn: &past}).ExpiredAt(past.Add(-time.Second)))
}
