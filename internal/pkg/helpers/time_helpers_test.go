package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1500ms", 1500 * time.Millisecond},
		{"1h", time.Hour},
		{"", 5 * time.Second},
		{"soon", 5 * time.Second},
		{"-3s", 5 * time.Second},
		{"0s", 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.in, 5*time.Second))
		})
	}
}
