package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeReturn(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/fleet/drivers", "/fleet/drivers"},
		{"/fleet/drivers?state=abc", "/fleet/drivers?state=abc"},
		{"", "/"},
		{"fleet/drivers", "/"},
		{"//evil.example", "/"},
		{"/\\evil.example", "/"},
		{"https://evil.example/", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeReturn(tt.target, "/"))
		})
	}
}
