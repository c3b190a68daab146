package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.1:5000", "203.0.113.7"},
		{"invalid forwarded falls back", map[string]string{"X-Forwarded-For": "garbage", "X-Real-IP": "198.51.100.2"}, "10.0.0.1:5000", "198.51.100.2"},
		{"remote addr", nil, "192.0.2.10:1234", "192.0.2.10"},
		{"ipv6 remote", nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"unusable", nil, "pipe", "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ExtractClientIP(r))
		})
	}
}
