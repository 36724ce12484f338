package clientip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/clientip"
)

func newRequest(remoteAddr string, headers map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = remoteAddr
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func TestFromRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "203.0.113.7:54321",
			want:       "203.0.113.7",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "203.0.113.7",
			want:       "203.0.113.7",
		},
		{
			name:       "cloudflare header beats forwarded chain",
			remoteAddr: "10.0.0.1:443",
			headers: map[string]string{
				"CF-Connecting-IP": "198.51.100.2",
				"X-Forwarded-For":  "192.0.2.10",
			},
			want: "198.51.100.2",
		},
		{
			name:       "first valid forwarded entry wins",
			remoteAddr: "10.0.0.1:443",
			headers:    map[string]string{"X-Forwarded-For": "192.0.2.10, 10.0.0.2, 10.0.0.3"},
			want:       "192.0.2.10",
		},
		{
			name:       "garbage forwarded entries are skipped",
			remoteAddr: "10.0.0.1:443",
			headers:    map[string]string{"X-Forwarded-For": "unknown, <script>, 192.0.2.10"},
			want:       "192.0.2.10",
		},
		{
			name:       "real ip header",
			remoteAddr: "10.0.0.1:443",
			headers:    map[string]string{"X-Real-IP": "192.0.2.33"},
			want:       "192.0.2.33",
		},
		{
			name:       "spoofed header falls through to peer",
			remoteAddr: "203.0.113.7:443",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:       "203.0.113.7",
		},
		{
			name:       "ipv6 peer",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
		{
			name:       "ipv6 normalized",
			remoteAddr: "10.0.0.1:443",
			headers:    map[string]string{"X-Forwarded-For": "2001:0db8:0000:0000:0000:0000:0000:0001"},
			want:       "2001:db8::1",
		},
		{
			name:       "nothing valid anywhere",
			remoteAddr: "garbage",
			headers:    map[string]string{"X-Forwarded-For": "also-garbage"},
			want:       "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, clientip.FromRequest(newRequest(tt.remoteAddr, tt.headers)))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var captured string
	handler := clientip.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = clientip.FromContext(r.Context())
	}))

	req := newRequest("10.0.0.1:443", map[string]string{"CF-Connecting-IP": "198.51.100.2"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "198.51.100.2", captured)
}

func TestFromContext_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, clientip.FromContext(context.Background()))
}
