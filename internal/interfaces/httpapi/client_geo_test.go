package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded list", headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, remote: "10.0.0.2:5000", want: "203.0.113.7"},
		{name: "fly header wins", headers: map[string]string{"Fly-Client-IP": "198.51.100.4", "X-Real-IP": "10.0.0.9"}, remote: "10.0.0.2:5000", want: "198.51.100.4"},
		{name: "remote addr fallback", remote: "192.0.2.10:41234", want: "192.0.2.10"},
		{name: "garbage", headers: map[string]string{"X-Real-IP": "not-an-ip"}, remote: "nope", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := resolveClientIP(req); got != tt.want {
				t.Fatalf("resolveClientIP()=%q want=%q", got, tt.want)
			}
		})
	}
}

func TestResolveCountryCode(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := resolveCountryCode(req); got != "ZZ" {
		t.Fatalf("expected ZZ without headers, got %q", got)
	}

	req.Header.Set("CF-IPCountry", " id ")
	if got := resolveCountryCode(req); got != "ID" {
		t.Fatalf("expected ID, got %q", got)
	}

	req.Header.Set("Fly-Client-Country", "X1")
	if got := resolveCountryCode(req); got != "ID" {
		t.Fatalf("invalid fly country must be skipped, got %q", got)
	}
}
