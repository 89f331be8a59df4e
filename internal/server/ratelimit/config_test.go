package ratelimit

import (
	"net/http"
	"testing"
)

func TestConfig_Match(t *testing.T) {
	c := NewConfig(60, 6000)
	defer c.Close()

	tests := []struct {
		name   string
		method string
		path   string
		want   string // tier name, "" for nil
	}{
		{"health is never limited", http.MethodGet, "/api/health", ""},
		{"create is write", http.MethodPost, "/api/workspaces", "write"},
		{"delete is write", http.MethodDelete, "/api/workspaces/abc", "write"},
		{"list is read", http.MethodGet, "/api/workspaces", "read"},
		{"files is read", http.MethodGet, "/api/workspaces/abc/files", "read"},
		{"frontend is read", http.MethodGet, "/index.html", "read"},
		{"options skipped", http.MethodOptions, "/api/workspaces", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := c.Match(tt.method, tt.path)
			got := ""
			if tier != nil {
				got = tier.Name
			}
			if got != tt.want {
				t.Errorf("Match(%s %s) = %q, want %q", tt.method, tt.path, got, tt.want)
			}
		})
	}
}

func TestConfig_ZeroDisablesTier(t *testing.T) {
	c := NewConfig(0, 0)
	defer c.Close()

	if tier := c.Match(http.MethodPost, "/api/workspaces"); tier != nil {
		t.Errorf("write tier should be disabled, got %q", tier.Name)
	}
	if tier := c.Match(http.MethodGet, "/api/workspaces"); tier != nil {
		t.Errorf("read tier should be disabled, got %q", tier.Name)
	}
}

func TestBuildKey(t *testing.T) {
	tests := []struct {
		ip       string
		tierName string
		want     string
	}{
		{"192.168.1.1", "write", "ip:192.168.1.1:write"},
		{"10.0.0.1", "read", "ip:10.0.0.1:read"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := BuildKey(tt.ip, tt.tierName); got != tt.want {
				t.Errorf("BuildKey() = %s, want %s", got, tt.want)
			}
		})
	}
}
