package httpclient

import (
	"testing"
	"time"

	"github.com/kbukum/savvy/errors"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{BaseURL: "http://api.local///"}
	cfg.ApplyDefaults()

	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}
	if cfg.BaseURL != "http://api.local" {
		t.Errorf("expected trailing slashes stripped, got %q", cfg.BaseURL)
	}
	if cfg.LogOnError == nil || !*cfg.LogOnError {
		t.Error("expected LogOnError to default to true")
	}
	if cfg.FailFast {
		t.Error("expected FailFast to default to false")
	}
}

func TestConfig_ApplyDefaults_PreservesExisting(t *testing.T) {
	off := false
	cfg := Config{BaseURL: "http://x", Timeout: 10 * time.Second, LogOnError: &off}
	cfg.ApplyDefaults()

	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
	}
	if *cfg.LogOnError {
		t.Error("expected explicit LogOnError=false to survive defaults")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{BaseURL: "https://api.example.com/v1"}, false},
		{"valid auth header", Config{BaseURL: "http://x", AuthHeaderName: "X-Api-Token"}, false},
		{"missing base url", Config{}, true},
		{"invalid base url", Config{BaseURL: "not a url"}, true},
		{"invalid auth header name", Config{BaseURL: "http://x", AuthHeaderName: "Bad Header"}, true},
		{"distinct headers", Config{BaseURL: "http://x", Headers: map[string]string{"x-a": "1", "X-B": "2"}}, false},
		{"headers differing by case", Config{BaseURL: "http://x", Headers: map[string]string{"x-a": "1", "X-A": "2"}}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing base URL")
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"get", MethodGet, false},
		{" POST ", MethodPost, false},
		{"Put", MethodPut, false},
		{"delete", MethodDelete, false},
		{"PATCH", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMethod(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseMethod(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseMethod(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if err != nil && !hasCode(err, ErrCodeRequest) {
				t.Errorf("expected request error, got %v", err)
			}
		})
	}
}
