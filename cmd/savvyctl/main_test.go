package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/savvy/termination"
	"github.com/kbukum/savvy/testutil"
)

// writeConfig writes a config file for the CLI and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := "name: savvyctl\nlogging:\n  level: info\n  no_color: true\n" + body
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func newUsersAPI(t *testing.T) *testutil.APIServer {
	return testutil.NewAPIServer(t, func(r *gin.Engine) {
		r.GET("/users", testutil.JSON(http.StatusOK, gin.H{
			"items": []gin.H{{"name": "ada"}, {"name": "linus"}},
		}))
		r.GET("/missing", testutil.JSON(http.StatusNotFound, gin.H{"error": "no such thing"}))
		r.POST("/echo", testutil.Echo())
	})
}

func TestRequestGet(t *testing.T) {
	srv := newUsersAPI(t)
	cfg := writeConfig(t, fmt.Sprintf("client:\n  base_url: %s\nauth:\n  token: s3cret\n", srv.URL()))

	code, out, errOut := runCLI(t, "--config", cfg, "request", "get", "/users", "-d", "limit=10", "-H", "X-Trace: abc")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("expected JSON on stdout, got %q: %v", out, err)
	}
	if items, _ := body["items"].([]any); len(items) != 2 {
		t.Errorf("expected 2 items, got %v", body["items"])
	}

	req, ok := srv.LastRequest()
	if !ok {
		t.Fatal("expected the server to receive a request")
	}
	if got := req.Query.Get("limit"); got != "10" {
		t.Errorf("expected limit=10, got %q", got)
	}
	if got := req.Header.Get("Authorization"); got != "s3cret" {
		t.Errorf("expected static auth header, got %q", got)
	}
	if got := req.Header.Get("X-Trace"); got != "abc" {
		t.Errorf("expected X-Trace header, got %q", got)
	}
}

func TestRequestQuery(t *testing.T) {
	srv := newUsersAPI(t)
	cfg := writeConfig(t, fmt.Sprintf("client:\n  base_url: %s\n", srv.URL()))

	code, out, _ := runCLI(t, "--config", cfg, "request", "GET", "/users", "--query", "items[].name")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	var names []string
	if err := json.Unmarshal([]byte(out), &names); err != nil {
		t.Fatalf("expected JSON list, got %q: %v", out, err)
	}
	if diff := cmp.Diff([]string{"ada", "linus"}, names); diff != "" {
		t.Errorf("query result mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestFailedStatus(t *testing.T) {
	srv := newUsersAPI(t)
	cfg := writeConfig(t, fmt.Sprintf("client:\n  base_url: %s\n", srv.URL()))

	code, out, errOut := runCLI(t, "--config", cfg, "request", "GET", "/missing")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out, "no such thing") {
		t.Errorf("expected the error body on stdout, got %q", out)
	}
	if !strings.Contains(errOut, "404") {
		t.Errorf("expected the failure to be logged, got %q", errOut)
	}

	code, _, errOut = runCLI(t, "--config", cfg, "request", "GET", "/missing", "--quiet")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if errOut != "" {
		t.Errorf("expected no log with --quiet, got %q", errOut)
	}
}

func TestRequestPostJSON(t *testing.T) {
	srv := newUsersAPI(t)
	cfg := writeConfig(t, fmt.Sprintf("client:\n  base_url: %s\n", srv.URL()))

	code, _, errOut := runCLI(t, "--config", cfg, "request", "post", "/echo",
		"--json", `{"name":"ada"}`, "-d", "age=36", "-d", "tag=a", "-d", "tag=b")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut)
	}

	req, _ := srv.LastRequest()
	var sent map[string]any
	if err := json.Unmarshal(req.Body, &sent); err != nil {
		t.Fatalf("expected a JSON body, got %q: %v", req.Body, err)
	}
	want := map[string]any{"name": "ada", "age": float64(36), "tag": []any{"a", "b"}}
	if diff := cmp.Diff(want, sent); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestRejectsUnknownMethod(t *testing.T) {
	cfg := writeConfig(t, "client:\n  base_url: http://127.0.0.1:1\n")

	code, _, errOut := runCLI(t, "--config", cfg, "request", "PATCH", "/users")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut, "unsupported method") {
		t.Errorf("expected method error, got %q", errOut)
	}
}

func TestExec(t *testing.T) {
	cfg := writeConfig(t, "")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantOut    string
		wantErrOut string
	}{
		{"echo", []string{"exec", "--", "echo", "hi"}, 0, "hi\n", ""},
		{"no separator", []string{"exec", "echo", "-n", "x"}, 0, "x\n", ""},
		{"exit status", []string{"exec", "--", "sh", "-c", "echo oops >&2; exit 3"}, 3, "", "oops"},
		{"subcommand", []string{"exec", "--", "echo", "$(id)"}, 1, "", "attempted subcommand"},
		{"bool success", []string{"exec", "--bool", "--", "true"}, 0, "", ""},
		{"bool failure", []string{"exec", "--bool", "-q", "--", "false"}, 1, "", ""},
		{"env", []string{"exec", "--env", "GREETING=hey", "--", "sh", "-c", "echo $GREETING"}, 0, "hey\n", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, out, errOut := runCLI(t, append([]string{"--config", cfg}, tc.args...)...)
			if code != tc.wantCode {
				t.Fatalf("expected exit %d, got %d (stderr %q)", tc.wantCode, code, errOut)
			}
			if tc.wantOut != "" && out != tc.wantOut {
				t.Errorf("expected stdout %q, got %q", tc.wantOut, out)
			}
			if tc.wantErrOut != "" && !strings.Contains(errOut, tc.wantErrOut) {
				t.Errorf("expected stderr to contain %q, got %q", tc.wantErrOut, errOut)
			}
		})
	}
}

func TestConfigMasksSecrets(t *testing.T) {
	cfg := writeConfig(t, "client:\n  base_url: http://api.local\nauth:\n  token: abcd-very-secret\n")

	code, out, _ := runCLI(t, "--config", cfg, "config")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if strings.Contains(out, "very-secret") {
		t.Errorf("expected the token to be masked, got:\n%s", out)
	}
	if !strings.Contains(out, "abcd***") {
		t.Errorf("expected a masked token prefix, got:\n%s", out)
	}
	if !strings.Contains(out, "base_url: http://api.local") {
		t.Errorf("expected the client section, got:\n%s", out)
	}

	_, out, _ = runCLI(t, "--config", cfg, "config", "--show-secrets")
	if !strings.Contains(out, "abcd-very-secret") {
		t.Errorf("expected the token with --show-secrets, got:\n%s", out)
	}
}

func TestConfigRejectsInvalidEnvironment(t *testing.T) {
	cfg := writeConfig(t, "environment: moon\n")

	code, _, errOut := runCLI(t, "--config", cfg, "config")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut, "Error:") {
		t.Errorf("expected an error message, got %q", errOut)
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "version", "-o", "json")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("expected JSON, got %q: %v", out, err)
	}
	if info["version"] == "" {
		t.Error("expected a version")
	}

	if code, _, _ := runCLI(t, "version", "-o", "xml"); code != 1 {
		t.Errorf("expected exit 1 for an unknown format, got %d", code)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"interrupt", termination.Request(nil, 0, termination.ErrInterrupted), 0},
		{"fail fast", termination.Request(nil, 1, fmt.Errorf("boom")), 1},
		{"exit error", &exitError{code: 7}, 7},
		{"wrapped exit error", fmt.Errorf("run: %w", &exitError{code: 4}), 4},
		{"other", fmt.Errorf("boom"), 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if got := exitCode(tc.err, &buf); got != tc.want {
				t.Errorf("exitCode() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestExitStatus(t *testing.T) {
	for status, want := range map[int]int{0: 0, 3: 3, 255: 255, -1: 1, 300: 1} {
		if got := exitStatus(status); got != want {
			t.Errorf("exitStatus(%d) = %d, want %d", status, got, want)
		}
	}
}

func TestPayload(t *testing.T) {
	tests := []struct {
		name    string
		opts    requestOptions
		want    map[string]any
		wantErr bool
	}{
		{"empty", requestOptions{}, nil, false},
		{"typed values", requestOptions{data: []string{"n=1", "ok=true", "s=text"}},
			map[string]any{"n": float64(1), "ok": true, "s": "text"}, false},
		{"repeated key", requestOptions{data: []string{"id=1", "id=2", "id=3"}},
			map[string]any{"id": []any{float64(1), float64(2), float64(3)}}, false},
		{"data overrides json", requestOptions{jsonBody: `{"a":1,"b":2}`, data: []string{"a=x"}},
			map[string]any{"a": "x", "b": float64(2)}, false},
		{"missing equals", requestOptions{data: []string{"novalue"}}, nil, true},
		{"bad json", requestOptions{jsonBody: "{"}, nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.opts.payload()
			if (err != nil) != tc.wantErr {
				t.Fatalf("payload() error = %v, wantErr %v", err, tc.wantErr)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseHeaders(t *testing.T) {
	got, err := parseHeaders([]string{"X-One: 1", "x-two:two", "Accept:  application/json "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"X-One": "1", "x-two": "two", "Accept": "application/json"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseHeaders([]string{"no-colon"}); err == nil {
		t.Error("expected an error for a header without a colon")
	}
}
