package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/authsession/mock"
	"github.com/viant/authsession/transport"
)

type harness struct {
	configPath string
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	server, _ := mock.NewHTTPTestServer()
	t.Cleanup(server.Close)
	dir := t.TempDir()
	configPath := filepath.Join(dir, "authsession.yaml")
	content := "api:\n  base_url: " + server.URL + "/api\n" +
		"store:\n  kind: file\n  url: " + filepath.Join(dir, "store.json") + "\n" +
		"log:\n  level: error\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return &harness{configPath: configPath}
}

func (h *harness) run(stdin string, args ...string) error {
	h.stdout = &bytes.Buffer{}
	h.stderr = &bytes.Buffer{}
	runner := &Runner{Stdin: strings.NewReader(stdin), Stdout: h.stdout, Stderr: h.stderr}
	return runner.Run(context.Background(), append([]string{"--config", h.configPath}, args...))
}

func TestRunner_LoginStatusLogout(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("", "status"))
	assert.Equal(t, "unauthenticated\n", h.stdout.String())

	require.NoError(t, h.run("admin123\n", "login", "-u", "admin"))
	assert.Equal(t, "signed in as admin\n", h.stdout.String())

	// token survives the process restart
	require.NoError(t, h.run("", "status"))
	assert.Contains(t, h.stdout.String(), "authenticated\nsubject: admin\n")
	assert.Contains(t, h.stdout.String(), "(valid)")

	require.NoError(t, h.run("", "whoami"))
	assert.Contains(t, h.stdout.String(), `"username": "admin"`)

	require.NoError(t, h.run("", "get", "/v1/echo"))
	assert.Contains(t, h.stdout.String(), `"subject":"admin"`)

	require.NoError(t, h.run("", "logout"))
	assert.Equal(t, "signed out\n", h.stdout.String())

	require.NoError(t, h.run("", "status"))
	assert.Equal(t, "unauthenticated\n", h.stdout.String())
}

func TestRunner_LoginRejected(t *testing.T) {
	h := newHarness(t)
	err := h.run("", "login", "-u", "admin", "-p", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid username or password")
	assert.NotContains(t, h.stderr.String(), "session expired")
}

func TestRunner_SessionExpired(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("", "login", "-u", "admin", "-p", "admin123"))

	err := h.run("", "get", "/v1/status/401")
	var unauthorized *transport.UnauthorizedError
	require.True(t, errors.As(err, &unauthorized))
	assert.Equal(t, 1, strings.Count(h.stderr.String(), "session expired"))
	assert.Contains(t, h.stderr.String(), "/login")

	require.NoError(t, h.run("", "status"))
	assert.Equal(t, "unauthenticated\n", h.stdout.String())
}

func TestRunner_ServerErrorKeepsSession(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("", "login", "-u", "admin", "-p", "admin123"))

	err := h.run("", "get", "/v1/status/500")
	var httpErr *transport.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.NotContains(t, h.stderr.String(), "session expired")

	require.NoError(t, h.run("", "status"))
	assert.True(t, strings.HasPrefix(h.stdout.String(), "authenticated\n"))
}

func TestRunner_MetricsFile(t *testing.T) {
	h := newHarness(t)
	metricsPath := filepath.Join(t.TempDir(), "authsession.prom")
	require.NoError(t, h.run("", "--metrics-file", metricsPath, "login", "-u", "admin", "-p", "admin123"))

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `authsession_http_requests_total{outcome="success"} 1`)
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("db locked") }

func TestCloseStore(t *testing.T) {
	buf := &bytes.Buffer{}
	closeStore(failingCloser{}, slog.New(slog.NewTextHandler(buf, nil)))
	assert.Contains(t, buf.String(), "failed to close store")
	assert.Contains(t, buf.String(), "db locked")
}

func TestRunner_Help(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("", "--help"))
	assert.Contains(t, h.stdout.String(), "serve-mock")
}

func TestRunner_ServeMock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addresses := make(chan string, 1)
	runner := &Runner{Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{},
		Listening: func(addr string) { addresses <- addr }}
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, []string{"serve-mock", "--address", "127.0.0.1:0"})
	}()

	var address string
	select {
	case address = <-addresses:
	case err := <-done:
		t.Fatalf("serve-mock exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve-mock did not start")
	}
	resp, err := http.Get("http://" + address + "/api/v1/echo")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cancel()
	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve-mock did not stop")
	}
}
