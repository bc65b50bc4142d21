package services

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	th "github.com/desertthunder/lyrx/internal/testing"
)

const testToken = "test-token"

type testEnv struct {
	server    *httptest.Server
	client    *Client
	transport *th.CountingTransport
	pacer     *th.CountingPacer
}

// newTestEnv serves routes keyed by path and returns a client pointed at it.
func newTestEnv(t *testing.T, routes map[string]http.HandlerFunc) *testEnv {
	t.Helper()

	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	transport := &th.CountingTransport{}
	pacer := &th.CountingPacer{}
	logger := log.New(io.Discard)

	client := NewClient(Options{
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Transport: transport},
		Logger:     logger,
		Token:      testToken,
		Pacer:      pacer,
	})

	return &testEnv{server: server, client: client, transport: transport, pacer: pacer}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// respond wraps a JSON "response" member in the API envelope.
func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"meta":{"status":200},"response":`+body+`}`)
	}
}
