package smoke

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"drivesim.dev/internal/simclient"
	"drivesim.dev/internal/simstub"
)

// newSession brings up an in-process simulator and returns a connected client.
// Everything is torn down through t.Cleanup, so scenario tests only deal with
// the session.
func newSession(t *testing.T) *simclient.Client {
	t.Helper()

	logger := log.New(io.Discard, "", 0)
	world := simstub.New(simstub.Config{Map: "Town05_Opt"})
	srv := httptest.NewServer(simstub.NewServer(world, logger).Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := simclient.Dial(ctx, url, "smoke-test")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if !client.WorldParams().Synchronous {
		t.Fatalf("stub session must be synchronous")
	}
	return client
}

func testLogger(t *testing.T) *log.Logger {
	t.Helper()
	return log.New(testWriter{t}, "", 0)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
