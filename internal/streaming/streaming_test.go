package streaming

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		WriteTimeout: time.Second,
		IdleTimeout:  2 * time.Second,
		ChunkSize:    8,
	}
}

func TestServeCopiesEverything(t *testing.T) {
	rec := httptest.NewRecorder()
	payload := strings.Repeat("converted-bytes.", 100)

	err := Serve(context.Background(), rec, strings.NewReader(payload), testConfig())
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if got := rec.Body.String(); got != payload {
		t.Errorf("body has %d bytes, want %d", len(got), len(payload))
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("nosniff header missing")
	}
}

func TestWriteChunkedTracksStats(t *testing.T) {
	rec := httptest.NewRecorder()
	tw := NewTimeoutWriter(context.Background(), rec, testConfig())
	defer tw.Close()

	payload := bytes.Repeat([]byte("x"), 100)
	n, err := tw.Write(payload)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != 100 {
		t.Errorf("Write = %d, want 100", n)
	}
	written, _ := tw.Stats()
	if written != 100 {
		t.Errorf("Stats bytes = %d, want 100", written)
	}
}

func TestWriteAfterCloseFails(t *testing.T) {
	rec := httptest.NewRecorder()
	tw := NewTimeoutWriter(context.Background(), rec, testConfig())
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if _, err := tw.Write([]byte("late")); !errors.Is(err, ErrStreamCanceled) {
		t.Errorf("Write after Close = %v, want ErrStreamCanceled", err)
	}
}

func TestClientDisconnectReportsClientGone(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	tw := NewTimeoutWriter(ctx, rec, testConfig())
	defer tw.Close()

	cancel()
	if _, err := tw.Write([]byte("data")); !errors.Is(err, ErrClientGone) {
		t.Errorf("Write after disconnect = %v, want ErrClientGone", err)
	}
}

// slowWriter blocks long enough to trip the write timeout.
type slowWriter struct {
	*httptest.ResponseRecorder
	delay time.Duration
}

func (s *slowWriter) Write(p []byte) (int, error) {
	time.Sleep(s.delay)
	return s.ResponseRecorder.Write(p)
}

func TestSlowClientTimesOut(t *testing.T) {
	cfg := testConfig()
	cfg.WriteTimeout = 50 * time.Millisecond
	sw := &slowWriter{ResponseRecorder: httptest.NewRecorder(), delay: time.Second}
	tw := NewTimeoutWriter(context.Background(), sw, cfg)
	defer tw.Close()

	if _, err := tw.Write([]byte("data")); !errors.Is(err, ErrWriteTimeout) {
		t.Errorf("Write to slow client = %v, want ErrWriteTimeout", err)
	}
}
