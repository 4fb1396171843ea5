package httpx

import (
	"errors"
	"io"
	"net/http"
	"testing"
	"time"
)

func TestIdleTimeoutBody_StalledRead(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	body := IdleTimeoutBody(pr, 30*time.Millisecond)
	defer body.Close()

	go func() { _, _ = pw.Write([]byte("ab")) }()

	buf := make([]byte, 8)
	n, err := body.Read(buf)
	if err != nil || string(buf[:n]) != "ab" {
		t.Fatalf("first read = %q, %v", buf[:n], err)
	}

	_, err = body.Read(buf)
	if !errors.Is(err, ErrIdleTimeout) {
		t.Fatalf("stalled read error = %v, want ErrIdleTimeout", err)
	}
}

func TestIdleTimeoutBody_GapsBetweenReadsDoNotCount(t *testing.T) {
	pr, pw := io.Pipe()
	body := IdleTimeoutBody(pr, 30*time.Millisecond)
	defer body.Close()

	go func() {
		for i := 0; i < 3; i++ {
			_, _ = pw.Write([]byte{'x'})
		}
		pw.Close()
	}()

	buf := make([]byte, 1)
	for i := 0; i < 3; i++ {
		time.Sleep(60 * time.Millisecond)
		if _, err := body.Read(buf); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
	}
	if _, err := body.Read(buf); err != io.EOF {
		t.Fatalf("final read = %v, want EOF", err)
	}
}

func TestStreamingClient(t *testing.T) {
	tr := DefaultTransport()
	base := NewClient(tr, 5*time.Second)

	c := StreamingClient(base, 0)
	if c.Timeout != 0 {
		t.Errorf("Timeout = %v, want none", c.Timeout)
	}
	it, ok := c.Transport.(*idleTransport)
	if !ok {
		t.Fatalf("Transport = %T", c.Transport)
	}
	if it.base != http.RoundTripper(tr) {
		t.Error("pooled transport not reused")
	}
	if it.timeout != 5*time.Second {
		t.Errorf("idle = %v, want the base timeout", it.timeout)
	}

	if got := StreamingClient(nil, 0).Transport.(*idleTransport).timeout; got != DefaultStreamIdleTimeout {
		t.Errorf("default idle = %v", got)
	}
}
