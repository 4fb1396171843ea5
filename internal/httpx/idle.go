package httpx

import (
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// DefaultStreamIdleTimeout bounds the wait for the next bytes of a streamed
// response when nothing else is configured.
const DefaultStreamIdleTimeout = 60 * time.Second

// ErrIdleTimeout is returned by a body that received nothing for a full
// idle timeout.
var ErrIdleTimeout = errors.New("upstream idle timeout")

// IdleTimeoutBody wraps body so that a single Read blocking longer than
// timeout closes it and fails with ErrIdleTimeout. Time spent between
// reads is not counted.
func IdleTimeoutBody(body io.ReadCloser, timeout time.Duration) io.ReadCloser {
	b := &idleBody{body: body, timeout: timeout}
	b.timer = time.AfterFunc(timeout, func() {
		b.idle.Store(true)
		body.Close()
	})
	b.timer.Stop()
	return b
}

type idleBody struct {
	body    io.ReadCloser
	timeout time.Duration
	timer   *time.Timer
	idle    atomic.Bool
}

func (b *idleBody) Read(p []byte) (int, error) {
	b.timer.Reset(b.timeout)
	n, err := b.body.Read(p)
	b.timer.Stop()
	if err != nil && b.idle.Load() {
		return n, ErrIdleTimeout
	}
	return n, err
}

func (b *idleBody) Close() error {
	b.timer.Stop()
	return b.body.Close()
}

// StreamingClient returns a client for long-lived responses. It reuses
// base's transport but drops base.Timeout, which would also cut off the
// body; instead each response body is bounded per read by idle. A zero
// idle falls back to base.Timeout and then DefaultStreamIdleTimeout.
func StreamingClient(base *http.Client, idle time.Duration) *http.Client {
	rt := http.DefaultTransport
	if base != nil && base.Transport != nil {
		rt = base.Transport
	}
	if idle <= 0 && base != nil {
		idle = base.Timeout
	}
	if idle <= 0 {
		idle = DefaultStreamIdleTimeout
	}
	return &http.Client{Transport: &idleTransport{base: rt, timeout: idle}}
}

type idleTransport struct {
	base    http.RoundTripper
	timeout time.Duration
}

func (t *idleTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	resp.Body = IdleTimeoutBody(resp.Body, t.timeout)
	return resp, nil
}

func (t *idleTransport) CloseIdleConnections() {
	if c, ok := t.base.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
}
