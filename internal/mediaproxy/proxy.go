// Package mediaproxy relays remote generated media through the gateway,
// adding provider credentials the caller does not hold.
package mediaproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/celeste-ai/gateway/internal/httpx"
	"github.com/celeste-ai/gateway/internal/metrics"
	"github.com/celeste-ai/gateway/internal/types"
)

const defaultTimeout = 60 * time.Second

// bufferSize caps a single upstream read.
const bufferSize = 32 * 1024

// ErrIdleTimeout is returned when upstream sends nothing for a full timeout.
var ErrIdleTimeout = errors.New("media upstream idle timeout")

// UpstreamStatusError reports a non-2xx media response.
type UpstreamStatusError struct {
	StatusCode int
	Host       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("media upstream %s returned %d", e.Host, e.StatusCode)
}

// Credential is a query parameter injected into URLs on Host.
type Credential struct {
	Host  string
	Param string
	Value string
}

// Config configures a Proxy.
type Config struct {
	// Timeout bounds the wait for response headers and for each body read.
	Timeout time.Duration

	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int

	Credentials []Credential
}

// Proxy fetches media over one pooled transport for the process lifetime.
type Proxy struct {
	transport *http.Transport
	client    *http.Client
	creds     []Credential
	timeout   time.Duration
}

// New creates a Proxy and its connection pool. Call Close at shutdown.
func New(cfg Config) *Proxy {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	t := httpx.NewTransport(httpx.TransportConfig{
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
	})
	return &Proxy{
		transport: t,
		// No overall client timeout; long downloads are bounded per read.
		client:  &http.Client{Transport: t},
		creds:   cfg.Credentials,
		timeout: timeout,
	}
}

// Close releases pooled idle connections.
func (p *Proxy) Close() {
	p.transport.CloseIdleConnections()
}

// RewriteURL validates raw and appends the credential for its host when
// the query does not already carry that parameter. Other query parameters
// keep their original order and encoding.
func (p *Proxy) RewriteURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, types.MissingField("url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, types.InvalidField("url", "not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, types.InvalidField("url", "scheme must be http or https")
	}
	if u.Host == "" {
		return nil, types.InvalidField("url", "missing host")
	}

	host := strings.ToLower(u.Hostname())
	for _, c := range p.creds {
		if c.Value == "" || !strings.EqualFold(c.Host, host) {
			continue
		}
		if u.Query().Has(c.Param) {
			break
		}
		pair := url.QueryEscape(c.Param) + "=" + url.QueryEscape(c.Value)
		if u.RawQuery == "" {
			u.RawQuery = pair
		} else {
			u.RawQuery += "&" + pair
		}
		break
	}
	return u, nil
}

// Upstream is an open, successful media response.
type Upstream struct {
	resp *http.Response
}

// ContentLength is the declared body size, or -1.
func (u *Upstream) ContentLength() int64 { return u.resp.ContentLength }

// Close releases the upstream connection.
func (u *Upstream) Close() error { return u.resp.Body.Close() }

// Open issues the GET, following redirects, and fails with
// *UpstreamStatusError on a non-2xx status before any byte is relayed.
func (p *Proxy) Open(ctx context.Context, raw string) (*Upstream, error) {
	u, err := p.RewriteURL(raw)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, types.InvalidField("url", "not a valid URL")
	}
	resp, err := p.client.Do(req)
	if err != nil {
		// The request URL may carry a credential; report only the host.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("fetch media from %s: %w", u.Host, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode, Host: u.Host}
	}
	return &Upstream{resp: resp}, nil
}

// Relay commits a 200 with contentType and copies the upstream body to w,
// flushing after every read so chunks leave as they arrive. A read that
// stalls longer than the timeout aborts the relay with ErrIdleTimeout.
func (p *Proxy) Relay(w http.ResponseWriter, up *Upstream, contentType string) (int64, error) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	if n := up.ContentLength(); n >= 0 {
		h.Set("Content-Length", strconv.FormatInt(n, 10))
	}
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	body := httpx.IdleTimeoutBody(up.resp.Body, p.timeout)

	buf := make([]byte, bufferSize)
	var written int64
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return written, fmt.Errorf("write media: %w", werr)
			}
			if flusher != nil {
				flusher.Flush()
			}
			written += int64(n)
			metrics.RecordMediaBytes(n)
		}
		if errors.Is(rerr, io.EOF) {
			return written, nil
		}
		if rerr != nil {
			if errors.Is(rerr, httpx.ErrIdleTimeout) {
				return written, ErrIdleTimeout
			}
			return written, fmt.Errorf("read media: %w", rerr)
		}
	}
}
