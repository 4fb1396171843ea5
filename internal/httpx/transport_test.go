package httpx

import (
	"testing"
	"time"
)

func TestNewTransport_AppliesOverrides(t *testing.T) {
	tr := NewTransport(TransportConfig{
		ResponseHeaderTimeout: 7 * time.Second,
		MaxIdleConns:          11,
		MaxIdleConnsPerHost:   3,
		MaxConnsPerHost:       5,
	})

	if tr.ResponseHeaderTimeout != 7*time.Second {
		t.Errorf("ResponseHeaderTimeout = %v", tr.ResponseHeaderTimeout)
	}
	if tr.MaxIdleConns != 11 || tr.MaxIdleConnsPerHost != 3 || tr.MaxConnsPerHost != 5 {
		t.Errorf("pool limits = %d/%d/%d", tr.MaxIdleConns, tr.MaxIdleConnsPerHost, tr.MaxConnsPerHost)
	}
	if !tr.ForceAttemptHTTP2 {
		t.Error("expected HTTP/2 attempt")
	}
}

func TestNewTransport_ZeroKeepsDefaults(t *testing.T) {
	def := DefaultTransport()
	tr := NewTransport(TransportConfig{})
	if tr.IdleConnTimeout != def.IdleConnTimeout {
		t.Errorf("IdleConnTimeout = %v, want %v", tr.IdleConnTimeout, def.IdleConnTimeout)
	}
}
