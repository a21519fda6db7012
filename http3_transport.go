package idgen

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
)

// HTTP3RoundTripper HTTP/3 客户端传输层实现
// HTTP3RoundTripper sends requests over QUIC.
type HTTP3RoundTripper struct {
	transport *http3.Transport
}

func newHTTP3Transport(options Options) *HTTP3RoundTripper {
	quicConfig := &quic.Config{
		MaxIdleTimeout:                 120 * time.Second,
		InitialStreamReceiveWindow:     1 << 20, // 1 MB
		InitialConnectionReceiveWindow: 1 << 21, // 2 MB
		MaxStreamReceiveWindow:         6 << 20,
		MaxConnectionReceiveWindow:     15 << 20,
		KeepAlivePeriod:                10 * time.Second,
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: !options.Verify,
		NextProtos:         []string{"h3"},   // HTTP/3 ALPN
		MinVersion:         tls.VersionTLS13, // HTTP/3 requires TLS 1.3
	}

	transport := &http3.Transport{
		TLSClientConfig:        tlsConfig,
		QUICConfig:             quicConfig,
		DisableCompression:     true,
		MaxResponseHeaderBytes: 1 << 20,
	}
	return &HTTP3RoundTripper{transport: transport}
}

// RoundTrip implements http.RoundTripper.
func (t *HTTP3RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.transport.RoundTrip(req)
}

// Close closes the QUIC connections.
func (t *HTTP3RoundTripper) Close() error {
	return t.transport.Close()
}
