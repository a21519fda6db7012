package idgen

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// Session is the HTTP transport shared by every call of a Client.
// Transports are safe for concurrent use by multiple goroutines and
// should only be created once, so a Session is too.
type Session struct {
	transport http.RoundTripper
	options   Options
	mu        sync.Mutex
}

// New session
func New(opts ...Option) *Session {
	options := newOptions(opts)
	return &Session{transport: newTransport(options), options: options}
}

func newTransport(options Options) http.RoundTripper {
	if options.Transport != nil {
		return options.Transport
	}
	if options.EnableHTTP3 {
		return newHTTP3Transport(options)
	}
	return &http.Transport{
		Proxy: options.Proxy,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second, // 限制建立TCP连接的时间
			KeepAlive: 60 * time.Second,
		}).DialContext,
		// 默认的 MaxIdleConnsPerHost = 2，并发打同一个 host 时多余的连接会进入 TIME_WAIT。
		// The idgen service is a single host, so the whole pool is allowed to idle on it.
		MaxIdleConns:        options.MaxConns,
		MaxIdleConnsPerHost: options.MaxConns,
		IdleConnTimeout:     120 * time.Second,
		DisableCompression:  true,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !options.Verify,
		},
	}
}

// WithOption changes session-level options. The base transport is not rebuilt.
func (s *Session) WithOption(opts ...Option) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range opts {
		o(&s.options)
	}
	return s
}

func (s *Session) copyOption(opts ...Option) Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	options := s.options.Copy()
	for _, o := range opts {
		o(&options)
	}
	return options
}

// DoRequest sends a request and returns a response with the body cached in
// Content. Errors from the HTTP client are returned as is (*url.Error).
// The status code is not inspected.
func (s *Session) DoRequest(ctx context.Context, opts ...Option) (*Response, error) {
	options := s.copyOption(opts...)

	req, err := NewRequestWithContext(ctx, options)
	if err != nil {
		resp := newResponse(nil)
		resp.Err = fmt.Errorf("newRequest: %w", err)
		return resp, resp.Err
	}

	resp := newResponse(req)
	defer func() { resp.Cost = time.Since(resp.StartAt) }()

	client := &http.Client{
		Timeout:   options.Timeout,
		Transport: chain(s.transport, options.HttpRoundTripper),
	}
	if resp.Response, resp.Err = client.Do(req); resp.Err != nil {
		return resp, resp.Err
	}
	defer resp.Response.Body.Close()

	if _, err := resp.Content.ReadFrom(resp.Response.Body); err != nil {
		resp.Err = fmt.Errorf("read body: %w", err)
		return resp, resp.Err
	}
	return resp, nil
}

// Close releases idle connections of the base transport.
func (s *Session) Close() error {
	switch t := s.transport.(type) {
	case *HTTP3RoundTripper:
		return t.Close()
	case interface{ CloseIdleConnections() }:
		t.CloseIdleConnections()
	}
	return nil
}
