package idgen_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-io/idgen"
	"github.com/golang-io/idgen/idgentest"
)

func newClient(t *testing.T, host string, opts ...idgen.ClientOption) *idgen.Client {
	t.Helper()
	cfg := idgen.DefaultConfig()
	cfg.Host = host
	cfg.Timeout = 2 * time.Second
	opts = append([]idgen.ClientOption{idgen.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	c, err := idgen.NewClient(cfg, opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestHTTP_Success(t *testing.T) {
	fake := idgentest.NewServer(nil, idgentest.WithClock(func() time.Time {
		return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	}))
	ts := fake.Start()
	defer ts.Close()

	c := newClient(t, ts.URL)
	ids, err := c.GenerateIDs(context.Background(), &idgen.RequestInfo{MsgId: "m-1"},
		"pb.amritsar", "chb.booking.id", "CHB-[cy:yyyy-MM-dd]-[SEQ_CHB_BOOKING]", 5)
	if err != nil {
		t.Fatalf("GenerateIDs: %v", err)
	}
	want := []string{
		"CHB-2026-10-18-000001", "CHB-2026-10-18-000002", "CHB-2026-10-18-000003",
		"CHB-2026-10-18-000004", "CHB-2026-10-18-000005",
	}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Errorf("ids = %v, want %v", ids, want)
	}

	calls := fake.Calls()
	if len(calls) != 1 || len(calls[0].IdRequests) != 5 {
		t.Fatalf("calls = %+v, want one batch of 5", calls)
	}
	if calls[0].RequestInfo == nil || calls[0].RequestInfo.MsgId != "m-1" {
		t.Errorf("request info not forwarded: %+v", calls[0].RequestInfo)
	}
}

func TestHTTP_ZeroCountStillSent(t *testing.T) {
	fake := idgentest.NewServer(nil)
	ts := fake.Start()
	defer ts.Close()

	resp, err := newClient(t, ts.URL).RequestIDs(context.Background(), nil, "pb", "n", "f", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.IdResponses) != 0 {
		t.Errorf("got %d ids", len(resp.IdResponses))
	}
	if calls := fake.Calls(); len(calls) != 1 || calls[0].IdRequests == nil || len(calls[0].IdRequests) != 0 {
		t.Errorf("calls = %+v, want one call with an empty array", calls)
	}
}

func TestHTTP_Rejected(t *testing.T) {
	ts := idgentest.NewServer(nil, idgentest.WithFailure(http.StatusBadRequest, "invalid tenant")).Start()
	defer ts.Close()

	_, err := newClient(t, ts.URL).RequestIDs(context.Background(), nil, "pb", "n", "f", 3)
	var r *idgen.ServiceRejected
	if !errors.As(err, &r) {
		t.Fatalf("err = %v, want *ServiceRejected", err)
	}
	if r.Body != "invalid tenant" || r.StatusCode != http.StatusBadRequest {
		t.Errorf("got %+v", r)
	}
}

func TestHTTP_EmptyTenantRejectedByService(t *testing.T) {
	ts := idgentest.NewServer(nil).Start()
	defer ts.Close()

	_, err := newClient(t, ts.URL).RequestIDs(context.Background(), nil, "", "n", "f", 1)
	var r *idgen.ServiceRejected
	if !errors.As(err, &r) || !strings.Contains(r.Body, "INVALID_TENANT") {
		t.Errorf("err = %v, want rejection carrying the service body", err)
	}
}

func TestHTTP_ServerError(t *testing.T) {
	ts := idgentest.NewServer(nil, idgentest.WithFailure(http.StatusServiceUnavailable, "maintenance")).Start()
	defer ts.Close()

	_, err := newClient(t, ts.URL).RequestIDs(context.Background(), nil, "pb", "n", "f", 1)
	var f *idgen.TransportFailure
	if !errors.As(err, &f) {
		t.Fatalf("err = %v, want *TransportFailure", err)
	}
	if f.CauseName != idgen.UnknownCause || !strings.Contains(f.Message, "maintenance") {
		t.Errorf("got %q / %q", f.CauseName, f.Message)
	}
}

func TestHTTP_MalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"idResponses":[`)
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).RequestIDs(context.Background(), nil, "pb", "n", "f", 1)
	var f *idgen.TransportFailure
	if !errors.As(err, &f) {
		t.Fatalf("err = %v, want *TransportFailure", err)
	}
	if f.CauseName != "*json.SyntaxError" {
		t.Errorf("CauseName = %q, want *json.SyntaxError", f.CauseName)
	}
}

func TestHTTP_ConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	_ = l.Close()

	_, err = newClient(t, "http://"+addr).RequestIDs(context.Background(), nil, "pb", "n", "f", 1)
	var f *idgen.TransportFailure
	if !errors.As(err, &f) {
		t.Fatalf("err = %v, want *TransportFailure", err)
	}
	if f.CauseName != "*net.OpError" {
		t.Errorf("CauseName = %q, want *net.OpError", f.CauseName)
	}
	if !strings.Contains(f.Message, "connection refused") {
		t.Errorf("Message = %q", f.Message)
	}
}

func TestHTTP_Timeout(t *testing.T) {
	block := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newClient(t, ts.URL).RequestIDs(ctx, nil, "pb", "n", "f", 1)
	if !errors.Is(err, idgen.ErrTransportFailure) {
		t.Fatalf("err = %v, want transport failure", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want it to wrap context.DeadlineExceeded", err)
	}
}

func TestHTTP_Headers(t *testing.T) {
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = io.WriteString(w, `{"idResponses":[{"id":"A"}]}`)
	}))
	defer ts.Close()

	c := newClient(t, ts.URL)
	if _, err := c.RequestIDs(context.Background(), &idgen.RequestInfo{MsgId: "abc"}, "pb", "n", "f", 1); err != nil {
		t.Fatal(err)
	}
	if got.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", got.Get("Content-Type"))
	}
	if got.Get(idgen.RequestId) != "abc" {
		t.Errorf("Request-Id = %q, want msgId", got.Get(idgen.RequestId))
	}

	if _, err := c.RequestIDs(context.Background(), nil, "pb", "n", "f", 1); err != nil {
		t.Fatal(err)
	}
	if len(got.Get(idgen.RequestId)) != 16 {
		t.Errorf("generated Request-Id = %q, want 16 chars", got.Get(idgen.RequestId))
	}
}

func TestHTTP_Logf(t *testing.T) {
	ts := idgentest.NewServer(nil).Start()
	defer ts.Close()

	var stats []*idgen.Stat
	c := newClient(t, ts.URL, idgen.WithSessionOptions(idgen.Logf(func(ctx context.Context, stat *idgen.Stat) {
		stats = append(stats, stat)
	})))
	if _, err := c.RequestIDs(context.Background(), &idgen.RequestInfo{MsgId: "log-1"}, "pb", "n", "f", 2); err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 {
		t.Fatalf("stats = %d, want 1", len(stats))
	}
	s := stats[0]
	if s.RequestId != "log-1" || s.Response.StatusCode != http.StatusOK || s.Request.Method != http.MethodPost {
		t.Errorf("stat = %s", s)
	}
}
