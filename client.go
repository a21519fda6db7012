package idgen

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/golang-io/idgen"

var errEmptyResponse = errors.New("idgen: empty response")

// Sender delivers one batch to the identifier service.
type Sender interface {
	Send(ctx context.Context, url string, req *IdGenerationRequest) (*IdGenerationResponse, error)
}

// Client requests batches of identifiers. It holds no per-call state and is
// safe for concurrent use.
type Client struct {
	url    string
	sender Sender
	logger *slog.Logger
	tracer trace.Tracer
}

type clientOptions struct {
	sender  Sender
	logger  *slog.Logger
	tp      trace.TracerProvider
	session []Option
}

// ClientOption configures NewClient.
type ClientOption func(*clientOptions)

// WithSender replaces the HTTP transport.
func WithSender(s Sender) ClientOption {
	return func(o *clientOptions) {
		o.sender = s
	}
}

// WithLogger sets the structured logger. Default is slog.Default().
func WithLogger(l *slog.Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = l
	}
}

// WithTracerProvider sets the OpenTelemetry provider. Default is the global one.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(o *clientOptions) {
		o.tp = tp
	}
}

// WithSessionOptions adds transport options (Logf, Setup, Proxy, ...) to the
// default HTTPSender. Ignored together with WithSender.
func WithSessionOptions(opts ...Option) ClientOption {
	return func(o *clientOptions) {
		o.session = append(o.session, opts...)
	}
}

// NewClient validates cfg and builds the client.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := clientOptions{logger: slog.Default(), tp: otel.GetTracerProvider()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sender == nil {
		o.sender = NewHTTPSender(append(cfg.sessionOptions(), o.session...)...)
	}
	return &Client{
		url:    cfg.URL(),
		sender: o.sender,
		logger: o.logger.With("component", "idgen"),
		tracer: o.tp.Tracer(tracerName),
	}, nil
}

// RequestIDs asks the service for count identifiers of idName in tenantID,
// all in one call. info is forwarded untouched.
//
// The result is all or nothing: on failure the response is nil and the error
// is a ClientError (*ServiceRejected or *TransportFailure). A negative count
// returns ErrNegativeCount without calling the service. Nothing is retried.
func (c *Client) RequestIDs(ctx context.Context, info *RequestInfo, tenantID, idName, format string, count int) (*IdGenerationResponse, error) {
	if count < 0 {
		return nil, ErrNegativeCount
	}

	ctx, span := c.tracer.Start(ctx, "idgen.RequestIDs",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("idgen.tenant_id", tenantID),
			attribute.String("idgen.id_name", idName),
			attribute.Int("idgen.count", count),
		),
	)
	defer span.End()

	resp, err := c.sender.Send(ctx, c.url, newBatch(info, tenantID, idName, format, count))
	if err == nil && resp == nil {
		err = errEmptyResponse
	}
	if err != nil {
		ce := Classify(err)
		span.RecordError(ce)
		span.SetStatus(codes.Error, ce.Error())
		c.logFailure(ctx, ce, tenantID, idName, count)
		return nil, ce
	}

	span.SetAttributes(attribute.Int("idgen.generated", len(resp.IdResponses)))
	span.SetStatus(codes.Ok, "")
	c.logger.DebugContext(ctx, "ids generated",
		"tenant", tenantID, "idName", idName, "count", count, "generated", len(resp.IdResponses))
	return resp, nil
}

// GenerateIDs is RequestIDs returning only the identifier strings.
func (c *Client) GenerateIDs(ctx context.Context, info *RequestInfo, tenantID, idName, format string, count int) ([]string, error) {
	resp, err := c.RequestIDs(ctx, info, tenantID, idName, format, count)
	if err != nil {
		return nil, err
	}
	return resp.IDs(), nil
}

func (c *Client) logFailure(ctx context.Context, ce ClientError, tenantID, idName string, count int) {
	args := []any{"tenant", tenantID, "idName", idName, "count", count}
	switch e := ce.(type) {
	case *ServiceRejected:
		c.logger.WarnContext(ctx, "idgen rejected request", append(args, "status", e.StatusCode, "body", e.Body)...)
	case *TransportFailure:
		c.logger.ErrorContext(ctx, "idgen call failed", append(args, "cause", e.CauseName, "error", e.Message)...)
	}
}
