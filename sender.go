package idgen

import (
	"context"
	"fmt"
)

// HTTPSender posts a batch as JSON over a Session.
type HTTPSender struct {
	sess *Session
}

var _ Sender = (*HTTPSender)(nil)

// NewHTTPSender creates the sender and its session.
func NewHTTPSender(opts ...Option) *HTTPSender {
	return &HTTPSender{sess: New(opts...)}
}

// Send performs one POST. Non-2xx answers come back as *StatusError carrying
// the raw body; transport errors are returned unwrapped.
func (h *HTTPSender) Send(ctx context.Context, url string, req *IdGenerationRequest) (*IdGenerationResponse, error) {
	var msgID string
	if req.RequestInfo != nil {
		msgID = req.RequestInfo.MsgId
	}
	resp, err := h.sess.DoRequest(ctx,
		MethodPost,
		URL(url),
		Header("Content-Type", "application/json"),
		Header("Accept", "application/json"),
		Setup(requestID(msgID)),
		Body(req),
	)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: resp.Content.String()}
	}

	var out IdGenerationResponse
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// Close releases the session's connections.
func (h *HTTPSender) Close() error {
	return h.sess.Close()
}
