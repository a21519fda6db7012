package idgen

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

func makeBody(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	switch v := body.(type) {
	case []byte:
		return bytes.NewReader(v), nil
	case string:
		return strings.NewReader(v), nil
	case *bytes.Buffer:
		return bytes.NewReader(v.Bytes()), nil
	case io.Reader:
		return v, nil
	default:
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(b), nil
	}
}

// NewRequestWithContext builds the outgoing request from options.
func NewRequestWithContext(ctx context.Context, options Options) (*http.Request, error) {
	body, err := makeBody(options.body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, options.Method, options.URL, body)
	if err != nil {
		return nil, err
	}

	for _, path := range options.Path {
		req.URL.Path += path
	}

	req.Header = options.Header
	return req, nil
}
