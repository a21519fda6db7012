package idgen

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

// Response 包装了 http.Response，自动缓存响应内容并记录耗时
// Response wraps http.Response, caching the body and recording the duration.
//
// The body is fully read and closed by DoRequest, so Content can be read
// any number of times.
type Response struct {
	*http.Request                // 原始 HTTP 请求 / Original HTTP request
	*http.Response               // 原始 HTTP 响应 / Original HTTP response
	StartAt        time.Time     // 请求开始时间 / Request start time
	Cost           time.Duration // 请求耗时 / Request duration
	Content        *bytes.Buffer // 响应内容缓存 / Response content cache
	Err            error         // 请求过程中的错误 / Error during request
}

func newResponse(r *http.Request) *Response {
	return &Response{
		Request:  r,
		StartAt:  time.Now(),
		Response: &http.Response{},
		Content:  &bytes.Buffer{},
	}
}

// String returns the cached body.
func (resp *Response) String() string {
	return resp.Content.String()
}

// Error implements the error interface.
func (resp *Response) Error() string {
	if resp.Err == nil {
		return ""
	}
	return resp.Err.Error()
}

// JSON decodes the cached body into v.
func (resp *Response) JSON(v any) error {
	return json.Unmarshal(resp.Content.Bytes(), v)
}

// Stat returns the request statistics.
func (resp *Response) Stat() *Stat {
	return responseLoad(resp)
}

// OK reports a 2xx status.
func (resp *Response) OK() bool {
	return resp.Response != nil && resp.StatusCode >= 200 && resp.StatusCode <= 299
}
