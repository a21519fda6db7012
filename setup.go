package idgen

import (
	"context"
	"net/http"
)

// printRoundTripper 在每次请求完成后回调统计信息
// printRoundTripper calls f with the statistics of every round trip,
// including failed ones.
func printRoundTripper(f func(ctx context.Context, stat *Stat)) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			resp := newResponse(r)
			resp.Response, resp.Err = next.RoundTrip(r)
			f(r.Context(), resp.Stat())
			return resp.Response, resp.Err
		})
	}
}

// requestID sets the Request-Id header when the caller did not.
func requestID(id string) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(RequestId) == "" {
				r.Header.Set(RequestId, GenId(id))
			}
			return next.RoundTrip(r)
		})
	}
}
