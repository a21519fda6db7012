package idgen

import "net/http"

// RoundTripperFunc is a http.RoundTripper implementation, which is a simple function.
type RoundTripperFunc func(req *http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (fn RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

// chain wraps base with the middleware list; index 0 ends up outermost.
func chain(base http.RoundTripper, mw []func(http.RoundTripper) http.RoundTripper) http.RoundTripper {
	rt := base
	for i := len(mw) - 1; i >= 0; i-- {
		rt = mw[i](rt)
	}
	return rt
}
