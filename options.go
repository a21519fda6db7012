package idgen

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Options 是传输会话与单次请求的配置集合
// Options is the collection of configuration options for sessions and requests
//
// 两级配置 / Two-level configuration:
//   - 会话级别（Session-level）：New 时设置，对所有请求生效
//   - 请求级别（Request-level）：DoRequest 时设置，覆盖会话配置
//
// 示例 / Example:
//
//	sess := idgen.New(idgen.Timeout(10*time.Second), idgen.Logf(idgen.LogS))
//	resp, err := sess.DoRequest(ctx,
//	    idgen.MethodPost,
//	    idgen.URL("http://egov-idgen:8080"),
//	    idgen.Path("/egov-idgen/id/_generate"),
//	    idgen.Body(batch),
//	)
type Options struct {
	Method string      // HTTP方法 / HTTP method
	URL    string      // 目标URL / Target URL
	Path   []string    // URL路径片段（追加到URL后）/ Path segments appended to URL
	body   any         // 请求体 / Request body
	Header http.Header // HTTP请求头 / HTTP headers

	Timeout  time.Duration // 请求超时 / Request timeout
	MaxConns int           // 连接池大小 / Connection pool size
	Verify   bool          // 是否验证TLS证书 / Whether to verify TLS certificates

	Transport        http.RoundTripper                           // 自定义传输层 / Custom transport
	HttpRoundTripper []func(http.RoundTripper) http.RoundTripper // 客户端中间件链 / Client middleware chain

	Proxy func(*http.Request) (*url.URL, error) // 代理配置函数 / Proxy function

	// EnableHTTP3 switches the base transport to QUIC.
	EnableHTTP3 bool
}

// Option configures Options.
type Option func(*Options)

func newOptions(opts []Option, extends ...Option) Options {
	opt := Options{
		Method:   http.MethodGet,
		URL:      "http://127.0.0.1:80",
		Header:   make(http.Header),
		Timeout:  30 * time.Second,
		MaxConns: 100,
		Verify:   true,
		Proxy:    http.ProxyFromEnvironment,
	}
	for _, o := range opts {
		o(&opt)
	}
	for _, o := range extends {
		o(&opt)
	}
	return opt
}

// Copy returns a deep enough copy for request-level options to mutate.
func (o Options) Copy() Options {
	c := o
	c.Header = o.Header.Clone()
	if c.Header == nil {
		c.Header = make(http.Header)
	}
	c.Path = append([]string(nil), o.Path...)
	c.HttpRoundTripper = append([]func(http.RoundTripper) http.RoundTripper(nil), o.HttpRoundTripper...)
	return c
}

// 预定义的常用 HTTP 方法
// Pre-defined common HTTP methods
var (
	MethodGet  = Method(http.MethodGet)
	MethodPost = Method(http.MethodPost)
)

// Method sets the HTTP request method.
func Method(method string) Option {
	return func(o *Options) {
		o.Method = method
	}
}

// URL sets the target URL.
func URL(url string) Option {
	return func(o *Options) {
		o.URL = url
	}
}

// Path 追加 URL 路径片段，可多次调用
// Path appends a URL path segment. Segments are concatenated as given.
func Path(path string) Option {
	return func(o *Options) {
		o.Path = append(o.Path, path)
	}
}

// Body 设置请求体；struct/map 会自动序列化为 JSON
// Body sets the request body. Structs and maps are serialized as JSON.
func Body(body any) Option {
	return func(o *Options) {
		o.body = body
	}
}

// Header adds a single HTTP header.
func Header(k, v string) Option {
	return func(o *Options) {
		o.Header.Add(k, v)
	}
}

// Headers adds multiple HTTP headers at once.
func Headers(kv map[string]string) Option {
	return func(o *Options) {
		for k, v := range kv {
			o.Header.Add(k, v)
		}
	}
}

// Timeout 设置请求超时时间，默认 30 秒
// Timeout sets the request timeout. Default is 30 seconds.
func Timeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// MaxConns sets MaxIdleConns and MaxIdleConnsPerHost of the base transport.
func MaxConns(conn int) Option {
	return func(o *Options) {
		o.MaxConns = conn
	}
}

// Verify 设置是否验证 TLS 证书；生产环境应始终为 true
// Verify sets whether to verify TLS certificates.
func Verify(verify bool) Option {
	return func(o *Options) {
		o.Verify = verify
	}
}

// Proxy sets the proxy server address. An empty addr keeps the environment proxy.
func Proxy(addr string) Option {
	return func(o *Options) {
		if addr == "" {
			return
		}
		if proxyURL, err := url.Parse(addr); err == nil {
			o.Proxy = http.ProxyURL(proxyURL)
		} else {
			panic("parse proxy addr: " + err.Error())
		}
	}
}

// Setup 注册客户端中间件，后注册的包裹先注册的
// Setup registers client middleware. Later registrations wrap earlier ones.
func Setup(fn ...func(tripper http.RoundTripper) http.RoundTripper) Option {
	return func(o *Options) {
		for _, f := range fn {
			o.HttpRoundTripper = append([]func(http.RoundTripper) http.RoundTripper{f}, o.HttpRoundTripper...)
		}
	}
}

// RoundTripper replaces the base transport.
func RoundTripper(tr http.RoundTripper) Option {
	return func(o *Options) {
		o.Transport = tr
	}
}

// Logf 启用请求日志，每次往返回调一次 Stat
// Logf calls f with a Stat after every round trip.
//
//	sess := idgen.New(idgen.Logf(func(ctx context.Context, stat *idgen.Stat) {
//	    log.Printf("idgen %s took %dms", stat.Request.URL, stat.Cost)
//	}))
func Logf(f func(context.Context, *Stat)) Option {
	return func(o *Options) {
		o.HttpRoundTripper = append([]func(http.RoundTripper) http.RoundTripper{printRoundTripper(f)}, o.HttpRoundTripper...)
	}
}

// EnableHTTP3 使用 QUIC 作为传输层
// EnableHTTP3 uses HTTP/3 over QUIC for the base transport.
// It is ignored when RoundTripper supplies a transport.
func EnableHTTP3(enable bool) Option {
	return func(o *Options) {
		o.EnableHTTP3 = enable
	}
}
