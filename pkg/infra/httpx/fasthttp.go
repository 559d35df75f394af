package httpx

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultTimeout             = 30 * time.Second
	DefaultMaxConnsPerHost     = 512
	DefaultMaxIdleConnDuration = 10 * time.Second
	DefaultMaxResponseBodySize = 10 * 1024 * 1024
)

type FastHTTPClientOptions struct {
	Timeout             time.Duration
	InsecureSkipVerify  bool
	MaxConnsPerHost     int
	MaxIdleConnDuration time.Duration
	MaxResponseBodySize int
	UserAgent           string
}

type FastHTTPClientOption func(*FastHTTPClientOptions)

func WithTimeout(timeout time.Duration) FastHTTPClientOption {
	return func(o *FastHTTPClientOptions) {
		o.Timeout = timeout
	}
}

// WithInsecureSkipVerify sets whether to skip TLS certificate verification
func WithInsecureSkipVerify(skip bool) FastHTTPClientOption {
	return func(o *FastHTTPClientOptions) {
		o.InsecureSkipVerify = skip
	}
}

func WithMaxConnsPerHost(max int) FastHTTPClientOption {
	return func(o *FastHTTPClientOptions) {
		o.MaxConnsPerHost = max
	}
}

func WithUserAgent(userAgent string) FastHTTPClientOption {
	return func(o *FastHTTPClientOptions) {
		o.UserAgent = userAgent
	}
}

// FastHTTPClient adapts fasthttp to the net/http shaped Client interface and decodes
// compressed response bodies.
type FastHTTPClient struct {
	client    *fasthttp.Client
	timeout   time.Duration
	userAgent string
}

func NewFastHTTPClient(opts ...FastHTTPClientOption) Client {
	options := &FastHTTPClientOptions{
		Timeout:             DefaultTimeout,
		MaxConnsPerHost:     DefaultMaxConnsPerHost,
		MaxIdleConnDuration: DefaultMaxIdleConnDuration,
		MaxResponseBodySize: DefaultMaxResponseBodySize,
	}
	for _, opt := range opts {
		opt(options)
	}

	client := &fasthttp.Client{
		MaxConnsPerHost:     options.MaxConnsPerHost,
		MaxIdleConnDuration: options.MaxIdleConnDuration,
		MaxResponseBodySize: options.MaxResponseBodySize,
		ReadTimeout:         options.Timeout,
		WriteTimeout:        options.Timeout,
	}
	if options.InsecureSkipVerify {
		client.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // intentionally configurable
		}
	}

	return &FastHTTPClient{
		client:    client,
		timeout:   options.Timeout,
		userAgent: options.UserAgent,
	}
}

func (c *FastHTTPClient) Do(req *http.Request) (*http.Response, error) {
	fastReq := fasthttp.AcquireRequest()
	fastResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(fastReq)
	defer fasthttp.ReleaseResponse(fastResp)

	if req.URL != nil {
		fastReq.SetRequestURI(req.URL.String())
	}
	fastReq.Header.SetMethod(req.Method)
	if req.Host != "" {
		fastReq.Header.SetHost(req.Host)
	}

	for key, values := range req.Header {
		for i, value := range values {
			if i == 0 {
				fastReq.Header.Set(key, value)
				continue
			}
			fastReq.Header.Add(key, value)
		}
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		fastReq.Header.Set("User-Agent", c.userAgent)
	}

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		fastReq.SetBodyRaw(body)
	}

	timeout := c.timeout
	if deadline, ok := req.Context().Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, context.DeadlineExceeded
		}
		if remaining < timeout || timeout <= 0 {
			timeout = remaining
		}
	}
	var err error
	if timeout > 0 {
		err = c.client.DoTimeout(fastReq, fastResp, timeout)
	} else {
		err = c.client.Do(fastReq, fastResp)
	}
	if err != nil {
		return nil, err
	}

	// fastResp.Body() is reused after release, so the body must be copied.
	body := append([]byte(nil), fastResp.Body()...)
	contentEncoding := string(fastResp.Header.Peek(fasthttp.HeaderContentEncoding))
	body, decoded, err := DecodeChain(contentEncoding, body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	headers := make(http.Header)
	fastResp.Header.VisitAll(func(key, value []byte) {
		headers.Add(string(key), string(value))
	})
	if decoded {
		headers.Del(fasthttp.HeaderContentEncoding)
		headers.Del(fasthttp.HeaderContentLength)
	}

	statusCode := fastResp.StatusCode()
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
		StatusCode:    statusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        headers,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}
