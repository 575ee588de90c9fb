package ghttp

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

type RequestOption func(req *http.Request)

type HTTPClient struct {
	MaxRead int64
	client  *http.Client
}

var DefaultClient = NewHTTPClient(nil)

func NewHTTPClient(client *http.Client) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPClient{
		MaxRead: 10 * 1024 * 1024,
		client:  client,
	}
}

// NewProxiedHTTPClient routes every request through proxyURL. An empty
// proxyURL yields a client using the default transport.
func NewProxiedHTTPClient(proxyURL string) (*HTTPClient, error) {
	if proxyURL == "" {
		return NewHTTPClient(nil), nil
	}

	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid proxy url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("proxy url %q must include a scheme and host", proxyURL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyURL(u)
	return NewHTTPClient(&http.Client{Transport: transport}), nil
}

func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) {
		if key == "" || value == "" {
			return
		}

		req.Header.Set(key, value)
	}
}

// WithHeaders copies every header in h onto the request. A Host entry sets
// the request's Host instead, since net/http ignores it in the header map.
func WithHeaders(h http.Header) RequestOption {
	return func(req *http.Request) {
		for key, values := range h {
			if len(values) == 0 {
				continue
			}
			if http.CanonicalHeaderKey(key) == "Host" {
				req.Host = values[0]
				continue
			}
			req.Header[key] = append([]string(nil), values...)
		}
	}
}

func WithBasicAuth(username, password string) RequestOption {
	return func(req *http.Request) {
		req.SetBasicAuth(username, password)
	}
}

func (c *HTTPClient) DoGetJSON(url string, resObj interface{}, opts ...RequestOption) error {
	res, err := c.DoGet(url, opts...)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(res, resObj); err != nil {
		return NewError(StatusDecode, res, errors.WithStack(err))
	}
	return nil
}

func (c *HTTPClient) DoPostJSON(url string, reqObj interface{}, resObj interface{}, opts ...RequestOption) error {
	var body []byte
	var err error
	if reqObj != nil {
		body, err = json.Marshal(reqObj)
		if err != nil {
			return NewError(StatusTransport, nil, errors.WithStack(err))
		}
	}

	res, err := c.DoPost(url, body, append([]RequestOption{
		WithHeader("Content-Type", "application/json"),
	}, opts...)...)
	if err != nil {
		return err
	}

	if resObj == nil {
		return nil
	}

	if err := json.Unmarshal(res, resObj); err != nil {
		return NewError(StatusDecode, res, errors.WithStack(err))
	}
	return nil
}

func (c *HTTPClient) DoGet(url string, opts ...RequestOption) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, NewError(StatusTransport, nil, errors.WithStack(err))
	}
	return c.doReq(req, opts...)
}

func (c *HTTPClient) DoPost(url string, body []byte, opts ...RequestOption) ([]byte, error) {
	bodyR := bytes.NewReader(body)
	req, err := http.NewRequest(http.MethodPost, url, bodyR)
	if err != nil {
		return nil, NewError(StatusTransport, nil, errors.WithStack(err))
	}
	return c.doReq(req, opts...)
}

func (c *HTTPClient) doReq(req *http.Request, opts ...RequestOption) ([]byte, error) {
	for _, opt := range opts {
		opt(req)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, NewError(StatusTransport, nil, errors.WithStack(err))
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	body, err := decodeBody(res)
	if err != nil {
		return nil, NewError(StatusDecode, nil, err)
	}
	defer body.Close()

	resBody, err := io.ReadAll(io.LimitReader(body, c.MaxRead))
	if err != nil {
		return nil, NewError(StatusTransport, nil, errors.WithStack(err))
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, NewError(res.StatusCode, resBody, errors.Errorf("non-200 status code %d", res.StatusCode))
	}

	return resBody, nil
}

// decodeBody undoes any Content-Encoding left in place by the transport,
// which only happens when the caller set Accept-Encoding itself.
func decodeBody(res *http.Response) (io.ReadCloser, error) {
	encoding := strings.ToLower(strings.TrimSpace(res.Header.Get("Content-Encoding")))
	switch encoding {
	case "", "identity":
		return io.NopCloser(res.Body), nil
	case "gzip":
		r, err := gzip.NewReader(res.Body)
		return r, errors.Wrap(err, "error opening gzip body")
	case "deflate":
		r, err := zlib.NewReader(res.Body)
		return r, errors.Wrap(err, "error opening deflate body")
	case "br":
		return io.NopCloser(brotli.NewReader(res.Body)), nil
	case "zstd":
		r, err := zstd.NewReader(res.Body)
		if err != nil {
			return nil, errors.Wrap(err, "error opening zstd body")
		}
		return r.IOReadCloser(), nil
	default:
		return nil, errors.Errorf("unsupported content encoding %q", encoding)
	}
}
