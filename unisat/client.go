package unisat

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/kurumiimari/unimint/chain"
	"github.com/kurumiimari/unimint/ghttp"
	"github.com/kurumiimari/unimint/log"
	"github.com/pkg/errors"
)

const (
	EndpointTimestamp     = "ts2"
	EndpointConfig        = "basic-v4/config"
	EndpointPreload       = "basic-v4/base/preload"
	EndpointInscribeOrder = "inscribe-v5/order/create"
	EndpointRuneMintOrder = "inscribe-v5/order/create/runes-mint"
)

var clientLogger = log.ModuleLogger("unisat")

// Gateway performs the actual HTTP exchange. It adds nothing on top: no
// retries, no timeouts.
type Gateway interface {
	Get(url string, header http.Header, resObj interface{}) error
	Post(url string, header http.Header, body interface{}, resObj interface{}) error
}

type httpGateway struct {
	client *ghttp.HTTPClient
}

func NewHTTPGateway(client *ghttp.HTTPClient) Gateway {
	if client == nil {
		client = ghttp.DefaultClient
	}
	return &httpGateway{client: client}
}

func (g *httpGateway) Get(url string, header http.Header, resObj interface{}) error {
	return g.client.DoGetJSON(url, resObj, ghttp.WithHeaders(header))
}

func (g *httpGateway) Post(url string, header http.Header, body interface{}, resObj interface{}) error {
	return g.client.DoPostJSON(url, body, resObj, ghttp.WithHeaders(header))
}

type ClientOption func(c *clientOpts)

type clientOpts struct {
	userAgent string
	clientID  string
	rand      RandSource
}

func WithUserAgent(userAgent string) ClientOption {
	return func(c *clientOpts) {
		c.userAgent = userAgent
	}
}

func WithClientID(clientID string) ClientOption {
	return func(c *clientOpts) {
		c.clientID = clientID
	}
}

func WithRandSource(rnd RandSource) ClientOption {
	return func(c *clientOpts) {
		c.rand = rnd
	}
}

// Client talks to the marketplace API with a session fixed at
// construction time.
type Client struct {
	network *chain.Network
	gateway Gateway
	session *Session
	headers *HeaderPolicy
}

// NewClient fetches the session timestamp with one unsigned request and
// returns a client that signs every later request against it. Failure is
// final: there is no retry.
func NewClient(network *chain.Network, gateway Gateway, opts ...ClientOption) (*Client, error) {
	o := &clientOpts{
		rand: CryptoRand,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.clientID == "" {
		o.clientID = NewClientID()
	}

	c := &Client{
		network: network,
		gateway: gateway,
		headers: NewHeaderPolicy(network, o.userAgent, nil, nil),
	}

	ts, err := c.fetchTimestamp()
	if err != nil {
		return nil, err
	}

	c.session = NewSession(ts, o.clientID)
	c.headers = NewHeaderPolicy(network, o.userAgent, c.session, NewSigner(c.session, o.rand))
	clientLogger.Debug("established session", "network", network.Name, "ts", ts, "client_id", o.clientID)
	return c, nil
}

func (c *Client) fetchTimestamp() (string, error) {
	res := new(tsRes)
	if err := c.get(EndpointTimestamp, nil, res); err != nil {
		return "", &BootstrapError{Err: err}
	}
	if err := res.err(); err != nil {
		return "", &BootstrapError{Err: err}
	}
	if res.Data == nil || res.Data.Ts == "" {
		return "", &BootstrapError{Err: errors.Wrap(ErrMalformedResponse, "response has no data.ts")}
	}
	return string(res.Data.Ts), nil
}

func (c *Client) Session() Session {
	return *c.session
}

func (c *Client) Network() *chain.Network {
	return c.network
}

// Config returns the marketplace's front-end configuration. A body that
// cannot be parsed is logged and yields an empty result.
func (c *Client) Config() (map[string]interface{}, error) {
	res := make(map[string]interface{})
	if err := c.get(EndpointConfig, nil, &res); err != nil {
		if ghttp.IsDecodeError(err) {
			clientLogger.Warning("error parsing config response", "err", err)
			return map[string]interface{}{}, nil
		}
		return nil, err
	}
	return res, nil
}

func (c *Client) Preload(address string) (json.RawMessage, error) {
	var res json.RawMessage
	params := NewParams().Set("address", address)
	if err := c.get(EndpointPreload, params, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// RuneInfo looks a rune up by name. A nil result with a nil error means the
// rune does not exist.
func (c *Client) RuneInfo(name string) (*RuneInfo, error) {
	res := new(runeInfoRes)
	if err := c.get(runeInfoEndpoint(name), nil, res); err != nil {
		return nil, err
	}
	if res.Data == nil {
		return nil, nil
	}
	return res.Data, nil
}

func (c *Client) CreateInscribeOrder(req *TokenMint) (*Order, error) {
	payload := MintPayload(req.Ticker, req.Amount)
	params := NewParams().
		Set("files", []inscribeFile{
			{
				DataURL:  DataURL(payload),
				Filename: string(payload),
			},
		}).
		Set("receiver", req.Receiver).
		Set("feeRate", req.FeeRate).
		Set("outputValue", outputValue(req.OutputValue)).
		Set("clientId", c.session.ClientID)

	return c.createOrder(EndpointInscribeOrder, params)
}

func (c *Client) CreateRuneMintOrder(req *RuneMint, runeID string) (*Order, error) {
	params := NewParams().
		Set("receiver", req.Receiver).
		Set("feeRate", req.FeeRate).
		Set("outputValue", outputValue(req.OutputValue)).
		Set("clientId", c.session.ClientID).
		Set("runeId", runeID).
		Set("count", req.Count)

	return c.createOrder(EndpointRuneMintOrder, params)
}

func (c *Client) createOrder(endpoint string, params *Params) (*Order, error) {
	res := new(orderRes)
	if err := c.post(endpoint, params, res); err != nil {
		return nil, err
	}
	if res.Data == nil {
		if err := res.err(); err != nil {
			return nil, err
		}
		return nil, errors.Wrap(ErrMalformedResponse, "order response has no data")
	}
	if err := res.Data.validate(); err != nil {
		return nil, err
	}
	clientLogger.Info(
		"created order",
		"order_id", res.Data.OrderID,
		"pay_address", res.Data.PayAddress,
		"amount", res.Data.Amount,
	)
	return res.Data, nil
}

func (c *Client) get(endpoint string, params *Params, resObj interface{}) error {
	hdr := c.headers.Build(endpoint, params)
	return c.gateway.Get(c.url(endpoint, params), hdr, resObj)
}

func (c *Client) post(endpoint string, params *Params, resObj interface{}) error {
	hdr := c.headers.Build(endpoint, params)
	return c.gateway.Post(c.url(endpoint, nil), hdr, params, resObj)
}

func (c *Client) url(endpoint string, params *Params) string {
	u := c.network.APIURL + "/" + escapePath(endpoint)
	if params.Len() > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func runeInfoEndpoint(name string) string {
	return "query-v4/runes/" + name + "/info"
}

func escapePath(endpoint string) string {
	segments := strings.Split(strings.TrimPrefix(endpoint, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
