package unisat

import (
	"net/http"

	"github.com/kurumiimari/unimint/chain"
)

const (
	HeaderSign         = "X-Sign"
	HeaderTimestamp    = "X-Ts"
	HeaderAppID        = "X-Appid"
	HeaderToken        = "Cf-Token"
	HeaderFrontVersion = "X-Front-Version"

	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"
)

// HeaderPolicy assembles the browser-like header set the marketplace
// expects. Without a signer it runs in bootstrap mode and emits no
// signature headers.
type HeaderPolicy struct {
	network   *chain.Network
	userAgent string
	session   *Session
	signer    *Signer
}

func NewHeaderPolicy(network *chain.Network, userAgent string, session *Session, signer *Signer) *HeaderPolicy {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HeaderPolicy{
		network:   network,
		userAgent: userAgent,
		session:   session,
		signer:    signer,
	}
}

func (h *HeaderPolicy) Signed() bool {
	return h.signer != nil && h.session != nil && h.session.Timestamp != ""
}

func (h *HeaderPolicy) Build(endpoint string, params *Params) http.Header {
	hdr := http.Header{}
	hdr.Set("Accept", "application/json, text/plain, */*")
	hdr.Set("Accept-Language", "en-US,en;q=0.9")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Origin", h.network.Origin)
	hdr.Set("Pragma", "no-cache")
	hdr.Set("Referer", h.network.Referrer)
	hdr.Set("Host", h.network.Host)
	hdr.Set("Sec-Fetch-Dest", "empty")
	hdr.Set("Sec-Fetch-Mode", "cors")
	hdr.Set("Sec-Fetch-Site", "cross-site")
	hdr.Set("User-Agent", h.userAgent)
	hdr.Set("Sec-Ch-Ua", `"Chromium";v="128", "Not;A=Brand";v="24", "Google Chrome";v="128"`)
	hdr.Set("Sec-Ch-Ua-Mobile", "?0")
	hdr.Set("Sec-Ch-Ua-Platform", "macOS")
	hdr.Set("Fetch-Mode", "no-cors")
	hdr.Set("Fetch-Site", "same-origin")

	if h.Signed() {
		sign := h.signer.Sign(endpoint, params)
		hdr.Set(HeaderToken, h.signer.Token(sign))
		hdr.Set(HeaderAppID, h.session.AppID)
		hdr.Set(HeaderSign, sign)
		hdr.Set(HeaderTimestamp, h.session.Timestamp)
	}

	if h.network.Testnet {
		hdr.Set("Content-Type", "application/json")
		hdr.Set("Priority", "u=1, i")
		hdr.Set("Sec-Fetch-Site", "same-site")
	} else {
		hdr.Set("Accept-Encoding", "gzip, deflate, br, zstd")
		hdr.Set("Connection", "keep-alive")
		if h.Signed() {
			hdr.Set(HeaderFrontVersion, h.session.FrontVersion)
		}
	}

	return hdr
}
