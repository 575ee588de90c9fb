package chain

import (
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/pkg/errors"
)

type Network struct {
	Name       string
	APIURL     string
	Origin     string
	Referrer   string
	Host       string
	EsploraURL string
	RPCPort    int
	CoinType   uint32
	Testnet    bool

	chainParams *chaincfg.Params
}

var NetworkMain = &Network{
	Name:        "main",
	APIURL:      "https://api.unisat.space",
	Origin:      "https://unisat.io",
	Referrer:    "https://unisat.io/",
	Host:        "api.unisat.space",
	EsploraURL:  "https://mempool.space/api",
	RPCPort:     8332,
	CoinType:    0,
	Testnet:     false,
	chainParams: &chaincfg.MainNetParams,
}

var NetworkTestnet = &Network{
	Name:        "testnet",
	APIURL:      "https://api-testnet.unisat.io",
	Origin:      "https://testnet.unisat.io",
	Referrer:    "https://testnet.unisat.io/",
	Host:        "api-testnet.unisat.io",
	EsploraURL:  "https://mempool.space/testnet/api",
	RPCPort:     18332,
	CoinType:    1,
	Testnet:     true,
	chainParams: &chaincfg.TestNet3Params,
}

func NetworkFromName(name string) (*Network, error) {
	switch strings.ToLower(name) {
	case "main", "mainnet":
		return NetworkMain, nil
	case "test", "testnet":
		return NetworkTestnet, nil
	default:
		return nil, errors.Errorf("invalid network %q", name)
	}
}

func (n *Network) ChainParams() *chaincfg.Params {
	return n.chainParams
}
