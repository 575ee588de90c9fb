package unimint

import (
	"github.com/kurumiimari/unimint/chain"
)

type config struct {
	Network       *chain.Network
	Key           string
	Receiver      string
	TxFee         uint64
	UserAgent     string
	Proxy         string
	Backend       string
	BackendURL    string
	BackendAPIKey string
	SourceType    chain.AddressType
	Derivation    chain.Derivation
	AssumeYes     bool
}

var Config = new(config)
