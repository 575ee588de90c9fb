package payment

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
	"github.com/ybbus/jsonrpc/v2"
)

// CoreBackend funds and broadcasts through a Bitcoin Core node's JSON-RPC
// interface. The node needs no wallet: UTXOs come from scantxoutset.
type CoreBackend struct {
	client jsonrpc.RPCClient
}

// NewCoreBackend connects to url. auth is either "user:password" or a bare
// password, which is paired with the user "x".
func NewCoreBackend(url string, auth string) *CoreBackend {
	var client jsonrpc.RPCClient
	if auth == "" {
		client = jsonrpc.NewClient(url)
	} else {
		if !strings.Contains(auth, ":") {
			auth = "x:" + auth
		}
		client = jsonrpc.NewClientWithOpts(url, &jsonrpc.RPCClientOpts{
			CustomHeaders: map[string]string{
				"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(auth)),
			},
		})
	}

	return &CoreBackend{
		client: client,
	}
}

type scanTxOutSetRes struct {
	Success  bool `json:"success"`
	Unspents []struct {
		TxID   string  `json:"txid"`
		Vout   uint32  `json:"vout"`
		Amount float64 `json:"amount"`
		Height int     `json:"height"`
	} `json:"unspents"`
}

func (c *CoreBackend) UTXOs(address string) ([]*Coin, error) {
	res := new(scanTxOutSetRes)
	err := c.client.CallFor(res, "scantxoutset", "start", []string{fmt.Sprintf("addr(%s)", address)})
	if err != nil {
		return nil, errors.Wrap(err, "error scanning utxo set")
	}
	if !res.Success {
		return nil, errors.New("utxo set scan did not complete")
	}

	coins := make([]*Coin, 0, len(res.Unspents))
	for _, utxo := range res.Unspents {
		amt, err := btcutil.NewAmount(utxo.Amount)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid amount for %s:%d", utxo.TxID, utxo.Vout)
		}
		coin, err := NewCoin(utxo.TxID, utxo.Vout, uint64(amt), utxo.Height > 0)
		if err != nil {
			return nil, err
		}
		coins = append(coins, coin)
	}
	return coins, nil
}

func (c *CoreBackend) Broadcast(tx *wire.MsgTx) (string, error) {
	txHex, err := serializeTx(tx)
	if err != nil {
		return "", err
	}

	var txID string
	if err := c.client.CallFor(&txID, "sendrawtransaction", txHex); err != nil {
		return "", errors.Wrap(err, "error broadcasting transaction")
	}
	return txID, nil
}
