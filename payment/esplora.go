package payment

import (
	"strings"

	"github.com/btcsuite/btcd/wire"
	"github.com/kurumiimari/unimint/ghttp"
	"github.com/pkg/errors"
)

// EsploraBackend speaks the mempool.space flavoured Esplora REST API.
type EsploraBackend struct {
	url    string
	client *ghttp.HTTPClient
}

func NewEsploraBackend(url string, client *ghttp.HTTPClient) *EsploraBackend {
	if client == nil {
		client = ghttp.DefaultClient
	}
	return &EsploraBackend{
		url:    strings.TrimSuffix(url, "/"),
		client: client,
	}
}

type esploraUTXO struct {
	TxID   string `json:"txid"`
	Vout   uint32 `json:"vout"`
	Value  uint64 `json:"value"`
	Status struct {
		Confirmed bool `json:"confirmed"`
	} `json:"status"`
}

func (e *EsploraBackend) UTXOs(address string) ([]*Coin, error) {
	var res []*esploraUTXO
	if err := e.client.DoGetJSON(e.url+"/address/"+address+"/utxo", &res); err != nil {
		return nil, errors.Wrap(err, "error fetching utxos")
	}

	coins := make([]*Coin, 0, len(res))
	for _, utxo := range res {
		coin, err := NewCoin(utxo.TxID, utxo.Vout, utxo.Value, utxo.Status.Confirmed)
		if err != nil {
			return nil, err
		}
		coins = append(coins, coin)
	}
	return coins, nil
}

func (e *EsploraBackend) Broadcast(tx *wire.MsgTx) (string, error) {
	txHex, err := serializeTx(tx)
	if err != nil {
		return "", err
	}

	res, err := e.client.DoPost(
		e.url+"/tx",
		[]byte(txHex),
		ghttp.WithHeader("Content-Type", "text/plain"),
	)
	if err != nil {
		return "", errors.Wrap(err, "error broadcasting transaction")
	}
	return strings.TrimSpace(string(res)), nil
}
