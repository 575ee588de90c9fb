package payment

import (
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// Coin is an unspent output of the funding address.
type Coin struct {
	Prevout   wire.OutPoint
	Value     uint64
	Confirmed bool
}

func NewCoin(txid string, vout uint32, value uint64, confirmed bool) (*Coin, error) {
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid txid %q", txid)
	}
	return &Coin{
		Prevout:   *wire.NewOutPoint(hash, vout),
		Value:     value,
		Confirmed: confirmed,
	}, nil
}

func totalValue(coins []*Coin) uint64 {
	var total uint64
	for _, coin := range coins {
		total += coin.Value
	}
	return total
}

// largestFirst orders coins by descending value. Ties keep their original
// order.
func largestFirst(coins []*Coin) []*Coin {
	out := make([]*Coin, len(coins))
	copy(out, coins)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}
