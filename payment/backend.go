package payment

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// Backend is the chain view an Executor funds and broadcasts through.
type Backend interface {
	UTXOs(address string) ([]*Coin, error)
	Broadcast(tx *wire.MsgTx) (string, error)
}

func serializeTx(tx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer
	buf.Grow(tx.SerializeSize())
	if err := tx.Serialize(&buf); err != nil {
		return "", errors.Wrap(err, "error serializing transaction")
	}
	return hex.EncodeToString(buf.Bytes()), nil
}
