package payment

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/kurumiimari/unimint/chain"
	"github.com/kurumiimari/unimint/log"
	"github.com/pkg/errors"
)

// DustLimit is the smallest change output worth creating, in sats.
const DustLimit = 546

var ErrInsufficientFunds = errors.New("insufficient funds")

var logger = log.ModuleLogger("payment")

// Executor pays marketplace orders from a single-key wallet.
type Executor struct {
	backend  Backend
	key      *chain.FundingKey
	addrType chain.AddressType
	network  *chain.Network
	source   btcutil.Address
	pkScript []byte
}

func NewExecutor(backend Backend, key *chain.FundingKey, addrType chain.AddressType, network *chain.Network) (*Executor, error) {
	source, err := key.Address(addrType, network)
	if err != nil {
		return nil, err
	}
	pkScript, err := txscript.PayToAddrScript(source)
	if err != nil {
		return nil, errors.Wrap(err, "error building source script")
	}

	return &Executor{
		backend:  backend,
		key:      key,
		addrType: addrType,
		network:  network,
		source:   source,
		pkScript: pkScript,
	}, nil
}

func (e *Executor) SourceAddress() string {
	return e.source.EncodeAddress()
}

// Balance sums every UTXO of the source address, confirmed or not.
func (e *Executor) Balance() (uint64, error) {
	coins, err := e.backend.UTXOs(e.SourceAddress())
	if err != nil {
		return 0, err
	}
	return totalValue(coins), nil
}

// Pay sends amount sats to dest with a flat fee and returns the txid. The
// balance check happens before anything is built or broadcast.
func (e *Executor) Pay(dest string, amount uint64, fee uint64) (string, error) {
	if amount == 0 {
		return "", errors.New("amount must be positive")
	}
	// no balance can cover more than the coin supply
	if amount > btcutil.MaxSatoshi || fee > btcutil.MaxSatoshi-amount {
		logger.Warning("payment exceeds coin supply", "amount", amount, "fee", fee)
		return "", errors.Wrapf(ErrInsufficientFunds, "amount %d plus fee %d exceeds the coin supply", amount, fee)
	}
	destAddr, err := chain.DecodeAddress(dest, e.network)
	if err != nil {
		return "", err
	}
	destScript, err := txscript.PayToAddrScript(destAddr)
	if err != nil {
		return "", errors.Wrap(err, "error building destination script")
	}

	coins, err := e.backend.UTXOs(e.SourceAddress())
	if err != nil {
		return "", err
	}
	if total := totalValue(coins); total < amount+fee {
		logger.Warning("insufficient funds", "need", amount+fee, "have", total)
		return "", errors.Wrapf(ErrInsufficientFunds, "need %d, have %d", amount+fee, total)
	}

	b := NewTxBuilder()
	b.AddOutput(wire.NewTxOut(int64(amount), destScript))
	if err := b.Fund(largestFirst(coins), e.pkScript, fee); err != nil {
		return "", err
	}
	tx, err := b.Sign(e.key, e.addrType, e.pkScript)
	if err != nil {
		return "", err
	}

	logger.Debug(
		"broadcasting payment",
		"dest", dest,
		"amount", amount,
		"fee", fee,
		"inputs", len(tx.TxIn),
		"outputs", len(tx.TxOut),
	)
	txID, err := e.backend.Broadcast(tx)
	if err != nil {
		return "", err
	}
	logger.Info("broadcast payment", "txid", txID)
	return txID, nil
}
