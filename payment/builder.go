package payment

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/kurumiimari/unimint/chain"
	"github.com/pkg/errors"
)

// TxBuilder assembles a transaction spending coins that all belong to one
// funding address.
type TxBuilder struct {
	Coins    []*Coin
	Outputs  []*wire.TxOut
	Version  int32
	Locktime uint32
}

func NewTxBuilder() *TxBuilder {
	return &TxBuilder{
		Version: wire.TxVersion,
	}
}

func (b *TxBuilder) AddCoin(coin *Coin) {
	b.Coins = append(b.Coins, coin)
}

func (b *TxBuilder) AddOutput(output *wire.TxOut) {
	b.Outputs = append(b.Outputs, output)
}

// Build returns the unsigned transaction.
func (b *TxBuilder) Build() *wire.MsgTx {
	tx := wire.NewMsgTx(b.Version)
	tx.LockTime = b.Locktime
	for _, coin := range b.Coins {
		prevout := coin.Prevout
		tx.AddTxIn(wire.NewTxIn(&prevout, nil, nil))
	}
	for _, out := range b.Outputs {
		tx.AddTxOut(wire.NewTxOut(out.Value, out.PkScript))
	}
	return tx
}

// Fund adds coins, in the order given, until the outputs plus fee are
// covered. Change goes to changeScript unless it would be dust, in which
// case it is left to the miner.
func (b *TxBuilder) Fund(fundingCoins []*Coin, changeScript []byte, fee uint64) error {
	var totalOut uint64
	for _, out := range b.Outputs {
		totalOut += uint64(out.Value)
	}
	need := totalOut + fee

	used := make(map[wire.OutPoint]bool)
	totalIn := totalValue(b.Coins)
	for _, coin := range b.Coins {
		used[coin.Prevout] = true
	}

	for _, coin := range fundingCoins {
		if totalIn >= need {
			break
		}
		if used[coin.Prevout] {
			continue
		}
		used[coin.Prevout] = true
		b.AddCoin(coin)
		totalIn += coin.Value
	}

	if totalIn < need {
		return errors.Wrapf(ErrInsufficientFunds, "need %d, have %d", need, totalIn)
	}

	if change := totalIn - need; change >= DustLimit {
		b.AddOutput(wire.NewTxOut(int64(change), changeScript))
	}
	return nil
}

// Sign builds the transaction and signs every input with key. pkScript is
// the funding address's output script, shared by every coin.
func (b *TxBuilder) Sign(key *chain.FundingKey, addrType chain.AddressType, pkScript []byte) (*wire.MsgTx, error) {
	tx := b.Build()

	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for _, coin := range b.Coins {
		fetcher.AddPrevOut(coin.Prevout, wire.NewTxOut(int64(coin.Value), pkScript))
	}
	sigHashes := txscript.NewTxSigHashes(tx, fetcher)

	for i, coin := range b.Coins {
		amt := int64(coin.Value)
		switch addrType {
		case chain.AddressTypeP2PKH:
			sigScript, err := txscript.SignatureScript(tx, i, pkScript, txscript.SigHashAll, key.PrivKey, key.Compressed)
			if err != nil {
				return nil, errors.Wrap(err, "error signing p2pkh input")
			}
			tx.TxIn[i].SignatureScript = sigScript
		case chain.AddressTypeP2WPKH:
			wit, err := txscript.WitnessSignature(tx, sigHashes, i, amt, pkScript, txscript.SigHashAll, key.PrivKey, true)
			if err != nil {
				return nil, errors.Wrap(err, "error signing p2wpkh input")
			}
			tx.TxIn[i].Witness = wit
		case chain.AddressTypeP2TR:
			wit, err := txscript.TaprootWitnessSignature(tx, sigHashes, i, amt, pkScript, txscript.SigHashDefault, key.PrivKey)
			if err != nil {
				return nil, errors.Wrap(err, "error signing p2tr input")
			}
			tx.TxIn[i].Witness = wit
		default:
			return nil, errors.Errorf("unsupported address type %q", addrType)
		}
	}
	return tx, nil
}
