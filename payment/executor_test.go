package payment

import (
	"math"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/kurumiimari/unimint/chain"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	coins      []*Coin
	broadcasts []*wire.MsgTx
}

func (f *fakeBackend) UTXOs(address string) ([]*Coin, error) {
	return f.coins, nil
}

func (f *fakeBackend) Broadcast(tx *wire.MsgTx) (string, error) {
	f.broadcasts = append(f.broadcasts, tx)
	return tx.TxHash().String(), nil
}

func newTestKey(t *testing.T) *chain.FundingKey {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return &chain.FundingKey{
		PrivKey:    priv,
		Compressed: true,
	}
}

func testCoins(t *testing.T, values ...uint64) []*Coin {
	coins := make([]*Coin, len(values))
	for i, v := range values {
		coin, err := NewCoin("4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b", uint32(i), v, true)
		require.NoError(t, err)
		coins[i] = coin
	}
	return coins
}

func testDest(t *testing.T) string {
	addr, err := newTestKey(t).Address(chain.AddressTypeP2WPKH, chain.NetworkTestnet)
	require.NoError(t, err)
	return addr.EncodeAddress()
}

func requireValidSpend(t *testing.T, tx *wire.MsgTx, coins []*Coin, pkScript []byte) {
	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	values := make(map[wire.OutPoint]int64)
	for _, coin := range coins {
		fetcher.AddPrevOut(coin.Prevout, wire.NewTxOut(int64(coin.Value), pkScript))
		values[coin.Prevout] = int64(coin.Value)
	}
	sigHashes := txscript.NewTxSigHashes(tx, fetcher)

	for i, in := range tx.TxIn {
		vm, err := txscript.NewEngine(
			pkScript,
			tx,
			i,
			txscript.StandardVerifyFlags,
			nil,
			sigHashes,
			values[in.PreviousOutPoint],
			fetcher,
		)
		require.NoError(t, err)
		require.NoError(t, vm.Execute(), "input %d", i)
	}
}

func TestExecutor_Pay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		addrType  chain.AddressType
		coins     []uint64
		amount    uint64
		fee       uint64
		inputs    int
		change    int64
		hasChange bool
		prefix    string
	}{
		{"p2wpkh single input with change", chain.AddressTypeP2WPKH, []uint64{30000, 5000, 100000}, 20000, 500, 1, 79500, true, "tb1q"},
		{"p2pkh single input with change", chain.AddressTypeP2PKH, []uint64{30000, 5000, 100000}, 20000, 500, 1, 79500, true, "m"},
		{"p2tr single input with change", chain.AddressTypeP2TR, []uint64{30000, 5000, 100000}, 20000, 500, 1, 79500, true, "tb1p"},
		{"dust change left as fee", chain.AddressTypeP2WPKH, []uint64{600, 700}, 1000, 100, 2, 0, false, "tb1q"},
		{"exact spend", chain.AddressTypeP2TR, []uint64{1010}, 1000, 10, 1, 0, false, "tb1p"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := newTestKey(t)
			backend := &fakeBackend{coins: testCoins(t, tt.coins...)}
			exec, err := NewExecutor(backend, key, tt.addrType, chain.NetworkTestnet)
			require.NoError(t, err)
			if tt.prefix == "m" {
				require.Contains(t, "mn", exec.SourceAddress()[:1])
			} else {
				require.Equal(t, tt.prefix, exec.SourceAddress()[:4])
			}

			txID, err := exec.Pay(testDest(t), tt.amount, tt.fee)
			require.NoError(t, err)
			require.Len(t, backend.broadcasts, 1)

			tx := backend.broadcasts[0]
			require.Equal(t, tx.TxHash().String(), txID)
			require.Len(t, tx.TxIn, tt.inputs)
			require.Equal(t, int64(tt.amount), tx.TxOut[0].Value)
			if tt.hasChange {
				require.Len(t, tx.TxOut, 2)
				require.Equal(t, tt.change, tx.TxOut[1].Value)
				require.Equal(t, exec.pkScript, tx.TxOut[1].PkScript)
			} else {
				require.Len(t, tx.TxOut, 1)
			}

			requireValidSpend(t, tx, backend.coins, exec.pkScript)
		})
	}
}

func TestExecutor_PayInsufficientFunds(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{coins: testCoins(t, 500)}
	exec, err := NewExecutor(backend, newTestKey(t), chain.AddressTypeP2WPKH, chain.NetworkTestnet)
	require.NoError(t, err)

	_, err = exec.Pay(testDest(t), 1000, 10)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInsufficientFunds))
	require.Contains(t, err.Error(), "need 1010, have 500")
	require.Empty(t, backend.broadcasts)
}

func TestExecutor_PayAmountBeyondSupply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount uint64
		fee    uint64
	}{
		{"amount wraps the sum", math.MaxUint64 - 5, 10},
		{"fee wraps the sum", 1000, math.MaxUint64 - 5},
		{"amount above supply", 21e6*1e8 + 1, 0},
		{"amount plus fee above supply", 21e6 * 1e8, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{coins: testCoins(t, 500)}
			exec, err := NewExecutor(backend, newTestKey(t), chain.AddressTypeP2WPKH, chain.NetworkTestnet)
			require.NoError(t, err)

			_, err = exec.Pay(testDest(t), tt.amount, tt.fee)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInsufficientFunds))
			require.Empty(t, backend.broadcasts)
		})
	}
}

func TestExecutor_PayInvalidDestination(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{coins: testCoins(t, 5000)}
	exec, err := NewExecutor(backend, newTestKey(t), chain.AddressTypeP2WPKH, chain.NetworkTestnet)
	require.NoError(t, err)

	_, err = exec.Pay("bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu", 1000, 10)
	require.Error(t, err)
	require.Empty(t, backend.broadcasts)
}

func TestExecutor_Balance(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{coins: testCoins(t, 500, 1500, 2)}
	exec, err := NewExecutor(backend, newTestKey(t), chain.AddressTypeP2TR, chain.NetworkTestnet)
	require.NoError(t, err)

	bal, err := exec.Balance()
	require.NoError(t, err)
	require.EqualValues(t, 2002, bal)
}

func TestLargestFirst(t *testing.T) {
	t.Parallel()

	coins := testCoins(t, 5, 30, 10, 30)
	sorted := largestFirst(coins)
	var values []uint64
	for _, coin := range sorted {
		values = append(values, coin.Value)
	}
	require.Equal(t, []uint64{30, 30, 10, 5}, values)
	require.EqualValues(t, 1, sorted[0].Prevout.Index)
	require.EqualValues(t, 3, sorted[1].Prevout.Index)
	require.EqualValues(t, 5, coins[0].Value)
}
