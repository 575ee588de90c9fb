package chain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const TestMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

const TestWIF = "KyZpNDKnfs94vbrwhJneDi77V6jF64PWPF8x5cdJb8ifgg2DUc9d"

func TestParseFundingKey_Mnemonic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addrType AddressType
		address  string
	}{
		{AddressTypeP2PKH, "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA"},
		{AddressTypeP2WPKH, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu"},
		{AddressTypeP2TR, "bc1p5cyxnuxmeuwuvkwfem96lqzszd02n6xdcjrs20cac6yqjjwudpxqkedrcr"},
	}

	for _, tt := range tests {
		t.Run(string(tt.addrType), func(t *testing.T) {
			deriv := DefaultDerivation(tt.addrType, NetworkMain)
			key, err := ParseFundingKey(TestMnemonic, deriv, NetworkMain)
			require.NoError(t, err)
			addr, err := key.Address(tt.addrType, NetworkMain)
			require.NoError(t, err)
			require.Equal(t, tt.address, addr.EncodeAddress())
		})
	}
}

func TestParseFundingKey_WIF(t *testing.T) {
	t.Parallel()

	key, err := ParseFundingKey("  "+TestWIF+"\n", nil, NetworkMain)
	require.NoError(t, err)
	require.True(t, key.Compressed)
	addr, err := key.Address(AddressTypeP2WPKH, NetworkMain)
	require.NoError(t, err)
	require.Equal(t, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu", addr.EncodeAddress())

	_, err = ParseFundingKey(TestWIF, nil, NetworkTestnet)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not for network testnet")
}

func TestParseFundingKey_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseFundingKey("", nil, NetworkMain)
	require.Error(t, err)

	_, err = ParseFundingKey("definitely not a key", nil, NetworkMain)
	require.Error(t, err)
	require.Contains(t, err.Error(), "neither a WIF key nor a valid mnemonic")
}

func TestFundingKey_TestnetAddresses(t *testing.T) {
	t.Parallel()

	key, err := ParseFundingKey(TestMnemonic, DefaultDerivation(AddressTypeP2TR, NetworkTestnet), NetworkTestnet)
	require.NoError(t, err)

	p2tr, err := key.Address(AddressTypeP2TR, NetworkTestnet)
	require.NoError(t, err)
	require.Regexp(t, "^tb1p", p2tr.EncodeAddress())

	p2wpkh, err := key.Address(AddressTypeP2WPKH, NetworkTestnet)
	require.NoError(t, err)
	require.Regexp(t, "^tb1q", p2wpkh.EncodeAddress())

	_, err = DecodeAddress(p2tr.EncodeAddress(), NetworkMain)
	require.Error(t, err)
	decoded, err := DecodeAddress(p2tr.EncodeAddress(), NetworkTestnet)
	require.NoError(t, err)
	require.Equal(t, p2tr.EncodeAddress(), decoded.EncodeAddress())
}

func TestParseAddressType(t *testing.T) {
	t.Parallel()

	typ, err := ParseAddressType("P2TR")
	require.NoError(t, err)
	require.Equal(t, AddressTypeP2TR, typ)

	_, err = ParseAddressType("p2sh")
	require.Error(t, err)
}
