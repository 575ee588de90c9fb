package chain

import (
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/txscript"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

type AddressType string

const (
	AddressTypeP2PKH  AddressType = "p2pkh"
	AddressTypeP2WPKH AddressType = "p2wpkh"
	AddressTypeP2TR   AddressType = "p2tr"
)

func ParseAddressType(in string) (AddressType, error) {
	switch t := AddressType(strings.ToLower(in)); t {
	case AddressTypeP2PKH, AddressTypeP2WPKH, AddressTypeP2TR:
		return t, nil
	default:
		return "", errors.Errorf("invalid address type %q", in)
	}
}

// FundingKey is the single private key that pays for orders.
type FundingKey struct {
	PrivKey    *btcec.PrivateKey
	Compressed bool
}

// ParseFundingKey accepts either a WIF-encoded private key or a BIP-39
// mnemonic. Mnemonics are derived along deriv.
func ParseFundingKey(credential string, deriv Derivation, network *Network) (*FundingKey, error) {
	cred := strings.TrimSpace(credential)
	if cred == "" {
		return nil, errors.New("funding credential is empty")
	}

	if wif, err := btcutil.DecodeWIF(cred); err == nil {
		if !wif.IsForNet(network.ChainParams()) {
			return nil, errors.Errorf("WIF key is not for network %s", network.Name)
		}
		return &FundingKey{
			PrivKey:    wif.PrivKey,
			Compressed: wif.CompressPubKey,
		}, nil
	}

	mnemonic := strings.Join(strings.Fields(cred), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("funding credential is neither a WIF key nor a valid mnemonic")
	}

	ek, err := hdkeychain.NewMaster(bip39.NewSeed(mnemonic, ""), network.ChainParams())
	if err != nil {
		return nil, errors.Wrap(err, "error creating master key")
	}
	for _, child := range deriv {
		ek, err = ek.Derive(child)
		if err != nil {
			return nil, errors.Wrapf(err, "error deriving %s", deriv)
		}
	}
	priv, err := ek.ECPrivKey()
	if err != nil {
		return nil, errors.Wrap(err, "error extracting private key")
	}

	return &FundingKey{
		PrivKey:    priv,
		Compressed: true,
	}, nil
}

func (k *FundingKey) PubKeyBytes() []byte {
	if k.Compressed {
		return k.PrivKey.PubKey().SerializeCompressed()
	}
	return k.PrivKey.PubKey().SerializeUncompressed()
}

func (k *FundingKey) Address(addrType AddressType, network *Network) (btcutil.Address, error) {
	params := network.ChainParams()
	switch addrType {
	case AddressTypeP2PKH:
		return btcutil.NewAddressPubKeyHash(btcutil.Hash160(k.PubKeyBytes()), params)
	case AddressTypeP2WPKH:
		if !k.Compressed {
			return nil, errors.New("segwit addresses require a compressed key")
		}
		return btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(k.PubKeyBytes()), params)
	case AddressTypeP2TR:
		tapKey := txscript.ComputeTaprootKeyNoScript(k.PrivKey.PubKey())
		return btcutil.NewAddressTaproot(schnorr.SerializePubKey(tapKey), params)
	default:
		return nil, errors.Errorf("unsupported address type %q", addrType)
	}
}

func DecodeAddress(addr string, network *Network) (btcutil.Address, error) {
	decoded, err := btcutil.DecodeAddress(addr, network.ChainParams())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid address %q", addr)
	}
	if !decoded.IsForNet(network.ChainParams()) {
		return nil, errors.Errorf("address %q is not for network %s", addr, network.Name)
	}
	return decoded, nil
}
