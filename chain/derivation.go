package chain

import (
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/pkg/errors"
)

const (
	PurposeP2PKH  = 44
	PurposeP2WPKH = 84
	PurposeP2TR   = 86
)

type Derivation []uint32

func (d Derivation) String() string {
	nodes := make([]string, len(d)+1)
	nodes[0] = "m"
	for i, der := range d {
		if IsHardenedNode(der) {
			nodes[i+1] = strconv.FormatUint(uint64(der-hdkeychain.HardenedKeyStart), 10) + "'"
		} else {
			nodes[i+1] = strconv.FormatUint(uint64(der), 10)
		}
	}
	return strings.Join(nodes, "/")
}

func ParseDerivation(in string) (Derivation, error) {
	nodes := strings.Split(strings.TrimSpace(in), "/")
	if nodes[0] != "m" {
		return nil, errors.New("path must start with m/")
	}

	if len(nodes) < 2 {
		return nil, errors.New("path must contain at least one component")
	}

	deriv := make(Derivation, len(nodes)-1)
	for i := 1; i < len(nodes); i++ {
		nodeStr := nodes[i]
		hardened := strings.HasSuffix(nodeStr, "'") || strings.HasSuffix(nodeStr, "h")
		trimmed := strings.TrimRight(nodeStr, "'h")
		node, err := strconv.ParseUint(trimmed, 10, 31)
		if err != nil {
			return nil, errors.Wrap(err, "invalid path node")
		}

		if hardened {
			deriv[i-1] = HardenNode(uint32(node))
		} else {
			deriv[i-1] = uint32(node)
		}
	}

	return deriv, nil
}

// DefaultDerivation is the first receive address of account zero under the
// BIP purpose matching addrType.
func DefaultDerivation(addrType AddressType, network *Network) Derivation {
	purpose := uint32(PurposeP2WPKH)
	switch addrType {
	case AddressTypeP2PKH:
		purpose = PurposeP2PKH
	case AddressTypeP2TR:
		purpose = PurposeP2TR
	}

	return Derivation{
		HardenNode(purpose),
		HardenNode(network.CoinType),
		HardenNode(0),
		0,
		0,
	}
}

func IsHardenedNode(i uint32) bool {
	return i >= hdkeychain.HardenedKeyStart
}

func HardenNode(i uint32) uint32 {
	return i + hdkeychain.HardenedKeyStart
}
