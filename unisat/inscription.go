package unisat

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

const dataURLPrefix = "data:text/plain;charset=utf-8;base64,"

type brc20Op struct {
	P    string `json:"p"`
	Op   string `json:"op"`
	Tick string `json:"tick"`
	Amt  string `json:"amt"`
}

// inscribeFile is one entry of an inscribe order's files list. Filename
// carries the payload's JSON text as a plain string, not a nested object.
type inscribeFile struct {
	DataURL  string `json:"dataURL"`
	Filename string `json:"filename"`
}

// MintPayload is the BRC-20 mint operation inscribed for tick.
func MintPayload(tick string, amount uint64) []byte {
	b, err := json.Marshal(&brc20Op{
		P:    "brc-20",
		Op:   "mint",
		Tick: tick,
		Amt:  strconv.FormatUint(amount, 10),
	})
	if err != nil {
		panic(err)
	}
	return b
}

func DataURL(payload []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(payload)
}

// TickerHex hex-encodes a ticker's bytes, the form some marketplace
// endpoints use to address a ticker.
func TickerHex(tick string) string {
	return hex.EncodeToString([]byte(tick))
}

// jsonText keeps the literal text of a JSON string or number. Any other
// kind of value fails to decode.
type jsonText string

func (t *jsonText) UnmarshalJSON(b []byte) error {
	switch {
	case string(b) == "null":
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = jsonText(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return errors.Wrapf(err, "expected a string or number, got %s", b)
		}
		*t = jsonText(n)
	}
	return nil
}
