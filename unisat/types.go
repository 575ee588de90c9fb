package unisat

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/pkg/errors"
)

// DefaultOutputValue is the postage, in sats, of each minted output.
const DefaultOutputValue = 546

var (
	ErrBootstrap         = errors.New("error establishing marketplace session")
	ErrMalformedResponse = errors.New("malformed marketplace response")
)

// MintRequest is either a *TokenMint or a *RuneMint.
type MintRequest interface {
	Kind() string
	Validate() error
}

type TokenMint struct {
	Ticker      string
	Amount      uint64
	OutputValue uint64
	FeeRate     uint64
	Receiver    string
}

func (m *TokenMint) Kind() string {
	return "brc-20"
}

func (m *TokenMint) Validate() error {
	switch {
	case m.Ticker == "":
		return errors.New("ticker is required")
	case m.Amount == 0:
		return errors.New("amount must be positive")
	}
	return validateCommon(m.FeeRate, m.Receiver)
}

type RuneMint struct {
	RuneName    string
	Count       uint64
	OutputValue uint64
	FeeRate     uint64
	Receiver    string
}

func (m *RuneMint) Kind() string {
	return "runes"
}

func (m *RuneMint) Validate() error {
	switch {
	case m.RuneName == "":
		return errors.New("rune name is required")
	case m.Count == 0:
		return errors.New("count must be positive")
	}
	return validateCommon(m.FeeRate, m.Receiver)
}

func validateCommon(feeRate uint64, receiver string) error {
	if feeRate == 0 {
		return errors.New("fee rate must be positive")
	}
	if receiver == "" {
		return errors.New("receiver address is required")
	}
	return nil
}

func outputValue(v uint64) uint64 {
	if v == 0 {
		return DefaultOutputValue
	}
	return v
}

type RuneInfo struct {
	RuneID       string `json:"runeid"`
	Rune         string `json:"rune"`
	SpacedRune   string `json:"spacedRune"`
	Symbol       string `json:"symbol"`
	Divisibility int    `json:"divisibility"`
	Number       uint64 `json:"number"`
}

type Order struct {
	OrderID    string `json:"orderId"`
	PayAddress string `json:"payAddress"`
	Amount     uint64 `json:"amount"`
}

func (o *Order) validate() error {
	if o.OrderID == "" || o.PayAddress == "" || o.Amount == 0 {
		return errors.Wrapf(ErrMalformedResponse, "incomplete order %+v", *o)
	}
	if o.Amount > btcutil.MaxSatoshi {
		return errors.Wrapf(ErrMalformedResponse, "order amount %d exceeds the coin supply", o.Amount)
	}
	return nil
}

// BootstrapError reports a failed session bootstrap. It matches ErrBootstrap
// under errors.Is and keeps the underlying cause reachable.
type BootstrapError struct {
	Err error
}

func (e *BootstrapError) Error() string {
	return ErrBootstrap.Error() + ": " + e.Err.Error()
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}

func (e *BootstrapError) Cause() error {
	return e.Err
}

func (e *BootstrapError) Is(target error) bool {
	return target == ErrBootstrap
}

// APIError is a well-formed marketplace response reporting a failure.
type APIError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketplace error %d: %s", e.Code, e.Msg)
}

type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e envelope) err() error {
	if e.Code == 0 {
		return nil
	}
	return &APIError{Code: e.Code, Msg: e.Msg}
}

type tsRes struct {
	envelope
	Data *struct {
		Ts jsonText `json:"ts"`
	} `json:"data"`
}

type runeInfoRes struct {
	envelope
	Data *RuneInfo `json:"data"`
}

type orderRes struct {
	envelope
	Data *Order `json:"data"`
}
