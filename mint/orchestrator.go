package mint

import (
	"github.com/kurumiimari/unimint/log"
	"github.com/kurumiimari/unimint/unisat"
	"github.com/pkg/errors"
)

var (
	ErrRuneNotFound    = errors.New("rune not found")
	ErrPaymentDeclined = errors.New("payment declined")
	ErrUnknownMintKind = errors.New("unknown mint request")
)

var logger = log.ModuleLogger("mint")

// Market is the slice of the marketplace client the orchestrator needs.
type Market interface {
	RuneInfo(name string) (*unisat.RuneInfo, error)
	CreateInscribeOrder(req *unisat.TokenMint) (*unisat.Order, error)
	CreateRuneMintOrder(req *unisat.RuneMint, runeID string) (*unisat.Order, error)
}

// PaymentExecutor settles an order on chain and returns the broadcast txid.
type PaymentExecutor interface {
	Pay(dest string, amount uint64, fee uint64) (string, error)
}

type Result struct {
	Order *unisat.Order `json:"order"`
	TxID  string        `json:"txid"`
}

type Orchestrator struct {
	market Market
	payer  PaymentExecutor
	fee    uint64
}

// NewOrchestrator returns an orchestrator that pays each created order with
// payer, adding fee sats on top of the order amount.
func NewOrchestrator(market Market, payer PaymentExecutor, fee uint64) *Orchestrator {
	return &Orchestrator{
		market: market,
		payer:  payer,
		fee:    fee,
	}
}

func (o *Orchestrator) Mint(req unisat.MintRequest) (*Result, error) {
	switch r := req.(type) {
	case *unisat.TokenMint:
		return o.MintToken(r)
	case *unisat.RuneMint:
		return o.MintRune(r)
	default:
		return nil, errors.Wrapf(ErrUnknownMintKind, "%T", req)
	}
}

func (o *Orchestrator) MintToken(req *unisat.TokenMint) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid token mint")
	}

	order, err := o.market.CreateInscribeOrder(req)
	if err != nil {
		return nil, errors.Wrap(err, "error creating inscribe order")
	}
	return o.pay(order)
}

// MintRune resolves the rune id before ordering. An unknown rune ends the
// flow with ErrRuneNotFound and nothing is ordered or paid.
func (o *Orchestrator) MintRune(req *unisat.RuneMint) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid rune mint")
	}

	info, err := o.market.RuneInfo(req.RuneName)
	if err != nil {
		return nil, errors.Wrap(err, "error looking up rune")
	}
	if info == nil || info.RuneID == "" {
		logger.Warning("rune not found", "rune", req.RuneName)
		return nil, errors.Wrap(ErrRuneNotFound, req.RuneName)
	}
	logger.Debug("resolved rune", "rune", req.RuneName, "rune_id", info.RuneID)

	order, err := o.market.CreateRuneMintOrder(req, info.RuneID)
	if err != nil {
		return nil, errors.Wrap(err, "error creating rune mint order")
	}
	return o.pay(order)
}

func (o *Orchestrator) pay(order *unisat.Order) (*Result, error) {
	res := &Result{
		Order: order,
	}

	logger.Info(
		"paying order",
		"order_id", order.OrderID,
		"pay_address", order.PayAddress,
		"amount", order.Amount,
		"fee", o.fee,
	)
	txID, err := o.payer.Pay(order.PayAddress, order.Amount, o.fee)
	if err != nil {
		return res, errors.Wrapf(err, "error paying order %s", order.OrderID)
	}

	res.TxID = txID
	logger.Info("paid order", "order_id", order.OrderID, "txid", txID)
	return res, nil
}
