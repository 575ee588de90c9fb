package mint

import (
	"testing"

	"github.com/kurumiimari/unimint/testutil"
	"github.com/kurumiimari/unimint/unisat"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type payment struct {
	dest   string
	amount uint64
	fee    uint64
}

type mockMarket struct {
	runes       map[string]*unisat.RuneInfo
	order       *unisat.Order
	orderErr    error
	lookups     []string
	tokenOrders []*unisat.TokenMint
	runeOrders  []string
}

func (m *mockMarket) RuneInfo(name string) (*unisat.RuneInfo, error) {
	m.lookups = append(m.lookups, name)
	return m.runes[name], nil
}

func (m *mockMarket) CreateInscribeOrder(req *unisat.TokenMint) (*unisat.Order, error) {
	m.tokenOrders = append(m.tokenOrders, req)
	return m.order, m.orderErr
}

func (m *mockMarket) CreateRuneMintOrder(req *unisat.RuneMint, runeID string) (*unisat.Order, error) {
	m.runeOrders = append(m.runeOrders, runeID)
	return m.order, m.orderErr
}

type mockPayer struct {
	payments []payment
	txID     string
	err      error
}

func (p *mockPayer) Pay(dest string, amount uint64, fee uint64) (string, error) {
	p.payments = append(p.payments, payment{dest, amount, fee})
	return p.txID, p.err
}

func newMocks() (*mockMarket, *mockPayer) {
	market := &mockMarket{
		runes: map[string]*unisat.RuneInfo{
			"THE•DAO•GATE•COIN": {RuneID: "2584327:44"},
		},
		order: &unisat.Order{
			OrderID:    "O1",
			PayAddress: "addr1",
			Amount:     1000,
		},
	}
	return market, &mockPayer{txID: "txid1"}
}

func tokenMint() *unisat.TokenMint {
	return &unisat.TokenMint{
		Ticker:   "zzzz",
		Amount:   1,
		FeeRate:  7,
		Receiver: "bc1qreceiver",
	}
}

func runeMint(name string) *unisat.RuneMint {
	return &unisat.RuneMint{
		RuneName: name,
		Count:    1,
		FeeRate:  7,
		Receiver: "bc1qreceiver",
	}
}

func TestOrchestrator_MintToken(t *testing.T) {
	t.Parallel()

	market, payer := newMocks()
	res, err := NewOrchestrator(market, payer, 10).MintToken(tokenMint())
	require.NoError(t, err)
	require.Equal(t, "txid1", res.TxID)
	require.Equal(t, "O1", res.Order.OrderID)
	require.Len(t, market.tokenOrders, 1)
	require.Equal(t, []payment{{"addr1", 1000, 10}}, payer.payments)
	testutil.RequireEqualJSON(t, `{
		"order": {"orderId":"O1","payAddress":"addr1","amount":1000},
		"txid": "txid1"
	}`, res)
}

func TestOrchestrator_MintRune(t *testing.T) {
	t.Parallel()

	market, payer := newMocks()
	res, err := NewOrchestrator(market, payer, 10).MintRune(runeMint("THE•DAO•GATE•COIN"))
	require.NoError(t, err)
	require.Equal(t, "txid1", res.TxID)
	require.Equal(t, []string{"2584327:44"}, market.runeOrders)
	require.Equal(t, []payment{{"addr1", 1000, 10}}, payer.payments)
}

func TestOrchestrator_MintRuneNotFound(t *testing.T) {
	t.Parallel()

	market, payer := newMocks()
	res, err := NewOrchestrator(market, payer, 10).MintRune(runeMint("NOPE"))
	testutil.RequireErrorIs(t, err, ErrRuneNotFound)
	require.Nil(t, res)
	require.Equal(t, []string{"NOPE"}, market.lookups)
	require.Empty(t, market.runeOrders)
	require.Empty(t, market.tokenOrders)
	require.Empty(t, payer.payments)
}

func TestOrchestrator_PaymentFailure(t *testing.T) {
	t.Parallel()

	fundsErr := errors.New("insufficient funds")
	market, payer := newMocks()
	payer.err = errors.Wrap(fundsErr, "need 1010, have 500")

	res, err := NewOrchestrator(market, payer, 10).MintToken(tokenMint())
	testutil.RequireErrorIs(t, err, fundsErr)
	require.Contains(t, err.Error(), "O1")
	require.Len(t, payer.payments, 1)
	require.Equal(t, "O1", res.Order.OrderID)
	require.Empty(t, res.TxID)
}

func TestOrchestrator_OrderFailure(t *testing.T) {
	t.Parallel()

	market, payer := newMocks()
	market.order = nil
	market.orderErr = unisat.ErrMalformedResponse

	_, err := NewOrchestrator(market, payer, 10).MintToken(tokenMint())
	testutil.RequireErrorIs(t, err, unisat.ErrMalformedResponse)
	require.Empty(t, payer.payments)
}

func TestOrchestrator_Mint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       unisat.MintRequest
		errTarget error
		payments  int
	}{
		{"token", tokenMint(), nil, 1},
		{"rune", runeMint("THE•DAO•GATE•COIN"), nil, 1},
		{"unknown rune", runeMint("NOPE"), ErrRuneNotFound, 0},
		{"invalid token", &unisat.TokenMint{Ticker: "zzzz", FeeRate: 7, Receiver: "x"}, nil, 0},
		{"invalid rune", &unisat.RuneMint{RuneName: "NOPE", Count: 1, Receiver: "x"}, nil, 0},
		{"nil request", nil, ErrUnknownMintKind, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			market, payer := newMocks()
			_, err := NewOrchestrator(market, payer, 10).Mint(tt.req)
			switch {
			case tt.errTarget != nil:
				testutil.RequireErrorIs(t, err, tt.errTarget)
			case tt.payments == 0:
				require.Error(t, err)
			default:
				require.NoError(t, err)
			}
			require.Len(t, payer.payments, tt.payments)
		})
	}
}
