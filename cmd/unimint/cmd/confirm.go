package cmd

import (
	"fmt"

	"github.com/kurumiimari/unimint/mint"
)

// confirmingPayer asks before every payment.
type confirmingPayer struct {
	payer mint.PaymentExecutor
}

func (c *confirmingPayer) Pay(dest string, amount uint64, fee uint64) (string, error) {
	ok, err := promptBool(fmt.Sprintf("Pay %d sats plus a %d sat fee to %s", amount, fee, dest))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", mint.ErrPaymentDeclined
	}
	return c.payer.Pay(dest, amount, fee)
}
