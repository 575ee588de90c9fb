package cmd

import (
	"fmt"

	"github.com/kurumiimari/unimint"
	"github.com/kurumiimari/unimint/mint"
	"github.com/kurumiimari/unimint/unisat"
	"github.com/spf13/cobra"
)

var (
	mintAmount      uint64
	mintCount       uint64
	mintFeeRate     uint64
	mintOutputValue uint64
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Creates and pays marketplace mint orders",
}

var mintTokenCmd = &cobra.Command{
	Use:   "token <ticker>",
	Short: "Mints a BRC-20 token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMint(func(receiver string) unisat.MintRequest {
			return &unisat.TokenMint{
				Ticker:      args[0],
				Amount:      mintAmount,
				OutputValue: mintOutputValue,
				FeeRate:     mintFeeRate,
				Receiver:    receiver,
			}
		})
	},
}

var mintRuneCmd = &cobra.Command{
	Use:   "rune <name>",
	Short: "Mints a rune",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMint(func(receiver string) unisat.MintRequest {
			return &unisat.RuneMint{
				RuneName:    args[0],
				Count:       mintCount,
				OutputValue: mintOutputValue,
				FeeRate:     mintFeeRate,
				Receiver:    receiver,
			}
		})
	},
}

func runMint(build func(receiver string) unisat.MintRequest) error {
	exec, err := paymentExecutor()
	if err != nil {
		return err
	}
	client, err := marketClient()
	if err != nil {
		return err
	}

	receiver := unimint.Config.Receiver
	if receiver == "" {
		receiver = exec.SourceAddress()
	}

	var payer mint.PaymentExecutor = exec
	if !unimint.Config.AssumeYes {
		payer = &confirmingPayer{payer: exec}
	}

	res, err := mint.NewOrchestrator(client, payer, unimint.Config.TxFee).Mint(build(receiver))
	if err != nil {
		if res != nil && res.Order != nil {
			fmt.Printf("Order %s was created but not paid.\n", res.Order.OrderID)
		}
		return err
	}
	return printJSON(res)
}

func init() {
	mintCmd.PersistentFlags().Uint64Var(&mintFeeRate, "fee-rate", 0, "Sets the inscription fee rate in sat/vB")
	mintCmd.PersistentFlags().Uint64Var(&mintOutputValue, "output-value", unisat.DefaultOutputValue, "Sets the sats held by each minted output")
	mintTokenCmd.Flags().Uint64Var(&mintAmount, "amount", 0, "Sets the amount to mint")
	mintRuneCmd.Flags().Uint64Var(&mintCount, "count", 1, "Sets how many mints to order")
	mintCmd.AddCommand(mintTokenCmd)
	mintCmd.AddCommand(mintRuneCmd)
	rootCmd.AddCommand(mintCmd)
}
