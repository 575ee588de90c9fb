package cmd

import (
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Prints the funding address and its balance in sats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, err := paymentExecutor()
		if err != nil {
			return err
		}
		bal, err := exec.Balance()
		if err != nil {
			return err
		}
		return printJSON(struct {
			Address string `json:"address"`
			Balance uint64 `json:"balance"`
		}{exec.SourceAddress(), bal})
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
