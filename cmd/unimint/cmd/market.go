package cmd

import (
	"github.com/kurumiimari/unimint"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Prints the marketplace's front-end configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := marketClient()
		if err != nil {
			return err
		}
		res, err := client.Config()
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var preloadCmd = &cobra.Command{
	Use:   "preload [address]",
	Short: "Prints the marketplace's preload data for an address",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address := unimint.Config.Receiver
		if len(args) > 0 {
			address = args[0]
		}
		if address == "" {
			return errors.New("an address is required")
		}

		client, err := marketClient()
		if err != nil {
			return err
		}
		res, err := client.Preload(address)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var runeInfoCmd = &cobra.Command{
	Use:   "rune-info <name>",
	Short: "Looks up a rune by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := marketClient()
		if err != nil {
			return err
		}
		info, err := client.RuneInfo(args[0])
		if err != nil {
			return err
		}
		if info == nil {
			return errors.Errorf("rune %s not found", args[0])
		}
		return printJSON(info)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(preloadCmd)
	rootCmd.AddCommand(runeInfoCmd)
}
