package cmd

import (
	"os"
	"strings"

	"github.com/kurumiimari/unimint"
	"github.com/kurumiimari/unimint/chain"
	"github.com/kurumiimari/unimint/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const envPrefix = "UNIMINT_"

var (
	network    string
	key        string
	receiver   string
	txFee      uint64
	userAgent  string
	proxy      string
	backend    string
	backendURL string
	backendKey string
	sourceType string
	derivation string
	assumeYes  bool
	logLevel   string
)

var cmdLogger = log.ModuleLogger("cmd")

var rootCmd = &cobra.Command{
	Use:          "unimint",
	Short:        "Mints BRC-20 tokens and runes through the UniSat marketplace",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := applyEnv(cmd.Flags()); err != nil {
			return err
		}
		if err := log.SetLevel(logLevel); err != nil {
			return errors.Wrap(err, "invalid log level")
		}

		net, err := chain.NetworkFromName(network)
		if err != nil {
			return errors.Wrap(err, "invalid network")
		}
		addrType, err := chain.ParseAddressType(sourceType)
		if err != nil {
			return errors.Wrap(err, "invalid source type")
		}
		deriv := chain.DefaultDerivation(addrType, net)
		if derivation != "" {
			deriv, err = chain.ParseDerivation(derivation)
			if err != nil {
				return errors.Wrap(err, "invalid derivation")
			}
		}
		switch backend {
		case backendEsplora, backendCore:
		default:
			return errors.Errorf("invalid backend %q", backend)
		}

		unimint.Config.Network = net
		unimint.Config.Key = key
		unimint.Config.Receiver = receiver
		unimint.Config.TxFee = txFee
		unimint.Config.UserAgent = userAgent
		unimint.Config.Proxy = proxy
		unimint.Config.Backend = backend
		unimint.Config.BackendURL = backendURL
		unimint.Config.BackendAPIKey = backendKey
		unimint.Config.SourceType = addrType
		unimint.Config.Derivation = deriv
		unimint.Config.AssumeYes = assumeYes
		cmdLogger.Debug("configured", "network", net.Name, "backend", backend, "source_type", addrType, "derivation", deriv)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&network, "network", "n", "main", "Sets the network (main or testnet)")
	flags.StringVarP(&key, "key", "k", "", "Sets the funding WIF key or mnemonic. Prompted for if empty")
	flags.StringVarP(&receiver, "address", "a", "", "Sets the address minted outputs are sent to. Defaults to the funding address")
	flags.Uint64Var(&txFee, "tx-fee", 1000, "Sets the flat fee in sats paid by the payment transaction")
	flags.StringVar(&userAgent, "user-agent", "", "Sets the User-Agent sent to the marketplace")
	flags.StringVar(&proxy, "proxy", "", "Sets a proxy URL for marketplace requests")
	flags.StringVar(&backend, "backend", backendEsplora, "Sets the chain backend (esplora or core)")
	flags.StringVar(&backendURL, "backend-url", "", "Sets the chain backend URL")
	flags.StringVar(&backendKey, "backend-api-key", "", "Sets the chain backend's credentials")
	flags.StringVar(&sourceType, "source-type", string(chain.AddressTypeP2WPKH), "Sets the funding address type (p2pkh, p2wpkh or p2tr)")
	flags.StringVar(&derivation, "derivation", "", "Sets the mnemonic derivation path")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "Pays orders without asking for confirmation")
	flags.StringVar(&logLevel, "log-level", "warning", "Sets the log level")
}

// applyEnv fills every flag left unset on the command line from its
// UNIMINT_* environment variable.
func applyEnv(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			return
		}
		val, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}
		if setErr := f.Value.Set(val); setErr != nil {
			err = errors.Wrapf(setErr, "invalid value for %s", envName(f.Name))
		}
	})
	return err
}

func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
