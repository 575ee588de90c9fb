package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestEnvName(t *testing.T) {
	require.Equal(t, "UNIMINT_TX_FEE", envName("tx-fee"))
	require.Equal(t, "UNIMINT_BACKEND_API_KEY", envName("backend-api-key"))
	require.Equal(t, "UNIMINT_KEY", envName("key"))
}

func TestApplyEnv(t *testing.T) {
	var network, key string
	var fee uint64
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringVar(&network, "network", "main", "")
	flags.StringVar(&key, "key", "", "")
	flags.Uint64Var(&fee, "tx-fee", 1000, "")
	require.NoError(t, flags.Parse([]string{"--network", "main"}))

	t.Setenv("UNIMINT_NETWORK", "testnet")
	t.Setenv("UNIMINT_KEY", "secret")
	t.Setenv("UNIMINT_TX_FEE", "250")

	require.NoError(t, applyEnv(flags))
	require.Equal(t, "main", network, "command line wins over env")
	require.Equal(t, "secret", key)
	require.EqualValues(t, 250, fee)

	t.Setenv("UNIMINT_TX_FEE", "lots")
	err := applyEnv(flags)
	require.Error(t, err)
	require.Contains(t, err.Error(), "UNIMINT_TX_FEE")
}
