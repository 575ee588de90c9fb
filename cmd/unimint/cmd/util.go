package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"syscall"

	"github.com/kurumiimari/unimint"
	"github.com/kurumiimari/unimint/chain"
	"github.com/kurumiimari/unimint/ghttp"
	"github.com/kurumiimari/unimint/payment"
	"github.com/kurumiimari/unimint/unisat"
	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh/terminal"
)

const (
	backendEsplora = "esplora"
	backendCore    = "core"
)

func marketClient() (*unisat.Client, error) {
	httpClient, err := ghttp.NewProxiedHTTPClient(unimint.Config.Proxy)
	if err != nil {
		return nil, err
	}

	return unisat.NewClient(
		unimint.Config.Network,
		unisat.NewHTTPGateway(httpClient),
		unisat.WithUserAgent(unimint.Config.UserAgent),
	)
}

func fundingKey() (*chain.FundingKey, error) {
	credential := unimint.Config.Key
	if credential == "" {
		fmt.Print("Please enter your funding key or mnemonic: ")
		// need the cast below for it to compile on windows
		credB, err := terminal.ReadPassword(int(syscall.Stdin))
		fmt.Println("")
		if err != nil {
			return nil, errors.Wrap(err, "error reading funding key")
		}
		credential = strings.TrimSpace(string(credB))
	}

	return chain.ParseFundingKey(credential, unimint.Config.Derivation, unimint.Config.Network)
}

func chainBackend() payment.Backend {
	url := unimint.Config.BackendURL
	switch unimint.Config.Backend {
	case backendCore:
		if url == "" {
			url = fmt.Sprintf("http://127.0.0.1:%d", unimint.Config.Network.RPCPort)
		}
		return payment.NewCoreBackend(url, unimint.Config.BackendAPIKey)
	default:
		if url == "" {
			url = unimint.Config.Network.EsploraURL
		}
		return payment.NewEsploraBackend(url, nil)
	}
}

func paymentExecutor() (*payment.Executor, error) {
	key, err := fundingKey()
	if err != nil {
		return nil, err
	}
	return payment.NewExecutor(chainBackend(), key, unimint.Config.SourceType, unimint.Config.Network)
}

func printJSON(in interface{}) error {
	out, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}

func promptBool(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	if err == promptui.ErrAbort {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
