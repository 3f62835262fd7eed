package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/otherview/key-weaver/client"
	"github.com/otherview/key-weaver/cmd/flags"
	"github.com/otherview/key-weaver/httpserver"
	"github.com/otherview/key-weaver/weaver"
	"github.com/urfave/cli/v2"
)

var proofFlags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:  "id-token",
		Usage: "OAuth ID token proof as provider:token, repeatable",
	},
	&cli.StringSliceFlag{
		Name:  "access-token",
		Usage: "OAuth access token proof as provider:token, repeatable",
	},
	&cli.StringSliceFlag{
		Name:  "assertion",
		Usage: "WebAuthn assertion proof as provider:file.json, repeatable",
	},
}

func main() {
	app := &cli.App{
		Name:  "walletcli",
		Usage: "Register, recover and inspect deterministic wallets",
		Flags: []cli.Flag{
			flags.ServerAddrFlag,
		},
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Derive and enroll a new wallet from identity proofs",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "salt",
						Usage: "salt input, either 64 lowercase hex chars or free text",
					},
					&cli.StringFlag{
						Name:  "salt-passphrase",
						Usage: "derive the salt from a passphrase instead of --salt",
					},
					&cli.IntFlag{
						Name:  "threshold",
						Value: 1,
						Usage: "number of matching proofs required for recovery",
					},
					&cli.StringFlag{
						Name:  "response-pubkey-file",
						Usage: "PEM file with a P-256 public key to encrypt the private key to",
					},
				}, proofFlags...),
				Action: runRegister,
			},
			{
				Name:  "recover",
				Usage: "Recover a wallet by presenting a fresh set of identity proofs",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "address",
						Required: true,
						Usage:    "wallet address, 0x-prefixed lowercase hex",
					},
					&cli.StringFlag{
						Name:  "response-pubkey-file",
						Usage: "PEM file with a P-256 public key to encrypt the private key to",
					},
				}, proofFlags...),
				Action: runRecover,
			},
			{
				Name:  "show",
				Usage: "Show the stored public record for a wallet",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "address",
						Required: true,
						Usage:    "wallet address, 0x-prefixed lowercase hex",
					},
				},
				Action: runShow,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func walletClient(cCtx *cli.Context) *client.WalletClient {
	return &client.WalletClient{ServerAddr: cCtx.String(flags.ServerAddrFlag.Name)}
}

// splitProofArg separates a provider:value flag into its parts. Only the
// first colon splits, so tokens containing colons pass through intact.
func splitProofArg(arg string) (provider, value string, err error) {
	parts := strings.SplitN(arg, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected provider:value, got %q", arg)
	}
	return parts[0], parts[1], nil
}

func collectProofs(cCtx *cli.Context) ([]httpserver.ProofPayload, error) {
	var proofs []httpserver.ProofPayload

	for _, arg := range cCtx.StringSlice("id-token") {
		provider, token, err := splitProofArg(arg)
		if err != nil {
			return nil, err
		}
		proofs = append(proofs, httpserver.ProofPayload{Kind: "oauth_id_token", Provider: provider, Token: token})
	}

	for _, arg := range cCtx.StringSlice("access-token") {
		provider, token, err := splitProofArg(arg)
		if err != nil {
			return nil, err
		}
		proofs = append(proofs, httpserver.ProofPayload{Kind: "oauth_access_token", Provider: provider, Token: token})
	}

	for _, arg := range cCtx.StringSlice("assertion") {
		provider, file, err := splitProofArg(arg)
		if err != nil {
			return nil, err
		}
		assertion, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("could not read assertion file %s: %w", file, err)
		}
		proofs = append(proofs, httpserver.ProofPayload{Kind: "webauthn", Provider: provider, Assertion: assertion})
	}

	if len(proofs) == 0 {
		return nil, fmt.Errorf("at least one identity proof is required")
	}
	return proofs, nil
}

func readResponsePubkey(cCtx *cli.Context) (string, error) {
	file := cCtx.String("response-pubkey-file")
	if file == "" {
		return "", nil
	}
	pem, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("could not read response pubkey file: %w", err)
	}
	return string(pem), nil
}

func runRegister(cCtx *cli.Context) error {
	proofs, err := collectProofs(cCtx)
	if err != nil {
		return err
	}

	saltInput := cCtx.String("salt")
	if passphrase := cCtx.String("salt-passphrase"); passphrase != "" {
		if saltInput != "" {
			return fmt.Errorf("--salt and --salt-passphrase are mutually exclusive")
		}
		salt := weaver.SaltFromPassphrase(passphrase, "")
		saltInput = salt.Hex()
	}
	if saltInput == "" {
		return fmt.Errorf("either --salt or --salt-passphrase is required")
	}

	responsePubkey, err := readResponsePubkey(cCtx)
	if err != nil {
		return err
	}

	resp, err := walletClient(cCtx).Register(httpserver.RegisterRequest{
		Proofs:         proofs,
		Salt:           saltInput,
		Threshold:      cCtx.Int("threshold"),
		ResponsePubkey: responsePubkey,
	})
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func runRecover(cCtx *cli.Context) error {
	proofs, err := collectProofs(cCtx)
	if err != nil {
		return err
	}

	responsePubkey, err := readResponsePubkey(cCtx)
	if err != nil {
		return err
	}

	resp, err := walletClient(cCtx).Recover(cCtx.String("address"), httpserver.RecoverRequest{
		Proofs:         proofs,
		ResponsePubkey: responsePubkey,
	})
	if err != nil {
		return err
	}

	if !resp.Success {
		fmt.Fprintf(os.Stderr, "recovery failed: %d matching proofs, below the wallet threshold\n", resp.MatchedCount)
	}
	return printJSON(resp)
}

func runShow(cCtx *cli.Context) error {
	record, err := walletClient(cCtx).GetWallet(cCtx.String("address"))
	if err != nil {
		return err
	}
	return printJSON(record)
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
