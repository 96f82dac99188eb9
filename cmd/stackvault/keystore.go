package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackvault/client-sdk-go/wallet"
)

var keystoreCmd = &cobra.Command{
	Use:   "keystore",
	Short: "Manage local signing keys",
}

func keystoreManager() (*wallet.KeystoreManager, string, error) {
	password, err := walletPassword(true)
	if err != nil {
		return nil, "", err
	}
	km, err := wallet.NewKeystoreManager(current.cfg.Wallet.KeystoreDir)
	if err != nil {
		return nil, "", err
	}
	return km, password, nil
}

var keystoreNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a new account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, password, err := keystoreManager()
		if err != nil {
			return err
		}
		w, err := wallet.NewWallet()
		if err != nil {
			return err
		}
		path, err := km.SaveWallet(w, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Address: %s\nSaved:   %s\n", w.Address(), path)
		return nil
	},
}

var keystoreImportCmd = &cobra.Command{
	Use:   "import <private-key-hex>",
	Short: "Import an ed25519 private key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		km, password, err := keystoreManager()
		if err != nil {
			return err
		}
		w, err := wallet.NewWalletFromPrivateKey(args[0])
		if err != nil {
			return err
		}
		path, err := km.SaveWallet(w, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Address: %s\nSaved:   %s\n", w.Address(), path)
		return nil
	},
}

var keystoreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := wallet.NewKeystoreManager(current.cfg.Wallet.KeystoreDir)
		if err != nil {
			return err
		}
		addrs, err := km.List()
		if err != nil {
			return err
		}
		for _, addr := range addrs {
			fmt.Fprintln(cmd.OutOrStdout(), addr)
		}
		return nil
	},
}

func init() {
	keystoreCmd.AddCommand(keystoreNewCmd, keystoreImportCmd, keystoreListCmd)
	rootCmd.AddCommand(keystoreCmd)
}
