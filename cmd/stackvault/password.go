package main

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// minPasswordLength 新建 keystore 的最短口令
const minPasswordLength = 8

// walletPassword 优先使用 STACKVAULT_WALLET_PASSWORD，否则在终端上提示输入
func walletPassword(confirm bool) (string, error) {
	if pw := current.cfg.Wallet.Password; pw != "" {
		return pw, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("set STACKVAULT_WALLET_PASSWORD or run from a terminal")
	}

	pw, err := readPassword("Keystore password: ")
	if err != nil {
		return "", err
	}
	if !confirm {
		return pw, nil
	}
	if len(pw) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	again, err := readPassword("Repeat password: ")
	if err != nil {
		return "", err
	}
	if again != pw {
		return "", errors.New("passwords do not match")
	}
	return pw, nil
}

func readPassword(prompt string) (string, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("password input failed: %w", err)
	}
	return string(pw), nil
}
