package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stackvault/client-sdk-go/services/loan"
	"github.com/stackvault/client-sdk-go/types"
	"github.com/stackvault/client-sdk-go/utils"
)

// octasPerAPT 1 APT = 10^8 octas
const octasPerAPT = 100_000_000

func formatAPT(octas uint64) string {
	return fmt.Sprintf("%.4f APT", float64(octas)/octasPerAPT)
}

// formatAvatar 头像种子的十六进制表示，地址过短时为 "-"
func formatAvatar(account string) string {
	seed, err := utils.AvatarSeed(account)
	if err != nil {
		return "-"
	}
	return fmt.Sprintf("%08x", seed)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Connect the wallet and show the session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		account, err := a.connect(cmd.Context())
		out := cmd.OutOrStdout()
		if a.session != nil {
			snap := a.session.Snapshot()
			fmt.Fprintf(out, "Status:   %s\n", snap.Status)
			fmt.Fprintf(out, "Network:  %s (target %s)\n", snap.Network, a.session.TargetNetwork())
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Account:  %s\n", utils.ShortenAddress(account))
		fmt.Fprintf(out, "Avatar:   %s\n", formatAvatar(account))

		if refreshErr := a.reader.Refresh(cmd.Context()); refreshErr != nil {
			a.logger.Warn("Refresh failed", "error", refreshErr)
		}
		if balance, ok := a.reader.Balance(); ok {
			fmt.Fprintf(out, "Balance:  %s\n", formatAPT(balance))
		}
		if a.reader.CollectionExists() {
			fmt.Fprintln(out, "Collection: initialized")
		} else {
			fmt.Fprintln(out, "Collection: not found (mint a token to create it)")
		}
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address...]",
	Short: "Show native coin balances",
	Long:  "Without arguments shows the connected account's balance.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			account, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			balance, err := a.reader.RefreshBalance(cmd.Context(), account)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %s\n", utils.ShortenAddress(account), formatAPT(balance))
			return nil
		}

		accounts := make([]string, 0, len(args))
		for _, arg := range args {
			addr, err := utils.NormalizeAddress(arg)
			if err != nil {
				return err
			}
			accounts = append(accounts, addr)
		}
		for _, res := range a.reader.GetBalances(cmd.Context(), accounts) {
			if res.Err != nil {
				fmt.Fprintf(out, "%s  error: %v\n", utils.ShortenAddress(res.Account), res.Err)
				continue
			}
			fmt.Fprintf(out, "%s  %s\n", utils.ShortenAddress(res.Account), formatAPT(res.Balance))
		}
		return nil
	},
}

var flagHideRepaid bool

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List the connected account's tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if _, err := a.connect(cmd.Context()); err != nil {
			return err
		}
		tokens, err := a.loanService().Tokens(cmd.Context())
		if err != nil {
			return err
		}
		if readErr := a.reader.Err(); readErr != nil {
			return readErr
		}
		printTokens(cmd.OutOrStdout(), loan.FilterRepaid(tokens, !flagHideRepaid), a)
		return nil
	},
}

func printTokens(w io.Writer, tokens []types.TokenRecord, a *app) {
	if len(tokens) == 0 {
		fmt.Fprintln(w, "No tokens.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tVALUE\tLOCKED\tLOAN\tSTATUS\tFILE")
	for _, t := range tokens {
		status := "-"
		switch {
		case t.LoanActive:
			status = "active"
		case t.LoanRepaid:
			status = "repaid"
		}
		file, ok := a.storage.ResolveURL(t.ContentRef)
		if !ok {
			file = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%t\t%d\t%s\t%s\n", t.ID, t.AssetType, t.PropertyValue, t.Locked, t.LoanAmount, status, file)
	}
	_ = tw.Flush()
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summarize collateral and loans",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if _, err := a.connect(cmd.Context()); err != nil {
			return err
		}
		tokens, err := a.loanService().Tokens(cmd.Context())
		if err != nil {
			return err
		}
		s := loan.Summarize(tokens)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Locked collateral:   %d\n", s.Locked)
		fmt.Fprintf(out, "Unlocked NFTs:       %d\n", s.Unlocked)
		fmt.Fprintf(out, "Available for loan:  %d\n", s.AvailableForLoan)
		fmt.Fprintf(out, "Loans taken:         %d\n", s.LoansTaken)
		fmt.Fprintf(out, "Total loan amount:   %d APT\n", s.TotalLoanAmount)
		return nil
	},
}

func init() {
	tokensCmd.Flags().BoolVar(&flagHideRepaid, "hide-repaid", false, "hide tokens whose loan is repaid")
	rootCmd.AddCommand(statusCmd, balanceCmd, tokensCmd, dashboardCmd)
}
