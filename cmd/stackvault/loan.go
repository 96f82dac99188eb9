package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stackvault/client-sdk-go/services/loan"
	"github.com/stackvault/client-sdk-go/services/resource"
	"github.com/stackvault/client-sdk-go/services/transaction"
	"github.com/stackvault/client-sdk-go/utils"
)

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token id %q", s)
	}
	return id, nil
}

func parseAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

func printResult(cmd *cobra.Command, action string, res *transaction.Result) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s confirmed: %s\n", action, res.Hash)
}

var (
	flagMintValue uint64
	flagMintType  string
	flagMintFile  string
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Upload an asset file and mint a token",
	Example: `  stackvault mint --value 250000 --type real-estate --file deed.pdf --address 0x...
  asset types: ` + strings.Join(loan.AssetTypes, ", "),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if _, err := a.connect(cmd.Context()); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		res, err := a.loanService().Mint(cmd.Context(), &loan.MintRequest{
			Value:     flagMintValue,
			AssetType: flagMintType,
			FilePath:  flagMintFile,
			Progress: func(p utils.FileProgress) {
				fmt.Fprintf(out, "\rUploading %3d%%", p.Percentage)
				if p.Percentage == 100 {
					fmt.Fprintln(out)
				}
			},
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Pinned:   %s\n", a.storage.GatewayURL(res.CID))
		fmt.Fprintf(out, "Content:  %s\n", res.ContentRef)
		printResult(cmd, "Mint", res.Result)
		return nil
	},
}

var lockCmd = &cobra.Command{
	Use:   "lock <id>",
	Short: "Lock a token as collateral",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a := current
		if _, err := a.connect(cmd.Context()); err != nil {
			return err
		}
		record, err := a.loanService().LockCollateral(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token %d locked for collateral (value %d APT)\n", record.ID, record.PropertyValue)
		return nil
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock <id>",
	Short: "Release a token from collateral",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a := current
		if _, err := a.connect(cmd.Context()); err != nil {
			return err
		}
		res, err := a.loanService().UnlockCollateral(cmd.Context(), id)
		if err != nil {
			return err
		}
		printResult(cmd, "Unlock", res)
		return nil
	},
}

var loanCmd = &cobra.Command{
	Use:   "loan <id> <amount>",
	Short: "Take a loan against a locked token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		a := current
		if _, err := a.connect(cmd.Context()); err != nil {
			return err
		}
		res, err := a.loanService().TakeLoan(cmd.Context(), id, amount)
		if err != nil {
			return err
		}
		printResult(cmd, "Loan", res)
		fmt.Fprintf(cmd.OutOrStdout(), "Total repayment at %.0f%%: %.2f APT\n",
			loan.DefaultInterestRate, loan.TotalRepayment(amount, loan.DefaultInterestRate))
		return nil
	},
}

var repayCmd = &cobra.Command{
	Use:   "repay <id>",
	Short: "Repay the loan on a token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a := current
		if _, err := a.connect(cmd.Context()); err != nil {
			return err
		}
		res, err := a.loanService().RepayLoan(cmd.Context(), id)
		if err != nil {
			return err
		}
		printResult(cmd, "Repay", res)
		return nil
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer <id> <recipient>",
	Short: "Transfer an unlocked token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a := current
		if _, err := a.connect(cmd.Context()); err != nil {
			return err
		}
		res, err := a.loanService().Transfer(cmd.Context(), id, args[1])
		if err != nil {
			return err
		}
		printResult(cmd, "Transfer", res)
		return nil
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics <id> <amount>",
	Short: "Preview loan-to-value and repayment for a token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		a := current
		if _, err := a.connect(cmd.Context()); err != nil {
			return err
		}
		tokens, err := a.loanService().Tokens(cmd.Context())
		if err != nil {
			return err
		}
		token, ok := resource.FindToken(tokens, id)
		if !ok {
			return loan.ErrTokenNotFound
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Asset value:     %d APT\n", token.PropertyValue)
		fmt.Fprintf(out, "Loan-to-value:   %.2f%%\n", loan.LoanToValue(amount, token.PropertyValue))
		fmt.Fprintf(out, "Interest rate:   %.0f%%\n", loan.DefaultInterestRate)
		fmt.Fprintf(out, "Total repayment: %.2f APT\n", loan.TotalRepayment(amount, loan.DefaultInterestRate))
		switch {
		case token.HasLoan():
			fmt.Fprintln(out, "Warning: a loan has already been taken for this NFT")
		case amount >= token.PropertyValue:
			fmt.Fprintln(out, "Warning: loan amount must be less than the asset value")
		}
		return nil
	},
}

func init() {
	mintCmd.Flags().Uint64Var(&flagMintValue, "value", 0, "asset value in APT")
	mintCmd.Flags().StringVar(&flagMintType, "type", loan.AssetRealEstate, "asset type")
	mintCmd.Flags().StringVar(&flagMintFile, "file", "", "asset file to pin")
	_ = mintCmd.MarkFlagRequired("value")
	_ = mintCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(mintCmd, lockCmd, unlockCmd, loanCmd, repayCmd, transferCmd, metricsCmd)
}
