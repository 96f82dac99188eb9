package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackvault/client-sdk-go/services/storage"
	"github.com/stackvault/client-sdk-go/utils"
)

var flagPinName string

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Pin a file without minting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		out := cmd.OutOrStdout()
		opts := []storage.UploadOption{
			storage.WithProgress(0, func(p utils.FileProgress) {
				fmt.Fprintf(out, "\rUploading %3d%%", p.Percentage)
			}),
		}
		if flagPinName != "" {
			opts = append(opts, storage.WithPinName(flagPinName))
		}
		cid, err := a.storage.UploadFile(cmd.Context(), args[0], opts...)
		fmt.Fprintln(out)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "CID: %s\nURL: %s\n", cid, a.storage.GatewayURL(cid))
		return nil
	},
}

var urlCmd = &cobra.Command{
	Use:   "url <cid|hex>",
	Short: "Resolve a content identifier or its hex encoding to a gateway URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, ok := current.storage.ResolveURL(args[0])
		if !ok {
			return fmt.Errorf("cannot resolve %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), url)
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&flagPinName, "name", "", "pin name (default: file name)")
	rootCmd.AddCommand(uploadCmd, urlCmd)
}
