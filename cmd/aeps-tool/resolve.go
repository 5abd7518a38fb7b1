package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aeps-agent.backend/internal/usecases"
)

func resolveStatusCmd() *cobra.Command {
	var (
		code      int
		merchant  string
		kyc       string
		twoFaDone bool
	)

	cmd := &cobra.Command{
		Use:   "resolve-status",
		Short: "Show the workflow state a partner status maps to",
		Example: `  aeps-tool resolve-status --code 1 --kyc Approved --two-fa
  aeps-tool resolve-status --code 0 --merchant pending`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := usecases.ResolveRaw(code, merchant, kyc, twoFaDone)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "State:       %s\n", state)
			fmt.Fprintf(out, "Next action: %s\n", state.NextAction())
			fmt.Fprintf(out, "Terminal:    %t\n", state.Terminal())
			return nil
		},
	}

	cmd.Flags().IntVar(&code, "code", 0, "Partner status code (0, 1 or 2)")
	cmd.Flags().StringVar(&merchant, "merchant", "", "Merchant onboard_status")
	cmd.Flags().StringVar(&kyc, "kyc", "", "KYC is_approved value")
	cmd.Flags().BoolVar(&twoFaDone, "two-fa", false, "Daily 2FA completed")

	return cmd
}
