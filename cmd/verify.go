package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iesm-tools/intake/internal/directory"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <email>",
	Short: "Check an email against the user directory sheet",
	Long:  `Fetches the user sheet and resolves the given email to a requester identity, printing it as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		email := strings.ToLower(strings.TrimSpace(args[0]))
		if email == "" {
			return fmt.Errorf("email is required")
		}

		client := directoryClient(cfg)
		entries, err := client.Fetch(context.Background(), cfg.UserSheet)
		if err != nil {
			return fmt.Errorf("fetching %s sheet: %w", cfg.UserSheet, err)
		}

		row, ok := directory.FindByEmail(directory.ObjectRows(entries), email)
		if !ok {
			return fmt.Errorf("email %q not found in the %s sheet", email, cfg.UserSheet)
		}

		ident := directory.ResolveIdentity(row, email)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ident)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
