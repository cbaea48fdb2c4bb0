package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iesm-tools/intake/internal/wizard"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "File a service request through the interactive wizard",
	Long:  `Walks through the full conditional request flow in the terminal and prints the assembled request payload as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		payload, err := wizard.Run(context.Background(), directoryClient(cfg), cfg.UserSheet, cfg.ConfigSheet)
		if err != nil {
			return err
		}

		fmt.Println()
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
