package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/iesm-tools/intake/internal/config"
	"github.com/iesm-tools/intake/internal/directory"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Service-request intake for shared facilities",
	Long: `Intake collects service requests against a Google Sheets directory:
it verifies requesters by email, walks them through a conditional
question flow (Maintenance, New Service or Project) and assembles a
structured request payload.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".intake.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads and validates the configuration file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// directoryClient builds the sheet gateway client from the resolved
// endpoint configuration.
func directoryClient(cfg *config.Config) *directory.Client {
	url, token := cfg.Endpoint()
	return directory.New(url, token, directory.Options{
		Timeout:  time.Duration(cfg.FetchTimeout) * time.Second,
		CacheTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
}
