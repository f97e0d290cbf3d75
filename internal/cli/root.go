package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"debloat/config"
)

var (
	cfgFile string
	envFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "debloat",
	Short: "Debloat - shrink a source file with an LLM rewrite",
	Long: `Debloat sends a source file to a language model in overlapping chunks,
asks it to remove bloat while preserving functionality, and replaces the file
with the rewritten version. The original is always saved to <file>.bak first.

Example usage:
  debloat run main.py                # rewrite with the configured provider
  debloat run main.py --provider 0   # use the local ollama backend
  debloat history                    # show recent runs`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load env file: %w", err)
			}
		} else if _, err := os.Stat(".env"); err == nil {
			if err := godotenv.Load(); err != nil {
				return fmt.Errorf("failed to load .env: %w", err)
			}
		}

		var err error
		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./debloat.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file with backend credentials (default is ./.env)")
}

func GetConfig() *config.Config {
	return cfg
}
