package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "quiz-taker",
		Short: "Terminal client for taking school quizzes",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(newTakeCmd(&configPath))
	cmd.AddCommand(newResultCmd(&configPath))
	cmd.AddCommand(newDevserverCmd(&configPath))
	cmd.AddCommand(newMigrateCmd(&configPath))
	return cmd
}
