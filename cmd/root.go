package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gbdata/roadsync/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "roadsync",
	Short: "Road traffic and parking data collector",
	Long:  "Collects road-traffic and parking feeds from the provincial open-data service, normalizes the XML payloads, and syncs them into road_data.* Postgres tables.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
