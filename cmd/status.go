package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/gbdata/roadsync/internal/feed"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent collection runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := storePool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		limit, _ := cmd.Flags().GetInt("limit")

		log := feed.NewCollectLog(pool)
		entries, err := log.Recent(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "status")
		}
		if len(entries) == 0 {
			fmt.Println("no collection runs recorded")
			return nil
		}

		for _, e := range entries {
			line := fmt.Sprintf("%s  %-40s %-9s started=%s",
				e.ID, e.Feed, e.Status, e.StartedAt.Format("2006-01-02 15:04:05"))
			switch {
			case e.Error != "":
				line += "  error=" + e.Error
			case e.CompletedAt != nil:
				line += fmt.Sprintf("  inserted=%d updated=%d", e.Inserted, e.Updated)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().Int("limit", 20, "number of runs to show")
	rootCmd.AddCommand(statusCmd)
}
