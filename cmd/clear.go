package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/gbdata/roadsync/internal/feed"
)

var clearCmd = &cobra.Command{
	Use:   "clear <feed>",
	Short: "Delete all stored records for a feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := storePool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		store := newStore(pool, feed.NewRegistry())
		deleted, err := store.Clear(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "clear")
		}

		fmt.Printf("%s: deleted %d records\n", args[0], deleted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
