package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gbdata/roadsync/internal/feed"
)

var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "List the registered feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := feed.NewRegistry()
		verbose, _ := cmd.Flags().GetBool("verbose")

		for _, d := range reg.All() {
			fmt.Printf("%-40s table=%s key=(%s) fields=%d\n",
				d.Name, d.Table, strings.Join(d.Key, ","), len(d.Fields))
			if !verbose {
				continue
			}
			for _, f := range d.Fields {
				kind := "text"
				if f.Kind == feed.KindInt {
					kind = "int"
				}
				fmt.Printf("    %-28s %s\n", f.Name, kind)
			}
		}
		return nil
	},
}

func init() {
	feedsCmd.Flags().BoolP("verbose", "v", false, "print each feed's fields")
	rootCmd.AddCommand(feedsCmd)
}
