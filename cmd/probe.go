package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/gbdata/roadsync/internal/feed"
)

var probeCmd = &cobra.Command{
	Use:   "probe <feed>",
	Short: "Fetch and parse a feed without storing anything",
	Long: `Issue one request against the provider with a short timeout, parse the
response, and report what came back. Useful for checking connectivity and
the service key before a real collection run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		feedID := args[0]
		if _, err := feed.NewRegistry().Get(feedID); err != nil {
			return err
		}

		paramList, _ := cmd.Flags().GetStringSlice("param")
		params := url.Values{}
		for _, p := range paramList {
			k, v, ok := strings.Cut(p, "=")
			if !ok {
				return eris.Errorf("probe: bad --param %q (want key=value)", p)
			}
			params.Add(k, v)
		}

		client := newFeedClient(true)
		raw, err := client.Fetch(cmd.Context(), feedID, params)
		if err != nil {
			return eris.Wrap(err, "probe")
		}

		records, err := feed.Normalize(raw)
		if err != nil {
			return eris.Wrap(err, "probe")
		}

		fmt.Printf("%s: %d bytes, %d records\n", feedID, len(raw), len(records))
		return nil
	},
}

func init() {
	probeCmd.Flags().StringSlice("param", nil, "provider request parameter key=value (repeatable)")
	rootCmd.AddCommand(probeCmd)
}
