package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gbdata/roadsync/internal/feed"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect feeds from the provider",
	Long: `Fetch the selected feeds from the open-data service, normalize the XML
payloads, and sync the records into the road_data tables.

By default every registered feed is collected. Use --feeds to restrict the
run, and --param to pass provider request parameters such as laeId or routeId.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := storePool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := feed.Migrate(ctx, pool); err != nil {
			return eris.Wrap(err, "collect: migrate")
		}

		feedsStr, _ := cmd.Flags().GetString("feeds")
		paramList, _ := cmd.Flags().GetStringSlice("param")

		opts := feed.CollectOpts{Params: url.Values{}}
		if feedsStr != "" {
			for _, name := range strings.Split(feedsStr, ",") {
				opts.Feeds = append(opts.Feeds, strings.TrimSpace(name))
			}
		}
		for _, p := range paramList {
			k, v, ok := strings.Cut(p, "=")
			if !ok {
				return eris.Errorf("collect: bad --param %q (want key=value)", p)
			}
			opts.Params.Add(k, v)
		}

		reg := feed.NewRegistry()
		collector := newCollector(pool, reg)

		zap.L().Info("starting collection",
			zap.Strings("feeds", opts.Feeds),
			zap.Any("params", opts.Params),
		)

		outcomes, err := collector.Run(ctx, opts)
		if err != nil {
			return eris.Wrap(err, "collect")
		}

		var failed int
		for _, o := range outcomes {
			if o.Err != nil {
				failed++
				fmt.Printf("%-40s FAILED  %v\n", o.Feed, o.Err)
				continue
			}
			fmt.Printf("%-40s inserted=%d updated=%d\n", o.Feed, o.Counts.Inserted, o.Counts.Updated)
		}
		if failed > 0 {
			return eris.Errorf("collect: %d of %d feeds failed", failed, len(outcomes))
		}
		return nil
	},
}

func init() {
	collectCmd.Flags().String("feeds", "", "comma-separated feed names (default: all)")
	collectCmd.Flags().StringSlice("param", nil, "provider request parameter key=value (repeatable)")
	rootCmd.AddCommand(collectCmd)
}
