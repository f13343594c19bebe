package main

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/gbdata/roadsync/internal/feed"
)

var queryCmd = &cobra.Command{
	Use:   "query <feed>",
	Short: "Query stored records for a feed",
	Long: `Read one page of stored records for a feed and print it as JSON.

Filters apply to the fetched page: --eq and --like take field=value, --min
and --max take field=number and combine into a range on the same field.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := storePool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		preds, err := flagPredicates(cmd)
		if err != nil {
			return err
		}

		store := newStore(pool, feed.NewRegistry())
		result, err := store.Query(ctx, args[0], page, pageSize, preds)
		if err != nil {
			return eris.Wrap(err, "query")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// flagPredicates converts the filter flags into query predicates, merging
// --min and --max on the same field into one range.
func flagPredicates(cmd *cobra.Command) ([]feed.Predicate, error) {
	var preds []feed.Predicate

	eqList, _ := cmd.Flags().GetStringSlice("eq")
	for _, p := range eqList {
		field, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, eris.Errorf("query: bad --eq %q (want field=value)", p)
		}
		preds = append(preds, feed.Predicate{Field: field, Op: feed.OpEq, Value: value})
	}

	likeList, _ := cmd.Flags().GetStringSlice("like")
	for _, p := range likeList {
		field, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, eris.Errorf("query: bad --like %q (want field=value)", p)
		}
		preds = append(preds, feed.Predicate{Field: field, Op: feed.OpContains, Value: value})
	}

	ranges := map[string]*feed.Predicate{}
	add := func(flag string, set func(p *feed.Predicate, n int64)) error {
		list, _ := cmd.Flags().GetStringSlice(flag)
		for _, p := range list {
			field, value, ok := strings.Cut(p, "=")
			if !ok {
				return eris.Errorf("query: bad --%s %q (want field=number)", flag, p)
			}
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return eris.Errorf("query: bad --%s %q: not a number", flag, p)
			}
			pred := ranges[field]
			if pred == nil {
				pred = &feed.Predicate{Field: field, Op: feed.OpRange}
				ranges[field] = pred
			}
			set(pred, n)
		}
		return nil
	}
	if err := add("min", func(p *feed.Predicate, n int64) { p.Min = &n }); err != nil {
		return nil, err
	}
	if err := add("max", func(p *feed.Predicate, n int64) { p.Max = &n }); err != nil {
		return nil, err
	}
	for _, p := range ranges {
		preds = append(preds, *p)
	}

	return preds, nil
}

func init() {
	queryCmd.Flags().Int("page", 1, "page number (1-based)")
	queryCmd.Flags().Int("page-size", 0, "records per page (0 uses the configured default)")
	queryCmd.Flags().StringSlice("eq", nil, "exact-match filter field=value (repeatable)")
	queryCmd.Flags().StringSlice("like", nil, "substring filter field=value (repeatable)")
	queryCmd.Flags().StringSlice("min", nil, "range lower bound field=number (repeatable)")
	queryCmd.Flags().StringSlice("max", nil, "range upper bound field=number (repeatable)")
	rootCmd.AddCommand(queryCmd)
}
