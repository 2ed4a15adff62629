package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"cursorkeep/format"
	"cursorkeep/strategy"
	"cursorkeep/types"
	"cursorkeep/utils"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newFormatCmd() *cobra.Command {
	var (
		compare bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "format TEXT [CURSOR]",
		Short: "Format one string and print where the cursor lands",
		Long: `Format TEXT with the configured operation and strategy. CURSOR is a
character offset into TEXT and defaults to the end. The result is printed
in quotes, with a second line whose ↖ points at the cursor gap and gives
the new offset.`,
		Example: `  cursorkeep format --op commatize 12500 3
  cursorkeep format --op trimify --compare "  whirled    peas  " 9`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := types.FormatRequest{
				Text:      args[0],
				Cursor:    utils.RuneLen(args[0]),
				Operation: cfg.Operation,
			}
			if len(args) == 2 {
				cursor, err := strconv.Atoi(args[1])
				if err != nil {
					return errors.Wrapf(err, "cursor %q", args[1])
				}
				req.Cursor = cursor
			}

			kind, _, settings, err := cfg.formatterSettings()
			if err != nil {
				return err
			}

			kinds := []types.StrategyType{kind}
			if compare {
				kinds = types.StrategyTypes()
			}

			results := make([]types.FormatResult, 0, len(kinds))
			for _, k := range kinds {
				res, err := formatRequest(req, k, settings)
				if err != nil {
					if !compare {
						return err
					}
					res.Error = err.Error()
				}
				results = append(results, res)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				if compare {
					return enc.Encode(results)
				}
				return enc.Encode(results[0])
			}
			printResults(cmd.OutOrStdout(), results, compare)
			return nil
		},
	}

	cmd.Flags().BoolVar(&compare, "compare", false, "run every strategy and print each result")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

// formatRequest runs one strategy over req.
func formatRequest(req types.FormatRequest, kind types.StrategyType, settings *types.StrategyConfig) (types.FormatResult, error) {
	res := types.FormatResult{Strategy: kind}

	op, err := format.ParseOperation(req.Operation)
	if err != nil {
		return res, errors.Wrapf(err, "operation %q", req.Operation)
	}
	f, err := strategy.New(kind, op, settings)
	if err != nil {
		return res, err
	}
	res.Text, res.Cursor, err = f.Apply(req.Text, req.Cursor)
	return res, err
}

func printResults(w io.Writer, results []types.FormatResult, labelled bool) {
	for _, res := range results {
		out := utils.RenderCaret(res.Text, res.Cursor)
		if res.Error != "" {
			out = "error: " + res.Error
		}
		if labelled {
			fmt.Fprintf(w, "%s:\n%s\n", res.Strategy, out)
		} else {
			fmt.Fprintln(w, out)
		}
	}
}
