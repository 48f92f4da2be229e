/*
main.go - periodctl entry point

PURPOSE:
  Offline command-line access to the period engine: resolve identifiers to
  date ranges, step to the next identifier, compute sort keys, and derive
  the latest closed period for a type under any supported calendar. All
  commands are pure computation; nothing touches the network.

EXAMPLES:
  # Resolve an identifier
  periodctl parse 2025Q3

  # The identifier that follows
  periodctl next 202512

  # Latest fully elapsed window
  periodctl latest Monthly --today 2025-11-15
  periodctl latest Quarterly --calendar ethiopian

SEE ALSO:
  - period: Codec and generator
  - calendars/convert: Calendar capabilities wired into --calendar
*/
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/period-engine/calendars"
	"github.com/warp/period-engine/calendars/convert"
	"github.com/warp/period-engine/period"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "periodctl:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "periodctl",
		Short:         "Calendar-aware reporting-period calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newParseCmd(), newNextCmd(), newSortKeyCmd(), newLatestCmd())
	return root
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <periodId>",
		Short: "Resolve a period identifier to its date range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := period.Parse(args[0])
			if err != nil {
				return err
			}
			kind, _ := period.KindOf(args[0])
			return printJSON(cmd, map[string]string{
				"id":        args[0],
				"kind":      kind.String(),
				"startDate": rng.Start.String(),
				"endDate":   rng.End.String(),
			})
		},
	}
}

func newNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next <periodId>",
		Short: "Compute the immediately following identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := period.Next(args[0])
			if err != nil {
				return err
			}
			rng, err := period.Parse(next)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"id":        next,
				"startDate": rng.Start.String(),
				"endDate":   rng.End.String(),
			})
		},
	}
}

func newSortKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sortkey <periodId>",
		Short: "Compute the chronological sort key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := period.SortKey(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, key)
		},
	}
}

func newLatestCmd() *cobra.Command {
	var todayFlag, calendarFlag string
	cmd := &cobra.Command{
		Use:   "latest <periodType>",
		Short: "Compute the latest fully elapsed period of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today := period.Today()
			if todayFlag != "" {
				var err error
				if today, err = period.ParseISO(todayFlag); err != nil {
					return err
				}
			}
			adapter := calendars.NewAdapter(calendars.ParseID(calendarFlag), convert.All())
			closed, err := period.LatestClosedPeriodNamed(args[0], today, adapter)
			if err != nil {
				return err
			}
			out := map[string]any{
				"periodType": args[0],
				"calendar":   string(adapter.Calendar()),
				"startDate":  closed.Range.Start.String(),
				"endDate":    closed.Range.End.String(),
			}
			if closed.ID != nil {
				out["id"] = *closed.ID
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&todayFlag, "today", "", "reference date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&calendarFlag, "calendar", "iso8601", "system calendar id")
	return cmd
}
