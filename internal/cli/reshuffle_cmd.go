package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/itinera/internal/cli/formatter"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/service"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var (
		day     int
		message string
		delay   int
		state   string
		now     clockFlag
	)

	cmd := &cobra.Command{
		Use:   "report <trip-id>",
		Short: "Report a disruption and reshuffle the rest of the day",
		Long: `Report what happened and let itinera repair the day.

Describe it in words (--message "louvre is closed"), give a delay in
minutes (--delay 25), or say how you feel (--state very_tired).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tripID, err := resolveTripID(ctx, app, args[0])
			if err != nil {
				return err
			}
			idx, err := dayIndex("day", day)
			if err != nil {
				return err
			}

			res, err := app.Reshuffle.Report(ctx, service.ReportRequest{
				TripID:       tripID,
				DayIndex:     idx,
				Message:      strings.TrimSpace(message),
				DelayMinutes: delay,
				State:        domain.UserState(strings.ToLower(state)),
				Now:          now.or(app.now),
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReshuffle(res))
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 1, "Day number (1-based)")
	cmd.Flags().StringVar(&message, "message", "", "Free-text description of the disruption")
	cmd.Flags().IntVar(&delay, "delay", 0, "Minutes behind schedule")
	cmd.Flags().StringVar(&state, "state", "", "How you feel: energized, early, slight_tired, running_late, very_tired, need_break, done_for_day, sick")
	cmd.Flags().Var(&now, "now", "Current time of day (default: wall clock)")
	cmd.MarkFlagsMutuallyExclusive("message", "delay", "state")
	cmd.MarkFlagsOneRequired("message", "delay", "state")
	return cmd
}

func newUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <token>",
		Short: "Restore the day as it was before a reshuffle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Reshuffle.Undo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUndo(res))
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <trip-id>",
		Short: "List past reshuffles of a trip with their undo tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tripID, err := resolveTripID(ctx, app, args[0])
			if err != nil {
				return err
			}
			records, err := app.Reshuffle.History(ctx, tripID, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(records, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum records to show (0 for all)")
	return cmd
}
