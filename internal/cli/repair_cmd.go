package cli

import (
	"fmt"

	"github.com/alexanderramin/itinera/internal/cli/formatter"
	"github.com/alexanderramin/itinera/internal/service"
	"github.com/spf13/cobra"
)

func newDeferCmd(app *App) *cobra.Command {
	var day, to int

	cmd := &cobra.Command{
		Use:   "defer <trip-id> <slot-id>",
		Short: "Move an activity to a later day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := slotRef(cmd.Context(), app, args[0], args[1], day)
			if err != nil {
				return err
			}
			toIdx, err := dayIndex("to", to)
			if err != nil {
				return err
			}
			res, err := app.Reshuffle.Defer(cmd.Context(), service.DeferRequest{
				TripID:  ref.TripID,
				FromDay: ref.DayIndex,
				SlotID:  ref.SlotID,
				ToDay:   toIdx,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTripChange(res))
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 1, "Day the activity is on (1-based)")
	cmd.Flags().IntVar(&to, "to", 0, "Day to move it to (1-based)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newRebalanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rebalance <trip-id>",
		Short: "Move surplus activities from overloaded days to lighter ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID, err := resolveTripID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Reshuffle.Rebalance(cmd.Context(), tripID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTripChange(res))
			return nil
		},
	}
}

func newEmergencyCmd(app *App) *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:   "emergency <trip-id>",
		Short: "Clear unlocked activities from a range of days",
		Long: `Clear a range of days, for illness or a travel disruption.

Locked activities stay. Everything else is moved to a later day when
it fits, and dropped otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID, err := resolveTripID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			fromIdx, err := dayIndex("from", from)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("to") {
				to = from
			}
			toIdx, err := dayIndex("to", to)
			if err != nil {
				return err
			}
			if toIdx < fromIdx {
				return fmt.Errorf("--to (%d) must not be before --from (%d)", to, from)
			}
			res, err := app.Reshuffle.EmergencyClear(cmd.Context(), tripID, fromIdx, toIdx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTripChange(res))
			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", 1, "First day to clear (1-based)")
	cmd.Flags().IntVar(&to, "to", 0, "Last day to clear (1-based, default: --from)")
	return cmd
}
