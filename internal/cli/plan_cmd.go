package cli

import (
	"fmt"

	"github.com/alexanderramin/itinera/internal/cli/formatter"
	"github.com/alexanderramin/itinera/internal/importer"
	"github.com/alexanderramin/itinera/internal/service"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <pool-file>",
		Short: "Build and save a trip from a candidate pool (JSON or YAML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := importer.LoadPool(args[0])
			if err != nil {
				return err
			}

			trip, err := app.Planner.PlanTrip(cmd.Context(), service.PlanTripRequest{
				Pool:    pool,
				Planner: app.PlannerDefaults,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Planned %s (%s)\n\n", formatter.Bold(trip.Name), trip.ID)
			fmt.Fprint(out, formatter.FormatTrip(trip))
			return nil
		},
	}
}

func newTripsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "trips",
		Aliases: []string{"ls"},
		Short:   "List saved trips",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trips, err := app.Planner.ListTrips(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTripList(trips, app.now()))
			return nil
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	var day int

	cmd := &cobra.Command{
		Use:   "show <trip-id>",
		Short: "Show a trip, or a single day with --day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tripID, err := resolveTripID(ctx, app, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !cmd.Flags().Changed("day") {
				trip, err := app.Planner.GetTrip(ctx, tripID)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatTrip(trip))
				return nil
			}

			idx, err := dayIndex("day", day)
			if err != nil {
				return err
			}
			d, err := app.Planner.GetDay(ctx, tripID, idx)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatDay(*d))
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 1, "Day number (1-based)")
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trip-id>",
		Short: "Delete a trip with its days and reshuffle history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tripID, err := resolveTripID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Planner.DeleteTrip(ctx, tripID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted trip %s\n", tripID)
			return nil
		},
	}
}
