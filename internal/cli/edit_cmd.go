package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/itinera/internal/cli/formatter"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/importer"
	"github.com/alexanderramin/itinera/internal/scheduler"
	"github.com/alexanderramin/itinera/internal/service"
	"github.com/spf13/cobra"
)

type slotEditFunc func(ctx context.Context, ref service.SlotRef) (*domain.DaySchedule, error)

// newSlotEditCmd builds the "<verb> <trip-id> <slot-id> --day N" commands
// that edit one slot and print the resulting day. The edit is looked up
// at run time because Setup fills the services after flag parsing.
func newSlotEditCmd(app *App, verb, short string, edit func(*App) slotEditFunc) *cobra.Command {
	var day int

	cmd := &cobra.Command{
		Use:   verb + " <trip-id> <slot-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := slotRef(cmd.Context(), app, args[0], args[1], day)
			if err != nil {
				return err
			}
			d, err := edit(app)(cmd.Context(), ref)
			if err != nil {
				return err
			}
			printDay(cmd, d)
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 1, "Day number (1-based)")
	return cmd
}

func newLockCmd(app *App) *cobra.Command {
	return newSlotEditCmd(app, "lock", "Pin a slot so reshuffles never move it",
		func(a *App) slotEditFunc { return a.Edits.Lock })
}

func newUnlockCmd(app *App) *cobra.Command {
	return newSlotEditCmd(app, "unlock", "Release a pinned slot",
		func(a *App) slotEditFunc { return a.Edits.Unlock })
}

func newRemoveCmd(app *App) *cobra.Command {
	return newSlotEditCmd(app, "remove", "Remove a slot from its day",
		func(a *App) slotEditFunc { return a.Edits.Remove })
}

func newSwapCmd(app *App) *cobra.Command {
	var day, alt int

	cmd := &cobra.Command{
		Use:   "swap <trip-id> <slot-id>",
		Short: "Replace a slot's activity with one of its alternatives",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := slotRef(cmd.Context(), app, args[0], args[1], day)
			if err != nil {
				return err
			}
			if alt < 1 {
				return fmt.Errorf("--alt must be 1 or greater, got %d", alt)
			}
			d, err := app.Edits.SwapAlternative(cmd.Context(), ref, alt-1)
			if err != nil {
				return err
			}
			printDay(cmd, d)
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 1, "Day number (1-based)")
	cmd.Flags().IntVar(&alt, "alt", 1, "Alternative number (1-based)")
	return cmd
}

func newTemplateCmd(app *App) *cobra.Command {
	var day int
	var poolPath string

	cmd := &cobra.Command{
		Use:   "template <trip-id> <relaxed|standard|packed|arrival|departure>",
		Short: "Rebuild a day from a named slot template, keeping locked slots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := scheduler.TemplateName(strings.ToLower(args[1]))
			if !scheduler.ValidTemplates[name] {
				return fmt.Errorf("unknown template %q", args[1])
			}

			tripID, err := resolveTripID(ctx, app, args[0])
			if err != nil {
				return err
			}
			idx, err := dayIndex("day", day)
			if err != nil {
				return err
			}

			var candidates []domain.ScoredActivity
			if poolPath != "" {
				pool, err := importer.LoadPool(poolPath)
				if err != nil {
					return err
				}
				candidates = importer.ConvertActivities(pool)
			}

			d, err := app.Edits.ApplyTemplate(ctx, tripID, idx, name, candidates)
			if err != nil {
				return err
			}
			printDay(cmd, d)
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 1, "Day number (1-based)")
	cmd.Flags().StringVar(&poolPath, "pool", "", "Candidate pool to draw from (default: the day's own activities)")
	return cmd
}

func slotRef(ctx context.Context, app *App, tripArg, slotID string, day int) (service.SlotRef, error) {
	tripID, err := resolveTripID(ctx, app, tripArg)
	if err != nil {
		return service.SlotRef{}, err
	}
	idx, err := dayIndex("day", day)
	if err != nil {
		return service.SlotRef{}, err
	}
	return service.SlotRef{TripID: tripID, DayIndex: idx, SlotID: slotID}, nil
}

func printDay(cmd *cobra.Command, d *domain.DaySchedule) {
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDay(*d))
}
