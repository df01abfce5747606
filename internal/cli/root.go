package cli

import (
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Planner   service.PlannerService
	Edits     service.EditService
	Reshuffle service.ReshuffleService

	// PlannerDefaults seed every planned trip before pool overrides.
	PlannerDefaults domain.PlannerConfig
	// Now is the wall clock. Nil means time.Now.
	Now func() time.Time
	// Setup wires the services from the global flags before a command
	// runs. Tests leave it nil and fill the services directly.
	Setup func(GlobalOptions) error
}

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	DBPath     string
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// NewRootCmd creates the top-level "itinera" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var opts GlobalOptions

	root := &cobra.Command{
		Use:           "itinera",
		Short:         "Travel day planner with real-time reshuffling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Setup == nil {
				return nil
			}
			return app.Setup(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to config.toml (default ~/.itinera/config.toml)")
	root.PersistentFlags().StringVar(&opts.DBPath, "db", "", "Path to the itinerary database (overrides config)")

	root.AddCommand(
		newPlanCmd(app),
		newTripsCmd(app),
		newShowCmd(app),
		newDeleteCmd(app),
		newLockCmd(app),
		newUnlockCmd(app),
		newRemoveCmd(app),
		newSwapCmd(app),
		newTemplateCmd(app),
		newReportCmd(app),
		newUndoCmd(app),
		newHistoryCmd(app),
		newDeferCmd(app),
		newRebalanceCmd(app),
		newEmergencyCmd(app),
	)

	return root
}
