// Package cli wires the three checkpoint processes behind one binary:
// parkgate entry | exit | payment. Exactly one mode runs per process.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/hakizimana/parkgate/internal/config"
	"github.com/hakizimana/parkgate/internal/log"
)

// NewRootCommand builds the parkgate CLI. An unknown mode prints usage and
// performs no action.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parkgate",
		Short: "Vehicle checkpoint: access decisions and payment coordination",
		Long: `Parkgate operates one physical vehicle-access checkpoint per process.

Modes:
  entry    run the entry-lane checkpoint loop
  exit     run the exit-lane checkpoint loop
  payment  run the payment coordinator on the device link

Configuration is taken from PARKGATE_* environment variables.`,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewEntryCommand())
	cmd.AddCommand(NewExitCommand())
	cmd.AddCommand(NewPaymentCommand())

	return cmd
}

func setup() config.Config {
	cfg := config.FromEnv()
	log.SetLevel(cfg.LogLevel)
	return cfg
}
