package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/hakizimana/parkgate/internal/config"
	"github.com/hakizimana/parkgate/internal/db"
	"github.com/hakizimana/parkgate/internal/gate"
	"github.com/hakizimana/parkgate/internal/log"
	"github.com/hakizimana/parkgate/internal/parkgate/imagestore"
	"github.com/hakizimana/parkgate/internal/parkgate/lane"
	"github.com/hakizimana/parkgate/internal/parkgate/plate"
	"github.com/hakizimana/parkgate/internal/parkgate/service"
	sqlstore "github.com/hakizimana/parkgate/internal/parkgate/store/sqlite"
	"github.com/hakizimana/parkgate/internal/recognize"
)

func NewEntryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "entry",
		Short: "Run the entry-lane checkpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLane(cmd.Context(), "entry")
		},
	}
}

func NewExitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exit",
		Short: "Run the exit-lane checkpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLane(cmd.Context(), "exit")
		},
	}
}

// runLane wires one checkpoint: sqlite ledger, serial gate controller,
// recognizer feed on stdin, and the decision service for the lane kind.
// A capture or link device that cannot be opened aborts startup; after
// that, per-cycle failures only ever skip the cycle.
func runLane(ctx context.Context, kind string) error {
	cfg := setup()

	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		return err
	}
	defer conn.Close()

	writer := db.NewWorker(conn)
	defer writer.Close()

	records := sqlstore.NewRecordStore(conn, writer)
	incidents := sqlstore.NewIncidentStore(conn, writer, cfg.SuppressionWindow)

	link, err := gate.Dial(cfg.SerialPort, cfg.BaudRate)
	if err != nil {
		return err
	}
	defer link.Close()

	ctrl := gate.NewController(link)
	defer func() {
		if err := ctrl.Close(); err != nil {
			log.L(ctx).Warnf("gate close failed: %v", err)
		}
	}()

	var decider lane.Decider
	switch kind {
	case "entry":
		decider = service.NewEntryService(records, incidents, ctrl, service.EntryConfig{
			Cooldown: cfg.EntryCooldown,
			GateHold: cfg.GateOpenTime,
		})
	default:
		decider = service.NewExitService(records, incidents, ctrl, service.ExitConfig{
			GraceWindow: cfg.ExitGraceWindow,
			GateHold:    cfg.GateOpenTime,
		})
	}

	l := lane.New(
		laneConfig(cfg, kind),
		recognize.NewPlateStream(os.Stdin),
		plate.NewConsensusBuffer(cfg.ConsensusThreshold),
		decider,
		ctrl,
		imagestore.NewFS(cfg.ImageDir),
	)

	ctx = log.WithLogField(ctx, "lane_id", cfg.LaneID)
	return l.Run(ctx)
}

func laneConfig(cfg config.Config, kind string) lane.Config {
	return lane.Config{
		Kind:          kind,
		MinDistanceCm: cfg.MinDistanceCm,
		MaxDistanceCm: cfg.MaxDistanceCm,
	}
}
