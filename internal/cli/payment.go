package cli

import (
	"github.com/spf13/cobra"

	"github.com/hakizimana/parkgate/internal/db"
	"github.com/hakizimana/parkgate/internal/gate"
	"github.com/hakizimana/parkgate/internal/parkgate/payment"
	"github.com/hakizimana/parkgate/internal/parkgate/service"
	sqlstore "github.com/hakizimana/parkgate/internal/parkgate/store/sqlite"
)

func NewPaymentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "payment",
		Short: "Run the payment coordinator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
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

			svc := service.NewPaymentService(records, incidents, link, service.PaymentConfig{
				HourlyRate:     cfg.HourlyRate,
				ReadyTimeout:   cfg.ReadyTimeout,
				ConfirmTimeout: cfg.ConfirmTimeout,
			})

			return payment.New(link, svc).Run(ctx)
		},
	}
}
