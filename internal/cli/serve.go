package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doorlog/doorlog/internal/httpapi"
)

// NewServeCommand creates the serve command, which runs the metrics API
// until interrupted.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the metrics API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			logger := rootOpts.newLogger()

			st := openStore(cfg)
			defer st.Close()

			srv := httpapi.NewServer(httpapi.Dependencies{
				Logger:          logger,
				Addr:            cfg.HTTPAddr,
				Store:           st,
				UnlockSeconds:   cfg.UnlockSeconds,
				LatencyQueueMax: cfg.LatencyQueueMax,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				logger.Printf("listening on %s (metrics path %s)", cfg.HTTPAddr, cfg.MetricsPath)
				if err := srv.Start(); err != nil {
					logger.Printf("server error: %v", err)
					stop()
				}
			}()

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
