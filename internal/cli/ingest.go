package cli

import (
	"github.com/spf13/cobra"

	"github.com/doorlog/doorlog/internal/ingest"
)

// NewIngestCommand creates the ingest command: stream one or more action
// log files into the month shards and report the inserted count.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Ingest action log files into the shard store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			logger := rootOpts.newLogger()

			st := openStore(cfg)
			defer st.Close()

			ing := ingest.New(st, cfg.IngestBatchSize, logger)

			total := 0
			for _, path := range args {
				n, err := ing.File(cmd.Context(), path)
				if err != nil {
					return err
				}
				total += n
			}

			cmd.Printf("inserted %d events\n", total)
			return nil
		},
	}
}
