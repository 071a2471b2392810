package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doorlog/doorlog/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Month  string
	Format string
}

// NewExportCommand creates the export command: dump one month's shard as
// CSV or JSON on stdout.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one month's events as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(strings.TrimSpace(opts.Format))
			if format != "csv" && format != "json" {
				return fmt.Errorf("format must be csv or json, got %q", opts.Format)
			}

			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}

			st := openStore(cfg)
			defer st.Close()

			events, err := st.QueryMonth(cmd.Context(), opts.Month)
			if err != nil {
				return err
			}

			if format == "csv" {
				cmd.Print(export.ToCSV(events))
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(export.ToStructured(events))
		},
	}

	cmd.Flags().StringVar(&opts.Month, "month", "", "month key to export (YYYY-MM, required)")
	cmd.Flags().StringVar(&opts.Format, "format", "json", "output format (csv|json)")
	_ = cmd.MarkFlagRequired("month")

	return cmd
}
