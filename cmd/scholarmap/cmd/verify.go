package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/scholarmap/scholarmap/internal/sources/dblp"
	"github.com/scholarmap/scholarmap/internal/sources/openalex"
	"github.com/scholarmap/scholarmap/internal/sources/website"
	"github.com/scholarmap/scholarmap/pkg/logging"
	"github.com/scholarmap/scholarmap/pkg/reconciler"
	"github.com/scholarmap/scholarmap/pkg/sources"
)

var (
	verifyMinConfidence float64
	verifyMaxRecords    int
	verifyDelay         time.Duration
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify stored records against external sources",
	Long: `Verify runs a reconciliation batch: each stored record is checked
against DBLP, OpenAlex, and its own web pages, the findings are merged
with higher-confidence sources winning per field, and the record is
updated in place. A pause between records keeps request rates polite.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithLogger(cmd.Context(), logging.Default())

		s, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		client := &http.Client{Timeout: cfg.SourceTimeout}
		srcs := []sources.Source{
			dblp.New(client),
			openalex.New(client),
			website.New(client),
		}

		delay := cfg.RecordDelay
		if cmd.Flags().Changed("delay") {
			delay = verifyDelay
		}
		maxRecords := cfg.MaxRecords
		if cmd.Flags().Changed("max-records") {
			maxRecords = verifyMaxRecords
		}

		rec := reconciler.New(s, srcs,
			reconciler.WithSourceTimeout(cfg.SourceTimeout),
			reconciler.WithRecordDelay(delay),
		)

		result, err := rec.Batch(ctx, verifyMinConfidence, maxRecords)
		if err != nil {
			return err
		}

		if _, err := s.RescoreAll(ctx); err != nil {
			return err
		}

		fmt.Printf("Verified %d records (%d failed), run %s\n",
			result.Processed, result.Failed, result.RunID)
		return nil
	},
}

func init() {
	verifyCmd.Flags().Float64Var(&verifyMinConfidence, "min-confidence", 0, "only verify records at or above this confidence")
	verifyCmd.Flags().IntVar(&verifyMaxRecords, "max-records", 0, "cap the number of records verified (0 means all)")
	verifyCmd.Flags().DurationVar(&verifyDelay, "delay", 2*time.Second, "pause between records")
	rootCmd.AddCommand(verifyCmd)
}
