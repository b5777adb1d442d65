package main

import (
	"context"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-wbnm/internal/measure"
	"github.com/askiada/go-wbnm/internal/resultsdb"
	"github.com/askiada/go-wbnm/pkg/batch"
	"github.com/askiada/go-wbnm/pkg/results"
)

type imported struct {
	index   int
	source  string
	runID   string
	size    int64
	peaks   int
	samples int
}

func (a *app) importCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <meta>...",
		Short: "Import meta files into a SQLite results database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = a.cfg.Database.Path
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			store, err := resultsdb.Open(ctx, dbPath, resultsdb.WithLogger(a.logger))
			if err != nil {
				return err
			}
			defer store.Close()

			m := measure.NewDefaultMeasure()
			im := batch.New(
				batch.WithWorkers(a.cfg.Batch.Workers),
				batch.WithBufferSize(a.cfg.Batch.BufferSize),
				batch.WithLogger(a.logger),
				batch.WithMeasure(m),
				batch.WithParseOptions(results.WithLogger(a.logger)),
			)

			var done []imported
			sink := batch.SinkFunc(func(ctx context.Context, item batch.Item) error {
				runID, err := store.Import(ctx, item.Path, item.Results)
				if err != nil {
					return err
				}

				peaks, samples, err := store.Counts(ctx, runID)
				if err != nil {
					return err
				}

				var size int64
				if info, err := os.Stat(item.Path); err == nil {
					size = info.Size()
				}

				done = append(done, imported{
					index:   item.Index,
					source:  item.Path,
					runID:   runID,
					size:    size,
					peaks:   peaks,
					samples: samples,
				})

				return nil
			})

			err = im.Run(ctx, args, sink)
			if err != nil {
				return errors.Wrapf(err, "unable to import into %s", dbPath)
			}

			measure.Log(a.logger, m)

			sort.Slice(done, func(i, j int) bool { return done[i].index < done[j].index })

			rows := make([][]string, 0, len(done))
			for _, d := range done {
				rows = append(rows, []string{
					d.source,
					humanize.Bytes(uint64(d.size)),
					d.runID,
					humanize.Comma(int64(d.peaks)),
					humanize.Comma(int64(d.samples)),
				})
			}

			w := cmd.OutOrStdout()
			printTitle(w, "%d meta files imported into %s", len(done), dbPath)
			printTable(w, []string{"SOURCE", "SIZE", "RUN", "PEAKS", "SAMPLES"}, rows)

			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database (default from configuration)")

	return cmd
}
