// Command importer loads provider JSON dumps into the trip tables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"triphub/internal/config"
	"triphub/internal/ingest"
	"triphub/internal/utils"
)

const importLongDescription = `Command "importer"

Reads one or more provider dumps (a JSON array of trips per file) and upserts
them into that provider's table. Rows missing a price, departure time, arrival
time or route URL are skipped and counted.

Database settings come from the same DB_* variables as the API server.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		provider string
		batch    int
	)
	cmd := &cobra.Command{
		Use:          "importer --provider <12go|bookaway> FILE...",
		Short:        "Import provider trip dumps",
		Long:         importLongDescription,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.LoadEnv()
			if err != nil {
				return err
			}
			log := utils.NewLogger(env.LogLevel, env.LogPretty, cmd.ErrOrStderr())

			db, err := config.OpenDB(cmd.Context(), env.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			im, err := ingest.NewImporter(db, provider, batch, log)
			if err != nil {
				return err
			}
			return importFiles(cmd.Context(), im, args, log)
		},
	}
	cmd.Flags().StringVarP(&provider, "provider", "p", "", "provider the dumps belong to (12go, bookaway)")
	cmd.Flags().IntVar(&batch, "batch", ingest.DefaultBatchSize, "rows per INSERT statement")
	_ = cmd.MarkFlagRequired("provider")
	return cmd
}

func importFiles(ctx context.Context, im *ingest.Importer, paths []string, log zerolog.Logger) error {
	var total ingest.Summary
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		sum, err := im.Import(ctx, f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		log.Info().Str("file", path).Int("inserted", sum.Inserted).Int("skipped", sum.Skipped).Msg("file imported")
		total.Read += sum.Read
		total.Inserted += sum.Inserted
		total.Skipped += sum.Skipped
	}
	log.Info().Int("files", len(paths)).Int("read", total.Read).Int("inserted", total.Inserted).Int("skipped", total.Skipped).Msg("import finished")
	return nil
}
