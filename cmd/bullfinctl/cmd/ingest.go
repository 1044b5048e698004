package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/darshanpatil2511/BullFin-AI/internal/infra/database/postgres"
	"github.com/darshanpatil2511/BullFin-AI/internal/pkg/config"
	"github.com/darshanpatil2511/BullFin-AI/internal/pkg/logger"
	"github.com/darshanpatil2511/BullFin-AI/internal/service/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.csv>",
	Short: "Validate and persist a portfolio CSV",
	Long: `Validate a portfolio CSV offline and persist it as one batch.

The file needs a header row with the columns symbol, shares, purchasePrice
and date. The batch is all-or-nothing: any invalid row rejects the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{
		Level:       level,
		Format:      "console",
		ServiceName: "bullfinctl",
	}); err != nil {
		return err
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer file.Close()

	rows, err := ingest.ReadCSV(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	holdings, err := ingest.NormalizeRows(rows)
	if err != nil {
		var rowErrs ingest.RowErrors
		if errors.As(err, &rowErrs) {
			fmt.Fprintf(os.Stderr, "Rejected %s: %d invalid fields\n", args[0], len(rowErrs))
			for _, re := range rowErrs {
				fmt.Fprintf(os.Stderr, "  row %d, %s: %s\n", re.Row, re.Field, re.Message)
			}
			return fmt.Errorf("validation failed")
		}
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	dbPool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer dbPool.Close()

	repo := postgres.NewHoldingRepository(dbPool.Pool)
	batch, err := repo.InsertBatch(ctx, holdings)
	if err != nil {
		return err
	}

	fmt.Printf("Inserted %d holdings (batch %s)\n", batch.InsertedCount, batch.BatchID)
	return nil
}
