package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synthlab/synth360/logger"
	"github.com/synthlab/synth360/pkg/synth"
)

// ExportOptions represents the options for the export command.
type ExportOptions struct {
	Records int
	Seed    int64
	Format  string
	Output  string
}

// newExportCommand creates the dataset export command, which generates a
// dataset and writes it to a local file without touching the sink.
func newExportCommand() *cobra.Command {
	options := &ExportOptions{
		Records: 1000,
		Seed:    42,
		Format:  "csv",
	}

	cmd := &cobra.Command{
		Use:   "export [flags] <output-path>",
		Short: "Generate a dataset and export it for inspection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Output = args[0]
			return runExport(options)
		},
	}

	cmd.Flags().IntVarP(&options.Records, "records", "n", options.Records, "Number of records to generate")
	cmd.Flags().Int64Var(&options.Seed, "seed", options.Seed, "Run seed for reproducible generation")
	cmd.Flags().StringVarP(&options.Format, "format", "f", options.Format, "Output format (csv, json)")

	return cmd
}

func runExport(options *ExportOptions) error {
	logger.InitLogger()
	defer logger.Sync()

	gen := synth.NewGenerator(options.Seed, synth.WithLogger(logger.GetLogger()))
	ds, err := gen.Generate(options.Records)
	if err != nil {
		return err
	}

	if err := exportDataset(context.Background(), ds, options.Format, options.Output); err != nil {
		return err
	}
	fmt.Printf("Wrote %d records to %s\n", ds.Len(), options.Output)
	return nil
}
