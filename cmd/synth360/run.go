package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/synthlab/synth360/config"
	"github.com/synthlab/synth360/integrations"
	"github.com/synthlab/synth360/logger"
	"github.com/synthlab/synth360/metrics"
	"github.com/synthlab/synth360/pkg/core"
	"github.com/synthlab/synth360/pkg/synth"
	"github.com/synthlab/synth360/pkg/uploader"
	"github.com/synthlab/synth360/pkg/writers"
	"github.com/synthlab/synth360/report"
	"github.com/synthlab/synth360/validation"
	"github.com/synthlab/synth360/version"
)

// RunOptions represents the options for the run command.
type RunOptions struct {
	ConfigPath string

	Records   int
	Seed      int64
	ChunkSize int
	Table     string

	DBPath     string
	DriverPath string
	Host       string
	Warehouse  string
	Token      string

	CSVPath      string
	ReportPath   string
	SkipValidate bool
}

// newRunCommand creates the generate-and-upload command.
func newRunCommand() *cobra.Command {
	options := &RunOptions{
		Records:   1000,
		Seed:      42,
		ChunkSize: uploader.DefaultChunkSize,
		Table:     "known_customer_360",
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate a synthetic dataset, upload it and validate the load",
		Long: `Generate n synthetic customer records from a fixed run seed, deliver
them to the destination table in chunks, and validate row counts and
field ranges against the generated dataset.

The process exits 0 on full success, 2 when the upload landed but
validation reported findings, and 1 on any hard failure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(options, cmd); err != nil {
				return err
			}
			return runPipeline(options)
		},
	}

	cmd.Flags().StringVarP(&options.ConfigPath, "config", "c", "", "YAML config file (flags override)")
	cmd.Flags().IntVarP(&options.Records, "records", "n", options.Records, "Number of records to generate")
	cmd.Flags().Int64Var(&options.Seed, "seed", options.Seed, "Run seed for reproducible generation")
	cmd.Flags().IntVar(&options.ChunkSize, "chunk-size", options.ChunkSize, "Rows per upload chunk")
	cmd.Flags().StringVarP(&options.Table, "table", "t", options.Table, "Destination table name")
	cmd.Flags().StringVar(&options.DBPath, "db", "", "Sink database path (empty for in-memory)")
	cmd.Flags().StringVar(&options.DriverPath, "driver", "", "ADBC driver library path (auto-detect when empty)")
	cmd.Flags().StringVar(&options.Host, "host", "", "Sink host option")
	cmd.Flags().StringVar(&options.Warehouse, "warehouse", "", "Sink warehouse option")
	cmd.Flags().StringVar(&options.Token, "token", "", "Sink auth token option")
	cmd.Flags().StringVar(&options.CSVPath, "csv", "", "Write a CSV backup of the dataset before upload")
	cmd.Flags().StringVar(&options.ReportPath, "report", "", "Write the run report JSON to this path")
	cmd.Flags().BoolVar(&options.SkipValidate, "skip-validate", false, "Skip post-load validation")

	return cmd
}

// applyConfig merges file configuration under the flag values.
func applyConfig(options *RunOptions, cmd *cobra.Command) error {
	if options.ConfigPath == "" {
		return nil
	}
	cfg, err := config.LoadConfig(options.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	// Config fills in anything not set explicitly on the command line.
	flags := cmd.Flags()
	if !flags.Changed("records") {
		options.Records = cfg.Generator.Records
	}
	if !flags.Changed("seed") {
		options.Seed = cfg.Generator.Seed
	}
	if !flags.Changed("chunk-size") {
		options.ChunkSize = cfg.Generator.ChunkSize
	}
	if !flags.Changed("table") {
		options.Table = cfg.Sink.Table
	}
	if !flags.Changed("db") {
		options.DBPath = cfg.Sink.Path
	}
	if !flags.Changed("driver") {
		options.DriverPath = cfg.Sink.DriverPath
	}
	if !flags.Changed("host") {
		options.Host = cfg.Sink.Host
	}
	if !flags.Changed("warehouse") {
		options.Warehouse = cfg.Sink.Warehouse
	}
	if !flags.Changed("token") {
		options.Token = cfg.Sink.Token
	}
	return nil
}

// runPipeline executes generate → export → upload → validate.
func runPipeline(options *RunOptions) error {
	logger.InitLogger()
	defer logger.Sync()
	log := logger.GetLogger()

	ctx := context.Background()
	start := time.Now()

	// Generate.
	spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	spin.Suffix = fmt.Sprintf(" generating %d records...", options.Records)
	spin.Start()

	gen := synth.NewGenerator(options.Seed, synth.WithLogger(log))
	ds, err := gen.Generate(options.Records)
	spin.Stop()
	if err != nil {
		return err
	}

	// Optional CSV backup before any sink interaction.
	if options.CSVPath != "" {
		if err := exportDataset(ctx, ds, "csv", options.CSVPath); err != nil {
			return err
		}
		log.Info("CSV backup written", zap.String("path", options.CSVPath))
	}

	// Upload over one scoped connection.
	sink, err := openSink(options.DBPath, options.DriverPath, options.Host, options.Warehouse, options.Token)
	if err != nil {
		return err
	}
	defer sink.Close()

	spin.Suffix = " uploading..."
	spin.Start()
	up := uploader.NewUploader(sink,
		uploader.WithChunkSize(options.ChunkSize),
		uploader.WithUploadLogger(log),
		uploader.WithProgress(func(committed, total int) {
			spin.Suffix = fmt.Sprintf(" uploading chunk %d/%d...", committed, total)
		}),
	)
	uploadResult, uploadErr := up.Upload(ctx, ds, options.Table)
	spin.Stop()

	run := metrics.RunReport{
		Metadata: metrics.RunMetadata{
			Table:     options.Table,
			Records:   options.Records,
			Seed:      options.Seed,
			ChunkSize: options.ChunkSize,
			Engine:    "synth360",
			Version:   version.Version,
			StartTime: start,
		},
		Upload: uploadResult,
	}

	// Validate on its own connection, even after partial uploads, unless
	// the caller opted out.
	if uploadErr == nil && !options.SkipValidate {
		v := validation.NewValidator(sink, log)
		vr, err := v.Validate(ctx, ds, options.Table)
		if err != nil {
			return fmt.Errorf("validation failed to run: %w", err)
		}
		run.Validation = vr
	}

	run.Metadata.EndTime = time.Now()
	run.Metadata.Duration = run.Metadata.EndTime.Sub(start)

	if err := emitReport(run, options.ReportPath); err != nil {
		return err
	}
	if uploadErr != nil {
		return uploadErr
	}
	if !options.SkipValidate && !run.Validation.Status {
		// Validation findings are reported, not raised; distinguish them
		// from hard failures by exit code.
		logger.Sync()
		os.Exit(2)
	}
	return nil
}

// openSink builds the ADBC sink handle with passthrough warehouse options.
func openSink(dbPath, driverPath, host, warehouse, token string) (*integrations.DuckDB, error) {
	opts := []integrations.Option{
		integrations.WithPath(dbPath),
		integrations.WithDriverPath(driverPath),
	}
	if host != "" {
		opts = append(opts, integrations.WithDriverOption("host", host))
	}
	if warehouse != "" {
		opts = append(opts, integrations.WithDriverOption("warehouse", warehouse))
	}
	if token != "" {
		opts = append(opts, integrations.WithDriverOption("token", token))
	}
	return integrations.NewDuckDB(opts...)
}

// exportDataset materializes the dataset as one Arrow record and hands it to
// the writer for the requested format.
func exportDataset(ctx context.Context, ds *core.Dataset, format, path string) error {
	rec, err := ds.Record(memory.DefaultAllocator)
	if err != nil {
		return err
	}
	defer rec.Release()

	w, err := writers.DefaultFactory.Create(core.WriterConfig{Type: format, Path: path})
	if err != nil {
		return err
	}
	if err := w.Write(ctx, rec); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// emitReport prints the run report and optionally saves it.
func emitReport(run metrics.RunReport, path string) error {
	gen := &report.JSONReportGenerator{}
	data, err := gen.GenerateRunReport(run)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	if path != "" {
		return report.SaveReport(run, path)
	}
	return nil
}
