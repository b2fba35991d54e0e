package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/synthlab/synth360/api"
	"github.com/synthlab/synth360/report"
)

// ServeOptions represents the options for the serve command.
type ServeOptions struct {
	Port       string
	ReportPath string
}

// newServeCommand creates the report API server command.
func newServeCommand() *cobra.Command {
	options := &ServeOptions{
		Port: "5555",
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest run report over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(options)
		},
	}

	cmd.Flags().StringVarP(&options.Port, "port", "p", options.Port, "Port to listen on")
	cmd.Flags().StringVar(&options.ReportPath, "report", "", "Run report JSON file to serve")

	return cmd
}

// runServe starts the API server with graceful shutdown handling.
func runServe(options *ServeOptions) error {
	holder := &api.ReportHolder{}
	if options.ReportPath != "" {
		gen := &report.JSONReportGenerator{}
		run, err := gen.ReportFromFilePath(options.ReportPath)
		if err != nil {
			return err
		}
		holder.Set(run)
	}

	server := api.NewServer(api.ServerOptions{Port: options.Port}, holder)

	// Channel to listen for OS termination signals.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Received shutdown signal, stopping server...")
	return server.Shutdown()
}
