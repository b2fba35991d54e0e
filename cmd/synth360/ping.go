package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// PingOptions represents the options for the ping command.
type PingOptions struct {
	DBPath     string
	DriverPath string
	Host       string
	Warehouse  string
	Token      string
}

// newPingCommand creates the connectivity check command. It runs one trivial
// round-trip query against the sink and reports success or failure.
func newPingCommand() *cobra.Command {
	options := &PingOptions{}

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity to the analytical store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPing(options)
		},
	}

	cmd.Flags().StringVar(&options.DBPath, "db", "", "Sink database path (empty for in-memory)")
	cmd.Flags().StringVar(&options.DriverPath, "driver", "", "ADBC driver library path (auto-detect when empty)")
	cmd.Flags().StringVar(&options.Host, "host", "", "Sink host option")
	cmd.Flags().StringVar(&options.Warehouse, "warehouse", "", "Sink warehouse option")
	cmd.Flags().StringVar(&options.Token, "token", "", "Sink auth token option")

	return cmd
}

func runPing(options *PingOptions) error {
	sink, err := openSink(options.DBPath, options.DriverPath, options.Host, options.Warehouse, options.Token)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer sink.Close()

	conn, err := sink.OpenConnection()
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	rr, err := conn.Query(context.Background(), "SELECT 1")
	if err != nil {
		return fmt.Errorf("round-trip query failed: %w", err)
	}
	defer rr.Release()
	if !rr.Next() {
		return fmt.Errorf("round-trip query returned no rows")
	}

	fmt.Println("OK: sink round trip succeeded")
	return nil
}
