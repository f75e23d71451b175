// Package client provides commands that drive a running encounter-forge
// server over gRPC
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/handlers/encounterforge/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for a running encounter-forge server",
	Long:  `Client commands generate encounters and run battles against a server over gRPC.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 90*time.Second, "Request timeout")

	ClientCmd.AddCommand(generateCmd)
	ClientCmd.AddCommand(randomCmd)
	ClientCmd.AddCommand(getCmd)
	ClientCmd.AddCommand(listCmd)
	ClientCmd.AddCommand(enemyTypesCmd)
	ClientCmd.AddCommand(exportPDFCmd)
	ClientCmd.AddCommand(battleCmd)
}

// dial is swapped in tests
var dial = func() (grpc.ClientConnInterface, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}
	return conn, cleanup, nil
}

// withClient runs fn against a fresh connection with the request timeout applied
func withClient(fn func(ctx context.Context, client v1alpha1.EncounterServiceClient) error) error {
	conn, cleanup, err := dial()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return fn(ctx, v1alpha1.NewEncounterServiceClient(conn))
}

// describe turns a gRPC status into a readable error including field details
func describe(action string, err error) error {
	converted := errors.FromGRPCError(err)
	msg := errors.GetMessage(converted)
	if meta := errors.GetMeta(converted); len(meta) > 0 {
		return fmt.Errorf("failed to %s: %s %v", action, msg, meta)
	}
	return fmt.Errorf("failed to %s: %s", action, msg)
}
