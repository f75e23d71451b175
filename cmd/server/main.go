// Package main is the entry point for encounter-forge
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/encounter-forge/cmd/server/client"
)

// version is set at build time with -ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "encounter-forge",
	Short: "D&D encounter generator and battle tracker",
	Long: `encounter-forge generates D&D 5e enemy stat blocks and tracks their hit points
through a battle. It serves gRPC, a JSON HTTP API and an MCP stdio server.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
