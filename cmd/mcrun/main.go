// Command mcrun drives the dfsmc exploration engine against an
// app-under-check: "run" performs a fresh DFS/DPOR exploration, "replay"
// re-runs a previously recorded trace against a fresh instance of the app.
//
// Grounded on None9527-NGOClaw's cmd/cli/main.go: a cobra root command with
// subcommands, each of which loads its config via viper and builds its zap
// logger at the start of its own body.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	cliName    = "mcrun"
	cliVersion = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   cliName,
		Short: "dfsmc — DPOR-reducing DFS model checker",
		Long:  "mcrun drives an app-under-check through its reachable state space, looking for deadlocks, safety violations, and non-progressive cycles.",
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print mcrun's version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", cliName, cliVersion)
		},
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
