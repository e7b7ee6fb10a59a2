package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/chimeraproto/chimera/internal/config"
	"github.com/chimeraproto/chimera/pkg/log"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "chimera",
	Short: "Chimera, the memory-augmented LLM dispatch core",
	Long:  `Chimera is the memory retrieval and provider dispatch core of the Chimera Protocol, with a small local harness around it.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	return log.NewContextWithLogger(ctx, debug || config.IsDebug())
}
