package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chimeraproto/chimera/internal/providers/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported models and their providers",
	Run: func(cmd *cobra.Command, args []string) {
		registry := llm.NewRegistry()
		for _, m := range registry.Models() {
			fmt.Printf("%-12s %-26s %s\n", m.Provider, m.ID, m.DisplayName)
		}
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
