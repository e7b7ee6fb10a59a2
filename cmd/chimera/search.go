package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chimeraproto/chimera/internal/config"
)

var searchWorkspace string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stored memories by relevance",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		appCfg := config.NewAppConfig(ctx)
		provCfg := config.NewProviderConfig(ctx)

		eng, err := newEngine(ctx, appCfg, provCfg)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		results, err := eng.Search(ctx, query, searchWorkspace, appCfg.DefaultTopK)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("no matches")
			return nil
		}
		for _, r := range results {
			fmt.Printf("%.2f  %-40s %s\n", r.Score, r.Record.Title, r.Record.Snippet)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchWorkspace, "workspace", "w", localWorkspace, "workspace to search")
	rootCmd.AddCommand(searchCmd)
}
