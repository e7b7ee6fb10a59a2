package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chimeraproto/chimera/internal/config"
	"github.com/chimeraproto/chimera/internal/core"
	"github.com/chimeraproto/chimera/pkg/log"
	"github.com/chimeraproto/chimera/pkg/retry"
)

const (
	localAccount      = "cli-local"
	localWorkspace    = "workspace-cli"
	localConversation = "conv-cli"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat against the configured model",
	Long:  `Runs the full pipeline locally: context assembly, model resolution, dispatch and automatic memory extraction, backed by a local SQLite database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		appCfg := config.NewAppConfig(ctx)
		provCfg := config.NewProviderConfig(ctx)

		eng, err := newEngine(ctx, appCfg, provCfg)
		if err != nil {
			return err
		}

		logger := log.FromCtx(ctx)
		logger.Info().Str("model", provCfg.Model).Msg("chat started, type 'exit' to quit")

		// Transport failures are worth one more try; auth and upstream
		// failures are not.
		retrier := retry.NewDefaultRetrier()

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(">>> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" {
				return nil
			}

			var result core.DispatchResult
			err := retrier.Do(ctx, func() error {
				var sendErr error
				result, sendErr = eng.SendMessage(ctx, localAccount, localWorkspace, localConversation, provCfg.Model, line)
				if sendErr != nil {
					return sendErr
				}
				if result.ErrorKind == core.ErrorKindTransport || result.ErrorKind == core.ErrorKindTimeout {
					return fmt.Errorf("%s: %s", result.ErrorKind, result.ErrorDetail)
				}
				return nil
			})
			if err != nil {
				logger.Error().Err(err).Msg("send failed")
				continue
			}

			if !result.Succeeded() {
				fmt.Printf("[%s error: %s] %s\n", result.Provider, result.ErrorKind, result.ErrorDetail)
				continue
			}
			fmt.Println(result.Reply)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
