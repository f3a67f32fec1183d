package cmd

import (
	"context"
	"log"

	applog "linkup_server/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Dispatch due follow-ups once and exit",
	Run: func(_ *cobra.Command, _ []string) {
		poll()
	},
}

func init() {
	rootCmd.AddCommand(pollCmd)
}

// poll is the one-shot form of the dispatch loop, meant for cron-style
// scheduling instead of the in-process poller.
func poll() {
	ctx := context.Background()

	logger, err := applog.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	cfg, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	deps, err := buildServices(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("building services", zap.Error(err))
	}

	sent, err := deps.followUps.DispatchDue(ctx)
	if err != nil {
		logger.Fatal("dispatching due follow-ups", zap.Error(err))
	}

	logger.Info("dispatched due follow-ups", zap.Int("sent", sent))
}
