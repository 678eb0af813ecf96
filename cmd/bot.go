package main

import (
	"HamqadamBot/configs"
	"HamqadamBot/configs/loader"
	"HamqadamBot/configs/loader/dotEnvLoader"
	"HamqadamBot/configs/loader/yamlLoader"
	"HamqadamBot/internal/delivery/ops"
	"HamqadamBot/internal/delivery/telegram"
	"HamqadamBot/internal/localization"
	"HamqadamBot/internal/repository/SessionStates"
	"HamqadamBot/internal/repository/coreapi"
	"HamqadamBot/internal/repository/meteredRepo"
	"HamqadamBot/internal/usecase"
	"HamqadamBot/pkg/logger"
	"HamqadamBot/pkg/prometheus"
	"HamqadamBot/pkg/userqueue"
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 5 * time.Second

var (
	env        string
	configPath string
	dotEnvPath []string
)

var rootCmd = &cobra.Command{
	Use:   "hamqadam-bot",
	Short: "Telegram bot for drafting Hamqadam posts",
	Long: `hamqadam-bot lets Telegram users log in to Hamqadam, compose draft posts
step by step and list their drafts.

Configuration comes from a YAML file (--config) or .env files (--dotenv);
process environment variables override both.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", os.Getenv("ENV"), "environment: local, dev or prod")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringSliceVar(&dotEnvPath, "dotenv", nil, ".env files to read when --config is not set")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	const op = "main.run"

	var configLoader loader.ConfigLoader = dotEnvLoader.DotEnvLoader{Files: dotEnvPath}
	if configPath != "" {
		configLoader = yamlLoader.YAMLLoader{Path: configPath}
	}
	cfg, err := configs.Load(configLoader, env)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg)
	prometheus.Init()

	catalog, err := localization.New(cfg.Bot.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	repo := meteredRepo.NewMeteredRepo(coreapi.NewRepo(cfg.Core, log), log)
	sessions := SessionStates.NewSessionStates()
	queue := userqueue.New(log)

	api, err := telegram.NewAPI(cfg.TG)
	if err != nil {
		log.Error("failed to create bot", "error", err)
		return err
	}
	sender := telegram.NewSender(api, log)

	flow := usecase.NewDraftFlow(repo, sender, catalog, log)
	account := usecase.NewAccount(repo, sender, catalog, log, cfg.Bot.DraftsPageSize)
	dispatcher := usecase.NewDispatcher(sessions, flow, account, sender, catalog, log)
	bot := telegram.NewBot(api, api, dispatcher, queue, cfg.TG, log)
	opsServer := ops.NewServer(cfg.Metrics, sessions, queue, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(opsServer.Start)
	g.Go(func() error {
		log.Info("starting bot", "account", api.Self.UserName)
		return bot.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down bot")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := bot.Stop(shutdownCtx); err != nil {
			log.Error("bot stopped with pending events", "error", err)
		}
		return opsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("service stopped")
	return nil
}
