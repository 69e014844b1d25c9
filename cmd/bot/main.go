// cmd/bot/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"wwg-bot/internal/botlog"
	"wwg-bot/internal/config"
	"wwg-bot/internal/dashboard"
	"wwg-bot/internal/discord"
	"wwg-bot/internal/engine"
	"wwg-bot/internal/gateway"
	"wwg-bot/internal/modmail"
	"wwg-bot/internal/sched"
	"wwg-bot/internal/settings"
	"wwg-bot/pkg/jobmgr"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	cfg, err := config.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration failed")
	}
	loc := cfg.Location()

	for _, p := range []string{cfg.SettingsPath, cfg.LogDBPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			logger.Fatal().Err(err).Msg("data directory creation failed")
		}
	}

	store, err := settings.New(cfg.SettingsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("settings store failed")
	}
	defer store.Close()

	blog, err := botlog.Open(cfg.LogDBPath, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("botlog open failed")
	}
	defer blog.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("session creation failed")
	}

	jm := jobmgr.NewManager(func(msg string) {
		logger.Debug().Str("job", msg).Msg("job status")
	})
	defer jm.StopAll()

	gw := gateway.NewDiscord(ctx, session, logger)
	eng := engine.New(store, gw, blog, jm, loc, logger)
	relay := modmail.New(session, store, blog, logger)
	bot := discord.NewBot(session, gw, eng, relay, logger)

	if err := bot.Open(); err != nil {
		logger.Fatal().Err(err).Msg("gateway connection failed")
	}
	defer bot.Close()

	scheduler := sched.New(eng, store, jm, loc, bot.Ready(), logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("scheduler start failed")
	}

	dash := dashboard.New(store, blog, bot, cfg.DashboardPassword, logger)
	go func() {
		if err := dash.Run(ctx, cfg.DashboardAddr); err != nil {
			logger.Error().Err(err).Msg("dashboard stopped")
		}
	}()

	logger.Info().Msg("bot running, press ctrl+c to exit")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	logger.Info().Str("signal", s.String()).Msg("shutting down")

	cancel()
	jm.StopAll()
	logger.Info().Msg("bot exited cleanly")
}
