package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"dungeon_schedule_bot/internal/app"
	"dungeon_schedule_bot/internal/domain/event"
	"dungeon_schedule_bot/internal/infra/config"
	idb "dungeon_schedule_bot/internal/infra/database"
	"dungeon_schedule_bot/internal/infra/discord"
	"dungeon_schedule_bot/internal/infra/logger"
	"dungeon_schedule_bot/internal/infra/scheduler"
)

func main() {
	fmt.Println("Dungeon Schedule Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.Environment)
	log := logger.Get()
	log.Infof("Configuration loaded. Environment: %s, RefreshInterval: %s", cfg.Environment, cfg.RefreshInterval)

	// Validate the static event table before touching the network.
	rules := event.DefaultSchedule()
	clock := event.NewClock()
	for _, rule := range rules {
		if err := clock.Validate(rule); err != nil {
			log.Fatalf("FATAL: Invalid event schedule: %v", err)
		}
	}

	// State store for recovery across restarts.
	db, err := idb.NewSQLiteConnection(cfg.StateDBPath)
	if err != nil {
		log.Fatalf("FATAL: Could not open state store: %v", err)
	}
	defer db.Close()
	log.Info("State store opened.")

	pingRepo := idb.NewSQLitePingRepository(db)
	artifactRepo := idb.NewSQLiteArtifactRepository(db)

	// Discord session.
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("FATAL: Could not create Discord session: %v", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	if err := session.Open(); err != nil {
		log.Fatalf("FATAL: Could not connect to Discord. The bot token may be invalid: %v", err)
	}
	defer session.Close()
	log.Infof("Logged in as %s (ID: %s)", session.State.User.Username, session.State.User.ID)

	if _, err := session.Guild(cfg.GuildID); err != nil {
		log.Fatalf("FATAL: Bot is not in the server with ID %s. Please invite it first: %v", cfg.GuildID, err)
	}

	channelSink := discord.NewSessionAdapter(session, cfg.ChannelID)

	janitor := app.NewPingJanitor(channelSink, pingRepo, log)
	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), 10*time.Second)
	err = janitor.Restore(restoreCtx)
	cancelRestore()
	if err != nil {
		log.WithError(err).Warn("Could not restore pending pings; stale ping messages from a previous run may linger.")
	}

	notifService := app.NewEventNotificationService(channelSink, janitor, cfg.NotifierRoleID, log)

	classifier := event.NewClassifier(clock, log)
	reconciler := app.NewDisplayReconciler(
		channelSink,
		artifactRepo,
		classifier,
		janitor,
		rules,
		cfg.RefreshInterval,
		cfg.HistoryScanLimit,
		log,
	)
	reconciler.Start()
	log.Info("Display reconciler started.")

	notifScheduler := scheduler.NewNotificationScheduler(notifService, rules, log)
	if err := notifScheduler.Start(); err != nil {
		reconciler.Stop()
		log.Fatalf("FATAL: Could not start notification scheduler: %v", err)
	}

	log.Info("Application setup complete.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	notifScheduler.Stop()
	reconciler.Stop()
	log.Info("Application shut down gracefully.")
}
