package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/config"
	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/discord"
	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/feed"
	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/logger"
	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/storage"
	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/tracker"
)

func main() {
	logger.Init()
	cfg := config.Load()

	log.Println("Starting Cupid killfeed...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	db, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	if err := session.Open(); err != nil {
		log.Fatalf("Failed to connect to Discord: %v", err)
	}
	defer session.Close()
	log.Println("Discord session connected")

	seen := feed.NewSeenCache(cfg.SeenCacheCapacity)
	if err := seen.LoadFromFile(cfg.SeenCachePath); err != nil {
		log.Printf("Warning: could not load seen-line cache: %v", err)
	} else if seen.Size() > 0 {
		log.Printf("Loaded %d seen-line entries", seen.Size())
	}

	sender := discord.NewSender(session,
		time.Duration(cfg.MessageDelayMS)*time.Millisecond, cfg.SendRetries)

	dispatcher := feed.NewDispatcher(sender,
		storage.NewBountyRepository(db),
		storage.NewStatsRepository(db),
		tracker.New())

	engine := feed.NewEngine(
		storage.NewGuildRepository(db),
		storage.NewZoneRepository(db),
		dispatcher,
		seen,
		feed.Options{
			PollInterval:  time.Duration(cfg.PollIntervalSeconds) * time.Second,
			RemoteTimeout: time.Duration(cfg.RemoteTimeoutSeconds) * time.Second,
			MaxTransfers:  cfg.MaxRemoteTransfers,
		})

	go engine.Run(ctx)
	go autoSaveSeen(ctx, seen, cfg.SeenCachePath)

	sig := <-sigChan
	log.Printf("Received %v, shutting down...", sig)
	cancel()

	if err := seen.SaveToFile(cfg.SeenCachePath); err != nil {
		log.Printf("Warning: could not save seen-line cache: %v", err)
	}
	log.Println("Shutdown complete")
}

// autoSaveSeen persists the dedupe cache periodically so a crash loses at
// most a few minutes of dedupe history, and prunes stale entries.
func autoSaveSeen(ctx context.Context, seen *feed.SeenCache, path string) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			seen.CleanOldEntries(7 * 24 * time.Hour)
			if err := seen.SaveToFile(path); err != nil {
				log.Printf("Error saving seen-line cache: %v", err)
			}
		}
	}
}
