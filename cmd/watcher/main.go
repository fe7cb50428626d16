package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"go-padel-watcher/internal/cache"
	"go-padel-watcher/internal/config"
	"go-padel-watcher/internal/export"
	"go-padel-watcher/internal/fetch"
	"go-padel-watcher/internal/filter"
	"go-padel-watcher/internal/model"
	"go-padel-watcher/internal/scraper"
	"go-padel-watcher/internal/telegram"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Scanning %d days ahead, level %.2f.", cfg.ScanWindowDays, cfg.MyLevel)

	//init telegram bot
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Fatalf("❌ Failed to init Telegram Bot: %v", err)
	}
	log.Println("🤖 Telegram Bot initialized.")

	//wire the pipeline
	client := fetch.NewClient(cfg.BaseURL)
	resolver := scraper.NewResolver(client)
	builder := scraper.NewBuilder(resolver)
	scanner := scraper.NewScanner(client, builder, cfg.ScanWindowDays, cfg.ParseMode == config.ParseModeStrict)

	log.Println("🚀 Starting scan...")
	matches, err := scanner.Scan()
	if err != nil {
		_ = bot.SendError(err)
		log.Fatalf("❌ Scan aborted: %v", err)
	}
	log.Printf("📦 Total matches scanned: %d", len(matches))

	//raw dump
	rawPath := filepath.Join(cfg.ExportDir, "matches_raw.csv")
	if err := export.WriteMatches(rawPath, matches); err != nil {
		log.Printf("⚠️ Failed to write %s: %v", rawPath, err)
	}

	pipeline := filter.Pipeline{
		filter.OpenSlots(),
		filter.InFuture(time.Now),
		filter.Duration(cfg.TargetDuration),
		filter.LevelBand(cfg.MyLevel),
		filter.PartnerLevel(cfg.MinPartnerLevel),
		filter.ExcludedNames(cfg.ExcludedPlayers),
	}

	var accepted []model.Match
	for i := range matches {
		if pipeline.Accept(&matches[i]) {
			accepted = append(accepted, matches[i])
		}
	}
	log.Printf("🔍 Filtered: %d/%d matches", len(accepted), len(matches))

	//filtered dump
	filteredPath := filepath.Join(cfg.ExportDir, "matches_filtered.csv")
	if err := export.WriteMatches(filteredPath, accepted); err != nil {
		log.Printf("⚠️ Failed to write %s: %v", filteredPath, err)
	}

	//notify each match exactly once across runs
	seen := cache.New(cfg.CachePath)
	notified := 0
	for i := range accepted {
		m := &accepted[i]
		if seen.HasSeen(m) {
			continue
		}
		log.Printf("  🔔 %s", m)
		if err := bot.SendMatch(m); err != nil {
			log.Printf("⚠️ Failed to send match to Telegram: %v", err)
		} else {
			notified++
		}
		seen.Add(m)
	}

	seen.PruneExpired()
	if err := seen.Persist(); err != nil {
		log.Printf("⚠️ Failed to persist cache: %v", err)
	}
	log.Printf("💾 Cache persisted (%d entries)", seen.Len())

	if notified > 0 {
		status := fmt.Sprintf("Found %d new matches (%d accepted of %d scanned).", notified, len(accepted), len(matches))
		if err := bot.SendStatus(status); err != nil {
			log.Printf("⚠️ Failed to send status to Telegram: %v", err)
		}
	}

	log.Println("🏁 Execution finished.")
}
