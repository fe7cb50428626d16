// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ParseModeStrict  = "strict"
	ParseModeLenient = "lenient"
)

type Config struct {
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	//Site
	BaseURL string `yaml:"base_url"`
	//Search criteria
	MyLevel         float64  `yaml:"my_level"`
	MinPartnerLevel float64  `yaml:"min_partner_level"`
	ScanWindowDays  int      `yaml:"scan_window_days"`
	TargetDuration  int      `yaml:"target_duration"`
	ExcludedPlayers []string `yaml:"excluded_players"`
	//Behavior on unexpected roster layout: strict aborts the run, lenient
	//skips the match
	ParseMode string `yaml:"parse_mode"`
	//Paths
	CachePath string `yaml:"cache_path"`
	ExportDir string `yaml:"export_dir"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	//Set default values if not set
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://urbanpadellausanne.matchpoint.com.es"
	}

	if cfg.ScanWindowDays == 0 {
		cfg.ScanWindowDays = 5
	}

	if cfg.TargetDuration == 0 {
		cfg.TargetDuration = 90
	}

	if cfg.ParseMode == "" {
		cfg.ParseMode = ParseModeStrict
	}

	if cfg.CachePath == "" {
		cfg.CachePath = ".cache/seen_matches.json"
	}

	if cfg.ExportDir == "" {
		cfg.ExportDir = "exports"
	}

	//Validate required fields
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	if cfg.TelegramChatID == 0 {
		log.Fatal("TELEGRAM_CHAT_ID is required")
	}

	if cfg.MyLevel == 0 {
		log.Fatal("my_level is required")
	}

	if cfg.ParseMode != ParseModeStrict && cfg.ParseMode != ParseModeLenient {
		log.Fatalf("Invalid parse_mode %q (want strict or lenient)", cfg.ParseMode)
	}

	return cfg
}
