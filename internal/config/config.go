package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the shared configuration for the bot
type Config struct {
	DiscordToken string

	// Guild for instant slash-command registration (optional; empty = global)
	CommandGuildID string

	// Storage paths
	DataDir       string
	HistoryDBDir  string
	SentencesFile string

	// Lobby settings
	LobbySeconds     int
	LobbyTickSeconds int
	MinPlayers       int
	MaxPlayers       int

	// Default per-guild game settings (admins can override with /config)
	DefaultTurnSeconds int
	DefaultTargetWins  int
	DefaultMinWords    int
	DefaultMaxWords    int

	// Hot reload of settings.json edited on disk
	EnableSettingsWatcher bool
}

// Turn duration bounds enforced on every settings read
const (
	TurnSecondsMin = 5
	TurnSecondsMax = 60

	TargetWinsMin = 1
	TargetWinsMax = 20

	SentenceWordsMin = 3
	SentenceWordsMax = 8
)

// Global instance
var AppConfig *Config

// Load initializes and returns the application configuration
func Load() *Config {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	AppConfig = &Config{
		DiscordToken:   getEnv("DISCORD_TOKEN", ""),
		CommandGuildID: getEnv("GUILD_ID", ""),

		DataDir:       getEnv("DATA_DIR", "data"),
		HistoryDBDir:  getEnv("HISTORY_DB_DIR", "database"),
		SentencesFile: getEnv("SENTENCES_FILE", ""),

		LobbySeconds:     getEnvInt("LOBBY_SECONDS", 30),
		LobbyTickSeconds: getEnvInt("LOBBY_TICK_SECONDS", 5),
		MinPlayers:       getEnvInt("MIN_PLAYERS", 2),
		MaxPlayers:       getEnvInt("MAX_PLAYERS", 6),

		DefaultTurnSeconds: getEnvInt("DEFAULT_TURN_SECONDS", 20),
		DefaultTargetWins:  getEnvInt("DEFAULT_TARGET_WINS", 3),
		DefaultMinWords:    getEnvInt("DEFAULT_MIN_WORDS", 3),
		DefaultMaxWords:    getEnvInt("DEFAULT_MAX_WORDS", 6),

		EnableSettingsWatcher: getEnvBool("ENABLE_SETTINGS_WATCHER", true),
	}

	// Validate configuration
	if AppConfig.DiscordToken == "" {
		log.Fatal("Missing required environment variable: DISCORD_TOKEN")
	}

	// Keep the defaults inside the same bounds /config enforces
	AppConfig.DefaultTurnSeconds = Clamp(AppConfig.DefaultTurnSeconds, TurnSecondsMin, TurnSecondsMax)
	AppConfig.DefaultTargetWins = Clamp(AppConfig.DefaultTargetWins, TargetWinsMin, TargetWinsMax)
	AppConfig.DefaultMinWords = Clamp(AppConfig.DefaultMinWords, SentenceWordsMin, SentenceWordsMax)
	AppConfig.DefaultMaxWords = Clamp(AppConfig.DefaultMaxWords, AppConfig.DefaultMinWords, SentenceWordsMax)
	if AppConfig.MinPlayers < 2 {
		AppConfig.MinPlayers = 2
	}
	if AppConfig.MaxPlayers < AppConfig.MinPlayers {
		AppConfig.MaxPlayers = AppConfig.MinPlayers
	}
	if AppConfig.LobbyTickSeconds < 1 {
		AppConfig.LobbyTickSeconds = 5
	}

	// Create the data directory up front so stores can assume it exists
	if err := os.MkdirAll(AppConfig.DataDir, 0755); err != nil {
		log.Printf("Warning: Could not create data directory: %v", err)
	}

	// Log configuration
	logConfiguration()

	return AppConfig
}

func logConfiguration() {
	log.Printf("🔧 Configuration loaded:")
	log.Printf("   Data Dir: %s", AppConfig.DataDir)
	log.Printf("   History DB Dir: %s", AppConfig.HistoryDBDir)
	log.Printf("   Lobby Window: %d seconds (tick every %ds)", AppConfig.LobbySeconds, AppConfig.LobbyTickSeconds)
	log.Printf("   Players: %d-%d per game", AppConfig.MinPlayers, AppConfig.MaxPlayers)
	log.Printf("   Default Turn Window: %d seconds", AppConfig.DefaultTurnSeconds)
	log.Printf("   Default Target Wins: %d", AppConfig.DefaultTargetWins)
	log.Printf("   Default Sentence Length: %d-%d words", AppConfig.DefaultMinWords, AppConfig.DefaultMaxWords)
	log.Printf("   Settings Watcher: %v", AppConfig.EnableSettingsWatcher)
	if AppConfig.CommandGuildID != "" {
		log.Printf("   Command Guild: %s", AppConfig.CommandGuildID)
	} else {
		log.Printf("   Command Guild: (global registration)")
	}
}

// SettingsPath returns the path of the per-guild settings store
func (c *Config) SettingsPath() string {
	return filepath.Join(c.DataDir, "settings.json")
}

// StatsPath returns the path of the per-guild stats store
func (c *Config) StatsPath() string {
	return filepath.Join(c.DataDir, "stats.json")
}

// LobbyWindow returns the lobby join window as a duration
func (c *Config) LobbyWindow() time.Duration {
	return time.Duration(c.LobbySeconds) * time.Second
}

// LobbyTick returns the countdown re-render interval
func (c *Config) LobbyTick() time.Duration {
	return time.Duration(c.LobbyTickSeconds) * time.Second
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true"
	}
	return defaultValue
}
