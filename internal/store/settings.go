package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/devdussey/Dussbot-sub002/internal/config"
)

// WordRushSettings are the per-guild knobs for WordRush
type WordRushSettings struct {
	TurnSeconds int `json:"turn_seconds"`
	TargetWins  int `json:"target_wins"`
}

// SentenceRushSettings are the per-guild knobs for SentenceRush
type SentenceRushSettings struct {
	TurnSeconds int `json:"turn_seconds"`
	MinWords    int `json:"min_words"`
	MaxWords    int `json:"max_words"`
}

// GuildSettings is one guild's entry in settings.json
type GuildSettings struct {
	WordRush     WordRushSettings     `json:"word_rush"`
	SentenceRush SentenceRushSettings `json:"sentence_rush"`
}

// settingsFile is the on-disk shape of the whole store
type settingsFile struct {
	Guilds map[string]GuildSettings `json:"guilds"`
}

// SettingsStore is the JSON-backed per-guild settings store. Reads return a
// clamped copy; writes replace the whole file.
type SettingsStore struct {
	path     string
	mu       sync.RWMutex
	guilds   map[string]GuildSettings
	defaults GuildSettings
}

// NewSettingsStore loads (or creates with defaults) the settings file
func NewSettingsStore(path string, defaults GuildSettings) (*SettingsStore, error) {
	s := &SettingsStore{
		path:     path,
		guilds:   make(map[string]GuildSettings),
		defaults: defaults,
	}

	if err := ensureJSONFile(path, settingsFile{Guilds: map[string]GuildSettings{}}); err != nil {
		return nil, fmt.Errorf("failed to create settings file: %v", err)
	}
	if err := s.reload(); err != nil {
		return nil, err
	}

	log.Printf("✅ Settings store loaded (%d guilds) from %s", len(s.guilds), path)
	return s, nil
}

// reload re-reads the whole file into memory
func (s *SettingsStore) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %v", err)
	}

	var file settingsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse settings file: %v", err)
	}
	if file.Guilds == nil {
		file.Guilds = map[string]GuildSettings{}
	}

	s.mu.Lock()
	s.guilds = file.Guilds
	s.mu.Unlock()
	return nil
}

// Path returns the backing file path (watched for hot reload)
func (s *SettingsStore) Path() string {
	return s.path
}

// Guild returns a guild's settings with defaults filled in and every value
// clamped into its bounds. Settings are read once at game start, never live.
func (s *SettingsStore) Guild(guildID string) GuildSettings {
	s.mu.RLock()
	entry, ok := s.guilds[guildID]
	s.mu.RUnlock()

	if !ok {
		entry = s.defaults
	}
	return clampSettings(entry, s.defaults)
}

// SetWordRush updates one guild's WordRush settings and persists the store
func (s *SettingsStore) SetWordRush(guildID string, wr WordRushSettings) (GuildSettings, error) {
	s.mu.Lock()
	entry, ok := s.guilds[guildID]
	if !ok {
		entry = s.defaults
	}
	entry.WordRush = wr
	entry = clampSettings(entry, s.defaults)
	s.guilds[guildID] = entry
	err := s.saveLocked()
	s.mu.Unlock()
	return entry, err
}

// SetSentenceRush updates one guild's SentenceRush settings and persists
func (s *SettingsStore) SetSentenceRush(guildID string, sr SentenceRushSettings) (GuildSettings, error) {
	s.mu.Lock()
	entry, ok := s.guilds[guildID]
	if !ok {
		entry = s.defaults
	}
	entry.SentenceRush = sr
	entry = clampSettings(entry, s.defaults)
	s.guilds[guildID] = entry
	err := s.saveLocked()
	s.mu.Unlock()
	return entry, err
}

// saveLocked writes the whole store back to disk. Caller holds s.mu.
func (s *SettingsStore) saveLocked() error {
	return writeJSONFile(s.path, settingsFile{Guilds: s.guilds})
}

// clampSettings bounds every value, filling zeroes from the defaults
func clampSettings(entry, defaults GuildSettings) GuildSettings {
	if entry.WordRush.TurnSeconds == 0 {
		entry.WordRush.TurnSeconds = defaults.WordRush.TurnSeconds
	}
	if entry.WordRush.TargetWins == 0 {
		entry.WordRush.TargetWins = defaults.WordRush.TargetWins
	}
	if entry.SentenceRush.TurnSeconds == 0 {
		entry.SentenceRush.TurnSeconds = defaults.SentenceRush.TurnSeconds
	}
	if entry.SentenceRush.MinWords == 0 {
		entry.SentenceRush.MinWords = defaults.SentenceRush.MinWords
	}
	if entry.SentenceRush.MaxWords == 0 {
		entry.SentenceRush.MaxWords = defaults.SentenceRush.MaxWords
	}

	entry.WordRush.TurnSeconds = config.Clamp(entry.WordRush.TurnSeconds, config.TurnSecondsMin, config.TurnSecondsMax)
	entry.WordRush.TargetWins = config.Clamp(entry.WordRush.TargetWins, config.TargetWinsMin, config.TargetWinsMax)
	entry.SentenceRush.TurnSeconds = config.Clamp(entry.SentenceRush.TurnSeconds, config.TurnSecondsMin, config.TurnSecondsMax)
	entry.SentenceRush.MinWords = config.Clamp(entry.SentenceRush.MinWords, config.SentenceWordsMin, config.SentenceWordsMax)
	entry.SentenceRush.MaxWords = config.Clamp(entry.SentenceRush.MaxWords, entry.SentenceRush.MinWords, config.SentenceWordsMax)

	return entry
}
