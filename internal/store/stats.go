package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"
)

// StatsEntry is one user's counters inside a guild. Created on first game
// completion, updated forever, never deleted.
type StatsEntry struct {
	Wins         int   `json:"wins"`
	GamesPlayed  int   `json:"games_played"`
	LastPlayedAt int64 `json:"last_played_at"` // epoch ms
}

// RankedEntry is a stats entry paired with its user for leaderboards
type RankedEntry struct {
	UserID string
	StatsEntry
}

// statsFile is the on-disk shape: guild -> user -> entry
type statsFile struct {
	Guilds map[string]map[string]*StatsEntry `json:"guilds"`
}

// StatsStore is the JSON-backed win/play counter store
type StatsStore struct {
	path   string
	mu     sync.RWMutex
	guilds map[string]map[string]*StatsEntry
}

// NewStatsStore loads (or creates) the stats file
func NewStatsStore(path string) (*StatsStore, error) {
	s := &StatsStore{
		path:   path,
		guilds: make(map[string]map[string]*StatsEntry),
	}

	if err := ensureJSONFile(path, statsFile{Guilds: map[string]map[string]*StatsEntry{}}); err != nil {
		return nil, fmt.Errorf("failed to create stats file: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats file: %v", err)
	}
	var file statsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse stats file: %v", err)
	}
	if file.Guilds != nil {
		s.guilds = file.Guilds
	}

	log.Printf("✅ Stats store loaded (%d guilds) from %s", len(s.guilds), path)
	return s, nil
}

// RecordOutcome bumps gamesPlayed (and lastPlayedAt) for every participant
// and wins for the winner only, then replaces the whole file on disk.
func (s *StatsStore) RecordOutcome(guildID, winnerID string, participants []string) error {
	now := time.Now().UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()

	guild, ok := s.guilds[guildID]
	if !ok {
		guild = make(map[string]*StatsEntry)
		s.guilds[guildID] = guild
	}

	for _, userID := range participants {
		entry, ok := guild[userID]
		if !ok {
			entry = &StatsEntry{}
			guild[userID] = entry
		}
		entry.GamesPlayed++
		entry.LastPlayedAt = now
		if userID == winnerID {
			entry.Wins++
		}
	}

	return writeJSONFile(s.path, statsFile{Guilds: s.guilds})
}

// User returns a copy of one user's entry (zero entry if unknown)
func (s *StatsStore) User(guildID, userID string) StatsEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if guild, ok := s.guilds[guildID]; ok {
		if entry, ok := guild[userID]; ok {
			return *entry
		}
	}
	return StatsEntry{}
}

// Top returns the guild's entries sorted by wins (ties broken by games
// played, then user ID for stable output), capped at limit
func (s *StatsStore) Top(guildID string, limit int) []RankedEntry {
	s.mu.RLock()
	guild := s.guilds[guildID]
	ranked := make([]RankedEntry, 0, len(guild))
	for userID, entry := range guild {
		ranked = append(ranked, RankedEntry{UserID: userID, StatsEntry: *entry})
	}
	s.mu.RUnlock()

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Wins != ranked[j].Wins {
			return ranked[i].Wins > ranked[j].Wins
		}
		if ranked[i].GamesPlayed != ranked[j].GamesPlayed {
			return ranked[i].GamesPlayed > ranked[j].GamesPlayed
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
