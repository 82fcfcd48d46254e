package store

import (
	"path/filepath"
	"testing"

	"github.com/devdussey/Dussbot-sub002/internal/config"
)

func testDefaults() GuildSettings {
	return GuildSettings{
		WordRush:     WordRushSettings{TurnSeconds: 20, TargetWins: 3},
		SentenceRush: SentenceRushSettings{TurnSeconds: 20, MinWords: 3, MaxWords: 6},
	}
}

func TestSettingsStoreDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := NewSettingsStore(path, testDefaults())
	if err != nil {
		t.Fatalf("NewSettingsStore failed: %v", err)
	}

	// Unknown guild gets the defaults
	got := s.Guild("guild-1")
	if got.WordRush.TurnSeconds != 20 || got.WordRush.TargetWins != 3 {
		t.Errorf("Expected default WordRush settings, got %+v", got.WordRush)
	}
	if got.SentenceRush.MinWords != 3 || got.SentenceRush.MaxWords != 6 {
		t.Errorf("Expected default SentenceRush settings, got %+v", got.SentenceRush)
	}
}

func TestSettingsStoreClamping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := NewSettingsStore(path, testDefaults())
	if err != nil {
		t.Fatalf("NewSettingsStore failed: %v", err)
	}

	// Out-of-bounds values are clamped on write
	got, err := s.SetWordRush("guild-1", WordRushSettings{TurnSeconds: 500, TargetWins: 100})
	if err != nil {
		t.Fatalf("SetWordRush failed: %v", err)
	}
	if got.WordRush.TurnSeconds != config.TurnSecondsMax {
		t.Errorf("Expected turn seconds clamped to %d, got %d", config.TurnSecondsMax, got.WordRush.TurnSeconds)
	}
	if got.WordRush.TargetWins != config.TargetWinsMax {
		t.Errorf("Expected target wins clamped to %d, got %d", config.TargetWinsMax, got.WordRush.TargetWins)
	}

	// MaxWords can never drop below MinWords
	got, err = s.SetSentenceRush("guild-1", SentenceRushSettings{TurnSeconds: 1, MinWords: 5, MaxWords: 4})
	if err != nil {
		t.Fatalf("SetSentenceRush failed: %v", err)
	}
	if got.SentenceRush.TurnSeconds != config.TurnSecondsMin {
		t.Errorf("Expected turn seconds clamped to %d, got %d", config.TurnSecondsMin, got.SentenceRush.TurnSeconds)
	}
	if got.SentenceRush.MaxWords < got.SentenceRush.MinWords {
		t.Errorf("Expected max words >= min words, got %+v", got.SentenceRush)
	}
}

func TestSettingsStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := NewSettingsStore(path, testDefaults())
	if err != nil {
		t.Fatalf("NewSettingsStore failed: %v", err)
	}

	if _, err := s.SetWordRush("guild-1", WordRushSettings{TurnSeconds: 30, TargetWins: 5}); err != nil {
		t.Fatalf("SetWordRush failed: %v", err)
	}

	// A fresh store over the same file sees the write
	s2, err := NewSettingsStore(path, testDefaults())
	if err != nil {
		t.Fatalf("Reopening settings store failed: %v", err)
	}
	got := s2.Guild("guild-1")
	if got.WordRush.TurnSeconds != 30 || got.WordRush.TargetWins != 5 {
		t.Errorf("Expected persisted settings, got %+v", got.WordRush)
	}
}

func TestStatsMonotonicity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	s, err := NewStatsStore(path)
	if err != nil {
		t.Fatalf("NewStatsStore failed: %v", err)
	}

	participants := []string{"alice", "bob", "carol"}
	if err := s.RecordOutcome("guild-1", "bob", participants); err != nil {
		t.Fatalf("RecordOutcome failed: %v", err)
	}

	// Only the winner's wins counter moves; everyone's gamesPlayed moves
	for _, userID := range participants {
		entry := s.User("guild-1", userID)
		if entry.GamesPlayed != 1 {
			t.Errorf("Expected %s gamesPlayed=1, got %d", userID, entry.GamesPlayed)
		}
		wantWins := 0
		if userID == "bob" {
			wantWins = 1
		}
		if entry.Wins != wantWins {
			t.Errorf("Expected %s wins=%d, got %d", userID, wantWins, entry.Wins)
		}
		if entry.LastPlayedAt == 0 {
			t.Errorf("Expected %s lastPlayedAt to be set", userID)
		}
	}

	// Non-participants are untouched
	if entry := s.User("guild-1", "dave"); entry.GamesPlayed != 0 || entry.Wins != 0 {
		t.Errorf("Expected dave untouched, got %+v", entry)
	}

	// Other guilds are untouched
	if entry := s.User("guild-2", "bob"); entry.GamesPlayed != 0 {
		t.Errorf("Expected guild-2 untouched, got %+v", entry)
	}

	// A second game accumulates
	if err := s.RecordOutcome("guild-1", "alice", []string{"alice", "bob"}); err != nil {
		t.Fatalf("RecordOutcome failed: %v", err)
	}
	if entry := s.User("guild-1", "bob"); entry.Wins != 1 || entry.GamesPlayed != 2 {
		t.Errorf("Expected bob wins=1 gamesPlayed=2, got %+v", entry)
	}
	if entry := s.User("guild-1", "alice"); entry.Wins != 1 || entry.GamesPlayed != 2 {
		t.Errorf("Expected alice wins=1 gamesPlayed=2, got %+v", entry)
	}
}

func TestStatsPersistenceAndTop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	s, err := NewStatsStore(path)
	if err != nil {
		t.Fatalf("NewStatsStore failed: %v", err)
	}

	s.RecordOutcome("guild-1", "alice", []string{"alice", "bob"})
	s.RecordOutcome("guild-1", "alice", []string{"alice", "bob"})
	s.RecordOutcome("guild-1", "bob", []string{"alice", "bob", "carol"})

	// Reopen from disk
	s2, err := NewStatsStore(path)
	if err != nil {
		t.Fatalf("Reopening stats store failed: %v", err)
	}

	top := s2.Top("guild-1", 2)
	if len(top) != 2 {
		t.Fatalf("Expected 2 ranked entries, got %d", len(top))
	}
	if top[0].UserID != "alice" || top[0].Wins != 2 {
		t.Errorf("Expected alice first with 2 wins, got %s (%d)", top[0].UserID, top[0].Wins)
	}
	if top[1].UserID != "bob" || top[1].Wins != 1 {
		t.Errorf("Expected bob second with 1 win, got %s (%d)", top[1].UserID, top[1].Wins)
	}
}
