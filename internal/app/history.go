package app

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryDB keeps the permanent record of finished games in SQLite. The JSON
// stats file answers "who is winning"; this answers "what was played when".
type HistoryDB struct {
	db *sql.DB
}

// HistoryEntry is one finished game row
type HistoryEntry struct {
	ID         string
	Kind       string
	GuildID    string
	ChannelID  string
	WinnerID   string
	Players    []string
	Rounds     int
	FinishedAt time.Time
}

// OpenHistoryDB opens (creating if needed) the game history database
func OpenHistoryDB(dir string) (*HistoryDB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}

	dbPath := filepath.Join(dir, "games.db")
	connectionString := dbPath + "?_pragma=encoding(UTF8)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	pragmas := []string{
		"PRAGMA temp_store = memory",
		"PRAGMA cache_size = -8000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			log.Printf("Warning: Could not set pragma %s: %v", pragma, err)
		}
	}

	h := &HistoryDB{db: db}
	if err := h.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	log.Printf("✅ Game history database initialized at %s", dbPath)
	return h, nil
}

func (h *HistoryDB) createTables() error {
	_, err := h.db.Exec(`
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			guild_id TEXT NOT NULL,
			channel_id TEXT NOT NULL,
			winner_id TEXT NOT NULL,
			players TEXT NOT NULL,
			settings TEXT NOT NULL,
			rounds INTEGER DEFAULT 0,
			finished_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_games_guild ON games(guild_id, finished_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_games_winner ON games(winner_id)",
	}
	for _, indexSQL := range indexes {
		if _, err := h.db.Exec(indexSQL); err != nil {
			return err
		}
	}
	return nil
}

// RecordGame inserts a finished game
func (h *HistoryDB) RecordGame(g *Game) error {
	reason, winnerID := g.Outcome()
	if reason != ReasonWon {
		return nil
	}

	players, err := json.Marshal(g.Players())
	if err != nil {
		return fmt.Errorf("failed to encode players: %v", err)
	}
	settings, err := json.Marshal(g.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %v", err)
	}

	_, err = h.db.Exec(`
		INSERT INTO games (id, kind, guild_id, channel_id, winner_id, players, settings, rounds, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, g.ID, string(g.Kind), g.GuildID, g.ChannelID, winnerID, string(players), string(settings), g.Rounds(), time.Now().UTC())
	return err
}

// RecentGames returns a guild's latest finished games, newest first
func (h *HistoryDB) RecentGames(guildID string, limit int) ([]HistoryEntry, error) {
	rows, err := h.db.Query(`
		SELECT id, kind, guild_id, channel_id, winner_id, players, rounds, finished_at
		FROM games
		WHERE guild_id = ?
		ORDER BY finished_at DESC
		LIMIT ?
	`, guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		var players string
		if err := rows.Scan(&entry.ID, &entry.Kind, &entry.GuildID, &entry.ChannelID,
			&entry.WinnerID, &players, &entry.Rounds, &entry.FinishedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(players), &entry.Players); err != nil {
			log.Printf("Warning: Bad players payload in game %s: %v", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close shuts the database down
func (h *HistoryDB) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}
