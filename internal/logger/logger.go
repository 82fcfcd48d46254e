package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// ANSI color codes
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"

	// Bold variants
	BoldRed     = "\033[1;31m"
	BoldGreen   = "\033[1;32m"
	BoldYellow  = "\033[1;33m"
	BoldBlue    = "\033[1;34m"
	BoldMagenta = "\033[1;35m"
	BoldCyan    = "\033[1;36m"
	BoldWhite   = "\033[1;37m"
)

// ColoredWriter wraps an io.Writer and adds colors based on content
type ColoredWriter struct {
	out io.Writer
	mu  sync.Mutex
}

var (
	initialized   bool
	initMu        sync.Mutex
	defaultLogger *ColoredWriter
)

// Init sets up colored logging on stdout
func Init() {
	initMu.Lock()
	defer initMu.Unlock()

	if initialized {
		return
	}

	// Create colored writer and set as default log output
	defaultLogger = &ColoredWriter{out: os.Stdout}
	log.SetOutput(defaultLogger)
	log.SetFlags(0) // We'll handle timestamp ourselves

	initialized = true
}

// Write implements io.Writer with color support
func (w *ColoredWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	msg := string(p)
	timestamp := time.Now().Format("2006/01/02 15:04:05")

	// Determine prefix and color based on content
	var prefix, color string

	switch {
	// Status reports (check BEFORE errors to avoid matching "Failed: 0")
	case contains(msg, "Heartbeat", "Status -"):
		prefix = "[STATUS]"
		color = Cyan

	// Errors
	case contains(msg, "ERROR", "error", "Error", "failed", "Failed", "FAILED", "cannot", "Cannot"):
		prefix = "[ERROR]"
		color = Red
	case contains(msg, "FATAL", "fatal", "Fatal"):
		prefix = "[FATAL]"
		color = BoldRed
	case contains(msg, "panic", "Panic", "PANIC"):
		prefix = "[PANIC]"
		color = BoldRed

	// Warnings
	case contains(msg, "WARN", "warn", "Warning", "warning", "⚠"):
		prefix = "[WARN]"
		color = Yellow

	// Success
	case contains(msg, "✅", "success", "Success", "completed", "Completed", "started", "Started", "loaded", "Loaded", "initialized", "Initialized", "registered", "Registered", "saved", "Saved"):
		prefix = "[OK]"
		color = Green

	// Database
	case contains(msg, "database", "Database", "DB", "SQLite", "query", "Query", "history", "History"):
		prefix = "[DB]"
		color = BoldCyan

	// Discord
	case contains(msg, "Discord", "discord", "Bot is ready", "logged in", "slash command"):
		prefix = "[DC]"
		color = BoldBlue

	// Lobby
	case contains(msg, "lobby", "Lobby", "join window"):
		prefix = "[LOBBY]"
		color = BoldGreen

	// Games
	case contains(msg, "WordRush", "SentenceRush", "game", "Game", "turn", "Turn", "round", "Round", "🎮", "🎲"):
		prefix = "[GAME]"
		color = Blue

	// Stats / leaderboard
	case contains(msg, "stats", "Stats", "leaderboard", "Leaderboard", "🏆"):
		prefix = "[STATS]"
		color = BoldYellow

	// Store / settings
	case contains(msg, "settings", "Settings", "store", "Store", "reload", "Reload", "watcher", "Watcher"):
		prefix = "[STORE]"
		color = Magenta

	// System
	case contains(msg, "system", "System", "Starting", "starting", "Shutdown", "shutdown", "Loading", "loading", "🚀", "🛑"):
		prefix = "[SYS]"
		color = Magenta

	// Debug
	case contains(msg, "debug", "Debug", "DEBUG"):
		prefix = "[DEBUG]"
		color = Gray

	// Default info
	default:
		prefix = "[INFO]"
		color = Cyan
	}

	// Clean up the message (remove emoji prefixes for cleaner output)
	cleanMsg := cleanMessage(msg)

	// Format: timestamp [COLORED PREFIX] message
	formatted := fmt.Sprintf("%s%s %s%-8s%s %s%s\n", Gray, timestamp, color, prefix, Reset, cleanMsg, Reset)

	return w.out.Write([]byte(formatted))
}

// contains checks if the message contains any of the given substrings
func contains(msg string, substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// cleanMessage removes emojis and cleans up the message
func cleanMessage(msg string) string {
	// Remove trailing newline
	msg = strings.TrimSuffix(msg, "\n")

	// Remove the emojis this bot actually logs with
	emojis := []string{
		"✅", "❌", "⚠️", "⚠", "🎮", "🎲", "🏆", "📊", "📋", "🚀", "🛑", "🧹",
		"💓", "🔌", "🤖", "👋", "📝", "🎯", "🔤", "💬", "⏰", "🥇", "🥈", "🥉",
		"🟩", "🟨", "⬛", "🔄", "📦", "🗄️", "🗄", "💾", "👤", "🏠",
	}

	for _, e := range emojis {
		msg = strings.ReplaceAll(msg, e+" ", "")
		msg = strings.ReplaceAll(msg, e, "")
	}

	// Clean up multiple spaces
	for strings.Contains(msg, "  ") {
		msg = strings.ReplaceAll(msg, "  ", " ")
	}

	return strings.TrimSpace(msg)
}

// Helper functions for direct logging (optional use)

// Info logs an info message
func Info(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// Success logs a success message
func Success(format string, args ...interface{}) {
	log.Printf("✅ "+format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	log.Printf("⚠️ "+format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	log.Printf("❌ ERROR: "+format, args...)
}

// Fatal logs a fatal message and exits
func Fatal(format string, args ...interface{}) {
	log.Fatalf("FATAL: "+format, args...)
}

// Startup prints a fancy startup banner
func Startup(botName, version string) {
	Init()
	fmt.Println()
	fmt.Printf("%s╔══════════════════════════════════════════════════════════╗%s\n", Cyan, Reset)
	fmt.Printf("%s║%s  %s%-56s%s  %s║%s\n", Cyan, Reset, BoldWhite, botName, Reset, Cyan, Reset)
	fmt.Printf("%s║%s  %s%-56s%s  %s║%s\n", Cyan, Reset, Gray, "Version: "+version, Reset, Cyan, Reset)
	fmt.Printf("%s╚══════════════════════════════════════════════════════════╝%s\n", Cyan, Reset)
	fmt.Println()
}

// Section prints a section header
func Section(title string) {
	fmt.Printf("\n%s═══════════════════════════════════════════════════════════%s\n", Cyan, Reset)
	fmt.Printf("%s  %s%s\n", BoldWhite, title, Reset)
	fmt.Printf("%s═══════════════════════════════════════════════════════════%s\n\n", Cyan, Reset)
}
