package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/devdussey/Dussbot-sub002/internal/config"
	"github.com/devdussey/Dussbot-sub002/internal/store"
	"github.com/devdussey/Dussbot-sub002/internal/words"
)

// App wires the bot together: the Discord session, the game registry and the
// persistent stores. One instance per process.
type App struct {
	cfg     *config.Config
	session *discordgo.Session

	registry  *Registry
	settings  *store.SettingsStore
	stats     *store.StatsStore
	history   *HistoryDB
	sentences *words.SentencePool
}

// Run starts the bot and blocks until a shutdown signal arrives
func Run() {
	log.Println("🚀 Starting Minigames Discord Bot...")

	// ==========================================
	// 1. Setup Context for Graceful Shutdown
	// ==========================================
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// ==========================================
	// 2. Load Configuration
	// ==========================================
	cfg := config.Load()
	a := &App{
		cfg:      cfg,
		registry: NewRegistry(),
	}

	// ==========================================
	// 3. Initialize Stores
	// ==========================================
	log.Println("💾 Initializing stores...")
	var err error

	a.settings, err = store.NewSettingsStore(cfg.SettingsPath(), defaultGuildSettings(cfg))
	if err != nil {
		log.Fatalf("Failed to initialize settings store: %v", err)
	}
	if cfg.EnableSettingsWatcher {
		if err := store.WatchSettings(ctx, a.settings); err != nil {
			log.Printf("⚠️ Settings watcher failed to start (will continue): %v", err)
		}
	}

	a.stats, err = store.NewStatsStore(cfg.StatsPath())
	if err != nil {
		log.Fatalf("Failed to initialize stats store: %v", err)
	}

	a.history, err = OpenHistoryDB(cfg.HistoryDBDir)
	if err != nil {
		log.Printf("⚠️ Game history disabled (will continue): %v", err)
		a.history = nil
	}

	if cfg.SentencesFile != "" {
		a.sentences = words.LoadSentencePool(cfg.SentencesFile)
	} else {
		a.sentences = words.NewSentencePool()
	}

	// ==========================================
	// 4. Create Discord Session
	// ==========================================
	a.session, err = discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("Error creating Discord session: %v", err)
	}

	a.session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	// ==========================================
	// 5. Add Event Handlers
	// ==========================================
	a.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("🤖 Minigames bot logged in as %s", r.User.Username)
	})
	a.session.AddHandler(func(s *discordgo.Session, d *discordgo.Disconnect) {
		log.Printf("⚠️ Discord disconnected")
	})
	a.session.AddHandler(func(s *discordgo.Session, r *discordgo.Resumed) {
		log.Printf("✅ Discord connection resumed")
	})
	a.session.AddHandler(a.onMessageCreate)
	a.session.AddHandler(a.onInteractionCreate)

	// ==========================================
	// 6. Open Discord Connection
	// ==========================================
	log.Println("🔌 Opening Discord connection...")
	if err := a.session.Open(); err != nil {
		log.Fatalf("Error opening Discord session: %v", err)
	}
	defer a.session.Close()

	// ==========================================
	// 7. Register Slash Commands
	// ==========================================
	log.Println("📝 Registering slash commands...")
	if err := a.RegisterCommands(); err != nil {
		log.Fatalf("Failed to register slash commands: %v", err)
	}

	// ==========================================
	// 8. Start Background Services
	// ==========================================
	safeGo("HEARTBEAT", func() { a.heartbeat(ctx) })

	log.Println("✅ Minigames bot is running! Press Ctrl+C to exit gracefully.")

	// ==========================================
	// 9. Wait for Shutdown Signal
	// ==========================================
	<-sigChan
	log.Println("\n🛑 Shutdown signal received! Starting graceful shutdown...")
	a.shutdown(cancel)
}

// onMessageCreate routes gateway messages into the active game of the
// message's channel, if that game has a live turn wait
func (a *App) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ [MESSAGE HANDLER] Panic recovered: %v\n%s", r, debug.Stack())
		}
	}()

	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	if game := a.registry.Get(m.GuildID, m.ChannelID); game != nil {
		game.DeliverMessage(m)
	}
}

// onInteractionCreate dispatches slash commands and game component presses
func (a *App) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ [INTERACTION HANDLER] Panic recovered: %v\n%s", r, debug.Stack())
		}
	}()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		a.handleCommand(i)

	case discordgo.InteractionMessageComponent:
		a.handleComponent(i)
	}
}

// handleComponent routes "mg:<action>:<gameID>" button presses
func (a *App) handleComponent(i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	parts := strings.SplitN(customID, ":", 3)
	if len(parts) != 3 || parts[0] != "mg" {
		return
	}
	action, gameID := parts[1], parts[2]

	game := a.registry.Get(i.GuildID, i.ChannelID)
	if game == nil || game.ID != gameID {
		respondEphemeral(a.session, i, "❌ That game is no longer running.")
		return
	}

	switch action {
	case "join":
		// The lobby loop owns join handling while the window is open
		if !game.DeliverLobbyComponent(i) {
			respondEphemeral(a.session, i, "❌ The join window has closed.")
		}

	case "leave":
		if game.DeliverLobbyComponent(i) {
			return
		}
		// Window closed: leaving mid-game drops the player from the rotation
		a.leaveMidGame(i, game)

	case "hint":
		a.handleSentenceHint(i, game)
	}
}

// leaveMidGame removes a player from a running game via the Leave button
func (a *App) leaveMidGame(i *discordgo.InteractionCreate, game *Game) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	result := game.Leave(user.ID)
	if !result.Removed {
		respondEphemeral(a.session, i, "❌ You are not in this game.")
		return
	}

	log.Printf("👋 %s left %s game %s mid-game", user.ID, game.Kind.Label(), game.ID)
	respondEphemeral(a.session, i, "👋 You left the game.")
	if result.NewHostID != "" {
		sendBestEffort(a.session, game.ChannelID, &discordgo.MessageSend{
			Content: fmt.Sprintf("👑 <@%s> is the new host.", result.NewHostID),
		})
	}
}

// heartbeat logs bot status periodically
func (a *App) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			log.Printf("💓 Heartbeat: %d active games | Memory: %dMB | Goroutines: %d",
				a.registry.Count(), m.Alloc/1024/1024, runtime.NumGoroutine())
		}
	}
}

// shutdown stops all active games and closes resources
func (a *App) shutdown(cancel context.CancelFunc) {
	cancel()

	games := a.registry.Active()
	if len(games) > 0 {
		log.Printf("  → Stopping %d active games...", len(games))
		for _, g := range games {
			g.Stop(ReasonStopped)
		}
	}

	if a.history != nil {
		log.Println("  → Closing game history database...")
		if err := a.history.Close(); err != nil {
			log.Printf("⚠️ Error closing history database: %v", err)
		}
	}

	log.Println("✅ Graceful shutdown completed")
}
