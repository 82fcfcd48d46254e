package app

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/devdussey/Dussbot-sub002/internal/config"
	"github.com/devdussey/Dussbot-sub002/internal/store"
)

// minigameCommands defines the slash command surface. Registered per guild
// when COMMAND_GUILD_ID is set (instant availability), globally otherwise.
func minigameCommands() []*discordgo.ApplicationCommand {
	turnMin, turnMax := float64(config.TurnSecondsMin), float64(config.TurnSecondsMax)
	winsMin, winsMax := float64(config.TargetWinsMin), float64(config.TargetWinsMax)
	wordsMin, wordsMax := float64(config.SentenceWordsMin), float64(config.SentenceWordsMax)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "wordrush",
			Description: "WordRush - race to build words around target letters",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Open a WordRush lobby in this channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stop",
					Description: "Stop the game running in this channel (host or moderator)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Show this server's minigame leaderboard",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "config",
					Description: "Change this server's WordRush settings (moderator)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "turn-seconds",
							Description: "Seconds each player gets per turn",
							MinValue:    &turnMin,
							MaxValue:    turnMax,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "target-wins",
							Description: "Points needed to win",
							MinValue:    &winsMin,
							MaxValue:    winsMax,
						},
					},
				},
			},
		},
		{
			Name:        "sentencerush",
			Description: "SentenceRush - uncover a hidden sentence word by word",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Open a SentenceRush lobby in this channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stop",
					Description: "Stop the game running in this channel (host or moderator)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Show this server's minigame leaderboard",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "config",
					Description: "Change this server's SentenceRush settings (moderator)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "turn-seconds",
							Description: "Seconds each player gets per turn",
							MinValue:    &turnMin,
							MaxValue:    turnMax,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "min-words",
							Description: "Shortest sentence to pick",
							MinValue:    &wordsMin,
							MaxValue:    wordsMax,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "max-words",
							Description: "Longest sentence to pick",
							MinValue:    &wordsMin,
							MaxValue:    wordsMax,
						},
					},
				},
			},
		},
		{
			Name:        "minigames",
			Description: "Minigame overview",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "active",
					Description: "List games currently running on this bot",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "recent",
					Description: "Show this server's recently finished games",
				},
			},
		},
	}
}

// RegisterCommands registers the slash commands with Discord
func (a *App) RegisterCommands() error {
	guildID := a.cfg.CommandGuildID
	for _, cmd := range minigameCommands() {
		if _, err := a.session.ApplicationCommandCreate(a.session.State.User.ID, guildID, cmd); err != nil {
			return fmt.Errorf("failed to create /%s command: %v", cmd.Name, err)
		}
		log.Printf("Registered /%s slash command", cmd.Name)
	}
	return nil
}

// handleCommand dispatches a slash command interaction
func (a *App) handleCommand(i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	sub := ""
	if len(data.Options) > 0 {
		sub = data.Options[0].Name
	}

	switch data.Name {
	case "wordrush":
		switch sub {
		case "start":
			a.startWordRush(i)
		case "stop":
			a.stopGame(i)
		case "stats":
			a.showStats(i)
		case "config":
			a.configWordRush(i, data.Options[0].Options)
		}

	case "sentencerush":
		switch sub {
		case "start":
			a.startSentenceRush(i)
		case "stop":
			a.stopGame(i)
		case "stats":
			a.showStats(i)
		case "config":
			a.configSentenceRush(i, data.Options[0].Options)
		}

	case "minigames":
		switch sub {
		case "active":
			a.showActiveGames(i)
		case "recent":
			a.showRecentGames(i)
		}
	}
}

// stopGame stops the game in the invoking channel. Allowed for the game host
// and for members with Manage Server.
func (a *App) stopGame(i *discordgo.InteractionCreate) {
	game := a.registry.Get(i.GuildID, i.ChannelID)
	if game == nil {
		respondEphemeral(a.session, i, "❌ No game is running in this channel.")
		return
	}

	user := interactionUser(i)
	if user == nil {
		return
	}
	if user.ID != game.HostID() && !hasManageServer(i) {
		respondEphemeral(a.session, i, "❌ Only the host or a moderator can stop this game.")
		return
	}

	game.Stop(ReasonStopped)
	log.Printf("🛑 %s game %s stopped by %s", game.Kind.Label(), game.ID, user.ID)
	respondEphemeral(a.session, i, fmt.Sprintf("🛑 **%s** stopped.", game.Kind.Label()))
}

// showStats renders the guild leaderboard
func (a *App) showStats(i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		respondEphemeral(a.session, i, "❌ Stats are tracked per server.")
		return
	}
	if err := respondEmbed(a.session, i, a.leaderboardEmbed(i.GuildID)); err != nil {
		log.Printf("Error sending leaderboard: %v", err)
	}
}

// configWordRush handles /wordrush config
func (a *App) configWordRush(i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	if !hasManageServer(i) {
		respondEphemeral(a.session, i, "❌ You need the Manage Server permission to change settings.")
		return
	}

	current := a.settings.Guild(i.GuildID).WordRush
	for _, opt := range opts {
		switch opt.Name {
		case "turn-seconds":
			current.TurnSeconds = int(opt.IntValue())
		case "target-wins":
			current.TargetWins = int(opt.IntValue())
		}
	}

	updated, err := a.settings.SetWordRush(i.GuildID, current)
	if err != nil {
		log.Printf("❌ Failed to save WordRush settings for guild %s: %v", i.GuildID, err)
		respondEphemeral(a.session, i, "❌ Failed to save settings. Try again.")
		return
	}

	respondEphemeral(a.session, i, fmt.Sprintf(
		"✅ WordRush settings updated: **%d** seconds per turn, first to **%d** points. Applies to new games.",
		updated.WordRush.TurnSeconds, updated.WordRush.TargetWins))
}

// configSentenceRush handles /sentencerush config
func (a *App) configSentenceRush(i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	if !hasManageServer(i) {
		respondEphemeral(a.session, i, "❌ You need the Manage Server permission to change settings.")
		return
	}

	current := a.settings.Guild(i.GuildID).SentenceRush
	for _, opt := range opts {
		switch opt.Name {
		case "turn-seconds":
			current.TurnSeconds = int(opt.IntValue())
		case "min-words":
			current.MinWords = int(opt.IntValue())
		case "max-words":
			current.MaxWords = int(opt.IntValue())
		}
	}
	if current.MaxWords < current.MinWords {
		respondEphemeral(a.session, i, "❌ max-words cannot be smaller than min-words.")
		return
	}

	updated, err := a.settings.SetSentenceRush(i.GuildID, current)
	if err != nil {
		log.Printf("❌ Failed to save SentenceRush settings for guild %s: %v", i.GuildID, err)
		respondEphemeral(a.session, i, "❌ Failed to save settings. Try again.")
		return
	}

	respondEphemeral(a.session, i, fmt.Sprintf(
		"✅ SentenceRush settings updated: **%d** seconds per turn, sentences of **%d-%d** words. Applies to new games.",
		updated.SentenceRush.TurnSeconds, updated.SentenceRush.MinWords, updated.SentenceRush.MaxWords))
}

// showActiveGames handles /minigames active
func (a *App) showActiveGames(i *discordgo.InteractionCreate) {
	games := a.registry.Active()

	embed := &discordgo.MessageEmbed{
		Title: "🎮 Active Minigames",
		Color: 0x5865F2,
	}
	if len(games) == 0 {
		embed.Description = "No games are running right now."
	} else {
		var lines []string
		for _, g := range games {
			lines = append(lines, fmt.Sprintf("**%s** in <#%s> - %s, %d players",
				g.Kind.Label(), g.ChannelID, g.Stage(), g.PlayerCount()))
		}
		embed.Description = truncate(strings.Join(lines, "\n"), 4000)
	}

	if err := respondEmbed(a.session, i, embed); err != nil {
		log.Printf("Error sending active games: %v", err)
	}
}

// showRecentGames handles /minigames recent
func (a *App) showRecentGames(i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		respondEphemeral(a.session, i, "❌ History is tracked per server.")
		return
	}
	if a.history == nil {
		respondEphemeral(a.session, i, "❌ Game history is not available.")
		return
	}

	entries, err := a.history.RecentGames(i.GuildID, 10)
	if err != nil {
		log.Printf("❌ Failed to load recent games for guild %s: %v", i.GuildID, err)
		respondEphemeral(a.session, i, "❌ Failed to load game history.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "📜 Recent Games",
		Color: 0x5865F2,
	}
	if len(entries) == 0 {
		embed.Description = "No finished games yet."
	} else {
		var lines []string
		for _, entry := range entries {
			lines = append(lines, fmt.Sprintf("**%s** - won by <@%s> (%d players, %d rounds) <t:%d:R>",
				kindLabel(entry.Kind), entry.WinnerID, len(entry.Players), entry.Rounds, entry.FinishedAt.Unix()))
		}
		embed.Description = truncate(strings.Join(lines, "\n"), 4000)
	}

	if err := respondEmbed(a.session, i, embed); err != nil {
		log.Printf("Error sending recent games: %v", err)
	}
}

func kindLabel(kind string) string {
	return Kind(kind).Label()
}

// defaultGuildSettings builds the settings-store defaults from the config
func defaultGuildSettings(cfg *config.Config) store.GuildSettings {
	return store.GuildSettings{
		WordRush: store.WordRushSettings{
			TurnSeconds: cfg.DefaultTurnSeconds,
			TargetWins:  cfg.DefaultTargetWins,
		},
		SentenceRush: store.SentenceRushSettings{
			TurnSeconds: cfg.DefaultTurnSeconds,
			MinWords:    cfg.DefaultMinWords,
			MaxWords:    cfg.DefaultMaxWords,
		},
	}
}
