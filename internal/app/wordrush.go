package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/devdussey/Dussbot-sub002/internal/words"
)

// startWordRush handles /wordrush start: registers the game and hands the
// channel to the game loop goroutine.
func (a *App) startWordRush(i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if i.GuildID == "" || user == nil {
		respondEphemeral(a.session, i, "❌ Minigames can only be played in a server channel.")
		return
	}

	settings := a.settings.Guild(i.GuildID)
	game, err := a.registry.Start(i.GuildID, i.ChannelID, func() *Game {
		return NewGame(KindWordRush, i.GuildID, i.ChannelID, user.ID, settings, a.cfg.MinPlayers, a.cfg.MaxPlayers)
	})
	if errors.Is(err, ErrGameAlreadyRunning) {
		respondEphemeral(a.session, i, "❌ A game is already running in this channel. Finish it first!")
		return
	}

	log.Printf("🎮 WordRush game %s starting in guild %s channel %s (host %s)", game.ID, i.GuildID, i.ChannelID, user.ID)
	safeGo("WORDRUSH-"+game.ID, func() { a.runWordRush(game, i) })
}

// runWordRush owns a WordRush game from lobby to outcome. The registry slot
// is always released on the way out.
func (a *App) runWordRush(g *Game, i *discordgo.InteractionCreate) {
	defer a.registry.Remove(g.GuildID, g.ChannelID)

	if err := a.runLobby(g, i); err != nil {
		log.Printf("❌ WordRush %s startup failed: %v", g.ID, err)
		g.Stop(ReasonStartupFailed)
		return
	}

	if g.IsStopped() {
		a.reportOutcome(g)
		return
	}
	if g.PlayerCount() < g.minPlayers {
		g.Stop(ReasonNotEnoughPlayers)
		a.reportOutcome(g)
		return
	}

	if err := g.BeginPlaying(); err != nil {
		a.reportOutcome(g)
		return
	}

	target := g.Settings.WordRush.TargetWins
	window := time.Duration(g.Settings.WordRush.TurnSeconds) * time.Second

	sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title: "🎮 WordRush - Game On!",
			Description: fmt.Sprintf("%s\n\nFirst to **%d points** wins. %d seconds per turn. Good luck!",
				mentionList(g.Players()), target, g.Settings.WordRush.TurnSeconds),
			Color: 0x57F287,
		}},
	})

	for !g.IsStopped() {
		userID := g.CurrentTurnUser()
		if userID == "" {
			g.Stop(ReasonNoPlayers)
			break
		}

		letters, err := words.RandomTargetLetters(g.rng)
		if err != nil {
			log.Printf("❌ WordRush %s could not draw letters: %v", g.ID, err)
			g.Stop(ReasonStopped)
			break
		}

		scored := a.playWordRushTurn(g, userID, letters, window)
		if g.IsStopped() {
			break
		}

		if scored && g.Scores()[userID] >= target {
			g.SetWinner(userID)
			break
		}

		g.AdvanceTurnFrom(userID)
	}

	a.reportOutcome(g)
}

// playWordRushTurn runs one bounded turn for one player. Returns true when
// the player scored a point. The turn wait is fully ended before returning,
// so the next turn can never overlap it.
func (a *App) playWordRushTurn(g *Game, userID string, letters []rune, window time.Duration) bool {
	sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title: "🔤 Your Turn!",
			Description: fmt.Sprintf("<@%s> - type a word containing %s **in that order** within **%d seconds**!",
				userID, formatTargetLetters(letters), int(window.Seconds())),
			Color: 0xFEE75C,
			Footer: &discordgo.MessageEmbedFooter{
				Text: "The letters may be spread out, but the order must match",
			},
		}},
	})

	collector, err := g.BeginTurnWait(window, func(m *discordgo.MessageCreate) bool {
		// Only the current player's messages in the game channel count
		return m.Author != nil && !m.Author.Bot &&
			m.Author.ID == userID && m.ChannelID == g.ChannelID
	})
	if err != nil {
		log.Printf("⚠️ WordRush %s turn wait not started: %v", g.ID, err)
		return false
	}
	defer g.EndTurnWait(collector)

	for {
		m, ok := collector.Next()
		if !ok {
			// Window expired or the game was stopped mid-wait
			if collector.EndReason() == EndReasonTime && !g.IsStopped() {
				sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
					Content: fmt.Sprintf("⏰ Time's up, <@%s>! The turn passes.", userID),
				})
			}
			return false
		}

		candidate, valid := words.NormalizeCandidate(m.Content)
		if !valid {
			reactBestEffort(a.session, m.ChannelID, m.ID, "❌")
			continue
		}
		if !words.ContainsLettersInOrder(candidate, letters) {
			reactBestEffort(a.session, m.ChannelID, m.ID, "❌")
			continue
		}

		score := g.AddPoint(userID)
		reactBestEffort(a.session, m.ChannelID, m.ID, "✅")
		sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
			Content: fmt.Sprintf("✅ **%s** works! <@%s> is at **%d/%d** points.",
				candidate, userID, score, g.Settings.WordRush.TargetWins),
		})
		return true
	}
}
