package app

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// reportOutcome announces a finished game and, for won games, persists the
// result. Stats and history writes are best-effort: a failed write must
// never take the announcement down with it.
func (a *App) reportOutcome(g *Game) {
	reason, winnerID := g.Outcome()
	log.Printf("🏁 %s game %s ended: %s (winner=%q, rounds=%d)", g.Kind.Label(), g.ID, reason, winnerID, g.Rounds())

	switch reason {
	case ReasonWon:
		a.reportWin(g, winnerID)

	case ReasonHostLeft:
		sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
			Content: fmt.Sprintf("🏁 The host left - **%s** is over.", g.Kind.Label()),
		})

	case ReasonNoPlayers:
		sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
			Content: fmt.Sprintf("🏁 Everyone left - **%s** is over.", g.Kind.Label()),
		})

	case ReasonNotEnoughPlayers:
		sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
			Content: fmt.Sprintf("🏁 Not enough players joined **%s** (need at least %d). Maybe next time!",
				g.Kind.Label(), g.minPlayers),
		})

	case ReasonStopped:
		sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
			Content: fmt.Sprintf("🛑 **%s** was stopped.", g.Kind.Label()),
		})

	case ReasonStartupFailed:
		// Nothing sensible to announce: the startup message itself failed
	}
}

// reportWin records the outcome and posts the winner embed
func (a *App) reportWin(g *Game, winnerID string) {
	participants := g.Players()

	if err := a.stats.RecordOutcome(g.GuildID, winnerID, participants); err != nil {
		log.Printf("❌ Failed to record stats for game %s: %v", g.ID, err)
	}
	if a.history != nil {
		if err := a.history.RecordGame(g); err != nil {
			log.Printf("❌ Failed to record game %s in history: %v", g.ID, err)
		}
	}

	entry := a.stats.User(g.GuildID, winnerID)
	description := fmt.Sprintf("<@%s> wins **%s**! 🏆", winnerID, g.Kind.Label())
	if g.Kind == KindSentenceRush {
		description += fmt.Sprintf("\n\nThe sentence was:\n```%s```", g.maskedSentence())
	}

	sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       fmt.Sprintf("🏆 %s Wins!", a.displayName(g.GuildID, winnerID)),
			Description: description,
			Color:       0xFFD700,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Total Wins", Value: fmt.Sprintf("%d", entry.Wins), Inline: true},
				{Name: "Games Played", Value: fmt.Sprintf("%d", entry.GamesPlayed), Inline: true},
				{Name: "Rounds This Game", Value: fmt.Sprintf("%d", g.Rounds()), Inline: true},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Players: %d", len(participants)),
			},
		}},
	})
}

// leaderboardEmbed renders the top minigame players of a guild
func (a *App) leaderboardEmbed(guildID string) *discordgo.MessageEmbed {
	top := a.stats.Top(guildID, 10)

	embed := &discordgo.MessageEmbed{
		Title: "🏆 Minigame Leaderboard",
		Color: 0xFFD700,
	}
	if len(top) == 0 {
		embed.Description = "No games have been won here yet. Start one with `/wordrush start` or `/sentencerush start`!"
		return embed
	}

	medals := []string{"🥇", "🥈", "🥉"}
	var description string
	for i, entry := range top {
		rank := fmt.Sprintf("**%d.**", i+1)
		if i < len(medals) {
			rank = medals[i]
		}
		description += fmt.Sprintf("%s <@%s> - **%d** wins (%d played)\n",
			rank, entry.UserID, entry.Wins, entry.GamesPlayed)
	}
	embed.Description = description
	return embed
}
