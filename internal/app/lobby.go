package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

// runLobby opens the join window for a freshly registered game: it answers
// the start interaction with the lobby embed and Join/Leave buttons, then
// collects button presses until the window closes, re-rendering the
// countdown every tick. Only the initial send failure is fatal to startup;
// later edits are cosmetic.
func (a *App) runLobby(g *Game, i *discordgo.InteractionCreate) error {
	window := a.cfg.LobbyWindow()
	deadline := time.Now().Add(window)

	joinID := fmt.Sprintf("mg:join:%s", g.ID)
	leaveID := fmt.Sprintf("mg:leave:%s", g.ID)

	err := a.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{a.lobbyEmbed(g, deadline)},
			Components: lobbyButtons(joinID, leaveID, false),
		},
	})
	if err != nil {
		// Without a lobby message nobody can join; abort startup
		return fmt.Errorf("failed to send lobby message: %v", err)
	}

	var lobbyMessageID string
	if msg, err := a.session.InteractionResponse(i.Interaction); err == nil {
		lobbyMessageID = msg.ID
	} else {
		log.Printf("⚠️ Could not fetch lobby message, countdown edits disabled: %v", err)
	}

	collector := NewComponentCollector(window, func(ic *discordgo.InteractionCreate) bool {
		if ic.Type != discordgo.InteractionMessageComponent {
			return false
		}
		customID := ic.MessageComponentData().CustomID
		return customID == joinID || customID == leaveID
	})
	g.SetLobby(collector)
	defer g.ClearLobby()

	ticker := time.NewTicker(a.cfg.LobbyTick())
	defer ticker.Stop()

	log.Printf("🎮 %s lobby open in channel %s (%ds window)", g.Kind.Label(), g.ChannelID, a.cfg.LobbySeconds)

	for {
		select {
		case ic := <-collector.Chan():
			changed := a.handleLobbyPress(g, ic, joinID)
			if changed && lobbyMessageID != "" {
				a.editLobbyMessage(g, lobbyMessageID, deadline, joinID, leaveID, false)
			}

		case <-ticker.C:
			if lobbyMessageID != "" {
				a.editLobbyMessage(g, lobbyMessageID, deadline, joinID, leaveID, false)
			}

		case <-collector.Done():
			// Window expired (or the game was stopped mid-lobby)
			a.drainLobbyPresses(collector)
			if lobbyMessageID != "" {
				a.editLobbyMessage(g, lobbyMessageID, deadline, joinID, leaveID, true)
			}
			return nil

		case <-g.StopCh():
			collector.Stop(EndReasonStopped)
			a.drainLobbyPresses(collector)
			if lobbyMessageID != "" {
				a.editLobbyMessage(g, lobbyMessageID, deadline, joinID, leaveID, true)
			}
			return nil
		}
	}
}

// drainLobbyPresses answers presses still buffered when the window closed, so
// those users get a reply instead of a failed interaction
func (a *App) drainLobbyPresses(c *ComponentCollector) {
	for {
		select {
		case ic := <-c.Chan():
			respondEphemeral(a.session, ic, "❌ The join window has closed.")
		default:
			return
		}
	}
}

// handleLobbyPress applies one Join/Leave press. Returns true when the
// roster changed and the lobby embed should re-render.
func (a *App) handleLobbyPress(g *Game, ic *discordgo.InteractionCreate, joinID string) bool {
	user := interactionUser(ic)
	if user == nil {
		return false
	}

	if ic.MessageComponentData().CustomID == joinID {
		joined, err := g.Join(user.ID)
		switch {
		case errors.Is(err, ErrGameFull):
			respondEphemeral(a.session, ic, fmt.Sprintf("❌ The game is full (%d players max).", g.maxPlayers))
			return false
		case err != nil:
			respondEphemeral(a.session, ic, "❌ The join window has closed.")
			return false
		case !joined:
			// Second press by the same user: no-op success
			respondEphemeral(a.session, ic, "✅ You are already in this game.")
			return false
		}
		respondEphemeral(a.session, ic, fmt.Sprintf("🎮 You joined **%s**!", g.Kind.Label()))
		log.Printf("🎮 %s joined %s game %s", user.ID, g.Kind.Label(), g.ID)
		return true
	}

	result := g.Leave(user.ID)
	if !result.Removed {
		respondEphemeral(a.session, ic, "❌ You are not in this game.")
		return false
	}
	respondEphemeral(a.session, ic, "👋 You left the game.")
	log.Printf("👋 %s left %s game %s", user.ID, g.Kind.Label(), g.ID)
	return true
}

// lobbyEmbed renders the join-window state
func (a *App) lobbyEmbed(g *Game, deadline time.Time) *discordgo.MessageEmbed {
	remaining := time.Until(deadline).Round(time.Second)
	if remaining < 0 {
		remaining = 0
	}

	players := g.Players()
	var description string
	switch g.Kind {
	case KindWordRush:
		description = fmt.Sprintf(
			"Each turn you get **3 letters** - answer with a word containing them **in order** within %d seconds. First to **%d points** wins!",
			g.Settings.WordRush.TurnSeconds, g.Settings.WordRush.TargetWins)
	case KindSentenceRush:
		description = fmt.Sprintf(
			"Guess a hidden sentence one word at a time, Wordle-style, %d seconds per turn. Whoever completes the last word wins!",
			g.Settings.SentenceRush.TurnSeconds)
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎮 %s - Join Window Open!", g.Kind.Label()),
		Description: description,
		Color:       0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   fmt.Sprintf("Players (%d/%d)", len(players), g.maxPlayers),
				Value:  mentionList(players),
				Inline: false,
			},
			{
				Name:   "Starting In",
				Value:  fmt.Sprintf("⏰ %d seconds", int(remaining.Seconds())),
				Inline: true,
			},
			{
				Name:   "Host",
				Value:  fmt.Sprintf("<@%s>", g.HostID()),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("At least %d players needed to start", g.minPlayers),
		},
	}
}

// editLobbyMessage re-renders the lobby embed; failures are swallowed
// because a stale countdown does not affect the game
func (a *App) editLobbyMessage(g *Game, messageID string, deadline time.Time, joinID, leaveID string, closed bool) {
	embeds := []*discordgo.MessageEmbed{a.lobbyEmbed(g, deadline)}
	if closed {
		embeds[0].Title = fmt.Sprintf("🎮 %s - Join Window Closed", g.Kind.Label())
		embeds[0].Fields = embeds[0].Fields[:1] // drop the countdown
	}
	components := lobbyButtons(joinID, leaveID, closed)

	edit := discordgo.NewMessageEdit(g.ChannelID, messageID)
	edit.Embeds = &embeds
	edit.Components = &components
	if _, err := a.session.ChannelMessageEditComplex(edit); err != nil {
		// Cosmetic update only
		_ = err
	}
}

// lobbyButtons builds the Join/Leave row, disabled once the window closes
func lobbyButtons(joinID, leaveID string, disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Join",
					Style:    discordgo.SuccessButton,
					CustomID: joinID,
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "Leave",
					Style:    discordgo.SecondaryButton,
					CustomID: leaveID,
					Disabled: disabled,
				},
			},
		},
	}
}
