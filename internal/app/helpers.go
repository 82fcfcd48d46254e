package app

import (
	"fmt"
	"log"
	"runtime/debug"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// safeGo runs fn on its own goroutine with panic recovery
func safeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("❌ [%s] Panic recovered: %v\n%s", name, r, debug.Stack())
			}
		}()
		fn()
	}()
}

// respondEphemeral answers an interaction with a private message
func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error sending ephemeral response: %v", err)
	}
}

// respondEmbed answers an interaction with a public embed
func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// interactionUser returns the invoking user for guild and DM interactions
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// displayName resolves a user's current display name for embed rendering,
// where mentions do not resolve. Falls back to the raw ID when the member
// lookup fails.
func (a *App) displayName(guildID, userID string) string {
	member, err := a.session.GuildMember(guildID, userID)
	if err == nil && member != nil {
		if member.Nick != "" {
			return member.Nick
		}
		if member.User != nil {
			if member.User.GlobalName != "" {
				return member.User.GlobalName
			}
			return member.User.Username
		}
	}
	return userID
}

// hasManageServer reports whether the interaction member can manage the
// server (moderator-level actions: /stop on someone else's game, /config)
func hasManageServer(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	return i.Member.Permissions&(discordgo.PermissionManageServer|discordgo.PermissionAdministrator) != 0
}

// mentionList renders a roster as mentions
func mentionList(userIDs []string) string {
	if len(userIDs) == 0 {
		return "*nobody*"
	}
	mentions := make([]string, len(userIDs))
	for i, id := range userIDs {
		mentions[i] = fmt.Sprintf("<@%s>", id)
	}
	return strings.Join(mentions, ", ")
}

// formatTargetLetters renders WordRush target letters as `A` `B` `T`
func formatTargetLetters(letters []rune) string {
	parts := make([]string, len(letters))
	for i, r := range letters {
		parts[i] = fmt.Sprintf("`%s`", strings.ToUpper(string(r)))
	}
	return strings.Join(parts, " ")
}

// truncate caps a string for embed field limits
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// reactBestEffort adds a reaction, ignoring failures (cosmetic only)
func reactBestEffort(s *discordgo.Session, channelID, messageID, emoji string) {
	if err := s.MessageReactionAdd(channelID, messageID, emoji); err != nil {
		// Cosmetic update; the game does not care
		_ = err
	}
}

// sendBestEffort sends a channel message, logging failures without aborting
func sendBestEffort(s *discordgo.Session, channelID string, send *discordgo.MessageSend) *discordgo.Message {
	msg, err := s.ChannelMessageSendComplex(channelID, send)
	if err != nil {
		log.Printf("Error sending message to channel %s: %v", channelID, err)
		return nil
	}
	return msg
}
