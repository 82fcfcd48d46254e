package app

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/devdussey/Dussbot-sub002/internal/words"
)

// sentenceState is the SentenceRush progress attached to a Game, guarded by
// the game mutex like the rest of its mutable state.
type sentenceState struct {
	words     []string        // target sentence, lowercase
	wordIndex int             // cursor: first unsolved word
	revealed  []map[int]bool  // per word, letter positions revealed as hints
	hintUsed  map[string]bool // players who spent their one manual hint
}

var guessPattern = regexp.MustCompile(`^[a-z]+$`)

// normalizeGuess cleans a SentenceRush guess: sentence words can be as short
// as "a", so this is looser than the WordRush candidate rules.
func normalizeGuess(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	})
	if s == "" || !guessPattern.MatchString(s) {
		return "", false
	}
	return s, true
}

// initSentence installs the hidden sentence on the game
func (g *Game) initSentence(sentence []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	state := &sentenceState{
		words:    sentence,
		revealed: make([]map[int]bool, len(sentence)),
		hintUsed: make(map[string]bool),
	}
	for i := range state.revealed {
		state.revealed[i] = make(map[int]bool)
	}
	g.sentence = state
}

// currentSentenceWord returns the word the cursor points at
func (g *Game) currentSentenceWord() (word string, index int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sentence == nil || g.sentence.wordIndex >= len(g.sentence.words) {
		return "", -1
	}
	return g.sentence.words[g.sentence.wordIndex], g.sentence.wordIndex
}

// advanceSentenceWord moves the cursor past a solved word. Returns true when
// the whole sentence is complete.
func (g *Game) advanceSentenceWord() (done bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sentence == nil {
		return false
	}
	g.sentence.wordIndex++
	return g.sentence.wordIndex >= len(g.sentence.words)
}

// revealRandomLetter uncovers one not-yet-revealed letter in the unsolved
// part of the sentence. Returns false when nothing is left to reveal.
func (g *Game) revealRandomLetter() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sentence == nil {
		return false
	}

	type spot struct{ word, pos int }
	var candidates []spot
	for w := g.sentence.wordIndex; w < len(g.sentence.words); w++ {
		for p := range g.sentence.words[w] {
			if !g.sentence.revealed[w][p] {
				candidates = append(candidates, spot{w, p})
			}
		}
	}
	if len(candidates) == 0 {
		return false
	}

	pick := candidates[g.rng.Intn(len(candidates))]
	g.sentence.revealed[pick.word][pick.pos] = true
	return true
}

// useManualHint spends a player's single free hint reveal
func (g *Game) useManualHint(userID string) error {
	g.mu.Lock()
	if g.sentence == nil || g.stage != StagePlaying {
		g.mu.Unlock()
		return errors.New("no sentence game in progress")
	}
	if _, ok := g.playerSet[userID]; !ok {
		g.mu.Unlock()
		return errors.New("you are not playing this game")
	}
	if g.sentence.hintUsed[userID] {
		g.mu.Unlock()
		return errors.New("you already used your hint this game")
	}
	g.sentence.hintUsed[userID] = true
	g.mu.Unlock()

	if !g.revealRandomLetter() {
		return errors.New("nothing left to reveal")
	}
	return nil
}

// maskedSentence renders the sentence with solved words in full and hidden
// letters as underscores, e.g. "the c_t ____"
func (g *Game) maskedSentence() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sentence == nil {
		return ""
	}

	parts := make([]string, len(g.sentence.words))
	for w, word := range g.sentence.words {
		if w < g.sentence.wordIndex {
			parts[w] = word
			continue
		}
		masked := make([]byte, len(word))
		for p := range word {
			if g.sentence.revealed[w][p] {
				masked[p] = word[p]
			} else {
				masked[p] = '_'
			}
		}
		parts[w] = string(masked)
	}
	return strings.Join(parts, " ")
}

// startSentenceRush handles /sentencerush start
func (a *App) startSentenceRush(i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if i.GuildID == "" || user == nil {
		respondEphemeral(a.session, i, "❌ Minigames can only be played in a server channel.")
		return
	}

	settings := a.settings.Guild(i.GuildID)
	game, err := a.registry.Start(i.GuildID, i.ChannelID, func() *Game {
		return NewGame(KindSentenceRush, i.GuildID, i.ChannelID, user.ID, settings, a.cfg.MinPlayers, a.cfg.MaxPlayers)
	})
	if errors.Is(err, ErrGameAlreadyRunning) {
		respondEphemeral(a.session, i, "❌ A game is already running in this channel. Finish it first!")
		return
	}

	sentence, err := a.sentences.Pick(game.rng, settings.SentenceRush.MinWords, settings.SentenceRush.MaxWords)
	if err != nil {
		log.Printf("❌ SentenceRush %s could not pick a sentence: %v", game.ID, err)
		a.registry.Remove(i.GuildID, i.ChannelID)
		respondEphemeral(a.session, i, "❌ No sentences match this server's word-count settings. Check /sentencerush config.")
		return
	}
	game.initSentence(sentence)

	log.Printf("🎮 SentenceRush game %s starting in guild %s channel %s (%d words, host %s)",
		game.ID, i.GuildID, i.ChannelID, len(sentence), user.ID)
	safeGo("SENTENCERUSH-"+game.ID, func() { a.runSentenceRush(game, i) })
}

// runSentenceRush owns a SentenceRush game from lobby to outcome
func (a *App) runSentenceRush(g *Game, i *discordgo.InteractionCreate) {
	defer a.registry.Remove(g.GuildID, g.ChannelID)

	if err := a.runLobby(g, i); err != nil {
		log.Printf("❌ SentenceRush %s startup failed: %v", g.ID, err)
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

	window := time.Duration(g.Settings.SentenceRush.TurnSeconds) * time.Second

	sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title: "🎮 SentenceRush - Game On!",
			Description: fmt.Sprintf("%s\n\nThe hidden sentence:\n```%s```\nGuess it one word at a time. %d seconds per turn.",
				mentionList(g.Players()), g.maskedSentence(), g.Settings.SentenceRush.TurnSeconds),
			Color: 0x57F287,
		}},
		Components: sentenceHintButton(g.ID, false),
	})

	for !g.IsStopped() {
		userID := g.CurrentTurnUser()
		if userID == "" {
			g.Stop(ReasonNoPlayers)
			break
		}

		won := a.playSentenceTurn(g, userID, window)
		if g.IsStopped() {
			break
		}
		if won {
			g.SetWinner(userID)
			break
		}

		_, wrapped := g.AdvanceTurnFrom(userID)
		if wrapped {
			// A full winnerless round uncovers one letter
			if g.revealRandomLetter() {
				sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
					Content: fmt.Sprintf("💬 Round over - a letter was revealed!\n```%s```", g.maskedSentence()),
				})
			}
		}
	}

	a.reportOutcome(g)
}

// playSentenceTurn runs one player's turn. Correct words advance the cursor
// and the turn continues; returns true when the player completed the
// sentence.
func (a *App) playSentenceTurn(g *Game, userID string, window time.Duration) bool {
	targetWord, index := g.currentSentenceWord()
	if index < 0 {
		return false
	}

	sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title: "💬 Your Turn!",
			Description: fmt.Sprintf("<@%s> - guess word **#%d** (%d letters) within **%d seconds**!\n```%s```",
				userID, index+1, len(targetWord), int(window.Seconds()), g.maskedSentence()),
			Color: 0xFEE75C,
			Footer: &discordgo.MessageEmbedFooter{
				Text: "🟩 right spot - 🟨 wrong spot - ⬛ not in the word",
			},
		}},
		Components: sentenceHintButton(g.ID, false),
	})

	collector, err := g.BeginTurnWait(window, func(m *discordgo.MessageCreate) bool {
		return m.Author != nil && !m.Author.Bot &&
			m.Author.ID == userID && m.ChannelID == g.ChannelID
	})
	if err != nil {
		log.Printf("⚠️ SentenceRush %s turn wait not started: %v", g.ID, err)
		return false
	}
	defer g.EndTurnWait(collector)

	for {
		m, ok := collector.Next()
		if !ok {
			if collector.EndReason() == EndReasonTime && !g.IsStopped() {
				sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
					Content: fmt.Sprintf("⏰ Time's up, <@%s>! The turn passes.", userID),
				})
			}
			return false
		}

		guess, valid := normalizeGuess(m.Content)
		if !valid {
			reactBestEffort(a.session, m.ChannelID, m.ID, "❌")
			continue
		}

		targetWord, index = g.currentSentenceWord()
		if index < 0 {
			return true
		}

		marks := words.ScoreGuess(guess, targetWord)
		sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
			Content: fmt.Sprintf("<@%s> `%s`\n%s", userID, guess, renderMarks(marks)),
		})

		if !words.IsAllCorrect(marks, targetWord) {
			continue
		}

		reactBestEffort(a.session, m.ChannelID, m.ID, "✅")
		if g.advanceSentenceWord() {
			return true
		}

		sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
			Content: fmt.Sprintf("✅ Word #%d solved! Keep going:\n```%s```", index+1, g.maskedSentence()),
		})
	}
}

// handleSentenceHint routes the hint button press
func (a *App) handleSentenceHint(ic *discordgo.InteractionCreate, g *Game) {
	user := interactionUser(ic)
	if user == nil {
		return
	}
	if g.Kind != KindSentenceRush {
		respondEphemeral(a.session, ic, "❌ Hints only exist in SentenceRush.")
		return
	}

	if err := g.useManualHint(user.ID); err != nil {
		respondEphemeral(a.session, ic, fmt.Sprintf("❌ %s", err))
		return
	}

	respondEphemeral(a.session, ic, "💡 Hint used - a letter was revealed!")
	sendBestEffort(a.session, g.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("💬 <@%s> used their hint!\n```%s```", user.ID, g.maskedSentence()),
	})
}

// renderMarks draws a guess result as colored squares
func renderMarks(marks []words.LetterMark) string {
	var b strings.Builder
	for _, m := range marks {
		switch m.Mark {
		case words.MarkCorrect:
			b.WriteString("🟩")
		case words.MarkPresent:
			b.WriteString("🟨")
		default:
			b.WriteString("⬛")
		}
	}
	return b.String()
}

// sentenceHintButton builds the one-per-game hint control
func sentenceHintButton(gameID string, disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Use Hint (1 per game)",
					Style:    discordgo.PrimaryButton,
					CustomID: fmt.Sprintf("mg:hint:%s", gameID),
					Disabled: disabled,
				},
			},
		},
	}
}
