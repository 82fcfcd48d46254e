package app

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/devdussey/Dussbot-sub002/internal/store"
)

// Kind identifies which minigame a Game runs
type Kind string

const (
	KindWordRush     Kind = "wordrush"
	KindSentenceRush Kind = "sentencerush"
)

// Label returns the user-facing game name
func (k Kind) Label() string {
	switch k {
	case KindWordRush:
		return "WordRush"
	case KindSentenceRush:
		return "SentenceRush"
	}
	return string(k)
}

// Stage is the game lifecycle state
type Stage int

const (
	StageWaiting Stage = iota // lobby open, collecting players
	StagePlaying              // turn engine running
	StageEnded                // terminal
)

func (s Stage) String() string {
	switch s {
	case StageWaiting:
		return "waiting"
	case StagePlaying:
		return "playing"
	case StageEnded:
		return "ended"
	}
	return "unknown"
}

// StopReason records why a game reached its terminal state
type StopReason string

const (
	ReasonWon              StopReason = "won"
	ReasonStopped          StopReason = "stopped"
	ReasonHostLeft         StopReason = "host-left"
	ReasonNoPlayers        StopReason = "no-players"
	ReasonNotEnoughPlayers StopReason = "not-enough-players"
	ReasonStartupFailed    StopReason = "startup-failed"
)

var (
	ErrGameFull          = errors.New("the game is full")
	ErrGameNotJoinable   = errors.New("the join window is closed")
	ErrInvalidTransition = errors.New("invalid stage transition")
)

// LeaveResult describes what a Leave call did to the game
type LeaveResult struct {
	Removed   bool
	NewHostID string // set when the host left and the game carried on
	Ended     bool   // the leave terminated the game
}

// Game is one in-progress minigame scoped to a guild+channel. In-memory
// only: a restart drops all active games. All mutation goes through the
// mutex; the turn loop goroutine never holds it while waiting for input.
type Game struct {
	ID        string
	Kind      Kind
	GuildID   string
	ChannelID string

	Settings store.GuildSettings // snapshot taken at creation

	mu         sync.Mutex
	hostID     string
	stage      Stage
	players    []string
	playerSet  map[string]struct{}
	turnIndex  int
	stopped    bool
	stopReason StopReason
	winnerID   string
	rounds     int

	// Exactly zero or one live collector of each sort
	collector *MessageCollector
	lobby     *ComponentCollector

	stopCh chan struct{}

	minPlayers int
	maxPlayers int

	rng *rand.Rand

	// Per-kind progress state
	scores   map[string]int // WordRush: userID -> points
	sentence *sentenceState // SentenceRush

	createdAt time.Time
}

// NewGame creates a waiting-stage game with the host already joined
func NewGame(kind Kind, guildID, channelID, hostID string, settings store.GuildSettings, minPlayers, maxPlayers int) *Game {
	g := &Game{
		ID:         uuid.NewString(),
		Kind:       kind,
		GuildID:    guildID,
		ChannelID:  channelID,
		Settings:   settings,
		hostID:     hostID,
		stage:      StageWaiting,
		playerSet:  make(map[string]struct{}),
		stopCh:     make(chan struct{}),
		minPlayers: minPlayers,
		maxPlayers: maxPlayers,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		scores:     make(map[string]int),
		createdAt:  time.Now(),
	}
	g.players = append(g.players, hostID)
	g.playerSet[hostID] = struct{}{}
	return g
}

// transitionLocked is the single place stage changes happen. Invalid
// transitions are rejected instead of silently applied. Caller holds g.mu.
func (g *Game) transitionLocked(to Stage) error {
	valid := (g.stage == StageWaiting && to == StagePlaying) ||
		(g.stage == StageWaiting && to == StageEnded) ||
		(g.stage == StagePlaying && to == StageEnded)
	if !valid {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, g.stage, to)
	}
	g.stage = to
	return nil
}

// Stage returns the current lifecycle stage
func (g *Game) Stage() Stage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stage
}

// HostID returns the current host
func (g *Game) HostID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hostID
}

// Join adds a player during the lobby window. Joining twice is a no-op
// success (joined=false), not an error.
func (g *Game) Join(userID string) (joined bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stage != StageWaiting || g.stopped {
		return false, ErrGameNotJoinable
	}
	if _, ok := g.playerSet[userID]; ok {
		return false, nil
	}
	if len(g.players) >= g.maxPlayers {
		return false, ErrGameFull
	}

	g.players = append(g.players, userID)
	g.playerSet[userID] = struct{}{}
	return true, nil
}

// Leave removes a player at any stage. If the roster empties the game ends
// (no-players). If the host leaves, WordRush ends (host-left) while
// SentenceRush hands the host role to the next player in join order. If the
// current player leaves mid-turn the live turn wait is cancelled.
func (g *Game) Leave(userID string) LeaveResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.playerSet[userID]; !ok {
		return LeaveResult{}
	}

	wasCurrent := g.stage == StagePlaying && len(g.players) > 0 && g.players[g.turnIndex] == userID

	idx := -1
	for i, id := range g.players {
		if id == userID {
			idx = i
			break
		}
	}
	g.players = append(g.players[:idx], g.players[idx+1:]...)
	delete(g.playerSet, userID)

	// Keep turnIndex pointing at the same player where possible
	if idx < g.turnIndex {
		g.turnIndex--
	}
	if len(g.players) > 0 && g.turnIndex >= len(g.players) {
		g.turnIndex = 0
	}

	result := LeaveResult{Removed: true}

	if len(g.players) == 0 {
		g.stopLocked(ReasonNoPlayers)
		result.Ended = true
		return result
	}

	if userID == g.hostID {
		if g.Kind == KindWordRush {
			g.stopLocked(ReasonHostLeft)
			result.Ended = true
			return result
		}
		g.hostID = g.players[0]
		result.NewHostID = g.hostID
	}

	if wasCurrent && g.collector != nil {
		g.collector.Stop(EndReasonStopped)
	}
	return result
}

// HasPlayer reports roster membership
func (g *Game) HasPlayer(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.playerSet[userID]
	return ok
}

// Players returns a copy of the roster in join order
func (g *Game) Players() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	players := make([]string, len(g.players))
	copy(players, g.players)
	return players
}

// PlayerCount returns the roster size
func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// BeginPlaying moves the game from waiting to playing
func (g *Game) BeginPlaying() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return ErrInvalidTransition
	}
	return g.transitionLocked(StagePlaying)
}

// CurrentTurnUser returns the player whose turn it is ("" when empty)
func (g *Game) CurrentTurnUser() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.players) == 0 || g.turnIndex >= len(g.players) {
		return ""
	}
	return g.players[g.turnIndex]
}

// AdvanceTurn moves to the next player in join order, wrapping. Returns the
// new current player and whether a full round just completed.
func (g *Game) AdvanceTurn() (userID string, wrapped bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.advanceTurnLocked()
}

// AdvanceTurnFrom advances the rotation only while userID still holds the
// turn. When the current player left mid-turn, their removal already moved
// the slot to the next player; advancing again would skip that player.
func (g *Game) AdvanceTurnFrom(userID string) (current string, wrapped bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.players) == 0 {
		return "", false
	}
	if g.players[g.turnIndex] != userID {
		return g.players[g.turnIndex], false
	}
	return g.advanceTurnLocked()
}

func (g *Game) advanceTurnLocked() (userID string, wrapped bool) {
	if len(g.players) == 0 {
		return "", false
	}
	g.turnIndex = (g.turnIndex + 1) % len(g.players)
	if g.turnIndex == 0 {
		g.rounds++
		wrapped = true
	}
	return g.players[g.turnIndex], wrapped
}

// Rounds returns how many full rounds have completed
func (g *Game) Rounds() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rounds
}

// AddPoint increments a WordRush score and returns the new value
func (g *Game) AddPoint(userID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scores[userID]++
	return g.scores[userID]
}

// Scores returns a copy of the score map
func (g *Game) Scores() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	scores := make(map[string]int, len(g.scores))
	for k, v := range g.scores {
		scores[k] = v
	}
	return scores
}

// BeginTurnWait opens the single live message collector for the current
// turn. Returns an error if a collector is still live: a new turn must not
// start before the previous wait fully ended.
func (g *Game) BeginTurnWait(window time.Duration, filter func(*discordgo.MessageCreate) bool) (*MessageCollector, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stopped {
		return nil, ErrInvalidTransition
	}
	if g.collector != nil {
		return nil, errors.New("a turn wait is already active")
	}

	c := NewMessageCollector(window, filter)
	g.collector = c
	return c, nil
}

// EndTurnWait clears the collector slot after the wait fully ended
func (g *Game) EndTurnWait(c *MessageCollector) {
	c.Stop(EndReasonMatched)
	g.mu.Lock()
	if g.collector == c {
		g.collector = nil
	}
	g.mu.Unlock()
}

// DeliverMessage routes a gateway message into the live turn wait, if any
func (g *Game) DeliverMessage(m *discordgo.MessageCreate) {
	g.mu.Lock()
	c := g.collector
	g.mu.Unlock()
	if c != nil {
		c.Deliver(m)
	}
}

// SetLobby installs the lobby component collector
func (g *Game) SetLobby(c *ComponentCollector) {
	g.mu.Lock()
	g.lobby = c
	g.mu.Unlock()
}

// ClearLobby removes the lobby collector once the join window closed
func (g *Game) ClearLobby() {
	g.mu.Lock()
	g.lobby = nil
	g.mu.Unlock()
}

// DeliverLobbyComponent routes a button press into the lobby collector.
// Returns false when no join window is open.
func (g *Game) DeliverLobbyComponent(i *discordgo.InteractionCreate) bool {
	g.mu.Lock()
	c := g.lobby
	g.mu.Unlock()
	if c == nil {
		return false
	}
	c.Deliver(i)
	return true
}

// Stop drives the game to its terminal state. Monotonic: the first reason
// sticks, later calls are no-ops. Any live collector is force-ended so the
// waiting turn loop unblocks immediately.
func (g *Game) Stop(reason StopReason) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopLocked(reason)
}

// stopLocked is Stop with g.mu already held
func (g *Game) stopLocked(reason StopReason) {
	if g.stopped {
		return
	}
	g.stopped = true
	g.stopReason = reason
	g.stage = StageEnded
	close(g.stopCh)

	if g.collector != nil {
		g.collector.Stop(EndReasonStopped)
	}
	if g.lobby != nil {
		g.lobby.Stop(EndReasonStopped)
	}
}

// SetWinner records the winner and ends the game
func (g *Game) SetWinner(userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return
	}
	g.winnerID = userID
	g.stopLocked(ReasonWon)
}

// IsStopped reports whether the game reached a terminal state
func (g *Game) IsStopped() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stopped
}

// StopCh is closed once the game stops, for select loops
func (g *Game) StopCh() <-chan struct{} {
	return g.stopCh
}

// Outcome returns the terminal reason and winner (valid once stopped)
func (g *Game) Outcome() (StopReason, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stopReason, g.winnerID
}
