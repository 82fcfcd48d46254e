package app

import (
	"errors"
	"testing"

	"github.com/devdussey/Dussbot-sub002/internal/store"
)

func testGame(kind Kind, guildID, channelID, hostID string) *Game {
	return NewGame(kind, guildID, channelID, hostID, store.GuildSettings{}, 2, 6)
}

func TestRegistryOneGamePerChannel(t *testing.T) {
	r := NewRegistry()

	first, err := r.Start("guild-1", "channel-1", func() *Game {
		return testGame(KindWordRush, "guild-1", "channel-1", "host-1")
	})
	if err != nil {
		t.Fatalf("Expected first start to succeed, got %v", err)
	}

	_, err = r.Start("guild-1", "channel-1", func() *Game {
		return testGame(KindSentenceRush, "guild-1", "channel-1", "host-2")
	})
	if !errors.Is(err, ErrGameAlreadyRunning) {
		t.Errorf("Expected ErrGameAlreadyRunning for occupied channel, got %v", err)
	}

	if got := r.Get("guild-1", "channel-1"); got != first {
		t.Errorf("Expected Get to return the first game, got %v", got)
	}
}

func TestRegistrySameChannelDifferentGuild(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Start("guild-1", "channel-1", func() *Game {
		return testGame(KindWordRush, "guild-1", "channel-1", "host-1")
	}); err != nil {
		t.Fatalf("Expected start in guild-1 to succeed, got %v", err)
	}

	if _, err := r.Start("guild-2", "channel-1", func() *Game {
		return testGame(KindWordRush, "guild-2", "channel-1", "host-2")
	}); err != nil {
		t.Errorf("Expected same channel ID in another guild to be a free slot, got %v", err)
	}

	if count := r.Count(); count != 2 {
		t.Errorf("Expected 2 active games, got %d", count)
	}
}

func TestRegistryRemoveFreesSlot(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Start("guild-1", "channel-1", func() *Game {
		return testGame(KindWordRush, "guild-1", "channel-1", "host-1")
	}); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}

	r.Remove("guild-1", "channel-1")

	if got := r.Get("guild-1", "channel-1"); got != nil {
		t.Errorf("Expected empty slot after Remove, got %v", got)
	}
	if _, err := r.Start("guild-1", "channel-1", func() *Game {
		return testGame(KindSentenceRush, "guild-1", "channel-1", "host-2")
	}); err != nil {
		t.Errorf("Expected start after Remove to succeed, got %v", err)
	}
}

func TestRegistryFailedStartDoesNotTouchExisting(t *testing.T) {
	r := NewRegistry()

	first, _ := r.Start("guild-1", "channel-1", func() *Game {
		return testGame(KindWordRush, "guild-1", "channel-1", "host-1")
	})

	factoryCalled := false
	_, err := r.Start("guild-1", "channel-1", func() *Game {
		factoryCalled = true
		return testGame(KindWordRush, "guild-1", "channel-1", "host-2")
	})
	if err == nil {
		t.Fatal("Expected second start to fail")
	}
	if factoryCalled {
		t.Error("Expected factory not to run when the slot is occupied")
	}
	if got := r.Get("guild-1", "channel-1"); got != first {
		t.Errorf("Expected existing game to survive a failed start, got %v", got)
	}
}
