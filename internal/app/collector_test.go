package app

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func chatMessage(userID, content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		Content: content,
		Author:  &discordgo.User{ID: userID},
	}}
}

func TestCollectorDeliversMatchingMessages(t *testing.T) {
	c := NewMessageCollector(time.Minute, func(m *discordgo.MessageCreate) bool {
		return m.Author.ID == "player-1"
	})
	defer c.Stop(EndReasonStopped)

	c.Deliver(chatMessage("player-2", "filtered out"))
	c.Deliver(chatMessage("player-1", "hello"))

	m, ok := c.Next()
	if !ok {
		t.Fatal("Expected a message")
	}
	if m.Content != "hello" {
		t.Errorf("Expected the matching message, got %q", m.Content)
	}
}

func TestCollectorTimesOut(t *testing.T) {
	c := NewMessageCollector(20*time.Millisecond, nil)

	start := time.Now()
	_, ok := c.Next()
	if ok {
		t.Error("Expected Next to report the collector ended")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Expected Next to block for the window, returned after %v", elapsed)
	}
	if reason := c.EndReason(); reason != EndReasonTime {
		t.Errorf("Expected end reason %s, got %s", EndReasonTime, reason)
	}
}

func TestCollectorStopWakesWaiter(t *testing.T) {
	c := NewMessageCollector(time.Minute, nil)

	done := make(chan struct{})
	go func() {
		c.Next()
		close(done)
	}()

	c.Stop(EndReasonMatched)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected Stop to unblock Next")
	}
	if reason := c.EndReason(); reason != EndReasonMatched {
		t.Errorf("Expected end reason %s, got %s", EndReasonMatched, reason)
	}
}

func TestCollectorFirstEndReasonSticks(t *testing.T) {
	c := NewMessageCollector(time.Minute, nil)

	c.Stop(EndReasonMatched)
	c.Stop(EndReasonStopped)

	if reason := c.EndReason(); reason != EndReasonMatched {
		t.Errorf("Expected the first end reason to stick, got %s", reason)
	}
}

func TestCollectorDeliverAfterEndIsDropped(t *testing.T) {
	c := NewMessageCollector(time.Minute, nil)
	c.Stop(EndReasonStopped)

	// Must not panic or block
	c.Deliver(chatMessage("player-1", "too late"))

	if _, ok := c.Next(); ok {
		t.Error("Expected no message after the collector ended")
	}
}

func TestCollectorEndedIsAlwaysNonResult(t *testing.T) {
	// A stopped collector must never hand out input, not even input that was
	// already buffered when the stop happened
	for i := 0; i < 200; i++ {
		c := NewMessageCollector(time.Minute, nil)
		c.Deliver(chatMessage("player-1", "buffered"))
		c.Stop(EndReasonStopped)
		c.Deliver(chatMessage("player-1", "late"))

		if m, ok := c.Next(); ok {
			t.Fatalf("Expected no message after Stop, got %q on iteration %d", m.Content, i)
		}
	}
}

func TestComponentCollectorDelivers(t *testing.T) {
	c := NewComponentCollector(time.Minute, func(i *discordgo.InteractionCreate) bool {
		return i.Type == discordgo.InteractionMessageComponent
	})
	defer c.Stop(EndReasonStopped)

	c.Deliver(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
	}})

	select {
	case <-c.Chan():
	case <-time.After(time.Second):
		t.Fatal("Expected the interaction on the channel")
	}
}
