package app

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Collector end reasons
const (
	EndReasonTime    = "time"    // window expired with no accepted input
	EndReasonMatched = "matched" // engine accepted a winning input
	EndReasonStopped = "stopped" // game was stopped while waiting
)

// MessageCollector is a bounded, predicate-filtered wait for chat messages:
// the Go stand-in for "await next message matching predicate, with timeout".
// Events are delivered from the gateway handler goroutine; the turn engine
// consumes them with Next. Exactly one collector is live per game at a time.
type MessageCollector struct {
	ch     chan *discordgo.MessageCreate
	done   chan struct{}
	once   sync.Once
	timer  *time.Timer
	filter func(*discordgo.MessageCreate) bool

	mu     sync.Mutex
	reason string
}

// NewMessageCollector opens a collector that ends after window unless stopped
func NewMessageCollector(window time.Duration, filter func(*discordgo.MessageCreate) bool) *MessageCollector {
	c := &MessageCollector{
		ch:     make(chan *discordgo.MessageCreate, 8),
		done:   make(chan struct{}),
		filter: filter,
	}
	c.timer = time.AfterFunc(window, func() { c.end(EndReasonTime) })
	return c
}

// Deliver hands a gateway event to the collector. Non-matching and overflow
// events are dropped; delivery never blocks the gateway handler. An ended
// collector accepts nothing, even with buffer space free.
func (c *MessageCollector) Deliver(m *discordgo.MessageCreate) {
	if c.filter != nil && !c.filter(m) {
		return
	}
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.ch <- m:
	default:
	}
}

// Next blocks until the next matching message, the window expiry, or Stop.
// Returns false when the collector has ended; the end wins over anything
// still sitting in the buffer, so a forced end is always a non-result.
func (c *MessageCollector) Next() (*discordgo.MessageCreate, bool) {
	select {
	case m := <-c.ch:
		select {
		case <-c.done:
			return nil, false
		default:
		}
		return m, true
	case <-c.done:
		return nil, false
	}
}

// Stop force-ends the collector; any goroutine blocked in Next wakes up
func (c *MessageCollector) Stop(reason string) {
	c.timer.Stop()
	c.end(reason)
}

// Done is closed when the collector has ended for any reason
func (c *MessageCollector) Done() <-chan struct{} {
	return c.done
}

// EndReason returns why the collector ended ("" while still live)
func (c *MessageCollector) EndReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

func (c *MessageCollector) end(reason string) {
	c.once.Do(func() {
		c.mu.Lock()
		c.reason = reason
		c.mu.Unlock()
		close(c.done)
	})
}

// ComponentCollector is the same bounded wait for button interactions,
// used by the lobby join window.
type ComponentCollector struct {
	ch     chan *discordgo.InteractionCreate
	done   chan struct{}
	once   sync.Once
	timer  *time.Timer
	filter func(*discordgo.InteractionCreate) bool

	mu     sync.Mutex
	reason string
}

// NewComponentCollector opens a component collector bounded by window
func NewComponentCollector(window time.Duration, filter func(*discordgo.InteractionCreate) bool) *ComponentCollector {
	c := &ComponentCollector{
		ch:     make(chan *discordgo.InteractionCreate, 8),
		done:   make(chan struct{}),
		filter: filter,
	}
	c.timer = time.AfterFunc(window, func() { c.end(EndReasonTime) })
	return c
}

// Deliver hands a component interaction to the collector without blocking.
// An ended collector accepts nothing.
func (c *ComponentCollector) Deliver(i *discordgo.InteractionCreate) {
	if c.filter != nil && !c.filter(i) {
		return
	}
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.ch <- i:
	default:
	}
}

// Chan exposes the interaction stream for select loops
func (c *ComponentCollector) Chan() <-chan *discordgo.InteractionCreate {
	return c.ch
}

// Done is closed when the collector has ended for any reason
func (c *ComponentCollector) Done() <-chan struct{} {
	return c.done
}

// Stop force-ends the collector
func (c *ComponentCollector) Stop(reason string) {
	c.timer.Stop()
	c.end(reason)
}

// EndReason returns why the collector ended ("" while still live)
func (c *ComponentCollector) EndReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

func (c *ComponentCollector) end(reason string) {
	c.once.Do(func() {
		c.mu.Lock()
		c.reason = reason
		c.mu.Unlock()
		close(c.done)
	})
}
