// Package conversation synchronizes one group's message timeline with the
// hosted document database. Every delivery replaces the full timeline; there
// is no local merge and no optimistic send.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wolfpackhq/wolfpack/internal/bus"
	"github.com/wolfpackhq/wolfpack/internal/platform/docstore"
)

const messageCollection = "messages"

// ErrEmptyMessage means Send was called with neither text nor an image.
var ErrEmptyMessage = errors.New("conversation: message has no content")

// ErrNotOpen means an operation needs an open conversation.
var ErrNotOpen = errors.New("conversation: not open")

// ErrAlreadyOpen means Open was called on an open conversation.
var ErrAlreadyOpen = errors.New("conversation: already open")

// state is the per-conversation lifecycle.
type state int

const (
	idle state = iota
	subscribed
)

// ViewMessage is one rendered timeline entry. Own is derived from the
// sender at projection time and never stored.
type ViewMessage struct {
	ID        string
	Text      string
	ImageURL  string
	SenderID  string
	Timestamp time.Time
	Own       bool
}

// Conversation is the live timeline for a single group.
type Conversation struct {
	docs     docstore.Client
	bus      *bus.Bus
	logger   *zap.Logger
	identity string

	mu       sync.RWMutex
	state    state
	groupID  string
	messages []ViewMessage
	sub      *docstore.Subscription
	done     chan struct{}
}

// New creates an idle conversation for the given identity.
func New(docs docstore.Client, b *bus.Bus, logger *zap.Logger, identity string) *Conversation {
	return &Conversation{docs: docs, bus: b, logger: logger, identity: identity}
}

// Open registers the live query for groupID. The initial full timeline
// arrives as the first snapshot event.
func (c *Conversation) Open(ctx context.Context, groupID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == subscribed {
		return ErrAlreadyOpen
	}

	sub, err := c.docs.Watch(ctx, docstore.Query{
		Collection: messageCollection,
		Filter:     map[string]any{"groupId": groupID},
		OrderBy:    "timestamp",
	})
	if err != nil {
		return fmt.Errorf("open conversation %s: %w", groupID, err)
	}

	c.state = subscribed
	c.groupID = groupID
	c.messages = nil
	c.sub = sub
	c.done = make(chan struct{})
	go c.consume(sub, c.done)
	return nil
}

// Close releases the live query and returns the conversation to idle.
// Safe to call on any exit path, including when never opened.
func (c *Conversation) Close() {
	c.mu.Lock()
	sub, done := c.sub, c.done
	c.state = idle
	c.groupID = ""
	c.messages = nil
	c.sub, c.done = nil, nil
	c.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
	if done != nil {
		close(done)
	}
}

// Messages returns the current timeline, oldest first.
func (c *Conversation) Messages() []ViewMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ViewMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// GroupID returns the open group, or "" when idle.
func (c *Conversation) GroupID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.groupID
}

// Send writes a message with client-observed time. There is no optimistic
// local insert: the message becomes visible when the next snapshot arrives.
// The caller clears its composer only when Send returns nil.
func (c *Conversation) Send(ctx context.Context, text, imageURL string) error {
	text = strings.TrimSpace(text)
	if text == "" && imageURL == "" {
		return ErrEmptyMessage
	}

	c.mu.RLock()
	groupID := c.groupID
	open := c.state == subscribed
	c.mu.RUnlock()
	if !open {
		return ErrNotOpen
	}

	_, err := c.docs.Insert(ctx, messageCollection, map[string]any{
		"groupId":   groupID,
		"text":      text,
		"imageUrl":  imageURL,
		"senderId":  c.identity,
		"timestamp": time.Now().UnixMilli(),
	})
	if err != nil {
		c.logger.Warn("send failed", zap.String("group", groupID), zap.Error(err))
		c.bus.Emit(bus.KindConversationSendFailed, err)
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (c *Conversation) consume(sub *docstore.Subscription, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case snap := <-sub.Snapshots():
			messages := c.project(snap)
			c.mu.Lock()
			if c.sub != sub {
				// Closed while projecting; drop the stale delivery.
				c.mu.Unlock()
				return
			}
			c.messages = messages
			c.mu.Unlock()
			c.bus.Emit(bus.KindConversationSnapshot, messages)
		case err := <-sub.Errors():
			c.logger.Warn("message query failed", zap.Error(err))
			c.bus.Emit(bus.KindConversationError, err)
		}
	}
}

// project decodes a full snapshot into the replacement timeline. Documents
// with neither text nor an image URL are dropped without aborting the rest.
// The stable re-sort keeps backend delivery order for equal timestamps.
func (c *Conversation) project(snap docstore.Snapshot) []ViewMessage {
	messages := make([]ViewMessage, 0, len(snap))
	for _, doc := range snap {
		text := doc.String("text")
		imageURL := doc.String("imageUrl")
		if text == "" && imageURL == "" {
			c.logger.Debug("dropping message document without content", zap.String("id", doc.ID))
			continue
		}
		sender := doc.String("senderId")
		messages = append(messages, ViewMessage{
			ID:        doc.ID,
			Text:      text,
			ImageURL:  imageURL,
			SenderID:  sender,
			Timestamp: doc.Time("timestamp"),
			Own:       sender == c.identity,
		})
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages
}
