// Package flash carries one-shot messages across a redirect in the session.
package flash

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Error   Level = "error"
)

const (
	levelKey   = "flash_level"
	messageKey = "flash_message"
)

type Message struct {
	Level Level
	Text  string
}

// Add queues msg for the next rendered page, replacing any unread message.
func Add(ctx context.Context, sm *scs.SessionManager, level Level, text string) {
	sm.Put(ctx, levelKey, string(level))
	sm.Put(ctx, messageKey, text)
}

// Pop returns and clears the pending message, if any.
func Pop(ctx context.Context, sm *scs.SessionManager) (Message, bool) {
	text := sm.PopString(ctx, messageKey)
	level := sm.PopString(ctx, levelKey)
	if text == "" {
		return Message{}, false
	}
	if level == "" {
		level = string(Info)
	}
	return Message{Level: Level(level), Text: text}, true
}
