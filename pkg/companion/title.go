package companion

import (
	"strings"
	"time"
)

const (
	// TitleMaxLen is how much of the first user message becomes the session title.
	TitleMaxLen = 50

	// RenameTitleMaxLen bounds user-supplied titles on rename.
	RenameTitleMaxLen = 100

	// DefaultGreeting opens a session started without a first message.
	DefaultGreeting = "Hello"

	titleEllipsis       = "..."
	fallbackTitleLayout = "2006-01-02"
)

// DeriveTitle builds a session title from the first user message, or a
// date-stamped fallback when there was no user turn. Messages longer than
// TitleMaxLen are truncated with the ellipsis marker taking the place of the
// final kept character.
func DeriveTitle(firstMessage string, now time.Time) string {
	msg := strings.TrimSpace(firstMessage)
	if msg == "" {
		return "Conversation on " + now.Format(fallbackTitleLayout)
	}

	runes := []rune(msg)
	if len(runes) > TitleMaxLen {
		return string(runes[:TitleMaxLen-1]) + titleEllipsis
	}
	return msg
}
