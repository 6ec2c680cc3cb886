package companion

import (
	"mindmate-be/pkg/llm"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// RoleModel is the wire-level assistant role used by the generation protocol.
	RoleModel = "model"

	// HistoryWindowSize bounds how many prior turns are resent per generation call.
	HistoryWindowSize = 20
)

// BuildHistoryWindow maps transcript turns to the generation protocol's
// two-role vocabulary (user/model), keeps at most the last HistoryWindowSize
// entries, and normalizes the result for the protocol's alternation rule.
func BuildHistoryWindow(turns []Turn) []llm.Message {
	mapped := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		role := RoleUser
		if t.Role == RoleAssistant {
			role = RoleModel
		}
		mapped = append(mapped, llm.Message{Role: role, Content: t.Content})
	}

	if len(mapped) > HistoryWindowSize {
		mapped = mapped[len(mapped)-HistoryWindowSize:]
	}

	return NormalizeHistory(mapped)
}

// NormalizeHistory yields the longest strictly-alternating prefix starting on a
// user turn: leading model entries are dropped (history must never look
// bot-initiated), then entries are appended while roles keep alternating,
// truncating at the first same-role repeat.
func NormalizeHistory(msgs []llm.Message) []llm.Message {
	start := 0
	for start < len(msgs) && msgs[start].Role != RoleUser {
		start++
	}

	out := make([]llm.Message, 0, len(msgs)-start)
	for _, m := range msgs[start:] {
		if len(out) > 0 && out[len(out)-1].Role == m.Role {
			break
		}
		out = append(out, m)
	}
	return out
}
