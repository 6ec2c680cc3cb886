package companion_test

import (
	"fmt"
	"testing"

	"mindmate-be/pkg/companion"
	"mindmate-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

func msgs(roles ...string) []llm.Message {
	out := make([]llm.Message, len(roles))
	for i, r := range roles {
		out[i] = llm.Message{Role: r, Content: fmt.Sprintf("m%d", i)}
	}
	return out
}

func roles(in []llm.Message) []string {
	out := make([]string, len(in))
	for i, m := range in {
		out[i] = m.Role
	}
	return out
}

func TestNormalizeHistory(t *testing.T) {
	t.Run("Drops Leading Model Turns And Truncates At Repeat", func(t *testing.T) {
		in := msgs("model", "user", "user", "model")
		out := companion.NormalizeHistory(in)
		assert.Equal(t, []string{"user"}, roles(out)[:1])
		assert.Equal(t, []string{"user", "model"}, roles(out))
		// Content follows the kept entries, not re-indexed
		assert.Equal(t, "m1", out[0].Content)
		assert.Equal(t, "m3", out[1].Content)
	})

	t.Run("Valid Input Passes Through Unchanged", func(t *testing.T) {
		in := msgs("user", "model", "user", "model", "user")
		out := companion.NormalizeHistory(in)
		assert.Equal(t, in, out)
	})

	t.Run("All Model Turns Yield Empty Window", func(t *testing.T) {
		out := companion.NormalizeHistory(msgs("model", "model"))
		assert.Empty(t, out)
	})

	t.Run("Empty Input", func(t *testing.T) {
		assert.Empty(t, companion.NormalizeHistory(nil))
	})

	t.Run("Truncates At Same Role Repeat Mid Stream", func(t *testing.T) {
		in := msgs("user", "model", "model", "user")
		out := companion.NormalizeHistory(in)
		assert.Equal(t, []string{"user", "model"}, roles(out))
	})
}

func TestBuildHistoryWindow(t *testing.T) {
	t.Run("Maps Assistant To Model Role", func(t *testing.T) {
		turns := []companion.Turn{
			{Role: companion.RoleUser, Content: "hi"},
			{Role: companion.RoleAssistant, Content: "hello"},
		}
		window := companion.BuildHistoryWindow(turns)
		assert.Equal(t, []string{"user", "model"}, roles(window))
		assert.Equal(t, "hello", window[1].Content)
	})

	t.Run("Keeps At Most Last Twenty Entries", func(t *testing.T) {
		var turns []companion.Turn
		for i := 0; i < 30; i++ {
			role := companion.RoleUser
			if i%2 == 1 {
				role = companion.RoleAssistant
			}
			turns = append(turns, companion.Turn{Role: role, Content: fmt.Sprintf("t%d", i)})
		}
		window := companion.BuildHistoryWindow(turns)
		assert.Len(t, window, companion.HistoryWindowSize)
		// Window is the tail of the transcript
		assert.Equal(t, "t10", window[0].Content)
		assert.Equal(t, "user", window[0].Role)
		assert.Equal(t, "t29", window[len(window)-1].Content)
	})

	t.Run("Window Starting On Assistant Turn Is Renormalized", func(t *testing.T) {
		// 3 turns, assistant first: greeting-only sessions look like this.
		turns := []companion.Turn{
			{Role: companion.RoleAssistant, Content: "welcome"},
			{Role: companion.RoleUser, Content: "hi"},
			{Role: companion.RoleAssistant, Content: "hello"},
		}
		window := companion.BuildHistoryWindow(turns)
		assert.Equal(t, []string{"user", "model"}, roles(window))
		assert.Equal(t, "hi", window[0].Content)
	})
}
