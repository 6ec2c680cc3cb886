package companion_test

import (
	"testing"
	"time"

	"mindmate-be/pkg/companion"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	t.Run("Long Message Is Truncated With Ellipsis", func(t *testing.T) {
		msg := "I had a really hard day today and I don't know what to do about it"
		title := companion.DeriveTitle(msg, now)
		assert.Equal(t, "I had a really hard day today and I don't know wh...", title)
	})

	t.Run("Short Message Is Used Verbatim", func(t *testing.T) {
		assert.Equal(t, "I'm tired.", companion.DeriveTitle("I'm tired.", now))
	})

	t.Run("Exactly Fifty Characters Has No Ellipsis", func(t *testing.T) {
		msg := "12345678901234567890123456789012345678901234567890"
		assert.Equal(t, msg, companion.DeriveTitle(msg, now))
	})

	t.Run("Fifty One Characters Keeps Forty Nine Plus Ellipsis", func(t *testing.T) {
		msg := "123456789012345678901234567890123456789012345678901"
		assert.Equal(t, "1234567890123456789012345678901234567890123456789...", companion.DeriveTitle(msg, now))
	})

	t.Run("Empty Message Falls Back To Date Stamp", func(t *testing.T) {
		assert.Equal(t, "Conversation on 2024-03-15", companion.DeriveTitle("", now))
		assert.Equal(t, "Conversation on 2024-03-15", companion.DeriveTitle("   ", now))
	})

	t.Run("Surrounding Whitespace Is Trimmed Before Truncation", func(t *testing.T) {
		assert.Equal(t, "hello", companion.DeriveTitle("  hello  ", now))
	})
}
