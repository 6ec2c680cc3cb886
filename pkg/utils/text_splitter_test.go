package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTextShortInputSingleChunk(t *testing.T) {
	chunks := SplitText("hello world", 100, 10)
	assert.Equal(t, []string{"hello world"}, chunks)
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 chars
	chunks := SplitText(text, 40, 10)

	assert.True(t, len(chunks) > 1)
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		// Each chunk starts with the tail of the previous one
		assert.True(t, strings.HasSuffix(prev, chunks[i][:10]))
	}

	// No content lost at the end
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(text, last))
}

func TestSplitTextOverlapLargerThanChunk(t *testing.T) {
	text := strings.Repeat("x", 50)
	chunks := SplitText(text, 10, 20)

	// Falls back to non-overlapping steps instead of looping forever
	assert.Equal(t, 5, len(chunks))
}
