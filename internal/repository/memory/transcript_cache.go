package memory

import (
	"time"

	"mindmate-be/pkg/companion"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// TranscriptCache keeps recently active session transcripts in memory so a
// running conversation does not reload its message history on every turn.
// Entries expire after an hour of inactivity.
type TranscriptCache struct {
	cache *cache.Cache
}

func NewTranscriptCache() *TranscriptCache {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &TranscriptCache{
		cache: c,
	}
}

func (r *TranscriptCache) Save(sessionId uuid.UUID, turns []companion.Turn) {
	copied := append([]companion.Turn(nil), turns...)
	r.cache.Set(sessionId.String(), copied, cache.DefaultExpiration)
}

func (r *TranscriptCache) Get(sessionId uuid.UUID) ([]companion.Turn, bool) {
	if x, found := r.cache.Get(sessionId.String()); found {
		return x.([]companion.Turn), true
	}
	return nil, false
}

func (r *TranscriptCache) Append(sessionId uuid.UUID, turns ...companion.Turn) {
	existing, found := r.Get(sessionId)
	if !found {
		return
	}
	r.Save(sessionId, append(existing, turns...))
}

func (r *TranscriptCache) Delete(sessionId uuid.UUID) {
	r.cache.Delete(sessionId.String())
}
