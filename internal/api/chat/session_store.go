package chat

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// SessionStore keeps per-session state keyed by the opaque session id.
// Implementations must allow concurrent access from different sessions
// without cross-session interference.
type SessionStore interface {
	// Language returns the stored preferred language, if any.
	Language(sessionID string) (string, bool)

	// SetLanguage persists the preferred language for the session. The
	// orchestrator calls this exactly once per session, after the first
	// successful detection; the value is sticky from then on.
	SetLanguage(sessionID, lang string)
}

var _ SessionStore = (*CacheSessionStore)(nil)

// CacheSessionStore is an in-memory, TTL'd session store. Entries expire
// with the store rather than being explicitly destroyed.
type CacheSessionStore struct {
	cache *gocache.Cache
}

func NewCacheSessionStore(ttl time.Duration) *CacheSessionStore {
	return &CacheSessionStore{
		cache: gocache.New(ttl, time.Hour),
	}
}

func (s *CacheSessionStore) Language(sessionID string) (string, bool) {
	v, ok := s.cache.Get(sessionID)
	if !ok {
		return "", false
	}
	lang, ok := v.(string)
	return lang, ok
}

func (s *CacheSessionStore) SetLanguage(sessionID, lang string) {
	s.cache.SetDefault(sessionID, lang)
}
