package memory

import (
	"time"

	"pulse-chat-be/internal/dto"

	"github.com/patrickmn/go-cache"
)

// IdentityCache keeps resolved identities in memory so repeated credential
// checks (every websocket handshake, every REST call) skip the directory
// lookup. Entries expire on their own; we never invalidate proactively
// because Identity is immutable once resolved.
type IdentityCache struct {
	cache *cache.Cache
}

func NewIdentityCache() *IdentityCache {
	// Default expiration 15 minutes, purge sweep every 5.
	c := cache.New(15*time.Minute, 5*time.Minute)
	return &IdentityCache{
		cache: c,
	}
}

func (r *IdentityCache) Save(userId string, identity *dto.Identity) {
	r.cache.Set(userId, identity, cache.DefaultExpiration)
}

func (r *IdentityCache) Get(userId string) (*dto.Identity, bool) {
	if x, found := r.cache.Get(userId); found {
		return x.(*dto.Identity), true
	}
	return nil, false
}

func (r *IdentityCache) Delete(userId string) {
	r.cache.Delete(userId)
}
