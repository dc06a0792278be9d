package prover

import (
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vocdoni/davinci-voteproof/log"
	"golang.org/x/sync/singleflight"
)

// KeyCache keeps the key pairs of the most recently used max choice
// domains, so setup runs once per domain. Concurrent requests for a missing
// domain share a single setup.
type KeyCache struct {
	cache *lru.Cache[uint64, *KeyPair]
	group singleflight.Group
	opts  []Option
}

// NewKeyCache returns a cache holding up to size key pairs. The options are
// passed to every Setup call.
func NewKeyCache(size int, opts ...Option) (*KeyCache, error) {
	cache, err := lru.New[uint64, *KeyPair](size)
	if err != nil {
		return nil, fmt.Errorf("create key cache: %w", err)
	}
	return &KeyCache{cache: cache, opts: opts}, nil
}

// Get returns the cached key pair for domain, if any.
func (kc *KeyCache) Get(domain uint64) (*KeyPair, bool) {
	return kc.cache.Get(domain)
}

// Add stores a key pair under its domain, for instance one obtained from
// LoadKeys.
func (kc *KeyCache) Add(domain uint64, kp *KeyPair) {
	kc.cache.Add(domain, kp)
}

// Len returns the number of cached key pairs.
func (kc *KeyCache) Len() int {
	return kc.cache.Len()
}

// GetOrSetup returns the cached key pair for domain, running Setup if it is
// missing.
func (kc *KeyCache) GetOrSetup(domain uint64) (*KeyPair, error) {
	if kp, ok := kc.cache.Get(domain); ok {
		return kp, nil
	}
	v, err, shared := kc.group.Do(strconv.FormatUint(domain, 10), func() (any, error) {
		// another caller may have finished the setup meanwhile
		if kp, ok := kc.cache.Get(domain); ok {
			return kp, nil
		}
		kp, err := Setup(domain, kc.opts...)
		if err != nil {
			return nil, err
		}
		if evicted := kc.cache.Add(domain, kp); evicted {
			log.Debugw("key cache full, evicted oldest domain", "size", kc.cache.Len())
		}
		return kp, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debugw("shared key pair setup", "domain", domain)
	}
	return v.(*KeyPair), nil
}
