package access

import (
	"sync"
	"time"

	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
)

const janitorInterval = time.Minute

type cacheEntry struct {
	rule      models.FeatureAccessRule
	expiresAt time.Time
}

// RuleCache is a TTL cache for feature access rules. It is owned by the access
// service instance, so tests can run isolated caches side by side, and Close
// stops its janitor goroutine.
type RuleCache struct {
	mu        sync.RWMutex
	entries   map[string]cacheEntry
	ttl       time.Duration
	done      chan struct{}
	closeOnce sync.Once
}

// NewRuleCache builds a cache whose entries live for ttl. A non-positive ttl
// disables caching entirely; Get always misses.
func NewRuleCache(ttl time.Duration) *RuleCache {
	c := &RuleCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	if ttl > 0 {
		go c.janitor()
	}
	return c
}

// Get returns the cached rule for featureKey if it is still fresh.
func (c *RuleCache) Get(featureKey string) (*models.FeatureAccessRule, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[featureKey]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	rule := entry.rule
	return &rule, true
}

// Set stores a rule under its feature key.
func (c *RuleCache) Set(rule models.FeatureAccessRule) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[rule.FeatureKey] = cacheEntry{
		rule:      rule,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Invalidate drops the entry for featureKey, if any. Admin rule edits call
// this so request paths never serve a stale rule past the TTL.
func (c *RuleCache) Invalidate(featureKey string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, featureKey)
	c.mu.Unlock()
}

// Close stops the janitor goroutine. Safe to call more than once.
func (c *RuleCache) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (c *RuleCache) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
