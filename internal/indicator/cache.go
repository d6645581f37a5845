package indicator

import (
	"fmt"
	"sync"
	"time"
)

type cacheEntry struct {
	fingerprint string
	frame       *Frame
	expiresAt   time.Time
	lastUsed    time.Time
}

// Cache 为指标序列提供容量与TTL双重限制的缓存。
// 指纹由序列长度与末根日期构成，底层行情一旦变化即视为未命中。
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	entries    map[string]*cacheEntry
	now        func() time.Time
}

// NewCache 创建指标缓存。
func NewCache(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = 64
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{
		maxEntries: maxEntries,
		ttl:        ttl,
		entries:    make(map[string]*cacheEntry),
		now:        time.Now,
	}
}

// Fingerprint 根据序列特征生成缓存指纹。
func Fingerprint(length int, lastDate time.Time) string {
	return fmt.Sprintf("%d:%d", length, lastDate.UTC().Unix())
}

// Get 查询缓存；指纹不符或已过期时返回未命中。
func (c *Cache) Get(symbol, fingerprint string) (*Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[symbol]
	if !ok {
		return nil, false
	}
	if entry.fingerprint != fingerprint || c.now().After(entry.expiresAt) {
		delete(c.entries, symbol)
		return nil, false
	}

	entry.lastUsed = c.now()
	return entry.frame, true
}

// Set 写入缓存，容量超限时淘汰最久未使用的条目。
func (c *Cache) Set(symbol, fingerprint string, frame *Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, ok := c.entries[symbol]; !ok && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.entries[symbol] = &cacheEntry{
		fingerprint: fingerprint,
		frame:       frame,
		expiresAt:   now.Add(c.ttl),
		lastUsed:    now,
	}
}

// Invalidate 删除某标的的缓存条目。
func (c *Cache) Invalidate(symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, symbol)
}

// Len 返回当前缓存条目数。
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.lastUsed.Before(oldest) {
			oldestKey = key
			oldest = entry.lastUsed
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
