package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/mccastellazzob/motoclub/internal/cache"
)

// DefaultCacheTTL is how long a memoized translation is kept.
const DefaultCacheTTL = 30 * 24 * time.Hour

// CachedTranslator memoizes successful translations so repeated syncs of
// unchanged text cost no API calls.
type CachedTranslator struct {
	next  Translator
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedTranslator wraps next. A zero ttl uses DefaultCacheTTL.
func NewCachedTranslator(next Translator, c cache.Cache, ttl time.Duration) *CachedTranslator {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedTranslator{next: next, cache: c, ttl: ttl}
}

func cacheKey(text, source, target string) string {
	sum := sha256.Sum256([]byte(source + "|" + target + "|" + text))
	return "translation:" + hex.EncodeToString(sum[:])
}

// Translate implements Translator.
func (c *CachedTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if !needsTranslation(text) {
		return text, nil
	}

	key := cacheKey(text, source, target)
	if val, err := c.cache.Get(ctx, key); err == nil {
		return string(val), nil
	} else if !cache.IsMiss(err) {
		slog.Debug("translation cache read failed", "error", err)
	}

	out, err := c.next.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}
	if out != "" {
		if err := c.cache.Set(ctx, key, []byte(out), c.ttl); err != nil {
			slog.Debug("translation cache write failed", "error", err)
		}
	}
	return out, nil
}
