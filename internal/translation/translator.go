// Package translation keeps the non-Italian copies of every page in step
// with the Italian source: it snapshots translatable fields into segments,
// machine-translates them and publishes the result on the target pages.
package translation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mccastellazzob/motoclub/internal/cache"
	"github.com/mccastellazzob/motoclub/internal/config"
)

// Translator translates text between two language codes.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// needsTranslation reports whether text is long enough to send upstream.
// Shorter input is returned unchanged by every backend.
func needsTranslation(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= 2
}

// Noop returns its input unchanged.
type Noop struct{}

// Translate implements Translator.
func (Noop) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

// FromConfig builds the backend selected by MC_TRANSLATOR. When c is not
// nil the backend is wrapped in a CachedTranslator.
func FromConfig(cfg *config.Config, c cache.Cache) (Translator, error) {
	var t Translator
	switch cfg.Translator {
	case config.TranslatorLibre:
		t = NewLibreTranslate(cfg.LibreTranslateURL, cfg.LibreTranslateKey, cfg.TranslateTimeout)
	case config.TranslatorOpenAI:
		t = NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case config.TranslatorNone:
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown translator %q", cfg.Translator)
	}

	if c != nil {
		t = NewCachedTranslator(t, c, cfg.TranslationCacheTTL)
	}
	return t, nil
}

// DefaultCallTimeout bounds a single upstream translation call.
const DefaultCallTimeout = 30 * time.Second
