// Package translate produces English text for non-English articles through an
// ordered provider fallback chain. Translation failures are never fatal: the
// pipeline proceeds with the original text.
package translate

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/newsscope/newswatch/internal/cache"
	"github.com/newsscope/newswatch/internal/config"
	"github.com/newsscope/newswatch/internal/feed"
)

// maxInputChars caps the text sent to any provider.
const maxInputChars = 5000

// minUsefulOutput is the shortest output accepted as a real translation.
const minUsefulOutput = 10

var (
	// ErrEmptyInput is returned when there is nothing to translate.
	ErrEmptyInput = errors.New("translate: empty input")
	// ErrChainExhausted is returned when every provider failed.
	ErrChainExhausted = errors.New("translate: all providers failed")
)

// Provider is one step of the translation fallback chain.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, srcLang string) (string, error)
}

// Translator runs the provider chain with caching.
type Translator struct {
	enabled   bool
	providers []Provider
	cache     *cache.Cache
}

// New builds the translator from configuration. The chain order is: dedicated
// Indic model, primary provider, secondary provider, free-tier MyMemory.
// Unconfigured steps are skipped.
func New(cfg config.TranslateConfig, c *cache.Cache) *Translator {
	var providers []Provider
	if cfg.IndicURL != "" {
		providers = append(providers, newIndicProvider(cfg.IndicURL))
	}
	if cfg.PrimaryURL != "" {
		providers = append(providers, newHTTPProvider("primary", cfg.PrimaryURL, cfg.PrimaryKey))
	}
	if cfg.SecondaryURL != "" {
		providers = append(providers, newHTTPProvider("secondary", cfg.SecondaryURL, ""))
	}
	providers = append(providers, newMyMemoryProvider())

	return &Translator{
		enabled:   cfg.Enabled,
		providers: providers,
		cache:     c,
	}
}

// NewWithProviders builds a translator over an explicit chain. Used by tests.
func NewWithProviders(c *cache.Cache, providers ...Provider) *Translator {
	return &Translator{enabled: true, providers: providers, cache: c}
}

// Enabled reports whether translation is switched on.
func (t *Translator) Enabled() bool {
	return t != nil && t.enabled
}

// Translate returns the English rendition of text. English input is returned
// unchanged; empty input returns ErrEmptyInput. The first provider whose
// output is non-empty and longer than ten characters wins; when the whole
// chain fails, ErrChainExhausted is returned and the caller keeps the
// original text.
func (t *Translator) Translate(ctx context.Context, text, srcLang string) (string, error) {
	if srcLang == "en" {
		return text, nil
	}

	cleaned := feed.CleanText(text)
	if strings.TrimSpace(cleaned) == "" {
		return "", ErrEmptyInput
	}
	if len([]rune(cleaned)) > maxInputChars {
		cleaned = string([]rune(cleaned)[:maxInputChars])
	}

	cacheKey := cleaned + "|" + srcLang + "|en"
	if cached, ok := t.cache.GetString(ctx, cache.PrefixTranslate, cacheKey); ok {
		return cached, nil
	}

	for _, p := range t.providers {
		out, err := p.Translate(ctx, cleaned, srcLang)
		if err != nil {
			slog.Warn("translate: provider failed", "provider", p.Name(), "lang", srcLang, "err", err)
			continue
		}
		out = strings.TrimSpace(out)
		if len(out) <= minUsefulOutput {
			slog.Warn("translate: provider output too short", "provider", p.Name(), "len", len(out))
			continue
		}

		t.cache.SetString(ctx, cache.PrefixTranslate, cacheKey, out)
		slog.Debug("translate: success", "provider", p.Name(), "lang", srcLang)
		return out, nil
	}

	return "", ErrChainExhausted
}
