// Package fetcher provides the browser-backed page snapshot providers used by
// the CLI: a chromedp fetcher and a go-rod fetcher with stealth patches.
// Both capture the DOM and document.body.innerText from the same render.
package fetcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/contactscrape/pkg/fetcher"
)

// Mode names a fetch strategy.
type Mode string

const (
	ModeStatic  Mode = "static"
	ModeDynamic Mode = "dynamic"
	ModeRod     Mode = "rod"
)

// ParseMode resolves a user-supplied mode name. The empty string selects
// the dynamic browser fetcher.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeDynamic, nil
	case ModeStatic, ModeDynamic, ModeRod:
		return m, nil
	default:
		return "", fmt.Errorf("unknown fetch mode: %s (use static, dynamic or rod)", s)
	}
}

// Config holds configuration for the browser fetchers.
type Config struct {
	UserAgent string
	Timeout   time.Duration

	// ChromePath overrides browser discovery.
	ChromePath string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: fetcher.DefaultUserAgent,
		Timeout:   fetcher.DefaultTimeout,
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.ChromePath == "" {
		c.ChromePath = FindChromePath()
	}
}

// userAgentFor returns the per-request user agent, falling back to the
// configured one.
func (c Config) userAgentFor(opts fetcher.Options) string {
	if opts.UserAgent != "" {
		return opts.UserAgent
	}
	return c.UserAgent
}

// New creates the fetcher for mode.
func New(mode Mode, cfg Config) (fetcher.Fetcher, error) {
	switch mode {
	case ModeStatic:
		return fetcher.NewStatic(fetcher.StaticConfig{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		}), nil
	case ModeDynamic, "":
		return NewDynamicFetcher(cfg)
	case ModeRod:
		return NewRodFetcher(cfg)
	default:
		return nil, fmt.Errorf("unknown fetch mode: %s", mode)
	}
}

// bodyTextJS reads the rendered visible text, matching what a user sees.
const bodyTextJS = `document.body ? document.body.innerText : ""`
