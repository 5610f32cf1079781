package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/jmylchreest/contactscrape/internal/logger"
	"github.com/jmylchreest/contactscrape/pkg/fetcher"
)

// requestIdle is how long the page must go without network activity before
// it is considered settled.
const requestIdle = 500 * time.Millisecond

// RodFetcher renders pages with go-rod using stealth-patched tabs.
// The browser is launched by NewRodFetcher and killed by Close; each Fetch
// uses its own tab.
type RodFetcher struct {
	config   Config
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewRodFetcher launches a headless browser and connects to it.
func NewRodFetcher(cfg Config) (*RodFetcher, error) {
	cfg.applyDefaults()

	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage")
	if cfg.ChromePath != "" {
		l = l.Bin(cfg.ChromePath)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	logger.Debug("rod fetcher created", "control_url", u, "timeout", cfg.Timeout)

	return &RodFetcher{config: cfg, launcher: l, browser: b}, nil
}

// Fetch opens a stealth tab, navigates to targetURL, waits for the network
// to go quiet and captures the DOM and visible text.
func (f *RodFetcher) Fetch(ctx context.Context, targetURL string, opts fetcher.Options) (fetcher.Content, error) {
	result := fetcher.Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = f.config.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tab, err := stealth.Page(f.browser)
	if err != nil {
		return result, fmt.Errorf("failed to open tab: %w", err)
	}
	defer func() {
		if err := tab.Close(); err != nil {
			logger.Debug("failed to close tab", "error", err)
		}
	}()

	p := tab.Context(ctx)

	ua := f.config.userAgentFor(opts)
	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
		return result, fmt.Errorf("failed to set user agent: %w", err)
	}

	waitIdle := p.WaitRequestIdle(requestIdle, nil, nil, nil)
	if err := p.Navigate(targetURL); err != nil {
		return result, f.wrapErr(ctx, targetURL, "navigation failed", err)
	}
	if err := p.WaitLoad(); err != nil {
		return result, f.wrapErr(ctx, targetURL, "page load failed", err)
	}
	waitIdle()

	if opts.WaitForSelector != "" {
		if _, err := p.Element(opts.WaitForSelector); err != nil {
			return result, f.wrapErr(ctx, targetURL, "wait for selector failed", err)
		}
	}
	if opts.WaitDuration > 0 {
		select {
		case <-time.After(opts.WaitDuration):
		case <-ctx.Done():
			return result, f.wrapErr(ctx, targetURL, "wait interrupted", ctx.Err())
		}
	}

	html, err := p.HTML()
	if err != nil {
		return result, f.wrapErr(ctx, targetURL, "failed to read DOM", err)
	}
	text, err := p.Eval(`() => ` + bodyTextJS)
	if err != nil {
		return result, f.wrapErr(ctx, targetURL, "failed to read text", err)
	}
	info, err := p.Info()
	if err != nil {
		return result, f.wrapErr(ctx, targetURL, "failed to read page info", err)
	}

	result.HTML = html
	result.Text = text.Value.Str()
	result.Title = info.Title
	result.StatusCode = 200

	if challenge := fetcher.DetectChallengePage(result.Title, html); challenge != "" {
		logger.Warn("challenge page detected", "url", targetURL, "type", challenge)
		return result, fmt.Errorf("%w: %s", fetcher.ErrAntiBot, challenge)
	}

	logger.Debug("rod fetch complete",
		"url", targetURL,
		"title", result.Title,
		"html_size", len(html),
		"text_size", len(result.Text))

	return result, nil
}

func (f *RodFetcher) wrapErr(ctx context.Context, targetURL, msg string, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		logger.Warn("browser timeout", "url", targetURL)
		return fmt.Errorf("%w: %s: %v", fetcher.ErrChallengeTimeout, msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Close shuts the browser down and removes its profile directory.
func (f *RodFetcher) Close() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher.Cleanup()
		f.launcher = nil
	}
	return err
}

// Type returns the fetcher type.
func (f *RodFetcher) Type() string {
	return "rod"
}
