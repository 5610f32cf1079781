package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	clifetcher "github.com/jmylchreest/contactscrape/cmd/contactscrape/fetcher"
	"github.com/jmylchreest/contactscrape/internal/logger"
	"github.com/jmylchreest/contactscrape/pkg/contact"
	"github.com/jmylchreest/contactscrape/pkg/fetcher"
	"github.com/jmylchreest/contactscrape/pkg/scraper"
)

// scrapeSettings are the acquisition and extraction settings shared by the
// scrape and serve commands.
type scrapeSettings struct {
	FetchMode         string        `validate:"oneof=static dynamic rod"`
	Timeout           time.Duration `validate:"gt=0"`
	UserAgent         string        `validate:"required"`
	WaitFor           string
	Wait              time.Duration `validate:"gte=0"`
	LocationStrategy  string        `validate:"oneof=city-region city-state-zip"`
	BrowserPerRequest bool
	ChromePath        string
}

// addScrapeFlags registers the shared settings on cmd.
func addScrapeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("fetch-mode", string(clifetcher.ModeDynamic), "fetch mode: static, dynamic, rod")
	flags.Duration("timeout", fetcher.DefaultTimeout, "page load timeout")
	flags.String("user-agent", fetcher.DefaultUserAgent, "user agent presented to sites")
	flags.String("wait-for", "", "CSS selector to wait for before capturing (browser modes)")
	flags.Duration("wait", 0, "extra pause after the page settles (browser modes)")
	flags.String("location-strategy", string(contact.CityRegion), "location heuristic: city-region, city-state-zip")
	flags.Bool("browser-per-request", false, "launch a fresh browser for every page")
	flags.String("chrome-path", "", "Chrome/Chromium binary (default: auto-detect)")
}

// loadScrapeSettings resolves each setting from its flag when set on the
// command line, then config/env (key with underscores), then the flag default.
func loadScrapeSettings(cmd *cobra.Command) (scrapeSettings, error) {
	s := scrapeSettings{
		FetchMode:         stringSetting(cmd, "fetch-mode"),
		UserAgent:         stringSetting(cmd, "user-agent"),
		WaitFor:           stringSetting(cmd, "wait-for"),
		LocationStrategy:  stringSetting(cmd, "location-strategy"),
		ChromePath:        stringSetting(cmd, "chrome-path"),
		Timeout:           durationSetting(cmd, "timeout"),
		Wait:              durationSetting(cmd, "wait"),
		BrowserPerRequest: boolSetting(cmd, "browser-per-request"),
	}

	if err := validator.New().Struct(s); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// newScraper builds a scraper from the settings. The caller must Close it.
func newScraper(s scrapeSettings) (*scraper.Scraper, error) {
	mode, err := clifetcher.ParseMode(s.FetchMode)
	if err != nil {
		return nil, err
	}
	strategy, err := contact.ParseLocationStrategy(s.LocationStrategy)
	if err != nil {
		return nil, err
	}

	fcfg := clifetcher.Config{
		UserAgent:  s.UserAgent,
		Timeout:    s.Timeout,
		ChromePath: s.ChromePath,
	}

	opts := []scraper.Option{
		scraper.WithUserAgent(s.UserAgent),
		scraper.WithTimeout(s.Timeout),
		scraper.WithWaitForSelector(s.WaitFor),
		scraper.WithWaitDuration(s.Wait),
		scraper.WithLocationStrategy(strategy),
	}

	if s.BrowserPerRequest && mode != clifetcher.ModeStatic {
		opts = append(opts, scraper.WithFetcherFactory(func() (fetcher.Fetcher, error) {
			return clifetcher.New(mode, fcfg)
		}))
	} else {
		f, err := clifetcher.New(mode, fcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s fetcher: %w", mode, err)
		}
		opts = append(opts, scraper.WithFetcher(f))
	}

	logger.Debug("scraper configured",
		"fetch_mode", mode,
		"browser_per_request", s.BrowserPerRequest,
		"location_strategy", strategy,
		"timeout", s.Timeout)

	return scraper.New(opts...), nil
}

func viperKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

func stringSetting(cmd *cobra.Command, flag string) string {
	v, _ := cmd.Flags().GetString(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(viperKey(flag)) {
		return viper.GetString(viperKey(flag))
	}
	return v
}

func durationSetting(cmd *cobra.Command, flag string) time.Duration {
	v, _ := cmd.Flags().GetDuration(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(viperKey(flag)) {
		return viper.GetDuration(viperKey(flag))
	}
	return v
}

func boolSetting(cmd *cobra.Command, flag string) bool {
	v, _ := cmd.Flags().GetBool(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(viperKey(flag)) {
		return viper.GetBool(viperKey(flag))
	}
	return v
}
