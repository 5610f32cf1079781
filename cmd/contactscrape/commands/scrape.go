package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/contactscrape/internal/logger"
	"github.com/jmylchreest/contactscrape/internal/output"
	"github.com/jmylchreest/contactscrape/pkg/scraper"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Extract contact details from URLs",
	Long: `Render each page and print the contact record found on it.

Structured formats (json, jsonl, yaml) carry every discovered email and
phone number; tsv prints one line per page with the first of each.

Examples:
  contactscrape scrape -u "https://example.com/profile"
  contactscrape scrape -u https://a.example -u https://b.example -c 2 --format jsonl
  contactscrape scrape -u https://example.com --fetch-mode static --format tsv -o contacts.tsv`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	flags := scrapeCmd.Flags()
	flags.StringSliceP("url", "u", nil, "URL(s) to scrape (can be repeated)")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml, tsv")
	flags.IntP("concurrency", "c", 1, "pages scraped in parallel")
	flags.Bool("pretty", true, "indent JSON output")
	addScrapeFlags(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	urls, _ := cmd.Flags().GetStringSlice("url")
	urls = append(urls, args...)
	if len(urls) == 0 {
		return cmd.Help()
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	settings, err := loadScrapeSettings(cmd)
	if err != nil {
		return err
	}

	s, err := newScraper(settings)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return err
	}
	defer func() { _ = s.Close() }()

	outFile := os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			logger.Error("failed to create output file", "path", outPath, "error", err)
			return err
		}
		defer func() { _ = f.Close() }()
		outFile = f
	}

	pretty, _ := cmd.Flags().GetBool("pretty")
	writer, err := output.NewWriter(outFile, format,
		output.WithPretty(pretty),
		output.WithHeader(scraper.TSVHeader...))
	if err != nil {
		return err
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	logInfo("Scraping %d URL(s) with %s fetcher", len(urls), settings.FetchMode)

	var count, errorCount int
	for result := range s.ScrapeMany(ctx, urls, concurrency) {
		if result.Error != nil {
			errorCount++
			logger.Error("scrape failed", "url", result.URL, "error", result.Error)
			continue
		}
		if err := writer.Write(result.Contact()); err != nil {
			logger.Error("failed to write output", "error", err)
			return err
		}
		count++
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info("scrape complete", "extracted", count, "errors", errorCount)

	if errorCount > 0 {
		return fmt.Errorf("%d of %d URL(s) failed", errorCount, len(urls))
	}
	return nil
}
