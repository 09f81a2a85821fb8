package sahibinden

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"emlak-analytics/config"
	"emlak-analytics/models"
	"emlak-analytics/utils"
)

// Scraper drives a headless browser over sahibinden.com search result pages
// and emits raw feed records for the normalizer. Page structure and anti-bot
// measures change over time; selectors carry fallbacks but breakage shows up
// as empty fields, which the normalizer then rejects.
type Scraper struct {
	cfg        *config.Config
	logger     *utils.Logger
	pool       *utils.WorkerPool
	visitedURL *utils.StringSet
	retry      *utils.RetryConfig

	mu      sync.Mutex
	records []models.RawRecord
}

// New creates a ready-to-use sahibinden Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:        cfg,
		logger:     logger,
		pool:       utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		visitedURL: utils.NewStringSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		records: make([]models.RawRecord, 0),
	}
}

// Scrape walks the configured search URL page by page and collects raw
// listing records.
func (s *Scraper) Scrape(ctx context.Context) ([]models.RawRecord, error) {
	if s.cfg.ScrapeURL == "" {
		return nil, fmt.Errorf("no search URL configured")
	}

	s.logger.Info("[sahibinden] Starting scrape — target: %d pages, %d listings/page",
		s.cfg.PagesToScrape, s.cfg.ListingsPerPage)

	chromeBin := s.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	s.logger.Info("[sahibinden] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelSilent()
	allocCtx = silentCtx

	currentURL := s.cfg.ScrapeURL
	for page := 1; page <= s.cfg.PagesToScrape; page++ {
		s.logger.Info("[sahibinden] Scraping page %d — URL: %s", page, currentURL)

		pageRecords, nextURL, err := s.scrapePage(allocCtx, currentURL, page)
		if err != nil {
			s.logger.Error("[sahibinden] Page %d failed: %v", page, err)
			break
		}

		if len(pageRecords) == 0 {
			s.logger.Warn("[sahibinden] Page %d returned 0 listings — stopping", page)
			break
		}

		s.enrichRecords(allocCtx, pageRecords)

		s.mu.Lock()
		s.records = append(s.records, pageRecords...)
		s.mu.Unlock()

		s.logger.Info("[sahibinden] Page %d done — collected %d records so far", page, len(s.records))

		if nextURL == "" || page >= s.cfg.PagesToScrape {
			break
		}

		currentURL = nextURL
		time.Sleep(time.Duration(s.cfg.RateLimitMs) * time.Millisecond)
	}

	s.logger.Info("[sahibinden] Scrape complete — total raw records: %d", len(s.records))
	return s.records, nil
}

// scrapePage loads one search results page and extracts listing rows.
func (s *Scraper) scrapePage(allocCtx context.Context, pageURL string, pageNum int) ([]models.RawRecord, string, error) {
	var records []models.RawRecord
	var nextURL string

	err := s.retry.Do(allocCtx, fmt.Sprintf("scrape-page-%d", pageNum), func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 90*time.Second)
		defer cancelTimeout()

		type rowData struct {
			City          string `json:"city"`
			District      string `json:"district"`
			Neighbourhood string `json:"neighbourhood"`
			PropertyType  string `json:"propertyType"`
			TypeBadge     string `json:"typeBadge"`
			Price         string `json:"price"`
			Rooms         string `json:"rooms"`
			Size          string `json:"size"`
			Date          string `json:"date"`
			URL           string `json:"url"`
		}

		var rows []rowData
		var nextPageURL string

		err := chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			chromedp.Sleep(5*time.Second),

			chromedp.Evaluate(`
				(function() {
					var results = [];
					var limit = `+fmt.Sprintf("%d", s.cfg.ListingsPerPage)+`;

					var cards = document.querySelectorAll('tr.searchResultsItem');
					if (cards.length === 0) {
						cards = document.querySelectorAll('div.searchResultsItem');
					}

					function text(root, selector) {
						var el = root.querySelector(selector);
						return el ? el.innerText.trim() : '';
					}

					for (var i = 0; i < cards.length && results.length < limit; i++) {
						var card = cards[i];

						var link = card.querySelector('td.searchResultsLargeThumbnail a, td.searchResultsTitleValue a');
						var href = link ? link.getAttribute('href') : '';
						var fullUrl = href && href.indexOf('/') === 0 ? 'https://www.sahibinden.com' + href : href;

						results.push({
							city:          text(card, 'td.searchResultsLocationValue span:nth-child(1)'),
							district:      text(card, 'td.searchResultsLocationValue span:nth-child(2)'),
							neighbourhood: text(card, 'td.searchResultsLocationValue span:nth-child(3)'),
							propertyType:  text(card, 'td.searchResultsTitleValue a'),
							typeBadge:     text(card, 'td.searchResultsTitleValue span.searchResultsSubTitleValue'),
							price:         text(card, 'td.searchResultsPriceValue'),
							rooms:         text(card, 'td.searchResultsAttributeValue'),
							size:          text(card, 'td.searchResultsAttributeValue + td'),
							date:          text(card, 'td.searchResultsDateValue span'),
							url:           fullUrl
						});
					}

					return results;
				})()
			`, &rows),

			chromedp.Evaluate(`
				(function() {
					var next = document.querySelector('a.prevNextBut[title="Sonraki"]') ||
					           document.querySelector('a[rel="next"]');
					return next ? next.href : '';
				})()
			`, &nextPageURL),
		)

		if err != nil {
			return fmt.Errorf("chromedp page scrape: %w", err)
		}

		s.logger.Debug("[sahibinden] Page %d — found %d rows", pageNum, len(rows))

		for _, row := range rows {
			if row.URL == "" {
				continue
			}
			if !s.visitedURL.Add(row.URL) {
				s.logger.Debug("[sahibinden] Skipping duplicate: %s", row.URL)
				continue
			}

			// Emit feed-style field names; the normalizer's candidate-key
			// table resolves them into the canonical schema.
			records = append(records, models.RawRecord{
				"il":           row.City,
				"ilce":         row.District,
				"mahalle":      row.Neighbourhood,
				"category":     row.PropertyType,
				"status":       row.TypeBadge,
				"price":        row.Price,
				"rent":         rentPrice(row.TypeBadge, row.Price),
				"rooms":        row.Rooms,
				"size_m2":      row.Size,
				"listing_date": row.Date,
				"url":          row.URL,
			})
		}

		nextURL = nextPageURL
		return nil
	})

	return records, nextURL, err
}

// enrichRecords visits detail pages for rows that are missing a price.
func (s *Scraper) enrichRecords(allocCtx context.Context, records []models.RawRecord) {
	for _, record := range records {
		rec := record
		url, _ := rec["url"].(string)
		price, _ := rec["price"].(string)
		if url == "" || price != "" {
			continue
		}

		s.pool.Submit(func() {
			detailPrice, err := s.scrapeDetailPrice(allocCtx, url)
			if err != nil {
				s.logger.Warn("[sahibinden] Detail page failed for %s: %v", url, err)
				return
			}
			if detailPrice != "" {
				rec["price"] = detailPrice
				s.logger.Debug("[sahibinden] Enriched price for %s", url)
			}
		})
	}
	s.pool.Wait()
}

// scrapeDetailPrice visits a listing detail page and extracts the price text.
func (s *Scraper) scrapeDetailPrice(allocCtx context.Context, url string) (string, error) {
	var price string

	err := s.retry.Do(allocCtx, "detail-page", func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		return chromedp.Run(ctx,
			chromedp.Navigate(url),
			chromedp.Sleep(3*time.Second),
			chromedp.Evaluate(`
				(function() {
					var el = document.querySelector('div.classified-price-container span') ||
					         document.querySelector('span.classified-price');
					return el ? el.innerText.trim() : '';
				})()
			`, &price),
		)
	})

	return price, err
}

// rentPrice mirrors the portal's single price column into the rent field for
// kiralık rows so the candidate-key extraction finds it under either name.
func rentPrice(badge, price string) string {
	lower := strings.ToLower(badge)
	if strings.Contains(lower, "kiralık") || strings.Contains(lower, "kiralik") {
		return price
	}
	return ""
}

// findChromeBinary locates a Chrome/Chromium binary on the host.
func findChromeBinary() string {
	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
