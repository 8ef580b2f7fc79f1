// Package ats detects which applicant tracking system a company uses by
// scanning its website for links to known vendors.
package ats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/shortlist/internal/directory"
	"github.com/spigell/shortlist/internal/logger"
)

const (
	defaultConcurrency = 4
	defaultTimeout     = 15 * time.Second
	defaultUserAgent   = "Mozilla/5.0 (compatible; shortlist)"
)

// vendorHosts maps a host suffix to the vendor name stored in Company.ATS.
var vendorHosts = []struct {
	suffix string
	vendor string
}{
	{suffix: "ashbyhq.com", vendor: "ashby"},
	{suffix: "greenhouse.io", vendor: "greenhouse"},
	{suffix: "lever.co", vendor: "lever"},
}

// Detector fetches company websites and looks for ATS links.
type Detector struct {
	logger      *zap.Logger
	HTTPClient  *http.Client
	Limiter     *SiteLimiter
	UserAgent   string
	Concurrency int
}

func NewDetector(logger *zap.Logger) *Detector {
	return &Detector{
		logger:      logger,
		HTTPClient:  &http.Client{Timeout: defaultTimeout},
		Limiter:     NewSiteLimiter(1, 2),
		UserAgent:   defaultUserAgent,
		Concurrency: defaultConcurrency,
	}
}

// Enrich fills the ATS field of companies that have none and returns how
// many were updated. Per-company failures are logged and skipped.
func (d *Detector) Enrich(ctx context.Context, companies []*directory.Company) int {
	limit := d.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	// Each goroutine writes only its own company, so the slice needs no lock.
	found := make([]bool, len(companies))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, c := range companies {
		if c == nil || strings.TrimSpace(c.ATS) != "" || strings.TrimSpace(c.Website) == "" {
			continue
		}

		g.Go(func() error {
			log := logger.WithFields(d.logger, logger.CompanyFields(c.Name, c.Website)...)

			vendor, err := d.Detect(ctx, c.Website)
			if err != nil {
				log.Debug("ats detection failed", zap.Error(err))
				return nil
			}
			if vendor == "" {
				log.Debug("no ats found")
				return nil
			}

			log.Debug("ats detected", zap.String("ats", vendor))
			c.ATS = vendor
			found[i] = true
			return nil
		})
	}

	_ = g.Wait()

	updated := 0
	for _, ok := range found {
		if ok {
			updated++
		}
	}

	d.logger.Info("ats enrichment finished", zap.Int("updated", updated), zap.Int("companies", len(companies)))
	return updated
}

// Detect fetches website and returns the vendor name or "" when none is linked.
func (d *Detector) Detect(ctx context.Context, website string) (string, error) {
	target, err := normalizeWebsite(website)
	if err != nil {
		return "", err
	}

	if d.Limiter != nil {
		if err := d.Limiter.Wait(ctx, target); err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.UserAgent)

	client := d.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: bad status: %s", target, resp.Status)
	}

	// A redirect straight to a hosted job board counts as well.
	if vendor := VendorForURL(resp.Request.URL.String()); vendor != "" {
		return vendor, nil
	}

	return DetectFromHTML(resp.Body)
}

// DetectFromHTML scans anchors, scripts, iframes and link tags for vendor
// hosts and returns the first vendor found.
func DetectFromHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	selectors := []struct {
		query string
		attr  string
	}{
		{query: "a[href]", attr: "href"},
		{query: "script[src]", attr: "src"},
		{query: "iframe[src]", attr: "src"},
		{query: "link[href]", attr: "href"},
	}

	var vendor string
	for _, sel := range selectors {
		doc.Find(sel.query).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			raw, ok := s.Attr(sel.attr)
			if !ok {
				return true
			}
			vendor = VendorForURL(raw)
			return vendor == ""
		})
		if vendor != "" {
			return vendor, nil
		}
	}

	return "", nil
}

// VendorForURL returns the vendor whose host raw points to, or "".
func VendorForURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	for _, v := range vendorHosts {
		if host == v.suffix || strings.HasSuffix(host, "."+v.suffix) {
			return v.vendor
		}
	}
	return ""
}

func normalizeWebsite(website string) (string, error) {
	website = strings.TrimSpace(website)
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}

	u, err := url.Parse(website)
	if err != nil {
		return "", fmt.Errorf("parse website %q: %w", website, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("website %q has no host", website)
	}
	return u.String(), nil
}
