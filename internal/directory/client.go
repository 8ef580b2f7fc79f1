package directory

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	// DefaultURL lists companies tagged "AI Assistant" in the YC OSS API.
	DefaultURL = "https://yc-oss.github.io/api/tags/ai-assistant.json"
	userAgent  = "spigell/shortlist"
	timeout    = 30 * time.Second

	contentEncoding = "gzip"
)

type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	URL        string
	// now is used for the cache-busting query parameter.
	now func() time.Time
}

func New(logger *zap.Logger, apiURL string) *Client {
	if apiURL == "" {
		apiURL = DefaultURL
	}

	return &Client{
		logger: logger,
		URL:    apiURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent: userAgent,
		now:       time.Now,
	}
}

// Fetch downloads the company list. The request bypasses intermediate caches.
func (c *Client) Fetch(ctx context.Context) ([]*Company, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("t", strconv.FormatInt(c.now().Unix(), 10))
	req.URL.RawQuery = q.Encode()

	req = c.setHeaders(req)

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	items, err := parseItems(resp)
	if err != nil {
		return nil, err
	}

	companies, err := DecodeCompanies(items)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got response from directory", zap.Int("items", len(companies)))

	return companies, nil
}

// DecodeCompanies converts loosely typed JSON items into companies.
// Numbers encoded as strings and null values are tolerated.
func DecodeCompanies(items []any) ([]*Company, error) {
	var companies []*Company

	cfg := &mapstructure.DecoderConfig{
		Result:           &companies,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode companies: %w", err)
	}

	return companies, nil
}

func parseItems(resp *http.Response) ([]any, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == contentEncoding {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	var items []any
	if err := json.NewDecoder(body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return items, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	return req
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}
