package ats

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/shortlist/internal/directory"
)

func TestDetectFromHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		html   string
		expect string
	}{
		{name: "anchor", html: `<a href="https://jobs.ashbyhq.com/acme">Careers</a>`, expect: "ashby"},
		{name: "script", html: `<script src="//boards.greenhouse.io/embed/job_board/js?for=acme"></script>`, expect: "greenhouse"},
		{name: "iframe", html: `<iframe src="https://jobs.lever.co/acme"></iframe>`, expect: "lever"},
		{name: "link tag", html: `<link rel="preconnect" href="https://api.lever.co">`, expect: "lever"},
		{name: "anchors before scripts", html: `<script src="https://boards.greenhouse.io/x.js"></script><a href="https://jobs.ashbyhq.com/acme">x</a>`, expect: "ashby"},
		{name: "lookalike host", html: `<a href="https://notlever.co/jobs">x</a><a href="/careers">y</a>`, expect: ""},
		{name: "none", html: `<p>We are hiring</p>`, expect: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vendor, err := DetectFromHTML(strings.NewReader("<html><body>" + tt.html + "</body></html>"))
			require.NoError(t, err)
			assert.Equal(t, tt.expect, vendor)
		})
	}
}

func TestVendorForURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "greenhouse", VendorForURL("https://job-boards.greenhouse.io/acme"))
	assert.Equal(t, "ashby", VendorForURL("https://ASHBYHQ.com/"))
	assert.Equal(t, "", VendorForURL("mailto:jobs@acme.com"))
	assert.Equal(t, "", VendorForURL(""))
}

func TestNormalizeWebsite(t *testing.T) {
	t.Parallel()

	got, err := normalizeWebsite("acme.ai")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.ai", got)

	got, err = normalizeWebsite("http://acme.ai/about")
	require.NoError(t, err)
	assert.Equal(t, "http://acme.ai/about", got)

	_, err = normalizeWebsite("https://")
	assert.Error(t, err)
}

func TestEnrich(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/ashby", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<a href="https://jobs.ashbyhq.com/acme">Jobs</a>`)
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<p>nothing here</p>`)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	companies := []*directory.Company{
		{Name: "Ashby Co", Website: server.URL + "/ashby"},
		{Name: "Plain Co", Website: server.URL + "/plain"},
		{Name: "Broken Co", Website: server.URL + "/broken"},
		{Name: "Known Co", Website: server.URL + "/ashby", ATS: "lever"},
		{Name: "No Site"},
	}

	detector := NewDetector(zap.NewNop())
	detector.HTTPClient = server.Client()
	detector.Limiter = NewSiteLimiter(1000, 10)

	updated := detector.Enrich(context.Background(), companies)

	assert.Equal(t, 1, updated)
	assert.Equal(t, "ashby", companies[0].ATS)
	assert.Empty(t, companies[1].ATS)
	assert.Empty(t, companies[2].ATS)
	assert.Equal(t, "lever", companies[3].ATS)
	assert.Empty(t, companies[4].ATS)
}

func TestSiteKey(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"https://www.acme.ai/about":        "acme.ai",
		"https://careers.acme.ai":          "acme.ai",
		"https://jobs.acme.co.uk/openings": "acme.co.uk",
		"http://127.0.0.1:8080/":           "127.0.0.1",
		"http://localhost/":                "localhost",
		"/relative/path":                   unknownSite,
		"://broken":                        unknownSite,
	}

	for raw, expect := range tests {
		assert.Equal(t, expect, siteKey(raw), "siteKey(%q)", raw)
	}
}

func TestSiteLimiterSharesBudgetPerSite(t *testing.T) {
	t.Parallel()

	l := NewSiteLimiter(1, 1)
	assert.Same(t, l.forSite(siteKey("https://www.acme.ai")), l.forSite(siteKey("https://careers.acme.ai")))
	assert.NotSame(t, l.forSite("acme.ai"), l.forSite("globex.io"))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	// The single token goes to the first request. A sibling subdomain then
	// has to wait, which a cancelled context refuses.
	require.NoError(t, l.Wait(context.Background(), "https://www.initech.io/"))
	assert.Error(t, l.Wait(cancelled, "https://jobs.initech.io/"))
	require.NoError(t, l.Wait(context.Background(), "https://other.example.org/"))
}
