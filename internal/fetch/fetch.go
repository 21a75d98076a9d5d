// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fetch retrieves source HTML for description and restyling. It
// also owns the single truncation cap applied to HTML before any model
// call, so every pipeline truncates at the same length.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MaxHTMLLen is the shared length cap (bytes) applied to HTML documents
// before they are handed to the model. The model API does not enforce a
// limit itself; callers must cap consistently.
const MaxHTMLLen = 20_000

// userAgent identifies outbound page fetches. Some sites reject the Go
// default agent outright.
const userAgent = "Mozilla/5.0 (compatible; vaas/1.0; +https://vlah.sh)"

// Client fetches webpages over HTTP.
type Client struct {
	http *http.Client
}

// NewClient creates a page fetcher with a bounded request timeout.
func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: 20 * time.Second},
	}
}

// Fetch retrieves the document at rawURL and returns its body as a string.
// Non-2xx responses are errors; the body is read fully but never parsed.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch request %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	// Cap the read too — a page far over the model cap is wasted transfer.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*MaxHTMLLen))
	if err != nil {
		return "", fmt.Errorf("fetch %s: read body: %w", rawURL, err)
	}

	return string(body), nil
}

// InjectBase inserts a <base> tag pointing at pageURL's directory so that
// relative links in the fetched document keep resolving after the HTML is
// served from this process. The document is returned unchanged when it has
// no head element or already carries a base tag.
func InjectBase(html, pageURL string) string {
	lower := strings.ToLower(html)

	if strings.Contains(lower, "<base") {
		return html
	}

	headIdx := strings.Index(lower, "<head")
	if headIdx == -1 {
		return html
	}
	// Find the end of the opening <head ...> tag.
	gt := strings.IndexByte(lower[headIdx:], '>')
	if gt == -1 {
		return html
	}
	insertAt := headIdx + gt + 1

	base := baseHref(pageURL)
	if base == "" {
		return html
	}

	return html[:insertAt] + fmt.Sprintf(`<base href="%s">`, base) + html[insertAt:]
}

// baseHref derives the directory URL of a page, always ending in "/".
func baseHref(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}

	dir := u.Path
	if idx := strings.LastIndexByte(dir, '/'); idx != -1 {
		dir = dir[:idx+1]
	} else {
		dir = "/"
	}
	if dir == "" {
		dir = "/"
	}

	return u.Scheme + "://" + u.Host + dir
}

// Truncate caps HTML at MaxHTMLLen bytes.
func Truncate(html string) string {
	if len(html) <= MaxHTMLLen {
		return html
	}
	return html[:MaxHTMLLen]
}
