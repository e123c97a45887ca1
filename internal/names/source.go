package names

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// nameLinkSelector matches the name entries of a directory listing page.
const nameLinkSelector = "div > div.browsename a.nll[href^='/name/']"

// DefaultSourceURL is the name directory scraped for ethnic last names.
const DefaultSourceURL = "https://www.behindthename.com"

// Source fetches name lists from an online name directory.
type Source struct {
	baseURL   string
	client    *http.Client
	userAgent string
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) SourceOption {
	return func(s *Source) { s.client = c }
}

// WithUserAgent sets the User-Agent header sent with requests.
func WithUserAgent(ua string) SourceOption {
	return func(s *Source) { s.userAgent = ua }
}

// NewSource creates a Source rooted at baseURL.
func NewSource(baseURL string, opts ...SourceOption) *Source {
	s := &Source{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GroupURL returns the listing page for one group.
func (s *Source) GroupURL(group string) string {
	return s.baseURL + "/names/gender/unisex/usage/" + url.PathEscape(group)
}

// FetchGroup downloads one group's listing and returns the alphabetic names
// on it. A page without matching entries yields an empty list, not an error.
func (s *Source) FetchGroup(ctx context.Context, group string) ([]string, error) {
	target := s.GroupURL(group)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{Group: group, URL: target, Err: err}
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Group: group, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Group: group, URL: target, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &FetchError{Group: group, URL: target, StatusCode: resp.StatusCode, Err: err}
	}

	names := []string{}
	doc.Find(nameLinkSelector).Each(func(_ int, sel *goquery.Selection) {
		name := norm.NFC.String(strings.TrimSpace(sel.Text()))
		if IsAlphabetic(name) {
			names = append(names, name)
		}
	})

	if len(names) == 0 {
		slog.Warn("no names found on listing page", "group", group, "url", target)
	}

	return names, nil
}

// Refresh fetches every group. The first failure aborts the refresh.
func (s *Source) Refresh(ctx context.Context, groups []string) (map[string][]string, error) {
	out := make(map[string][]string, len(groups))
	for _, g := range groups {
		list, err := s.FetchGroup(ctx, g)
		if err != nil {
			return nil, err
		}
		slog.Info("fetched names", "group", g, "count", len(list))
		out[g] = list
	}
	return out, nil
}

// ValidateGroups checks that a refreshed map can back a Catalog.
func ValidateGroups(groups map[string][]string) error {
	if len(groups) == 0 {
		return &MissingDataError{List: ListLastNames}
	}
	for g, list := range groups {
		if err := checkList(fmt.Sprintf("%s.%s", ListLastNames, g), list); err != nil {
			return err
		}
	}
	return nil
}
