package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/lyrx/internal/records"
	"github.com/desertthunder/lyrx/internal/shared"
)

// WebPageQuery identifies a page by any of its URL variants. At least one must be set.
type WebPageQuery struct {
	RawAnnotatableURL string
	CanonicalURL      string
	OGURL             string
}

// WebPage looks up /web_pages/lookup.
func (c *Client) WebPage(ctx context.Context, wq WebPageQuery) (*Result, error) {
	wq.RawAnnotatableURL = strings.TrimSpace(wq.RawAnnotatableURL)
	wq.CanonicalURL = strings.TrimSpace(wq.CanonicalURL)
	wq.OGURL = strings.TrimSpace(wq.OGURL)
	if wq.RawAnnotatableURL == "" && wq.CanonicalURL == "" && wq.OGURL == "" {
		return nil, fmt.Errorf("%w: raw_annotatable_url, canonical_url or og_url", shared.ErrMissingParameter)
	}

	var q Query
	q.Set("raw_annotatable_url", wq.RawAnnotatableURL).
		Set("canonical_url", wq.CanonicalURL).
		Set("og_url", wq.OGURL)

	doc, err := c.Execute(ctx, "/web_pages/lookup", q)
	if err != nil {
		return nil, err
	}

	page := doc.Object("web_page")
	return &Result{Document: page, Record: records.Project(map[string]any(page), records.WebPageSchema)}, nil
}
