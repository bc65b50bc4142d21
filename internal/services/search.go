package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/records"
	"github.com/desertthunder/lyrx/internal/selector"
	"github.com/desertthunder/lyrx/internal/shared"
)

// SearchQuery pages through /search.
//
// With Limit zero only Page (default 1) is fetched. Otherwise pages are fetched while each one comes back full,
// until Limit hits are collected.
type SearchQuery struct {
	PerPage int
	Page    int
	Limit   int
}

// Search runs a free-text search and returns the hits table.
func (c *Client) Search(ctx context.Context, query string, sq SearchQuery) (records.Table, error) {
	hits, err := c.searchHits(ctx, query, sq)
	if err != nil {
		return records.Table{}, err
	}
	return records.ProjectAll(hits, records.SearchHitSchema), nil
}

func (c *Client) searchHits(ctx context.Context, query string, sq SearchQuery) ([]any, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: q", shared.ErrMissingParameter)
	}

	perPage := c.perPage
	if sq.PerPage > 0 {
		perPage = clampPerPage(sq.PerPage)
	}

	fetch := func(ctx context.Context, page int) ([]any, *int, error) {
		var q Query
		q.Set("q", query).
			SetInt("per_page", int64(perPage)).
			SetInt("page", int64(page))

		doc, err := c.Execute(ctx, "/search", q)
		if err != nil {
			return nil, nil, err
		}

		hits := doc.List("hits")
		if sq.Limit <= 0 || len(hits) < perPage {
			return hits, nil, nil
		}
		next := page + 1
		return hits, &next, nil
	}

	return CollectPages(ctx, sq.Page, sq.Limit, fetch, c.pacer)
}

// SearchArtist returns the distinct primary artists of the hits for name.
func (c *Client) SearchArtist(ctx context.Context, name string) (*models.CandidateSet, error) {
	hits, err := c.searchHits(ctx, name, SearchQuery{})
	if err != nil {
		return nil, err
	}
	return candidatesFrom(hits, "result.primary_artist.id", "result.primary_artist.name", "result.primary_artist.url"), nil
}

// SearchSong returns the distinct songs of the hits for query.
func (c *Client) SearchSong(ctx context.Context, query string) (*models.CandidateSet, error) {
	hits, err := c.searchHits(ctx, query, SearchQuery{})
	if err != nil {
		return nil, err
	}
	return candidatesFrom(hits, "result.id", "result.full_title", "result.url"), nil
}

// ResolveArtist searches for name and narrows the matches to one artist id with sel.
func (c *Client) ResolveArtist(ctx context.Context, name string, sel selector.Selector) (int64, error) {
	set, err := c.SearchArtist(ctx, name)
	if err != nil {
		return 0, err
	}
	return selector.Resolve(ctx, set, sel)
}

// ResolveSong searches for query and narrows the matches to one song id with sel.
func (c *Client) ResolveSong(ctx context.Context, query string, sel selector.Selector) (int64, error) {
	set, err := c.SearchSong(ctx, query)
	if err != nil {
		return 0, err
	}
	return selector.Resolve(ctx, set, sel)
}

func candidatesFrom(hits []any, idPath, namePath, urlPath string) *models.CandidateSet {
	set := models.NewCandidateSet()
	for _, hit := range hits {
		id, ok := asInt64(records.Lookup(hit, idPath))
		if !ok {
			continue
		}
		set.Add(models.Candidate{
			ID:   id,
			Name: asString(records.Lookup(hit, namePath)),
			URL:  asString(records.Lookup(hit, urlPath)),
		})
	}
	return set
}
