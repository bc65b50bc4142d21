package services

import (
	"context"
	"fmt"
	"strconv"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/desertthunder/lyrx/internal/records"
	"github.com/desertthunder/lyrx/internal/shared"
)

// Sort orders accepted by /artists/{id}/songs.
const (
	SortTitle      = "title"
	SortPopularity = "popularity"
)

var artistSongSorts = sets.New(SortTitle, SortPopularity)

// ArtistSongsQuery controls /artists/{id}/songs paging.
//
// Limit stops after that many songs (zero fetches every page). ExcludeFeatures drops songs whose primary artist is
// someone else.
type ArtistSongsQuery struct {
	Sort            string
	PerPage         int
	Page            int
	Limit           int
	ExcludeFeatures bool
}

// Artist fetches /artists/{id}.
func (c *Client) Artist(ctx context.Context, id int64, textFormat string) (*Result, error) {
	if err := requireID("artist id", id); err != nil {
		return nil, err
	}
	if err := validateTextFormat(textFormat); err != nil {
		return nil, err
	}

	var q Query
	q.Set("text_format", textFormat)

	doc, err := c.Execute(ctx, fmt.Sprintf("/artists/%d", id), q)
	if err != nil {
		return nil, err
	}

	artist := doc.Object("artist")
	return &Result{Document: artist, Record: records.Project(map[string]any(artist), records.ArtistSchema)}, nil
}

// ArtistSongs walks /artists/{id}/songs until next_page is null or Limit is reached.
func (c *Client) ArtistSongs(ctx context.Context, id int64, aq ArtistSongsQuery) (records.Table, error) {
	if err := requireID("artist id", id); err != nil {
		return records.Table{}, err
	}
	if aq.Sort != "" && !artistSongSorts.Has(aq.Sort) {
		return records.Table{}, fmt.Errorf("%w: sort %q must be one of %v", shared.ErrInvalidArgument, aq.Sort, sets.List(artistSongSorts))
	}

	path := fmt.Sprintf("/artists/%d/songs", id)
	perPage := c.perPage
	if aq.PerPage > 0 {
		perPage = clampPerPage(aq.PerPage)
	}
	artistID := strconv.FormatInt(id, 10)

	fetch := func(ctx context.Context, page int) ([]any, *int, error) {
		var q Query
		q.Set("sort", aq.Sort).
			SetInt("per_page", int64(perPage)).
			SetInt("page", int64(page))

		doc, err := c.Execute(ctx, path, q)
		if err != nil {
			return nil, nil, err
		}

		songs := doc.List("songs")
		if aq.ExcludeFeatures {
			songs = filterPrimary(songs, artistID)
		}
		return songs, nextPage(doc), nil
	}

	songs, err := CollectPages(ctx, aq.Page, aq.Limit, fetch, c.pacer)
	if err != nil {
		return records.Table{}, err
	}
	return records.ProjectAll(songs, records.ArtistSongSchema), nil
}

func filterPrimary(songs []any, artistID string) []any {
	kept := songs[:0:0]
	for _, s := range songs {
		if records.Format(records.Lookup(s, "primary_artist.id"), "") == artistID {
			kept = append(kept, s)
		}
	}
	return kept
}
