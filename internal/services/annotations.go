package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/lyrx/internal/records"
	"github.com/desertthunder/lyrx/internal/shared"
)

// ReferentsQuery filters /referents. SongID and WebPageID are mutually exclusive.
type ReferentsQuery struct {
	SongID      int64
	WebPageID   int64
	CreatedByID int64
	Page        int
	PerPage     int
	TextFormat  string
}

// Annotation fetches /annotations/{id}. The record combines the annotation and its referent.
func (c *Client) Annotation(ctx context.Context, id int64, textFormat string) (*Result, error) {
	if err := requireID("annotation id", id); err != nil {
		return nil, err
	}
	if err := validateTextFormat(textFormat); err != nil {
		return nil, err
	}

	var q Query
	q.Set("text_format", textFormat)

	doc, err := c.Execute(ctx, fmt.Sprintf("/annotations/%d", id), q)
	if err != nil {
		return nil, err
	}
	return &Result{Document: doc, Record: records.Project(map[string]any(doc), records.AnnotationSchema)}, nil
}

// Referents fetches one page of /referents for a song or a web page.
//
// The endpoint returns no next_page, so paging is left to the caller through Page.
func (c *Client) Referents(ctx context.Context, rq ReferentsQuery) (records.Table, error) {
	switch {
	case rq.SongID > 0 && rq.WebPageID > 0:
		return records.Table{}, fmt.Errorf("%w: song_id and web_page_id cannot both be set", shared.ErrConflictingParameter)
	case rq.SongID <= 0 && rq.WebPageID <= 0:
		return records.Table{}, fmt.Errorf("%w: song_id or web_page_id", shared.ErrMissingParameter)
	}
	if err := validateTextFormat(rq.TextFormat); err != nil {
		return records.Table{}, err
	}

	var q Query
	q.SetInt("song_id", rq.SongID).
		SetInt("web_page_id", rq.WebPageID).
		SetInt("created_by_id", rq.CreatedByID).
		SetInt("page", int64(rq.Page))
	if rq.PerPage > 0 {
		q.SetInt("per_page", int64(clampPerPage(rq.PerPage)))
	}
	q.Set("text_format", rq.TextFormat)

	doc, err := c.Execute(ctx, "/referents", q)
	if err != nil {
		return records.Table{}, err
	}
	return records.ProjectAll(doc.List("referents"), records.ReferentSchema), nil
}

