package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/lyrx/internal/records"
)

// SongResult is /songs/{id} projected onto the song schema and its sub-tables.
type SongResult struct {
	Result
	Album         records.Record
	Media         records.Table
	Producers     records.Table
	Writers       records.Table
	Relationships records.Table
}

// URL returns the song's public page.
func (s *SongResult) URL() string {
	return asString(s.Document["url"])
}

// Song fetches /songs/{id}.
func (c *Client) Song(ctx context.Context, id int64, textFormat string) (*SongResult, error) {
	if err := requireID("song id", id); err != nil {
		return nil, err
	}
	if err := validateTextFormat(textFormat); err != nil {
		return nil, err
	}

	var q Query
	q.Set("text_format", textFormat)

	doc, err := c.Execute(ctx, fmt.Sprintf("/songs/%d", id), q)
	if err != nil {
		return nil, err
	}
	return newSongResult(doc.Object("song")), nil
}

func newSongResult(song Document) *SongResult {
	if song == nil {
		song = Document{}
	}
	raw := map[string]any(song)

	return &SongResult{
		Result:        Result{Document: song, Record: records.Project(raw, records.SongSchema)},
		Album:         records.Project(records.Lookup(raw, "album"), records.AlbumSchema),
		Media:         records.ProjectAll(song.List("media"), records.SongMediaSchema),
		Producers:     records.ProjectAll(song.List("producer_artists"), records.SongCreditSchema),
		Writers:       records.ProjectAll(song.List("writer_artists"), records.SongCreditSchema),
		Relationships: records.ProjectAll(flattenRelationships(song.List("song_relationships")), records.SongRelationshipSchema),
	}
}

// flattenRelationships pairs each relationship with each of its songs so one row is one related song.
func flattenRelationships(rels []any) []any {
	var out []any
	for _, rel := range rels {
		relType := records.Lookup(rel, "relationship_type")
		typ := records.Lookup(rel, "type")
		songs, _ := records.Lookup(rel, "songs").([]any)
		for _, s := range songs {
			out = append(out, map[string]any{
				"relationship_type": relType,
				"type":              typ,
				"song":              s,
			})
		}
	}
	return out
}
